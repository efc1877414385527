// internal/eligibility/engine_test.go
package eligibility

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-support-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestEngine(t *testing.T, model *Model) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultThresholds(), model, logger.NewNop())
	require.NoError(t, err)
	return engine
}

// fixedProbabilityModel returns a model whose prediction is constant
// regardless of input: zero weights, identity scaler, bias picked so
// sigmoid(bias) == p.
func fixedProbabilityModel(p float64) *Model {
	return &Model{
		Weights: make([]float64, FeatureCount),
		Bias:    math.Log(p / (1 - p)),
		Scaler: Scaler{
			Mean: make([]float64, FeatureCount),
			Std:  []float64{1, 1, 1, 1, 1},
		},
		TrainedAt: time.Now().UTC(),
	}
}

// ==========================
// Rule Evaluation Tests
// ==========================

func TestAssess_AllRulesPass(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Assess(&Record{Income: 80000, FamilySize: 2})
	require.NoError(t, err)

	assert.True(t, result.IsEligible)
	assert.Empty(t, result.Reasons)
	assert.Equal(t, 0, result.RiskScore)
	assert.Equal(t, RiskLow, result.RiskLevel)
	assert.Equal(t, 0.0, result.ModelProbability)
}

func TestAssess_ReasonsAccumulateInRuleOrder(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Assess(&Record{
		Income:           45000,
		FamilySize:       6,
		EmploymentStatus: "unemployed",
	})
	require.NoError(t, err)

	assert.False(t, result.IsEligible)
	assert.Equal(t, []string{
		ReasonIncomeBelowThreshold,
		ReasonLargeFamilySize,
		ReasonLowIncomePerMember,
	}, result.Reasons)
	// income <50000 (+2) and family >5 (+2), no debt
	assert.Equal(t, 4, result.RiskScore)
	assert.Equal(t, RiskMedium, result.RiskLevel)
}

func TestAssess_AllFourRulesFail(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Assess(&Record{
		Income:      20000,
		FamilySize:  7,
		Liabilities: 15000,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		ReasonIncomeBelowThreshold,
		ReasonLargeFamilySize,
		ReasonLowIncomePerMember,
		ReasonHighDebtToIncome,
	}, result.Reasons)
	assert.False(t, result.IsEligible)
	// income <30000 (+3), family >5 (+2), debt 0.75 (+3)
	assert.Equal(t, 8, result.RiskScore)
	assert.Equal(t, RiskHigh, result.RiskLevel)
}

func TestAssess_RuleBoundariesAreInclusive(t *testing.T) {
	engine := newTestEngine(t, nil)

	// Exactly at every threshold: all rules pass.
	result, err := engine.Assess(&Record{
		Income:      50000,
		FamilySize:  5,
		Liabilities: 25000, // debt ratio exactly 0.5
	})
	require.NoError(t, err)

	assert.Empty(t, result.Reasons)
	assert.True(t, result.IsEligible)
}

// ==========================
// Derived Ratio Tests
// ==========================

func TestAssess_ZeroFamilySizeDoesNotDivide(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Assess(&Record{Income: 80000, FamilySize: 0})
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Ratios.IncomePerMember)
	// 0 per-member income is below the per-member floor
	assert.Contains(t, result.Reasons, ReasonLowIncomePerMember)
}

func TestAssess_ZeroIncomeDoesNotDivide(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Assess(&Record{
		Income:      0,
		FamilySize:  3,
		Assets:      10000,
		Liabilities: 5000,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Ratios.DebtToIncome)
	assert.Equal(t, 0.0, result.Ratios.AssetsToIncome)
}

func TestAssess_RatiosComputed(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Assess(&Record{
		Income:      100000,
		FamilySize:  4,
		Assets:      50000,
		Liabilities: 20000,
	})
	require.NoError(t, err)

	assert.InDelta(t, 25000.0, result.Ratios.IncomePerMember, 1e-9)
	assert.InDelta(t, 0.2, result.Ratios.DebtToIncome, 1e-9)
	assert.InDelta(t, 0.5, result.Ratios.AssetsToIncome, 1e-9)
}

// ==========================
// Risk Scoring Tests
// ==========================

func TestRiskScore_BandsAreMutuallyExclusive(t *testing.T) {
	engine := newTestEngine(t, nil)

	tests := []struct {
		name      string
		record    Record
		wantScore int
		wantLevel RiskLevel
	}{
		{"no risk factors", Record{Income: 80000, FamilySize: 2}, 0, RiskLow},
		{"income just under 70k", Record{Income: 69999, FamilySize: 2}, 1, RiskLow},
		{"income just under 50k", Record{Income: 49999, FamilySize: 2}, 2, RiskLow},
		{"income just under 30k", Record{Income: 29999, FamilySize: 2}, 3, RiskMedium},
		{"family of four", Record{Income: 80000, FamilySize: 4}, 1, RiskLow},
		{"family of six", Record{Income: 80000, FamilySize: 6}, 2, RiskLow},
		{"light debt", Record{Income: 80000, FamilySize: 2, Liabilities: 16000}, 1, RiskLow},
		{"moderate debt", Record{Income: 80000, FamilySize: 2, Liabilities: 32000}, 2, RiskLow},
		{"heavy debt", Record{Income: 80000, FamilySize: 2, Liabilities: 48000}, 3, RiskMedium},
		{"all factors worst", Record{Income: 20000, FamilySize: 8, Liabilities: 15000}, 8, RiskHigh},
		{"high cutoff exactly", Record{Income: 29999, FamilySize: 6}, 5, RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Assess(&tt.record)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, result.RiskScore)
			assert.Equal(t, tt.wantLevel, result.RiskLevel)
		})
	}
}

func TestRiskScore_MonotonicInIncome(t *testing.T) {
	engine := newTestEngine(t, nil)

	prev := -1
	for _, income := range []float64{90000, 69000, 49000, 29000, 10000} {
		result, err := engine.Assess(&Record{Income: income, FamilySize: 2})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.RiskScore, prev,
			"risk score must not decrease as income drops")
		prev = result.RiskScore
	}
}

func TestRiskScore_MonotonicInFamilySize(t *testing.T) {
	engine := newTestEngine(t, nil)

	prev := -1
	for familySize := 1; familySize <= 9; familySize++ {
		result, err := engine.Assess(&Record{Income: 80000, FamilySize: familySize})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.RiskScore, prev,
			"risk score must not decrease as family grows")
		prev = result.RiskScore
	}
}

func TestRiskScore_MonotonicInDebtRatio(t *testing.T) {
	engine := newTestEngine(t, nil)

	prev := -1
	for _, liabilities := range []float64{0, 10000, 20000, 30000, 50000, 70000} {
		result, err := engine.Assess(&Record{Income: 80000, FamilySize: 2, Liabilities: liabilities})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.RiskScore, prev,
			"risk score must not decrease as debt grows")
		prev = result.RiskScore
	}
}

// ==========================
// Model Blending Tests
// ==========================

func TestAssess_ModelOverridesFailingRules(t *testing.T) {
	engine := newTestEngine(t, fixedProbabilityModel(0.9))

	// Rules fail (income below threshold) but the model vote alone carries
	// 0.6 weight, clearing the 0.5 decision bar.
	result, err := engine.Assess(&Record{Income: 40000, FamilySize: 2})
	require.NoError(t, err)

	assert.True(t, result.IsEligible)
	assert.NotEmpty(t, result.Reasons)
	assert.InDelta(t, 0.9, result.ModelProbability, 1e-9)
}

func TestAssess_ModelVetoesPassingRules(t *testing.T) {
	engine := newTestEngine(t, fixedProbabilityModel(0.2))

	// Rules pass but the rule vote alone is only 0.4, below the bar.
	result, err := engine.Assess(&Record{Income: 80000, FamilySize: 2})
	require.NoError(t, err)

	assert.False(t, result.IsEligible)
	assert.Empty(t, result.Reasons)
	assert.InDelta(t, 0.2, result.ModelProbability, 1e-9)
}

func TestAssess_ModelAndRulesAgree(t *testing.T) {
	engine := newTestEngine(t, fixedProbabilityModel(0.9))

	result, err := engine.Assess(&Record{Income: 80000, FamilySize: 2})
	require.NoError(t, err)
	assert.True(t, result.IsEligible)

	engine = newTestEngine(t, fixedProbabilityModel(0.2))
	result, err = engine.Assess(&Record{Income: 40000, FamilySize: 2})
	require.NoError(t, err)
	assert.False(t, result.IsEligible)
}

func TestAssess_ModelProbabilityCutoff(t *testing.T) {
	// Exactly 0.6 counts as a model-eligible vote.
	engine := newTestEngine(t, fixedProbabilityModel(0.6))

	result, err := engine.Assess(&Record{Income: 40000, FamilySize: 2})
	require.NoError(t, err)
	assert.True(t, result.IsEligible)

	engine = newTestEngine(t, fixedProbabilityModel(0.59))
	result, err = engine.Assess(&Record{Income: 40000, FamilySize: 2})
	require.NoError(t, err)
	assert.False(t, result.IsEligible)
}

func TestAssess_NoModelFallsBackToRules(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Assess(&Record{Income: 80000, FamilySize: 2})
	require.NoError(t, err)
	assert.True(t, result.IsEligible, "rule-only decision when no model is loaded")
	assert.Equal(t, 0.0, result.ModelProbability)

	result, err = engine.Assess(&Record{Income: 40000, FamilySize: 2})
	require.NoError(t, err)
	assert.False(t, result.IsEligible)
}

func TestSetModel_SwapChangesDecision(t *testing.T) {
	engine := newTestEngine(t, nil)

	record := &Record{Income: 40000, FamilySize: 2}

	result, err := engine.Assess(record)
	require.NoError(t, err)
	assert.False(t, result.IsEligible)

	engine.SetModel(fixedProbabilityModel(0.9))

	result, err = engine.Assess(record)
	require.NoError(t, err)
	assert.True(t, result.IsEligible)
}

// ==========================
// Contract Tests
// ==========================

func TestAssess_Idempotent(t *testing.T) {
	engine := newTestEngine(t, fixedProbabilityModel(0.7))

	record := &Record{
		Income:      60000,
		FamilySize:  4,
		Assets:      20000,
		Liabilities: 25000,
	}

	first, err := engine.Assess(record)
	require.NoError(t, err)
	second, err := engine.Assess(record)
	require.NoError(t, err)

	// Identical except the timestamp.
	second.AssessedAt = first.AssessedAt
	assert.Equal(t, first, second)
}

func TestAssess_NilRecord(t *testing.T) {
	engine := newTestEngine(t, nil)

	_, err := engine.Assess(nil)
	var inputErr *InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestNewEngine_RejectsInvalidThresholds(t *testing.T) {
	tests := []struct {
		name       string
		thresholds Thresholds
	}{
		{"negative income threshold", Thresholds{Income: -1, FamilySize: 5, MinIncomePerMember: 10000, DebtToIncome: 0.5}},
		{"zero family threshold", Thresholds{Income: 50000, FamilySize: 0, MinIncomePerMember: 10000, DebtToIncome: 0.5}},
		{"debt ratio above one", Thresholds{Income: 50000, FamilySize: 5, MinIncomePerMember: 10000, DebtToIncome: 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.thresholds, nil, logger.NewNop())
			var cfgErr *ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}
