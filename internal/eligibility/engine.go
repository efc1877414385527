// internal/eligibility/engine.go
package eligibility

import (
	"sync/atomic"
	"time"

	"social-support-workers/internal/common/logger"
)

// Rule failure reasons, accumulated in evaluation order. The order and the
// exact strings are part of the output contract consumed by the
// recommendation generator and stored assessments.
const (
	ReasonIncomeBelowThreshold = "Income below threshold"
	ReasonLargeFamilySize      = "Large family size"
	ReasonLowIncomePerMember   = "Low income per family member"
	ReasonHighDebtToIncome     = "High debt-to-income ratio"
)

// RiskLevel is the coarse tier derived from the weighted risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Ratios are the derived financial metrics. All are 0 when the denominator
// is 0, never a division error.
type Ratios struct {
	IncomePerMember float64 `json:"incomePerMember"`
	DebtToIncome    float64 `json:"debtToIncomeRatio"`
	AssetsToIncome  float64 `json:"assetsToIncomeRatio"`
}

// Result is the structured outcome of one assessment. It is created once
// and never mutated after return.
type Result struct {
	IsEligible       bool      `json:"isEligible"`
	Reasons          []string  `json:"reasons"`
	RiskScore        int       `json:"riskScore"`
	RiskLevel        RiskLevel `json:"riskLevel"`
	Ratios           Ratios    `json:"ratios"`
	ModelProbability float64   `json:"modelProbability"`
	AssessedAt       time.Time `json:"assessedAt"`
}

// Engine combines deterministic rule thresholds with a pre-trained
// classifier's probability into an auditable eligibility decision.
//
// Assess is a pure function of the record, the thresholds, and the frozen
// model parameters; it holds no per-request state and is safe for
// concurrent use. The model reference is published atomically so an offline
// retrain can swap it without pausing in-flight assessments.
type Engine struct {
	thresholds Thresholds
	model      atomic.Pointer[Model]
	logger     logger.Logger
}

// NewEngine validates the thresholds and returns a ready engine. The model
// is optional; without one the engine degrades to rule-only decisions.
func NewEngine(thresholds Thresholds, model *Model, log logger.Logger) (*Engine, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		thresholds: thresholds,
		logger:     log,
	}
	if model != nil {
		e.model.Store(model)
	}
	return e, nil
}

// SetModel publishes a new model. Existing assessments finish against the
// model they started with.
func (e *Engine) SetModel(model *Model) {
	e.model.Store(model)
}

// Assess produces exactly one Result for the given record.
func (e *Engine) Assess(record *Record) (*Result, error) {
	if record == nil {
		return nil, &InputError{Field: "record", Reason: "is missing"}
	}

	ratios := record.ratios()

	reasons, ruleEligible := e.evaluateRules(record, ratios)
	riskScore := e.riskScore(record, ratios)

	modelProbability := 0.0
	modelEligible := false
	if model := e.model.Load(); model != nil {
		modelProbability = model.PredictProbability(record.Features())
		modelEligible = modelProbability >= eligibilityProbabilityCutoff
	} else {
		e.logger.Warn("model scoring skipped, no trained model loaded", map[string]interface{}{
			"filename": record.Filename,
		})
	}

	return &Result{
		IsEligible:       e.blendDecision(modelEligible, ruleEligible),
		Reasons:          reasons,
		RiskScore:        riskScore,
		RiskLevel:        riskLevelFor(riskScore),
		Ratios:           ratios,
		ModelProbability: modelProbability,
		AssessedAt:       time.Now().UTC(),
	}, nil
}

// evaluateRules applies the four independent thresholds in their contract
// order: income, family size, per-member income, debt ratio.
func (e *Engine) evaluateRules(record *Record, ratios Ratios) ([]string, bool) {
	reasons := []string{}
	eligible := true

	if record.Income < e.thresholds.Income {
		reasons = append(reasons, ReasonIncomeBelowThreshold)
		eligible = false
	}
	if record.FamilySize > e.thresholds.FamilySize {
		reasons = append(reasons, ReasonLargeFamilySize)
		eligible = false
	}
	if ratios.IncomePerMember < e.thresholds.MinIncomePerMember {
		reasons = append(reasons, ReasonLowIncomePerMember)
		eligible = false
	}
	if ratios.DebtToIncome > e.thresholds.DebtToIncome {
		reasons = append(reasons, ReasonHighDebtToIncome)
		eligible = false
	}

	return reasons, eligible
}

// riskScore sums banded contributions per factor; only the highest matching
// band within a factor applies.
func (e *Engine) riskScore(record *Record, ratios Ratios) int {
	score := 0

	switch {
	case record.Income < 30000:
		score += 3
	case record.Income < 50000:
		score += 2
	case record.Income < 70000:
		score += 1
	}

	switch {
	case record.FamilySize > 5:
		score += 2
	case record.FamilySize > 3:
		score += 1
	}

	switch {
	case ratios.DebtToIncome > 0.5:
		score += 3
	case ratios.DebtToIncome > 0.3:
		score += 2
	case ratios.DebtToIncome > 0.1:
		score += 1
	}

	return score
}

func riskLevelFor(score int) RiskLevel {
	switch {
	case score >= 5:
		return RiskHigh
	case score >= 3:
		return RiskMedium
	default:
		return RiskLow
	}
}

// blendDecision weighs the model's binary vote at 60% and the rule-based
// vote at 40%. Because both votes are binary, the model's vote alone clears
// the 0.5 bar while the rule vote alone does not; the model therefore wins
// every disagreement. This matches the shipped decision behavior and must
// not be replaced with a probability average.
func (e *Engine) blendDecision(modelEligible, ruleEligible bool) bool {
	score := 0.0
	if modelEligible {
		score += modelVoteWeight
	}
	if ruleEligible {
		score += ruleVoteWeight
	}
	return score >= decisionCutoff
}

const (
	eligibilityProbabilityCutoff = 0.6
	modelVoteWeight              = 0.6
	ruleVoteWeight               = 0.4
	decisionCutoff               = 0.5
)
