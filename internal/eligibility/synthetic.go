// internal/eligibility/synthetic.go
package eligibility

import (
	"math"
	"math/rand"
)

// Sample is one labelled training example.
type Sample struct {
	Features []float64
	Eligible bool
}

// SyntheticDataset generates labelled training data mirroring the
// distribution the production model was bootstrapped on: log-normal
// income/assets/liabilities, uniform family size 1-9, labels from layered
// affordability rules with 10% label noise.
func SyntheticDataset(n int, seed int64) []Sample {
	rng := rand.New(rand.NewSource(seed))
	samples := make([]Sample, 0, n)

	for i := 0; i < n; i++ {
		income := lognormal(rng, 11, 0.7)
		familySize := 1 + rng.Intn(9)
		assets := lognormal(rng, 12, 1.0)
		liabilities := lognormal(rng, 10, 1.2)

		incomePerMember := income / float64(familySize)
		debtToIncome := liabilities / income
		assetsToIncome := assets / income

		eligible := false
		switch {
		case incomePerMember < 15000 && debtToIncome < 0.7 && familySize >= 2:
			eligible = true
		case incomePerMember < 10000 && debtToIncome < 0.5:
			eligible = true
		case income < 30000 && familySize >= 4 && assetsToIncome < 2:
			eligible = true
		}

		// 10% label noise keeps the classifier from memorizing the rules.
		if rng.Float64() < 0.1 {
			eligible = !eligible
		}

		samples = append(samples, Sample{
			Features: []float64{income, float64(familySize), incomePerMember, debtToIncome, assetsToIncome},
			Eligible: eligible,
		})
	}

	return samples
}

func lognormal(rng *rand.Rand, mean, sigma float64) float64 {
	return math.Exp(mean + sigma*rng.NormFloat64())
}
