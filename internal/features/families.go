package features

import (
	"math"

	"creditrisk/internal/dataset"
)

// Fixed weights of the composite risk indices. These are part of the
// feature contract; changing them changes the meaning of the fields.
const (
	stressUtilizationWeight = 0.5
	stressPastDueWeight     = 0.3
	stressDebtWeight        = 0.2

	complexityCreditWeight     = 0.6
	complexityRealEstateWeight = 0.4

	stabilityIncomeWeight  = 0.4
	stabilityAgeWeight     = 0.2
	stabilityDebtWeight    = 0.25
	stabilityPastDueWeight = 0.15
)

// ageGroupBins bucket age into [0,25,35,45,55,65,100]; every interval is
// right-open except the final one.
var ageGroupBins = []float64{0, 25, 35, 45, 55, 65, 100}

// computeRow evaluates every per-record formula. Dataset-level fields
// (NormalizedIncomePerDependent and the _Scaled pair) are filled in by the
// synthesizer afterwards.
func computeRow(rec dataset.Record) Row {
	row := Row{Record: rec}

	// Ratio family. CreditPerIncome and RealEstatePerIncome divide by
	// income/1000 and may produce ±Inf for a zero income; the final repair
	// pass normalizes those.
	row.DebtToIncome = rec.DebtRatio * rec.MonthlyIncome
	row.IncomePerDependent = rec.MonthlyIncome / (rec.Dependents + 1)
	row.CreditPerIncome = rec.OpenCreditLines / (rec.MonthlyIncome / 1000)
	row.RealEstatePerIncome = rec.RealEstateLoans / (rec.MonthlyIncome / 1000)
	row.OverallDebtBurden = rec.DebtRatio * (rec.OpenCreditLines + 1)
	row.UtilizationToIncome = rec.Utilization / (rec.MonthlyIncome / 5000)

	// Utilization family.
	row.UtilizationSquared = rec.Utilization * rec.Utilization
	row.UtilizationLog = math.Log1p(rec.Utilization)

	// Delinquency family.
	total := rec.TotalPastDue()
	row.TotalPastDue = total
	row.WeightedDelinquency = 1*rec.PastDue30 + 2*rec.PastDue60 + 3*rec.PastDue90
	row.HasPastDue30 = indicator(rec.PastDue30 > 0)
	row.HasPastDue60 = indicator(rec.PastDue60 > 0)
	row.HasPastDue90 = indicator(rec.PastDue90 > 0)
	row.HasAnyDelinquency = indicator(total > 0)
	if total > 0 {
		row.DelinquencySeverityRatio = rec.PastDue90 / total
	}

	// Age family.
	row.AgeSquared = rec.Age * rec.Age
	row.AgeGroup = ageGroup(rec.Age)
	row.AgeCreditRatio = rec.Age / (rec.OpenCreditLines + 1)
	row.AgeDebtRatio = rec.Age * rec.DebtRatio

	// Credit-line family.
	if rec.RealEstateLoans > 0 {
		row.CreditToRealEstate = rec.OpenCreditLines / rec.RealEstateLoans
	} else {
		row.CreditToRealEstate = rec.OpenCreditLines
	}
	if rec.OpenCreditLines > 0 {
		row.UnsecuredLoansPct = (rec.OpenCreditLines - rec.RealEstateLoans) / rec.OpenCreditLines
	}

	// Interaction family. Age is strictly positive post-cleaning.
	row.UtilizationByDelinquency = rec.Utilization * (total + 1)
	row.DebtIncomeByAge = rec.DebtRatio / (rec.Age / 40)

	// Risk indices.
	row.FinancialStressIndex = stressUtilizationWeight*rec.Utilization +
		stressPastDueWeight*(total/10) +
		stressDebtWeight*(rec.DebtRatio/2)
	row.CreditComplexityIndex = complexityCreditWeight*rec.OpenCreditLines +
		complexityRealEstateWeight*rec.RealEstateLoans
	row.FinancialStabilityIndex = stabilityIncomeWeight*(rec.MonthlyIncome/5000) +
		stabilityAgeWeight*(rec.Age/50) -
		stabilityDebtWeight*rec.DebtRatio -
		stabilityPastDueWeight*(total/5)

	// Transforms.
	row.LogMonthlyIncome = math.Log1p(rec.MonthlyIncome)
	row.LogDebtRatio = math.Log1p(rec.DebtRatio)

	return row
}

// ageGroup buckets an age into labels 0..5.
func ageGroup(age float64) float64 {
	for i := 1; i < len(ageGroupBins)-1; i++ {
		if age < ageGroupBins[i] {
			return float64(i - 1)
		}
	}
	return float64(len(ageGroupBins) - 2)
}

func indicator(cond bool) float64 {
	if cond {
		return 1
	}
	return 0
}
