package features

import (
	"creditrisk/internal/dataset"
)

// Derived field names as they appear in reports and exported datasets.
const (
	ColDebtToIncome             = "DebtToIncome"
	ColIncomePerDependent       = "IncomePerDependent"
	ColCreditPerIncome          = "CreditPerIncome"
	ColRealEstatePerIncome      = "RealEstatePerIncome"
	ColUtilizationSquared       = "RevolvingUtilizationSquared"
	ColUtilizationLog           = "RevolvingUtilizationLog"
	ColTotalPastDue             = "TotalPastDue"
	ColWeightedDelinquency      = "WeightedDelinquencyScore"
	ColHasPastDue30             = "HasPastDue30"
	ColHasPastDue60             = "HasPastDue60"
	ColHasPastDue90             = "HasPastDue90"
	ColHasAnyDelinquency        = "HasAnyDelinquency"
	ColDelinquencySeverity      = "DelinquencySeverityRatio"
	ColAgeSquared               = "AgeSquared"
	ColAgeGroup                 = "AgeGroup"
	ColAgeCreditRatio           = "AgeCreditRatio"
	ColAgeDebtRatio             = "AgeDebtRatio"
	ColCreditToRealEstate       = "CreditToRealEstate"
	ColUnsecuredLoansPct        = "UnsecuredLoansPct"
	ColUtilizationByDelinquency = "UtilizationByDelinquency"
	ColDebtIncomeByAge          = "DebtIncomeByAge"
	ColFinancialStress          = "FinancialStressIndex"
	ColCreditComplexity         = "CreditComplexityIndex"
	ColFinancialStability       = "FinancialStabilityIndex"
	ColLogMonthlyIncome         = "LogMonthlyIncome"
	ColLogDebtRatio             = "LogDebtRatio"
	ColNormalizedIncomePerDep   = "NormalizedIncomePerDependent"
	ColOverallDebtBurden        = "OverallDebtBurden"
	ColUtilizationToIncome      = "UtilizationToIncome"
	ColUtilizationScaled        = "RevolvingUtilizationOfUnsecuredLines_Scaled"
	ColDebtRatioScaled          = "DebtRatio_Scaled"
)

// Row is one enriched borrower observation: the cleaned raw record plus
// every derived field.
type Row struct {
	dataset.Record

	// Ratio family
	DebtToIncome        float64
	IncomePerDependent  float64
	CreditPerIncome     float64
	RealEstatePerIncome float64
	OverallDebtBurden   float64
	UtilizationToIncome float64

	// Utilization family
	UtilizationSquared float64
	UtilizationLog     float64

	// Delinquency family
	TotalPastDue             float64
	WeightedDelinquency      float64
	HasPastDue30             float64
	HasPastDue60             float64
	HasPastDue90             float64
	HasAnyDelinquency        float64
	DelinquencySeverityRatio float64

	// Age family
	AgeSquared     float64
	AgeGroup       float64
	AgeCreditRatio float64
	AgeDebtRatio   float64

	// Credit-line family
	CreditToRealEstate float64
	UnsecuredLoansPct  float64

	// Interaction family
	UtilizationByDelinquency float64
	DebtIncomeByAge          float64

	// Risk indices
	FinancialStressIndex    float64
	CreditComplexityIndex   float64
	FinancialStabilityIndex float64

	// Transforms
	LogMonthlyIncome             float64
	LogDebtRatio                 float64
	NormalizedIncomePerDependent float64

	// Scaling family
	UtilizationScaled float64
	DebtRatioScaled   float64
}

// Frame is the enriched dataset: ordered rows sharing the enriched schema.
// It is immutable from the pipeline's point of view once Enhance returns.
type Frame struct {
	Rows    []Row
	Labeled bool
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Labels extracts the binary target as ints plus the positive count.
func (f *Frame) Labels() ([]int, int) {
	labels := make([]int, 0, len(f.Rows))
	positives := 0
	for i := range f.Rows {
		if !f.Rows[i].HasLabel() {
			continue
		}
		y := 0
		if f.Rows[i].Target > 0 {
			y = 1
			positives++
		}
		labels = append(labels, y)
	}
	return labels, positives
}

// Column is a named accessor over one Frame column.
type Column struct {
	Name string
	Get  func(*Row) float64
	Set  func(*Row, float64)
}

// Columns enumerates every numeric column of the enriched schema in fixed
// order: the ten raw fields first, then the derived fields family by family.
// The target label is excluded; it is neither repaired nor selected over.
func Columns() []Column {
	cols := make([]Column, 0, 41)
	for _, f := range dataset.RawFields() {
		f := f
		cols = append(cols, Column{
			Name: f.Name,
			Get:  func(r *Row) float64 { return f.Get(&r.Record) },
			Set:  func(r *Row, v float64) { f.Set(&r.Record, v) },
		})
	}
	cols = append(cols,
		Column{ColDebtToIncome,
			func(r *Row) float64 { return r.DebtToIncome },
			func(r *Row, v float64) { r.DebtToIncome = v }},
		Column{ColIncomePerDependent,
			func(r *Row) float64 { return r.IncomePerDependent },
			func(r *Row, v float64) { r.IncomePerDependent = v }},
		Column{ColCreditPerIncome,
			func(r *Row) float64 { return r.CreditPerIncome },
			func(r *Row, v float64) { r.CreditPerIncome = v }},
		Column{ColRealEstatePerIncome,
			func(r *Row) float64 { return r.RealEstatePerIncome },
			func(r *Row, v float64) { r.RealEstatePerIncome = v }},
		Column{ColUtilizationSquared,
			func(r *Row) float64 { return r.UtilizationSquared },
			func(r *Row, v float64) { r.UtilizationSquared = v }},
		Column{ColUtilizationLog,
			func(r *Row) float64 { return r.UtilizationLog },
			func(r *Row, v float64) { r.UtilizationLog = v }},
		Column{ColTotalPastDue,
			func(r *Row) float64 { return r.TotalPastDue },
			func(r *Row, v float64) { r.TotalPastDue = v }},
		Column{ColWeightedDelinquency,
			func(r *Row) float64 { return r.WeightedDelinquency },
			func(r *Row, v float64) { r.WeightedDelinquency = v }},
		Column{ColHasPastDue30,
			func(r *Row) float64 { return r.HasPastDue30 },
			func(r *Row, v float64) { r.HasPastDue30 = v }},
		Column{ColHasPastDue60,
			func(r *Row) float64 { return r.HasPastDue60 },
			func(r *Row, v float64) { r.HasPastDue60 = v }},
		Column{ColHasPastDue90,
			func(r *Row) float64 { return r.HasPastDue90 },
			func(r *Row, v float64) { r.HasPastDue90 = v }},
		Column{ColHasAnyDelinquency,
			func(r *Row) float64 { return r.HasAnyDelinquency },
			func(r *Row, v float64) { r.HasAnyDelinquency = v }},
		Column{ColDelinquencySeverity,
			func(r *Row) float64 { return r.DelinquencySeverityRatio },
			func(r *Row, v float64) { r.DelinquencySeverityRatio = v }},
		Column{ColAgeSquared,
			func(r *Row) float64 { return r.AgeSquared },
			func(r *Row, v float64) { r.AgeSquared = v }},
		Column{ColAgeGroup,
			func(r *Row) float64 { return r.AgeGroup },
			func(r *Row, v float64) { r.AgeGroup = v }},
		Column{ColAgeCreditRatio,
			func(r *Row) float64 { return r.AgeCreditRatio },
			func(r *Row, v float64) { r.AgeCreditRatio = v }},
		Column{ColAgeDebtRatio,
			func(r *Row) float64 { return r.AgeDebtRatio },
			func(r *Row, v float64) { r.AgeDebtRatio = v }},
		Column{ColCreditToRealEstate,
			func(r *Row) float64 { return r.CreditToRealEstate },
			func(r *Row, v float64) { r.CreditToRealEstate = v }},
		Column{ColUnsecuredLoansPct,
			func(r *Row) float64 { return r.UnsecuredLoansPct },
			func(r *Row, v float64) { r.UnsecuredLoansPct = v }},
		Column{ColUtilizationByDelinquency,
			func(r *Row) float64 { return r.UtilizationByDelinquency },
			func(r *Row, v float64) { r.UtilizationByDelinquency = v }},
		Column{ColDebtIncomeByAge,
			func(r *Row) float64 { return r.DebtIncomeByAge },
			func(r *Row, v float64) { r.DebtIncomeByAge = v }},
		Column{ColFinancialStress,
			func(r *Row) float64 { return r.FinancialStressIndex },
			func(r *Row, v float64) { r.FinancialStressIndex = v }},
		Column{ColCreditComplexity,
			func(r *Row) float64 { return r.CreditComplexityIndex },
			func(r *Row, v float64) { r.CreditComplexityIndex = v }},
		Column{ColFinancialStability,
			func(r *Row) float64 { return r.FinancialStabilityIndex },
			func(r *Row, v float64) { r.FinancialStabilityIndex = v }},
		Column{ColLogMonthlyIncome,
			func(r *Row) float64 { return r.LogMonthlyIncome },
			func(r *Row, v float64) { r.LogMonthlyIncome = v }},
		Column{ColLogDebtRatio,
			func(r *Row) float64 { return r.LogDebtRatio },
			func(r *Row, v float64) { r.LogDebtRatio = v }},
		Column{ColNormalizedIncomePerDep,
			func(r *Row) float64 { return r.NormalizedIncomePerDependent },
			func(r *Row, v float64) { r.NormalizedIncomePerDependent = v }},
		Column{ColOverallDebtBurden,
			func(r *Row) float64 { return r.OverallDebtBurden },
			func(r *Row, v float64) { r.OverallDebtBurden = v }},
		Column{ColUtilizationToIncome,
			func(r *Row) float64 { return r.UtilizationToIncome },
			func(r *Row, v float64) { r.UtilizationToIncome = v }},
		Column{ColUtilizationScaled,
			func(r *Row) float64 { return r.UtilizationScaled },
			func(r *Row, v float64) { r.UtilizationScaled = v }},
		Column{ColDebtRatioScaled,
			func(r *Row) float64 { return r.DebtRatioScaled },
			func(r *Row, v float64) { r.DebtRatioScaled = v }},
	)
	return cols
}

// ColumnNames returns the names from Columns in the same order.
func ColumnNames() []string {
	cols := Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// Matrix flattens the frame into a row-major feature matrix aligned with
// ColumnNames. The target is not part of the matrix.
func (f *Frame) Matrix() ([][]float64, []string) {
	cols := Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}

	m := make([][]float64, len(f.Rows))
	for i := range f.Rows {
		row := make([]float64, len(cols))
		for j, c := range cols {
			row[j] = c.Get(&f.Rows[i])
		}
		m[i] = row
	}
	return m, names
}

// ColumnValues extracts a single named column. The boolean is false when the
// name is not part of the enriched schema.
func (f *Frame) ColumnValues(name string) ([]float64, bool) {
	for _, c := range Columns() {
		if c.Name != name {
			continue
		}
		out := make([]float64, len(f.Rows))
		for i := range f.Rows {
			out[i] = c.Get(&f.Rows[i])
		}
		return out, true
	}
	return nil, false
}
