package dataset

import (
	"math"
)

// Canonical raw-field names, matching the source CSV headers.
const (
	FieldTarget          = "SeriousDlqin2yrs"
	FieldUtilization     = "RevolvingUtilizationOfUnsecuredLines"
	FieldAge             = "age"
	FieldPastDue30       = "NumberOfTime30-59DaysPastDueNotWorse"
	FieldDebtRatio       = "DebtRatio"
	FieldMonthlyIncome   = "MonthlyIncome"
	FieldOpenCreditLines = "NumberOfOpenCreditLinesAndLoans"
	FieldPastDue90       = "NumberOfTimes90DaysLate"
	FieldRealEstate      = "NumberRealEstateLoansOrLines"
	FieldPastDue60       = "NumberOfTime60-89DaysPastDueNotWorse"
	FieldDependents      = "NumberOfDependents"
)

// Record is a single borrower observation. Raw fields are stored as float64
// with NaN as the missing marker; Target is NaN for unlabeled records.
type Record struct {
	Target          float64 `json:"serious_dlqin_2yrs"`
	Utilization     float64 `json:"revolving_utilization"`
	Age             float64 `json:"age"`
	PastDue30       float64 `json:"past_due_30_59"`
	DebtRatio       float64 `json:"debt_ratio"`
	MonthlyIncome   float64 `json:"monthly_income"`
	OpenCreditLines float64 `json:"open_credit_lines"`
	PastDue90       float64 `json:"past_due_90"`
	RealEstateLoans float64 `json:"real_estate_loans"`
	PastDue60       float64 `json:"past_due_60_89"`
	Dependents      float64 `json:"dependents"`
}

// HasLabel reports whether the record carries a delinquency label.
func (r Record) HasLabel() bool {
	return !math.IsNaN(r.Target)
}

// TotalPastDue returns the sum of the three delinquency counts.
func (r Record) TotalPastDue() float64 {
	return r.PastDue30 + r.PastDue60 + r.PastDue90
}

// Field is a named accessor over one raw Record column. The accessor table
// lets the cleaning stage iterate columns generically while the record stays
// a flat typed struct.
type Field struct {
	Name string
	Get  func(*Record) float64
	Set  func(*Record, float64)
}

// RawFields enumerates the ten raw input columns in schema order. The target
// label is deliberately excluded: it is never cleaned, scaled, or imputed.
func RawFields() []Field {
	return []Field{
		{FieldUtilization,
			func(r *Record) float64 { return r.Utilization },
			func(r *Record, v float64) { r.Utilization = v }},
		{FieldAge,
			func(r *Record) float64 { return r.Age },
			func(r *Record, v float64) { r.Age = v }},
		{FieldPastDue30,
			func(r *Record) float64 { return r.PastDue30 },
			func(r *Record, v float64) { r.PastDue30 = v }},
		{FieldDebtRatio,
			func(r *Record) float64 { return r.DebtRatio },
			func(r *Record, v float64) { r.DebtRatio = v }},
		{FieldMonthlyIncome,
			func(r *Record) float64 { return r.MonthlyIncome },
			func(r *Record, v float64) { r.MonthlyIncome = v }},
		{FieldOpenCreditLines,
			func(r *Record) float64 { return r.OpenCreditLines },
			func(r *Record, v float64) { r.OpenCreditLines = v }},
		{FieldPastDue90,
			func(r *Record) float64 { return r.PastDue90 },
			func(r *Record, v float64) { r.PastDue90 = v }},
		{FieldRealEstate,
			func(r *Record) float64 { return r.RealEstateLoans },
			func(r *Record, v float64) { r.RealEstateLoans = v }},
		{FieldPastDue60,
			func(r *Record) float64 { return r.PastDue60 },
			func(r *Record, v float64) { r.PastDue60 = v }},
		{FieldDependents,
			func(r *Record) float64 { return r.Dependents },
			func(r *Record, v float64) { r.Dependents = v }},
	}
}

// Dataset is an ordered collection of Records sharing one schema.
type Dataset struct {
	Records []Record
	// Labeled indicates the source carried the target column.
	Labeled bool
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Clone returns a deep copy. Pipeline stages operate on copies so the
// caller's dataset is never mutated.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Records: make([]Record, len(d.Records)),
		Labeled: d.Labeled,
	}
	copy(out.Records, d.Records)
	return out
}

// Labels extracts the binary target as ints. The second return value is the
// count of positive labels.
func (d *Dataset) Labels() ([]int, int) {
	labels := make([]int, 0, len(d.Records))
	positives := 0
	for i := range d.Records {
		if !d.Records[i].HasLabel() {
			continue
		}
		y := 0
		if d.Records[i].Target > 0 {
			y = 1
			positives++
		}
		labels = append(labels, y)
	}
	return labels, positives
}
