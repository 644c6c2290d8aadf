package testutil

import (
	"math"
	"math/rand"

	"creditrisk/internal/dataset"
)

// SampleDataset builds a labeled dataset of n synthetic borrowers with a
// deterministic generator. Roughly one in seven records is delinquent, and
// delinquent records skew toward higher utilization and more past-due
// events so models trained on the fixture have signal to find.
func SampleDataset(n int, seed int64) *dataset.Dataset {
	rng := rand.New(rand.NewSource(seed))
	ds := &dataset.Dataset{
		Records: make([]dataset.Record, 0, n),
		Labeled: true,
	}
	for i := 0; i < n; i++ {
		delinquent := rng.Float64() < 0.14
		rec := dataset.Record{
			Target:          0,
			Utilization:     rng.Float64() * 0.8,
			Age:             25 + rng.Float64()*50,
			PastDue30:       float64(rng.Intn(2)),
			DebtRatio:       rng.Float64() * 1.5,
			MonthlyIncome:   2000 + rng.Float64()*8000,
			OpenCreditLines: float64(2 + rng.Intn(12)),
			PastDue90:       0,
			RealEstateLoans: float64(rng.Intn(3)),
			PastDue60:       0,
			Dependents:      float64(rng.Intn(4)),
		}
		if delinquent {
			rec.Target = 1
			rec.Utilization = 0.6 + rng.Float64()*0.4
			rec.PastDue30 = float64(1 + rng.Intn(3))
			rec.PastDue60 = float64(rng.Intn(2))
			rec.PastDue90 = float64(rng.Intn(2))
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds
}

// DirtyDataset returns a small fixed dataset exercising every cleaning
// path: missing income and dependents, a zero age, an extreme utilization
// outlier, and a delinquency count above the cap.
func DirtyDataset() *dataset.Dataset {
	nan := math.NaN()
	return &dataset.Dataset{
		Labeled: true,
		Records: []dataset.Record{
			{Target: 1, Utilization: 0.77, Age: 0, PastDue30: 2, DebtRatio: 0.8, MonthlyIncome: nan, OpenCreditLines: 5, PastDue90: 0, RealEstateLoans: 1, PastDue60: 1, Dependents: nan},
			{Target: 0, Utilization: 0.10, Age: 34, PastDue30: 0, DebtRatio: 0.2, MonthlyIncome: 4000, OpenCreditLines: 6, PastDue90: 0, RealEstateLoans: 1, PastDue60: 0, Dependents: 1},
			{Target: 0, Utilization: 0.25, Age: 45, PastDue30: 0, DebtRatio: 0.4, MonthlyIncome: 5000, OpenCreditLines: 8, PastDue90: 0, RealEstateLoans: 2, PastDue60: 0, Dependents: 2},
			{Target: 0, Utilization: 0.40, Age: 52, PastDue30: 1, DebtRatio: 0.3, MonthlyIncome: 6000, OpenCreditLines: 4, PastDue90: 0, RealEstateLoans: 0, PastDue60: 0, Dependents: 0},
			{Target: 1, Utilization: 5021.0, Age: 61, PastDue30: 98, DebtRatio: 1.9, MonthlyIncome: 2500, OpenCreditLines: 3, PastDue90: 96, RealEstateLoans: 0, PastDue60: 0, Dependents: 1},
			{Target: 0, Utilization: 0.55, Age: 29, PastDue30: 0, DebtRatio: 0.5, MonthlyIncome: 3500, OpenCreditLines: 7, PastDue90: 0, RealEstateLoans: 1, PastDue60: 0, Dependents: 3},
			{Target: 0, Utilization: 0.05, Age: 70, PastDue30: 0, DebtRatio: 0.1, MonthlyIncome: 8000, OpenCreditLines: 10, PastDue90: 0, RealEstateLoans: 2, PastDue60: 0, Dependents: 0},
			{Target: 0, Utilization: 0.33, Age: 41, PastDue30: 0, DebtRatio: 0.6, MonthlyIncome: 4500, OpenCreditLines: 5, PastDue90: 0, RealEstateLoans: 1, PastDue60: 0, Dependents: 2},
		},
	}
}
