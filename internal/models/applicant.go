package models

// Historical risk labels written by the dataset generator. They are informational only and
// never feed the assessment.
const (
	RiskLabelHigh = "High Risk"
	RiskLabelLow  = "Low Risk"
)

// ApplicantRecord is one row of the customer dataset. Records are read-only once loaded.
type ApplicantRecord struct {
	Name               string  `json:"name"`
	Income             float64 `json:"income"`
	Debt               float64 `json:"debt"`
	CreditScore        int     `json:"creditScore"`
	HistoricalRisk     string  `json:"historicalRisk"`
	RecentTransactions string  `json:"recentTransactions"`
}
