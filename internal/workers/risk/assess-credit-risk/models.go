// internal/workers/risk/assess-credit-risk/models.go
package assesscreditrisk

import (
	"time"

	"credit-risk-workers/internal/assessment"
)

type Input struct {
	ApplicantName string `json:"applicantName"`
	Essay         string `json:"essay"`
}

type Output struct {
	AssessmentID    string    `json:"assessmentId"`
	ApplicantName   string    `json:"applicantName"`
	HardRiskScore   float64   `json:"hardRiskScore"`
	SoftRiskScore   float64   `json:"softRiskScore"`
	FinalScore      float64   `json:"finalScore"`
	Recommendation  string    `json:"recommendation"`
	Verdict         string    `json:"verdict"`
	Reasoning       string    `json:"reasoning"`
	ParseOutcome    string    `json:"parseOutcome"`
	BiasCheckPassed bool      `json:"biasCheckPassed"`
	Model           string    `json:"model"`
	AssessedAt      time.Time `json:"assessedAt"`
}

func newOutput(r *assessment.Result) *Output {
	return &Output{
		AssessmentID:    r.ID,
		ApplicantName:   r.ApplicantName,
		HardRiskScore:   r.HardRiskScore,
		SoftRiskScore:   r.SoftRiskScore,
		FinalScore:      r.FinalScore,
		Recommendation:  string(r.Recommendation),
		Verdict:         r.Recommendation.Verdict(),
		Reasoning:       r.Reasoning,
		ParseOutcome:    string(r.ParseOutcome),
		BiasCheckPassed: r.BiasCheckPassed,
		Model:           r.Model,
		AssessedAt:      r.AssessedAt,
	}
}
