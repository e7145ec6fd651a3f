package assessment

// Fusion policy. These are fixed and not read from configuration.
const (
	HardWeight      = 0.6
	SoftWeight      = 0.4
	RejectThreshold = 60.0
)

type Recommendation string

const (
	RecommendationApprove Recommendation = "approve"
	RecommendationReject  Recommendation = "reject"
)

// Verdict is the text shown to a loan officer.
func (r Recommendation) Verdict() string {
	if r == RecommendationReject {
		return "REJECT LOAN"
	}
	return "APPROVE LOAN"
}

// Fuse blends the hard and soft scores. A final score of exactly RejectThreshold approves.
func Fuse(hard, soft float64) (float64, Recommendation) {
	final := HardWeight*hard + SoftWeight*soft
	if final > RejectThreshold {
		return final, RecommendationReject
	}
	return final, RecommendationApprove
}
