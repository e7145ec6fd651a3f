package assessment

// CreditScoreDivisor scales a credit score onto the 0-100 risk axis.
const CreditScoreDivisor = 8.5

// ComputeHardRisk derives the numeric risk from the credit score alone: 850 maps to about 0 and
// 300 to about 64.7. The result is not clamped, so scores outside 300-850 produce values outside
// the nominal range.
func ComputeHardRisk(creditScore int) float64 {
	return 100 - float64(creditScore)/CreditScoreDivisor
}
