package assessment

import (
	"fmt"
	"strings"
)

// SystemInstruction is sent as the system message of every assessment request.
const SystemInstruction = "You are a Senior Credit Risk Officer. Analyze the loan application essay."

// RiskKeywords are the phrases the reviewer is asked to look for.
var RiskKeywords = []string{"gambling", "crypto", "urgent", "pay off debts"}

// BuildUserPrompt embeds the credit score, transaction history and essay into the fixed task
// template. The applicant's name is never included.
func BuildUserPrompt(essay string, creditScore int, transactions string) string {
	quoted := make([]string, len(RiskKeywords))
	for i, kw := range RiskKeywords {
		quoted[i] = "'" + kw + "'"
	}

	var parts []string

	parts = append(parts, fmt.Sprintf("Applicant Credit Score: %d", creditScore))
	parts = append(parts, fmt.Sprintf("Recent Transactions: \"%s\"", transactions))
	parts = append(parts, fmt.Sprintf("Applicant Essay: \"%s\"", essay))

	parts = append(parts, "\nTask:")
	parts = append(parts, "1. Does the essay tone match the credit score? (e.g. Low score but claims 'perfect financial health' = Suspicious).")
	parts = append(parts, fmt.Sprintf("2. Look for keywords like %s.", strings.Join(quoted, ", ")))
	parts = append(parts, "3. Give a Behavioral Risk Score from 0 (Safe) to 100 (Dangerous).")
	parts = append(parts, "4. Explain your reasoning in one sentence.")
	parts = append(parts, "5. COMPLIANCE CHECK: Ensure your decision is NOT based on the applicant's name, gender, or location.")
	parts = append(parts, fmt.Sprintf("6. State explicitly: \"%s\" if the reasoning is purely financial/behavioral.", biasMarker))

	parts = append(parts, "\nOutput Format:")
	parts = append(parts, scoreMarker+" [Number]")
	parts = append(parts, reasonMarker+" [Text]")

	return strings.Join(parts, "\n")
}
