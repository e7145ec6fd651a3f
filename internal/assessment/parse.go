package assessment

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	scoreMarker  = "Score:"
	reasonMarker = "Reason:"
	biasMarker   = "Bias Check: Passed"
)

// DefaultSoftRiskScore is used whenever the reply cannot be parsed.
const DefaultSoftRiskScore = 50.0

type Outcome string

const (
	OutcomeParsed   Outcome = "parsed"
	OutcomeFallback Outcome = "fallback"
)

var (
	ErrScoreMarkerMissing  = errors.New("score marker missing")
	ErrReasonMarkerMissing = errors.New("reason marker missing")
	ErrInvalidScore        = errors.New("invalid score")
)

// ParsedAssessment is the tagged result of ParseAssessment. When Outcome is OutcomeFallback,
// Score is DefaultSoftRiskScore, Reasoning is Raw unmodified and FallbackCause says why.
type ParsedAssessment struct {
	Outcome       Outcome
	Score         float64
	Reasoning     string
	Raw           string
	FallbackCause error
}

func (p ParsedAssessment) IsFallback() bool {
	return p.Outcome == OutcomeFallback
}

// ParseAssessment reads the informal "Score: <num>" / "Reason: <text>" reply format. It never
// fails: any reply it cannot read yields the fallback branch.
func ParseAssessment(raw string) ParsedAssessment {
	score, err := parseScore(raw)
	if err != nil {
		return fallback(raw, err)
	}

	reason, err := parseReason(raw)
	if err != nil {
		return fallback(raw, err)
	}

	return ParsedAssessment{
		Outcome:   OutcomeParsed,
		Score:     score,
		Reasoning: reason,
		Raw:       raw,
	}
}

func fallback(raw string, cause error) ParsedAssessment {
	return ParsedAssessment{
		Outcome:       OutcomeFallback,
		Score:         DefaultSoftRiskScore,
		Reasoning:     raw,
		Raw:           raw,
		FallbackCause: cause,
	}
}

// parseScore takes the text after the first "Score:" up to the next line break. The token must
// be a plain finite number; "82 (high)" is rejected.
func parseScore(raw string) (float64, error) {
	_, rest, found := strings.Cut(raw, scoreMarker)
	if !found {
		return 0, ErrScoreMarkerMissing
	}

	token, _, _ := strings.Cut(rest, "\n")
	token = strings.TrimSpace(token)
	if isHexToken(token) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidScore, token)
	}

	score, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidScore, token)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidScore, token)
	}
	return score, nil
}

// isHexToken reports a hexadecimal literal, which strconv.ParseFloat would otherwise accept.
func isHexToken(token string) bool {
	token = strings.TrimLeft(token, "+-")
	return strings.HasPrefix(token, "0x") || strings.HasPrefix(token, "0X")
}

// parseReason returns everything after the first "Reason:", trimmed.
func parseReason(raw string) (string, error) {
	_, rest, found := strings.Cut(raw, reasonMarker)
	if !found {
		return "", ErrReasonMarkerMissing
	}
	return strings.TrimSpace(rest), nil
}

// BiasCheckReported reports whether the reply carries the self-reported fairness marker.
// Nothing verifies the claim.
func BiasCheckReported(raw string) bool {
	return strings.Contains(raw, biasMarker)
}
