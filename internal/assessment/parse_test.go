package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAssessment(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantOutcome Outcome
		wantScore   float64
		wantReason  string
		wantCause   error
	}{
		{
			name:        "well formed",
			raw:         "Score: 42\nReason: stable income",
			wantOutcome: OutcomeParsed,
			wantScore:   42,
			wantReason:  "stable income",
		},
		{
			name:        "no markers",
			raw:         "no markers here",
			wantOutcome: OutcomeFallback,
			wantScore:   50,
			wantReason:  "no markers here",
			wantCause:   ErrScoreMarkerMissing,
		},
		{
			name:        "non numeric score",
			raw:         "Score: high\nReason: vague",
			wantOutcome: OutcomeFallback,
			wantScore:   50,
			wantReason:  "Score: high\nReason: vague",
			wantCause:   ErrInvalidScore,
		},
		{
			name:        "trailing text after number is strict",
			raw:         "Score: 82 (high)\nReason: gambling spend",
			wantOutcome: OutcomeFallback,
			wantScore:   50,
			wantReason:  "Score: 82 (high)\nReason: gambling spend",
			wantCause:   ErrInvalidScore,
		},
		{
			name:        "hex float is not a score",
			raw:         "Score: 0x1p6\nReason: hex",
			wantOutcome: OutcomeFallback,
			wantScore:   50,
			wantReason:  "Score: 0x1p6\nReason: hex",
			wantCause:   ErrInvalidScore,
		},
		{
			name:        "reason missing",
			raw:         "Score: 30\nLooks fine to me.",
			wantOutcome: OutcomeFallback,
			wantScore:   50,
			wantReason:  "Score: 30\nLooks fine to me.",
			wantCause:   ErrReasonMarkerMissing,
		},
		{
			name:        "first score wins",
			raw:         "Score: 15\nScore: 99\nReason: first one counts",
			wantOutcome: OutcomeParsed,
			wantScore:   15,
			wantReason:  "first one counts",
		},
		{
			name:        "decimal and padding",
			raw:         "  Score:   67.5  \r\nReason:   urgent tone, crypto transfers.\nBias Check: Passed\n",
			wantOutcome: OutcomeParsed,
			wantScore:   67.5,
			wantReason:  "urgent tone, crypto transfers.\nBias Check: Passed",
		},
		{
			name:        "reason before score",
			raw:         "Reason: calm essay\nScore: 20",
			wantOutcome: OutcomeParsed,
			wantScore:   20,
			wantReason:  "calm essay\nScore: 20",
		},
		{
			name:        "NaN rejected",
			raw:         "Score: NaN\nReason: ?",
			wantOutcome: OutcomeFallback,
			wantScore:   50,
			wantReason:  "Score: NaN\nReason: ?",
			wantCause:   ErrInvalidScore,
		},
		{
			name:        "empty reply",
			raw:         "",
			wantOutcome: OutcomeFallback,
			wantScore:   50,
			wantReason:  "",
			wantCause:   ErrScoreMarkerMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAssessment(tt.raw)

			assert.Equal(t, tt.wantOutcome, got.Outcome)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantReason, got.Reasoning)
			assert.Equal(t, tt.raw, got.Raw)
			if tt.wantCause != nil {
				assert.ErrorIs(t, got.FallbackCause, tt.wantCause)
				assert.True(t, got.IsFallback())
			} else {
				assert.NoError(t, got.FallbackCause)
				assert.False(t, got.IsFallback())
			}
		})
	}
}

func TestBiasCheckReported(t *testing.T) {
	assert.True(t, BiasCheckReported("Score: 10\nReason: ok\nBias Check: Passed"))
	assert.False(t, BiasCheckReported("Score: 10\nReason: ok"))
}
