package dataset

import (
	"testing"

	"credit-risk-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot(t *testing.T) {
	records := sampleRecords()
	records = append(records, models.ApplicantRecord{Name: "Ana Perez", CreditScore: 400})

	snap := NewSnapshot(records, "test.csv")

	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, "test.csv", snap.Source())
	assert.False(t, snap.LoadedAt().IsZero())
	assert.Equal(t, []string{"Ana Perez", "Bo Chen", "Ana Perez"}, snap.Names())

	t.Run("lookup returns first match", func(t *testing.T) {
		r, ok := snap.Lookup("Ana Perez")
		assert.True(t, ok)
		assert.Equal(t, 720, r.CreditScore)
	})

	t.Run("lookup unknown", func(t *testing.T) {
		_, ok := snap.Lookup("Nobody")
		assert.False(t, ok)
	})

	t.Run("at bounds", func(t *testing.T) {
		r, ok := snap.At(1)
		assert.True(t, ok)
		assert.Equal(t, "Bo Chen", r.Name)

		_, ok = snap.At(3)
		assert.False(t, ok)
		_, ok = snap.At(-1)
		assert.False(t, ok)
	})

	t.Run("immutable", func(t *testing.T) {
		records[0].CreditScore = 1
		got := snap.Records()
		got[1].Name = "changed"

		r, _ := snap.At(0)
		assert.Equal(t, 720, r.CreditScore)
		r, _ = snap.At(1)
		assert.Equal(t, "Bo Chen", r.Name)
	})
}
