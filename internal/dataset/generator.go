// Package dataset produces, stores and loads the synthetic applicant table.
package dataset

import (
	"strings"

	"credit-risk-workers/internal/models"

	"github.com/brianvoe/gofakeit/v7"
)

const (
	DefaultCount                = 50
	DefaultTransactionsPerEntry = 5

	MinIncome      = 25000
	MaxIncome      = 150000
	MinDebt        = 0
	MaxDebt        = 40000
	MinCreditScore = 300
	MaxCreditScore = 850

	// HighRiskScoreCutoff and HighRiskDebtRatio drive the historical label.
	HighRiskScoreCutoff = 580
	HighRiskDebtRatio   = 0.6

	TransactionSeparator = ", "
)

var (
	SafeMerchants  = []string{"Uber", "Tesco", "Netflix", "Spotify", "Shell Station", "Starbucks", "Amazon"}
	RiskyMerchants = []string{"Bet365", "PokerStars", "CryptoBinance", "LuxuryWatches", "CasinoRoyal", "Unknown Transfer"}
)

type GeneratorConfig struct {
	Count                int
	Seed                 uint64 // 0 picks a random seed
	SimulateTransactions bool
	TransactionsPerEntry int
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Count:                DefaultCount,
		SimulateTransactions: true,
		TransactionsPerEntry: DefaultTransactionsPerEntry,
	}
}

// ClassifyRisk labels a profile High Risk when the score is below 580 or debt exceeds 60% of
// income.
func ClassifyRisk(creditScore int, income, debt float64) string {
	if creditScore < HighRiskScoreCutoff || debt > HighRiskDebtRatio*income {
		return models.RiskLabelHigh
	}
	return models.RiskLabelLow
}

// Generate draws a fresh table of applicants. Every High Risk row with simulated transactions
// gets one slot replaced by a risky merchant, so transaction content correlates with the label
// by construction. Do not treat the two as independent signals.
func Generate(cfg GeneratorConfig) []models.ApplicantRecord {
	if cfg.Count <= 0 {
		cfg.Count = DefaultCount
	}
	if cfg.TransactionsPerEntry <= 0 {
		cfg.TransactionsPerEntry = DefaultTransactionsPerEntry
	}

	faker := gofakeit.New(cfg.Seed)
	records := make([]models.ApplicantRecord, 0, cfg.Count)

	for i := 0; i < cfg.Count; i++ {
		income := float64(faker.IntRange(MinIncome, MaxIncome))
		debt := float64(faker.IntRange(MinDebt, MaxDebt))
		score := faker.IntRange(MinCreditScore, MaxCreditScore)
		label := ClassifyRisk(score, income, debt)

		record := models.ApplicantRecord{
			Name:           faker.Name(),
			Income:         income,
			Debt:           debt,
			CreditScore:    score,
			HistoricalRisk: label,
		}

		if cfg.SimulateTransactions {
			txns := make([]string, cfg.TransactionsPerEntry)
			for j := range txns {
				txns[j] = faker.RandomString(SafeMerchants)
			}
			if label == models.RiskLabelHigh {
				txns[faker.IntRange(0, len(txns)-1)] = faker.RandomString(RiskyMerchants)
			}
			record.RecentTransactions = strings.Join(txns, TransactionSeparator)
		}

		records = append(records, record)
	}

	return records
}

// SplitTransactions undoes the join used when storing RecentTransactions.
func SplitTransactions(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
