package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"credit-risk-workers/internal/models"
)

// Column names of the dataset file.
const (
	ColName               = "Name"
	ColIncome             = "Income"
	ColDebt               = "Debt"
	ColCreditScore        = "Credit_Score"
	ColHistoricalRisk     = "Historical_Risk"
	ColRecentTransactions = "Recent_Transactions"
)

// Header is the column order written by WriteCSV.
var Header = []string{ColName, ColIncome, ColDebt, ColCreditScore, ColHistoricalRisk, ColRecentTransactions}

var requiredColumns = []string{ColName, ColIncome, ColDebt, ColCreditScore, ColHistoricalRisk}

var (
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidRow    = errors.New("invalid row")
)

func WriteCSV(w io.Writer, records []models.ApplicantRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Name,
			strconv.FormatFloat(r.Income, 'f', -1, 64),
			strconv.FormatFloat(r.Debt, 'f', -1, 64),
			strconv.Itoa(r.CreditScore),
			r.HistoricalRisk,
			r.RecentTransactions,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile replaces path with the given records.
func WriteCSVFile(path string, records []models.ApplicantRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, records); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadCSV reads records by header name. Column order is free and Recent_Transactions may be
// absent.
func ReadCSV(r io.Reader) ([]models.ApplicantRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	txnCol, hasTxns := idx[ColRecentTransactions]

	var records []models.ApplicantRecord
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, err
		}

		field := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}

		income, err := strconv.ParseFloat(field(idx[ColIncome]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: income: %v", ErrInvalidRow, line, err)
		}
		debt, err := strconv.ParseFloat(field(idx[ColDebt]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: debt: %v", ErrInvalidRow, line, err)
		}
		score, err := strconv.Atoi(field(idx[ColCreditScore]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: credit score: %v", ErrInvalidRow, line, err)
		}

		record := models.ApplicantRecord{
			Name:           field(idx[ColName]),
			Income:         income,
			Debt:           debt,
			CreditScore:    score,
			HistoricalRisk: field(idx[ColHistoricalRisk]),
		}
		if hasTxns {
			record.RecentTransactions = field(txnCol)
		}
		records = append(records, record)
	}

	return records, nil
}

func LoadCSVFile(path string) ([]models.ApplicantRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}
