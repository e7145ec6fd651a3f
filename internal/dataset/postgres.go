package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"credit-risk-workers/internal/models"

	"github.com/lib/pq"
)

// PostgresSource stores the applicant table in Postgres. Row order is insertion order, so
// Snapshot.Lookup keeps its first-match behaviour.
type PostgresSource struct {
	db    *sql.DB
	table string
}

func NewPostgresSource(db *sql.DB, table string) *PostgresSource {
	if table == "" {
		table = "applicants"
	}
	return &PostgresSource{db: db, table: table}
}

func (s *PostgresSource) quotedTable() string {
	return pq.QuoteIdentifier(s.table)
}

func (s *PostgresSource) createTableSQL() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	income DOUBLE PRECISION NOT NULL,
	debt DOUBLE PRECISION NOT NULL,
	credit_score INTEGER NOT NULL,
	historical_risk TEXT NOT NULL,
	recent_transactions TEXT
)`, s.quotedTable())
}

func (s *PostgresSource) selectSQL() string {
	return fmt.Sprintf(
		"SELECT name, income, debt, credit_score, historical_risk, recent_transactions FROM %s ORDER BY id",
		s.quotedTable())
}

func (s *PostgresSource) insertSQL() string {
	return fmt.Sprintf(
		"INSERT INTO %s (name, income, debt, credit_score, historical_risk, recent_transactions) VALUES ($1, $2, $3, $4, $5, $6)",
		s.quotedTable())
}

// EnsureTable creates the table if it does not exist.
func (s *PostgresSource) EnsureTable(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.createTableSQL()); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresSource) Load(ctx context.Context) ([]models.ApplicantRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.selectSQL())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var records []models.ApplicantRecord
	for rows.Next() {
		var (
			r    models.ApplicantRecord
			txns sql.NullString
		)
		if err := rows.Scan(&r.Name, &r.Income, &r.Debt, &r.CreditScore, &r.HistoricalRisk, &txns); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		r.RecentTransactions = txns.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}

	return records, nil
}

// Replace swaps the whole table for records in one transaction.
func (s *PostgresSource) Replace(ctx context.Context, records []models.ApplicantRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", s.quotedTable())); err != nil {
		return fmt.Errorf("clear %s: %w", s.table, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.insertSQL())
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err = stmt.ExecContext(ctx, r.Name, r.Income, r.Debt, r.CreditScore, r.HistoricalRisk, r.RecentTransactions); err != nil {
			return fmt.Errorf("insert %q: %w", r.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
