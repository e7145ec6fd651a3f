package dataset

import (
	"context"
	"database/sql"

	"credit-risk-workers/internal/common/config"
	apperrors "credit-risk-workers/internal/common/errors"
)

// Load builds the snapshot from the configured source. db is only used for the postgres
// source and may be nil otherwise.
func Load(ctx context.Context, cfg config.DatasetConfig, db *sql.DB) (*Snapshot, error) {
	switch cfg.Source {
	case config.DatasetSourcePostgres:
		if db == nil {
			return nil, apperrors.NewInvalidConfigError("dataset.source is postgres but no database is configured")
		}
		records, err := NewPostgresSource(db, cfg.Table).Load(ctx)
		if err != nil {
			return nil, apperrors.NewDatasetLoadFailedError("postgres:"+cfg.Table, err)
		}
		return NewSnapshot(records, "postgres:"+cfg.Table), nil

	case config.DatasetSourceCSV, "":
		records, err := LoadCSVFile(cfg.Path)
		if err != nil {
			return nil, apperrors.NewDatasetLoadFailedError(cfg.Path, err)
		}
		return NewSnapshot(records, cfg.Path), nil

	default:
		return nil, apperrors.NewInvalidConfigError("unsupported dataset.source " + cfg.Source)
	}
}
