package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"SalaryPrep/internal/domain"
	"SalaryPrep/internal/ports"
	"SalaryPrep/internal/prep"
)

const (
	runsTable       = "prep_runs"
	recordsTable    = "prepared_records"
	defaultBatchRow = 500
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var recordColumns = []string{
	"run_id", "row_idx",
	"work_year", "job_title", "experience_level", "company_size", "company_location",
	"remote_ratio", "salary_in_usd",
	"salary_standardized", "job_title_index", "experience_label",
	"company_size_score", "remote", "split",
}

// PostgresStore persists prepared rows and split assignments into Postgres.
//
// Expected schema:
//
//	CREATE TABLE prep_runs (
//	    run_id          UUID PRIMARY KEY,
//	    source          TEXT NOT NULL,
//	    started_at      TIMESTAMPTZ NOT NULL,
//	    record_count    INT NOT NULL,
//	    dropped_missing INT NOT NULL,
//	    imputed_missing INT NOT NULL,
//	    salary_mean     DOUBLE PRECISION NOT NULL,
//	    salary_std_dev  DOUBLE PRECISION NOT NULL,
//	    train_idxs      BIGINT[] NOT NULL,
//	    test_idxs       BIGINT[] NOT NULL
//	);
//	CREATE TABLE prepared_records (
//	    run_id              UUID REFERENCES prep_runs(run_id),
//	    row_idx             INT NOT NULL,
//	    work_year           INT NOT NULL,
//	    job_title           TEXT NOT NULL,
//	    experience_level    TEXT NOT NULL,
//	    company_size        TEXT NOT NULL,
//	    company_location    TEXT NOT NULL,
//	    remote_ratio        INT NOT NULL,
//	    salary_in_usd       DOUBLE PRECISION NOT NULL,
//	    salary_standardized DOUBLE PRECISION NOT NULL,
//	    job_title_index     INT NOT NULL,
//	    experience_label    INT NOT NULL,
//	    company_size_score  INT NOT NULL,
//	    remote              BOOLEAN NOT NULL,
//	    split               TEXT NOT NULL,
//	    PRIMARY KEY (run_id, row_idx)
//	);
type PostgresStore struct {
	db        *sql.DB
	batchRows int
}

var _ ports.ArtifactStore = (*PostgresStore)(nil)

// Open connects to Postgres through the lib/pq driver and verifies the
// connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, batchRows: defaultBatchRow}
}

// SaveRun writes the run header and every prepared row in one transaction.
func (s *PostgresStore) SaveRun(ctx context.Context, run domain.Run, art *prep.Artifacts) error {
	if s.db == nil {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := s.save(ctx, tx, run, art); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) save(ctx context.Context, tx *sql.Tx, run domain.Run, art *prep.Artifacts) error {
	query, args, err := runInsert(run, art).ToSql()
	if err != nil {
		return fmt.Errorf("build run insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, insert := range recordInserts(run, art, s.batchRows) {
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build records insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert records: %w", err)
		}
	}
	return nil
}

func runInsert(run domain.Run, art *prep.Artifacts) sq.InsertBuilder {
	return psql.Insert(runsTable).
		Columns(
			"run_id", "source", "started_at", "record_count",
			"dropped_missing", "imputed_missing",
			"salary_mean", "salary_std_dev",
			"train_idxs", "test_idxs",
		).
		Values(
			run.ID, run.Source, run.StartedAt.UTC(), len(art.Records),
			art.Missing.Dropped, art.Missing.Imputed,
			art.Salary.Mean, art.Salary.StdDev,
			toInt64Array(art.Split.Train), toInt64Array(art.Split.Test),
		)
}

// recordInserts chunks the prepared rows into multi-row INSERT statements.
func recordInserts(run domain.Run, art *prep.Artifacts, batchRows int) []sq.InsertBuilder {
	if batchRows < 1 {
		batchRows = defaultBatchRow
	}
	labels := art.SplitLabels()

	var inserts []sq.InsertBuilder
	for start := 0; start < len(art.Records); start += batchRows {
		end := min(start+batchRows, len(art.Records))
		insert := psql.Insert(recordsTable).Columns(recordColumns...)
		for i := start; i < end; i++ {
			r := art.Records[i]
			titleIdx, _ := art.JobTitles.Index(r.JobTitle)
			insert = insert.Values(
				run.ID, i,
				r.WorkYear, r.JobTitle, r.ExperienceLevel, r.CompanySize, r.CompanyLocation,
				r.RemoteRatio, r.SalaryInUSD,
				art.StandardizedSalary[i], titleIdx, art.ExperienceLabels[i],
				art.CompanySizeScores[i], art.RemoteIndicators[i], string(labels[i]),
			)
		}
		inserts = append(inserts, insert)
	}
	return inserts
}

func toInt64Array(idxs []int) pq.Int64Array {
	out := make(pq.Int64Array, len(idxs))
	for i, v := range idxs {
		out[i] = int64(v)
	}
	return out
}
