package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"

	"SalaryPrep/internal/domain"
	"SalaryPrep/internal/prep"
)

func prepared(t *testing.T) *prep.Artifacts {
	t.Helper()

	records := []domain.Record{
		{WorkYear: 2021, JobTitle: "A", ExperienceLevel: "SE", CompanySize: "L", CompanyLocation: "US", RemoteRatio: 100, SalaryInUSD: 100},
		{WorkYear: 2022, JobTitle: "B", ExperienceLevel: "MI", CompanySize: "S", CompanyLocation: "US", RemoteRatio: 0, SalaryInUSD: 150},
		{WorkYear: 2022, JobTitle: "C", ExperienceLevel: "EN", CompanySize: "M", CompanyLocation: "GB", RemoteRatio: 50, SalaryInUSD: 90},
	}
	art, err := prep.Prepare(records, prep.DefaultOptions(42))
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	return art
}

func TestRunInsert(t *testing.T) {
	t.Parallel()

	art := prepared(t)
	run := domain.Run{ID: "7b0c", Source: "ds_salaries", StartedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}

	query, args, err := runInsert(run, art).ToSql()
	if err != nil {
		t.Fatalf("ToSql returned error: %v", err)
	}
	if !strings.HasPrefix(query, "INSERT INTO prep_runs ") {
		t.Fatalf("unexpected query: %s", query)
	}
	if !strings.Contains(query, "$10") {
		t.Fatalf("expected dollar placeholders, got %s", query)
	}
	if len(args) != 10 {
		t.Fatalf("expected 10 args, got %d", len(args))
	}
	if args[0] != "7b0c" || args[3] != 3 {
		t.Fatalf("unexpected args: %v", args)
	}
	train, ok := args[8].(pq.Int64Array)
	if !ok {
		t.Fatalf("expected pq.Int64Array for train_idxs, got %T", args[8])
	}
	if len(train) != len(art.Split.Train) {
		t.Fatalf("expected %d train indexes, got %d", len(art.Split.Train), len(train))
	}
}

func TestRecordInsertsBatches(t *testing.T) {
	t.Parallel()

	art := prepared(t)
	run := domain.Run{ID: "7b0c"}

	inserts := recordInserts(run, art, 2)
	if len(inserts) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(inserts))
	}

	query, args, err := inserts[0].ToSql()
	if err != nil {
		t.Fatalf("ToSql returned error: %v", err)
	}
	if !strings.HasPrefix(query, "INSERT INTO prepared_records ") {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2*len(recordColumns) {
		t.Fatalf("expected %d args, got %d", 2*len(recordColumns), len(args))
	}
	if args[1] != 0 || args[3] != "A" || args[4] != "se" {
		t.Fatalf("unexpected first row args: %v", args[:len(recordColumns)])
	}
	split := args[len(recordColumns)-1]
	if split != "train" && split != "test" {
		t.Fatalf("unexpected split label %v", split)
	}

	_, args, err = inserts[1].ToSql()
	if err != nil {
		t.Fatalf("ToSql returned error: %v", err)
	}
	if len(args) != len(recordColumns) {
		t.Fatalf("expected a single row in the last batch, got %d args", len(args))
	}
}

func TestSaveRunWithoutDatabase(t *testing.T) {
	t.Parallel()

	if err := NewPostgresStore(nil).SaveRun(context.Background(), domain.Run{}, prepared(t)); err != nil {
		t.Fatalf("expected nil error without database, got %v", err)
	}
}
