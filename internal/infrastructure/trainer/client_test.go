package trainer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"SalaryPrep/internal/domain"
	"SalaryPrep/internal/prep"
)

func artifacts(t *testing.T) *prep.Artifacts {
	t.Helper()

	art, err := prep.Prepare([]domain.Record{
		{WorkYear: 2021, JobTitle: "A", ExperienceLevel: "SE", CompanySize: "L", CompanyLocation: "US", RemoteRatio: 100, SalaryInUSD: 100},
		{WorkYear: 2022, JobTitle: "B", ExperienceLevel: "MI", CompanySize: "S", CompanyLocation: "US", RemoteRatio: 0, SalaryInUSD: 150},
	}, prep.DefaultOptions(42))
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	return art
}

func TestClientPublish(t *testing.T) {
	t.Parallel()

	var got Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/datasets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("unexpected authorization %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "secret")
	run := domain.Run{ID: "run-1", Source: "test"}
	if err := client.Publish(context.Background(), run, artifacts(t)); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	if got.RunID != "run-1" || got.JobTitleCount != 2 || len(got.Rows) != 2 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.Rows[0].Salary != -1 || got.Rows[0].CompanySizeScore != 3 || !got.Rows[0].Remote {
		t.Fatalf("unexpected first row: %+v", got.Rows[0])
	}
}

func TestClientPublishError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "schema mismatch", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	err := NewClient(server.URL, "").Publish(context.Background(), domain.Run{}, artifacts(t))
	if err == nil || !strings.Contains(err.Error(), "schema mismatch") {
		t.Fatalf("expected trainer error, got %v", err)
	}
}
