package trainer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"SalaryPrep/internal/domain"
	"SalaryPrep/internal/ports"
	"SalaryPrep/internal/prep"
)

// Client hands prepared feature rows to an external training service.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.ArtifactPublisher = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Row is one feature row of the published dataset.
type Row struct {
	Salary           float64 `json:"salary_standardized"`
	JobTitleIndex    int     `json:"job_title_index"`
	ExperienceLabel  int     `json:"experience_label"`
	CompanySizeScore int     `json:"company_size_score"`
	Remote           bool    `json:"remote"`
	Split            string  `json:"split"`
}

// Payload is the body posted to the training service.
type Payload struct {
	RunID          string  `json:"run_id"`
	Source         string  `json:"source"`
	SalaryMean     float64 `json:"salary_mean"`
	SalaryStdDev   float64 `json:"salary_std_dev"`
	JobTitleCount  int     `json:"job_title_count"`
	ExperienceSize int     `json:"experience_level_count"`
	Rows           []Row   `json:"rows"`
}

// BuildPayload flattens artifacts into feature rows.
func BuildPayload(run domain.Run, art *prep.Artifacts) Payload {
	labels := art.SplitLabels()
	rows := make([]Row, len(art.Records))
	for i, r := range art.Records {
		titleIdx, _ := art.JobTitles.Index(r.JobTitle)
		rows[i] = Row{
			Salary:           art.StandardizedSalary[i],
			JobTitleIndex:    titleIdx,
			ExperienceLabel:  art.ExperienceLabels[i],
			CompanySizeScore: art.CompanySizeScores[i],
			Remote:           art.RemoteIndicators[i],
			Split:            string(labels[i]),
		}
	}
	return Payload{
		RunID:          run.ID,
		Source:         run.Source,
		SalaryMean:     art.Salary.Mean,
		SalaryStdDev:   art.Salary.StdDev,
		JobTitleCount:  art.JobTitles.Len(),
		ExperienceSize: len(art.ExperienceMapping),
		Rows:           rows,
	}
}

// Publish posts the prepared rows of a run to the /datasets endpoint.
func (c *Client) Publish(ctx context.Context, run domain.Run, art *prep.Artifacts) error {
	if c.endpoint == "" {
		return fmt.Errorf("trainer client misconfigured")
	}
	return c.post(ctx, "/datasets", BuildPayload(run, art))
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("trainer error %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}
