package project

import (
	"encoding/json"
	"math"
	"strings"
)

// Status is the processing state of an ingested model file.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusCompleted  Status = "Completed"
	StatusError      Status = "Error"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusError:
		return true
	default:
		return false
	}
}

// ParseStatus maps a status string onto a known Status, case-insensitively.
// Unknown values map to StatusPending.
func ParseStatus(raw string) Status {
	for _, s := range []Status{StatusPending, StatusProcessing, StatusCompleted, StatusError} {
		if strings.EqualFold(raw, string(s)) {
			return s
		}
	}
	return StatusPending
}

// Severity classifies an issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// IssueCounts tallies issues by severity.
type IssueCounts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

// Total returns the sum of all severities.
func (c IssueCounts) Total() int {
	return c.Critical + c.Warning + c.Info
}

// Count returns the tally for one severity. Unknown severities count as info.
func (c IssueCounts) Count(sev Severity) int {
	switch sev {
	case SeverityCritical:
		return c.Critical
	case SeverityWarning:
		return c.Warning
	default:
		return c.Info
	}
}

// Project is one ingested model file and its computed quality snapshot.
type Project struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Filename          string      `json:"filename"`
	FileSize          string      `json:"file_size"`
	UploadDate        Timestamp   `json:"upload_date"`
	HealthScore       int         `json:"health_score"`
	Status            Status      `json:"status"`
	TotalElements     int         `json:"total_elements"`
	ValidatedElements int         `json:"validated_elements"`
	Issues            IssueCounts `json:"issues"`
}

// UnmarshalJSON accepts a fractional health_score, which the backend emits
// when a rounded REAL lands in its INTEGER column, and rounds it half away
// from zero. Normalize clamps the result.
func (p *Project) UnmarshalJSON(data []byte) error {
	type plain Project
	aux := struct {
		*plain
		HealthScore *float64 `json:"health_score"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.HealthScore != nil {
		p.HealthScore = int(math.Round(min(max(*aux.HealthScore, -1), 101)))
	}
	return nil
}

// Band returns the health band for the project's score.
func (p Project) Band() Band {
	return HealthBand(p.HealthScore)
}

// ValidationPercent is the share of validated elements, rounded.
func (p Project) ValidationPercent() int {
	return CalculatePercentage(p.ValidatedElements, p.TotalElements)
}

// ValidationResult is one rule outcome attached to a project detail response.
type ValidationResult struct {
	RuleName    string    `json:"rule_name"`
	Status      string    `json:"status"`
	IssuesCount int       `json:"issues_count"`
	Description string    `json:"description"`
	CreatedDate Timestamp `json:"created_date"`
}

// Detail is a project together with its validation results.
type Detail struct {
	Project
	ValidationResults []ValidationResult `json:"validation_results"`
}

// UnmarshalJSON decodes the embedded Project and the results separately;
// otherwise the promoted Project.UnmarshalJSON would drop the results.
func (d *Detail) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &d.Project); err != nil {
		return err
	}
	var aux struct {
		ValidationResults []ValidationResult `json:"validation_results"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.ValidationResults = aux.ValidationResults
	return nil
}

// UploadReceipt is the envelope returned after an upload.
type UploadReceipt struct {
	Message   string `json:"message"`
	ProjectID string `json:"project_id"`
	Filename  string `json:"filename,omitempty"`
	FileSize  int64  `json:"file_size,omitempty"`
	Status    string `json:"status,omitempty"`
}
