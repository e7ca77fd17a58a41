package transport

import "github.com/ganot/project-sentry/internal/domain/project"

// HealthStatus is the response of GET /health.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp project.Timestamp `json:"timestamp"`
	Database  string            `json:"database"`
}

// Dashboard is the response of GET /dashboard.
type Dashboard struct {
	Summary           Summary         `json:"summary"`
	RecentProjects    []RecentProject `json:"recent_projects"`
	RecentActivity    []Activity      `json:"recent_activity"`
	HealthTrend       []TrendPoint    `json:"health_trend"`
	IssueDistribution []IssueShare    `json:"issue_distribution"`
}

type Summary struct {
	TotalProjects       int     `json:"total_projects"`
	CompletedProjects   int     `json:"completed_projects"`
	AverageHealthScore  float64 `json:"average_health_score"`
	TotalIssuesResolved int     `json:"total_issues_resolved"`
}

type RecentProject struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	HealthScore float64           `json:"health_score"`
	Status      project.Status    `json:"status"`
	UploadDate  project.Timestamp `json:"upload_date"`
}

type Activity struct {
	ID        string            `json:"id"`
	Timestamp project.Timestamp `json:"timestamp"`
	User      string            `json:"user"`
	Action    string            `json:"action"`
	Type      string            `json:"type"`
	Project   string            `json:"project"`
}

// TrendPoint is one day of the health trend. Date is YYYY-MM-DD.
type TrendPoint struct {
	Date     string  `json:"date"`
	Score    float64 `json:"score"`
	Projects int     `json:"projects"`
}

type IssueShare struct {
	Type       string           `json:"type"`
	Count      int              `json:"count"`
	Severity   project.Severity `json:"severity"`
	Percentage float64          `json:"percentage"`
}

// Issue is one entry of GET /issues/{projectId}.
type Issue struct {
	ID          string            `json:"id"`
	ProjectID   string            `json:"project_id"`
	Type        string            `json:"type"`
	Severity    project.Severity  `json:"severity"`
	Description string            `json:"description"`
	ElementID   string            `json:"element_id"`
	ElementType string            `json:"element_type"`
	Status      string            `json:"status"`
	AssignedTo  string            `json:"assigned_to"`
	Priority    string            `json:"priority"`
	CreatedDate project.Timestamp `json:"created_date"`
	Location    Location          `json:"location"`
	Details     string            `json:"details"`
	Comments    []Comment         `json:"comments"`
}

type Location struct {
	Story       string      `json:"story"`
	Coordinates Coordinates `json:"coordinates"`
}

type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Comment struct {
	User      string            `json:"user"`
	Timestamp project.Timestamp `json:"timestamp"`
	Message   string            `json:"message"`
}
