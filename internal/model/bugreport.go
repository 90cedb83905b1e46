package model

import "time"

// BugSeverity ranks the impact of a reported bug.
type BugSeverity string

const (
	SeverityLow      BugSeverity = "low"
	SeverityMedium   BugSeverity = "medium"
	SeverityHigh     BugSeverity = "high"
	SeverityCritical BugSeverity = "critical"
)

// String returns the string representation of the severity.
func (s BugSeverity) String() string {
	return string(s)
}

// IsValid checks whether the severity is a known value.
func (s BugSeverity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// BugStatus tracks a bug report through its lifecycle.
type BugStatus string

const (
	BugOpen       BugStatus = "open"
	BugInProgress BugStatus = "in_progress"
	BugResolved   BugStatus = "resolved"
	BugClosed     BugStatus = "closed"
	BugDuplicate  BugStatus = "duplicate"
)

// String returns the string representation of the status.
func (s BugStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s BugStatus) IsValid() bool {
	switch s {
	case BugOpen, BugInProgress, BugResolved, BugClosed, BugDuplicate:
		return true
	}
	return false
}

// BugReport is a user-filed defect report, optionally tied to a project.
type BugReport struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	StepsToReproduce string      `json:"steps_to_reproduce,omitempty"`
	ExpectedBehavior string      `json:"expected_behavior,omitempty"`
	ActualBehavior   string      `json:"actual_behavior,omitempty"`
	Severity         BugSeverity `json:"severity"`
	Status           BugStatus   `json:"status"`
	Browser          string      `json:"browser,omitempty"`
	OperatingSystem  string      `json:"operating_system,omitempty"`
	ScreenshotURL    string      `json:"screenshot_url,omitempty"`
	Tags             []string    `json:"tags,omitempty"`
	ProjectID        string      `json:"project_id,omitempty"`
	PageURL          string      `json:"page_url,omitempty"`
	ReportedBy       string      `json:"reported_by,omitempty"`
	AssignedTo       string      `json:"assigned_to,omitempty"`
	Resolution       string      `json:"resolution,omitempty"`
	ResolvedAt       *time.Time  `json:"resolved_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// BugReportFilter narrows ListBugReports results.
type BugReportFilter struct {
	Status    BugStatus
	Severity  BugSeverity
	ProjectID string
}

// BugReportStats aggregates report counts by status and severity.
type BugReportStats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	BySeverity map[string]int `json:"by_severity"`
}
