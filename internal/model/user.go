package model

import "time"

// Plan is a user's subscription tier.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPro     Plan = "pro"
	PlanCompany Plan = "company"
)

// String returns the string representation of the plan.
func (p Plan) String() string {
	return string(p)
}

// IsValid checks whether the plan is a known value.
func (p Plan) IsValid() bool {
	switch p {
	case PlanFree, PlanPro, PlanCompany:
		return true
	}
	return false
}

// User is a workspace account. The ID is the subject assigned by the external
// identity provider; accounts are upserted from its webhook, never minted here.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Plan      Plan      `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}

// UserStats summarizes a user's footprint across the workspace.
type UserStats struct {
	Projects   int `json:"projects"`
	Records    int `json:"records"`
	BugReports int `json:"bug_reports"`
}
