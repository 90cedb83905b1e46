package model

import (
	"encoding/json"
	"time"
)

// ContentType identifies which site surface a content blob renders.
type ContentType string

const (
	ContentPricing     ContentType = "pricing"
	ContentNavbar      ContentType = "navbar"
	ContentHero        ContentType = "hero"
	ContentRules       ContentType = "rules"
	ContentRegulations ContentType = "regulations"
	ContentFooter      ContentType = "footer"
	ContentTerms       ContentType = "terms"
	ContentPrivacy     ContentType = "privacy"
)

// String returns the string representation of the content type.
func (t ContentType) String() string {
	return string(t)
}

// IsValid checks whether the content type is a known value.
func (t ContentType) IsValid() bool {
	switch t {
	case ContentPricing, ContentNavbar, ContentHero, ContentRules,
		ContentRegulations, ContentFooter, ContentTerms, ContentPrivacy:
		return true
	}
	return false
}

// ContentStatus is the publishing state of a content entry.
type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentPublished ContentStatus = "published"
	ContentArchived  ContentStatus = "archived"
)

// String returns the string representation of the content status.
func (s ContentStatus) String() string {
	return string(s)
}

// IsValid checks whether the content status is a known value.
func (s ContentStatus) IsValid() bool {
	switch s {
	case ContentDraft, ContentPublished, ContentArchived:
		return true
	}
	return false
}

// Content is a versioned, publishable page fragment (pricing table, hero
// section, legal text). Body is an opaque JSON blob whose shape depends on
// Type; the frontend owns its interpretation.
type Content struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Type        ContentType     `json:"type"`
	Body        json.RawMessage `json:"content"`
	Status      ContentStatus   `json:"status"`
	Version     string          `json:"version,omitempty"`
	IsActive    bool            `json:"is_active"`
	Language    string          `json:"language"`
	Tags        []string        `json:"tags,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
	PublishedBy string          `json:"published_by,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ContentFilter narrows ListContent results.
type ContentFilter struct {
	Type     ContentType
	Status   ContentStatus
	Language string
	IsActive *bool
}

// ContentStats aggregates content counts by type and status.
type ContentStats struct {
	Total    int            `json:"total"`
	ByType   map[string]int `json:"by_type"`
	ByStatus map[string]int `json:"by_status"`
}
