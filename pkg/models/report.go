// Package models holds the shared persistence-facing record types.
package models

import (
	"time"

	"monthend_portal/pkg/core/report"
)

// ReportStatus tracks a report through its generation lifecycle.
type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusGenerating ReportStatus = "generating"
	StatusCompleted  ReportStatus = "completed"
	StatusFailed     ReportStatus = "failed"
)

// Report is one month-end review document owned by a tenant.
type Report struct {
	ID             string       `json:"id"`
	TenantID       string       `json:"tenant_id"`
	TenantName     string       `json:"tenant_name"`
	PeriodLabel    string       `json:"period_label"` // e.g. "June 2026"
	Status         ReportStatus `json:"status"`
	FailureMessage string       `json:"failure_message,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// SectionRecord is one persisted report section: the parsed narrative plus
// its extracted special blocks. Immutable once written; deleted only with
// the owning report.
type SectionRecord struct {
	ID          string            `json:"id"`
	ReportID    string            `json:"report_id"`
	Key         report.SectionKey `json:"key"`
	DisplayName string            `json:"display_name"`
	SortOrder   int               `json:"sort_order"`
	Narrative   string            `json:"narrative"`
	Insights    []string          `json:"insights"`
	Takeaways   []string          `json:"takeaways"`
	Questions   []string          `json:"questions"`
}
