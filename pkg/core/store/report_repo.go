package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"monthend_portal/pkg/models"
)

// ErrNotFound is returned when a report does not exist or belongs to a
// different tenant. Callers must not be able to tell the two apart.
var ErrNotFound = errors.New("report not found")

// ReportRepository is the persistence contract used by the pipeline and the
// API handlers. The pipeline tests inject an in-memory fake.
type ReportRepository interface {
	Create(ctx context.Context, rpt *models.Report) error
	MarkFailed(ctx context.Context, reportID string, message string) error
	Complete(ctx context.Context, reportID string, sections []models.SectionRecord) error
	GetReport(ctx context.Context, tenantID, reportID string) (*models.Report, error)
	ListReports(ctx context.Context, tenantID string) ([]models.Report, error)
	ListSections(ctx context.Context, tenantID, reportID string) ([]models.SectionRecord, error)
	Delete(ctx context.Context, tenantID, reportID string) error
}

// ReportRepo is the pgx-backed implementation.
//
// Schema (managed by migrations elsewhere):
//
//	CREATE TABLE reports (
//	  id UUID PRIMARY KEY,
//	  tenant_id TEXT NOT NULL,
//	  tenant_name TEXT NOT NULL,
//	  period_label TEXT NOT NULL,
//	  status TEXT NOT NULL,
//	  failure_message TEXT,
//	  created_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE report_sections (
//	  id UUID PRIMARY KEY,
//	  report_id UUID NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
//	  section_key TEXT NOT NULL,
//	  display_name TEXT NOT NULL,
//	  sort_order INT NOT NULL,
//	  narrative TEXT NOT NULL,
//	  insights JSONB NOT NULL,
//	  takeaways JSONB NOT NULL,
//	  questions JSONB NOT NULL
//	);
type ReportRepo struct{}

// NewReportRepo creates a new repository instance.
func NewReportRepo() *ReportRepo {
	return &ReportRepo{}
}

var _ ReportRepository = (*ReportRepo)(nil)

func (r *ReportRepo) Create(ctx context.Context, rpt *models.Report) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	if rpt.ID == "" {
		rpt.ID = uuid.NewString()
	}
	if rpt.CreatedAt.IsZero() {
		rpt.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO reports (id, tenant_id, tenant_name, period_label, status, failure_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := pool.Exec(ctx, query, rpt.ID, rpt.TenantID, rpt.TenantName, rpt.PeriodLabel, rpt.Status, rpt.FailureMessage, rpt.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *ReportRepo) MarkFailed(ctx context.Context, reportID string, message string) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	_, err := pool.Exec(ctx,
		`UPDATE reports SET status = $2, failure_message = $3 WHERE id = $1`,
		reportID, models.StatusFailed, message)
	if err != nil {
		return fmt.Errorf("failed to mark report failed: %w", err)
	}
	return nil
}

// Complete writes all sections and flips the report to completed in one
// transaction: a report is never left with partial sections.
func (r *ReportRepo) Complete(ctx context.Context, reportID string, sections []models.SectionRecord) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, sec := range sections {
		if sec.ID == "" {
			sec.ID = uuid.NewString()
		}
		insights, _ := json.Marshal(emptyIfNil(sec.Insights))
		takeaways, _ := json.Marshal(emptyIfNil(sec.Takeaways))
		questions, _ := json.Marshal(emptyIfNil(sec.Questions))

		_, err = tx.Exec(ctx, `
			INSERT INTO report_sections
				(id, report_id, section_key, display_name, sort_order, narrative, insights, takeaways, questions)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`, sec.ID, reportID, sec.Key, sec.DisplayName, sec.SortOrder, sec.Narrative, insights, takeaways, questions)
		if err != nil {
			return fmt.Errorf("failed to insert section %q: %w", sec.Key, err)
		}
	}

	_, err = tx.Exec(ctx, `UPDATE reports SET status = $2 WHERE id = $1`, reportID, models.StatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to complete report: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *ReportRepo) GetReport(ctx context.Context, tenantID, reportID string) (*models.Report, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var rpt models.Report
	err := pool.QueryRow(ctx, `
		SELECT id, tenant_id, tenant_name, period_label, status, COALESCE(failure_message, ''), created_at
		FROM reports WHERE id = $1 AND tenant_id = $2
	`, reportID, tenantID).Scan(&rpt.ID, &rpt.TenantID, &rpt.TenantName, &rpt.PeriodLabel, &rpt.Status, &rpt.FailureMessage, &rpt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return &rpt, nil
}

func (r *ReportRepo) ListReports(ctx context.Context, tenantID string) ([]models.Report, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `
		SELECT id, tenant_id, tenant_name, period_label, status, COALESCE(failure_message, ''), created_at
		FROM reports WHERE tenant_id = $1 ORDER BY created_at DESC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var rpt models.Report
		if err := rows.Scan(&rpt.ID, &rpt.TenantID, &rpt.TenantName, &rpt.PeriodLabel, &rpt.Status, &rpt.FailureMessage, &rpt.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, rpt)
	}
	return reports, rows.Err()
}

// ListSections returns a report's sections in canonical sort order. The
// tenant scope check rides on the join so a foreign report reads as absent.
func (r *ReportRepo) ListSections(ctx context.Context, tenantID, reportID string) ([]models.SectionRecord, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `
		SELECT s.id, s.report_id, s.section_key, s.display_name, s.sort_order,
		       s.narrative, s.insights, s.takeaways, s.questions
		FROM report_sections s
		JOIN reports r ON r.id = s.report_id
		WHERE s.report_id = $1 AND r.tenant_id = $2
		ORDER BY s.sort_order ASC
	`, reportID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	var sections []models.SectionRecord
	for rows.Next() {
		var sec models.SectionRecord
		var insights, takeaways, questions []byte
		if err := rows.Scan(&sec.ID, &sec.ReportID, &sec.Key, &sec.DisplayName, &sec.SortOrder,
			&sec.Narrative, &insights, &takeaways, &questions); err != nil {
			return nil, err
		}
		json.Unmarshal(insights, &sec.Insights)
		json.Unmarshal(takeaways, &sec.Takeaways)
		json.Unmarshal(questions, &sec.Questions)
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

func (r *ReportRepo) Delete(ctx context.Context, tenantID, reportID string) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	tag, err := pool.Exec(ctx, `DELETE FROM reports WHERE id = $1 AND tenant_id = $2`, reportID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
