package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	corereport "monthend_portal/pkg/core/report"
	"monthend_portal/pkg/core/store"
	"monthend_portal/pkg/models"
)

// stubRepo serves canned data and records the tenant it was queried with.
type stubRepo struct {
	report      *models.Report
	sections    []models.SectionRecord
	queryTenant string
}

func (s *stubRepo) Create(context.Context, *models.Report) error          { return nil }
func (s *stubRepo) MarkFailed(context.Context, string, string) error      { return nil }
func (s *stubRepo) Complete(context.Context, string, []models.SectionRecord) error {
	return nil
}
func (s *stubRepo) GetReport(_ context.Context, tenantID, _ string) (*models.Report, error) {
	s.queryTenant = tenantID
	if s.report == nil {
		return nil, store.ErrNotFound
	}
	return s.report, nil
}
func (s *stubRepo) ListReports(_ context.Context, tenantID string) ([]models.Report, error) {
	s.queryTenant = tenantID
	if s.report == nil {
		return nil, nil
	}
	return []models.Report{*s.report}, nil
}
func (s *stubRepo) ListSections(_ context.Context, tenantID, _ string) ([]models.SectionRecord, error) {
	s.queryTenant = tenantID
	return s.sections, nil
}
func (s *stubRepo) Delete(_ context.Context, tenantID, _ string) error {
	s.queryTenant = tenantID
	if s.report == nil {
		return store.ErrNotFound
	}
	return nil
}

func sectionsRequest(tenant string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/report/sections?report_id=r-1", nil)
	if tenant != "" {
		req.Header.Set("X-Tenant-ID", tenant)
	}
	return req
}

func TestHandleSectionsRendersNarrativeAndTables(t *testing.T) {
	narrative := strings.Join([]string{
		"Expenses ran hot this month.",
		"",
		"| Line Item | Actual | Budget |",
		"|---|---|---|",
		"| Marketing | -$23.0K | $20.0K |",
		"| Total Expenses | $310.0K | $295.0K |",
		"",
		"**Key Takeaways:**",
		"Watch the marketing line.",
	}, "\n")

	repo := &stubRepo{sections: []models.SectionRecord{{
		ReportID:    "r-1",
		Key:         corereport.SectionOperatingExpenses,
		DisplayName: "Operating Expenses",
		SortOrder:   4,
		Narrative:   narrative,
		Takeaways:   []string{"Watch the marketing line."},
	}}}
	h := NewHandler(nil, repo)

	rr := httptest.NewRecorder()
	h.HandleSections(rr, sectionsRequest("t-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if repo.queryTenant != "t-1" {
		t.Errorf("repo queried with tenant %q, want t-1", repo.queryTenant)
	}

	var resp SectionsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.NoContent || len(resp.Sections) != 1 {
		t.Fatalf("sections = %d (no_content=%v), want 1", len(resp.Sections), resp.NoContent)
	}

	sec := resp.Sections[0]
	if len(sec.Tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(sec.Tables))
	}
	tbl := sec.Tables[0]
	if len(tbl.Rows) != 2 {
		t.Fatalf("table rows = %d, want 2", len(tbl.Rows))
	}
	// Negative reformatted to parentheses during render, not at persist time.
	if got := tbl.Rows[0].Cells[1].DisplayText; got != "($23.0K)" {
		t.Errorf("marketing actual = %q, want ($23.0K)", got)
	}
	if !tbl.Rows[1].IsTotal {
		t.Error("Total Expenses row not flagged as total")
	}

	for _, para := range sec.Paragraphs {
		if strings.Contains(strings.ToLower(para), "key takeaways") {
			t.Errorf("residual block heading leaked into paragraphs: %q", para)
		}
	}
	if len(sec.Paragraphs) == 0 || sec.Paragraphs[0] != "Expenses ran hot this month." {
		t.Errorf("paragraphs = %v", sec.Paragraphs)
	}
}

func TestHandleSectionsNoContent(t *testing.T) {
	h := NewHandler(nil, &stubRepo{})

	rr := httptest.NewRecorder()
	h.HandleSections(rr, sectionsRequest("t-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp SectionsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.NoContent {
		t.Error("no_content = false for a report with zero sections")
	}
	if resp.Sections == nil || len(resp.Sections) != 0 {
		t.Errorf("sections = %v, want empty array", resp.Sections)
	}
}

func TestHandleSectionsRequiresTenant(t *testing.T) {
	h := NewHandler(nil, &stubRepo{})

	rr := httptest.NewRecorder()
	h.HandleSections(rr, sectionsRequest(""))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestHandleGetNotFound(t *testing.T) {
	h := NewHandler(nil, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/report?report_id=missing", nil)
	req.Header.Set("X-Tenant-ID", "t-1")
	rr := httptest.NewRecorder()
	h.HandleGet(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestHandleGetDelete(t *testing.T) {
	repo := &stubRepo{report: &models.Report{ID: "r-1", TenantID: "t-1", Status: models.StatusCompleted}}
	h := NewHandler(nil, repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/report?report_id=r-1", nil)
	req.Header.Set("X-Tenant-ID", "t-1")
	rr := httptest.NewRecorder()
	h.HandleGet(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rr.Code)
	}
}
