package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"monthend_portal/pkg/core/report"
	"monthend_portal/pkg/models"
)

// fakeRepo records calls in memory.
type fakeRepo struct {
	created  *models.Report
	failed   string
	sections []models.SectionRecord
	complete bool
}

func (f *fakeRepo) Create(_ context.Context, rpt *models.Report) error {
	rpt.ID = "r-1"
	f.created = rpt
	return nil
}
func (f *fakeRepo) MarkFailed(_ context.Context, _ string, message string) error {
	f.failed = message
	return nil
}
func (f *fakeRepo) Complete(_ context.Context, _ string, sections []models.SectionRecord) error {
	f.sections = sections
	f.complete = true
	return nil
}
func (f *fakeRepo) GetReport(context.Context, string, string) (*models.Report, error) {
	return f.created, nil
}
func (f *fakeRepo) ListReports(context.Context, string) ([]models.Report, error) { return nil, nil }
func (f *fakeRepo) ListSections(context.Context, string, string) ([]models.SectionRecord, error) {
	return f.sections, nil
}
func (f *fakeRepo) Delete(context.Context, string, string) error { return nil }

// fakeGenerator returns a canned document and remembers the payload.
type fakeGenerator struct {
	document string
	payload  string
	calls    int
	err      error
}

func (g *fakeGenerator) Generate(_ context.Context, payload string) (string, error) {
	g.calls++
	g.payload = payload
	if g.err != nil {
		return "", g.err
	}
	return g.document, nil
}

func workbookBytes(t *testing.T, tabs ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, name := range tabs {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		f.SetCellValue(name, "A1", "Line Item")
		f.SetCellValue(name, "B1", "Actual")
		f.SetCellValue(name, "A2", "Revenue")
		f.SetCellValue(name, "B2", "120,000")
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestRunForUploadSuccess(t *testing.T) {
	doc := "```markdown\n" + strings.Join([]string{
		"## 2. Revenue Performance",
		"Revenue grew nicely.",
		"### Key Takeaways",
		"- Good month.",
		"## 1. Executive Snapshot",
		"Everything is fine.",
	}, "\n") + "\n```"

	gen := &fakeGenerator{document: doc}
	repo := &fakeRepo{}
	orc := NewOrchestrator(gen, repo)

	rpt, err := orc.RunForUpload(context.Background(), "t-1", "Acme Corp", "June 2026",
		workbookBytes(t, "Income Statement", "Balance Sheet"))
	if err != nil {
		t.Fatalf("RunForUpload() error = %v", err)
	}
	if rpt.Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed", rpt.Status)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want exactly 1", gen.calls)
	}

	// The payload carries the contract markers.
	for _, want := range []string{"CLIENT: Acme Corp", "PERIOD: June 2026", "### SHEET: PL - RAW", "### SHEET: BS - RAW"} {
		if !strings.Contains(gen.payload, want) {
			t.Errorf("payload missing %q", want)
		}
	}

	if !repo.complete || len(repo.sections) != 2 {
		t.Fatalf("persisted %d sections, want 2", len(repo.sections))
	}
	// Canonical order, not document order.
	if repo.sections[0].Key != report.SectionExecutiveSnapshot || repo.sections[1].Key != report.SectionRevenuePerformance {
		t.Errorf("section order = %q, %q", repo.sections[0].Key, repo.sections[1].Key)
	}
	if len(repo.sections[1].Takeaways) != 1 {
		t.Errorf("revenue takeaways = %v, want 1 item", repo.sections[1].Takeaways)
	}
}

func TestRunForUploadMissingSheetFailsFast(t *testing.T) {
	gen := &fakeGenerator{document: "## Executive Snapshot\nnope"}
	repo := &fakeRepo{}
	orc := NewOrchestrator(gen, repo)

	// Income statement present under a known alias, balance sheet absent.
	rpt, err := orc.RunForUpload(context.Background(), "t-1", "Acme Corp", "June 2026",
		workbookBytes(t, "Income Statement"))
	if err == nil {
		t.Fatal("expected error for missing balance sheet")
	}
	if rpt.Status != models.StatusFailed {
		t.Errorf("status = %q, want failed", rpt.Status)
	}
	if !strings.Contains(repo.failed, "BS - RAW") {
		t.Errorf("failure message = %q, want the missing canonical name", repo.failed)
	}
	if gen.calls != 0 {
		t.Error("generation called despite incomplete payload (must fail fast)")
	}
	if repo.complete {
		t.Error("sections persisted for a failed report")
	}
}

func TestRunForUploadUnreadableWorkbook(t *testing.T) {
	gen := &fakeGenerator{}
	repo := &fakeRepo{}
	orc := NewOrchestrator(gen, repo)

	_, err := orc.RunForUpload(context.Background(), "t-1", "Acme", "June 2026", []byte("garbage"))
	if err == nil {
		t.Fatal("expected error for unreadable workbook")
	}
	if !strings.Contains(repo.failed, "could not be read") {
		t.Errorf("failure message = %q, want structural failure wording", repo.failed)
	}
	if gen.calls != 0 {
		t.Error("generation called for unreadable workbook")
	}
}

func TestRunForUploadGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	repo := &fakeRepo{}
	orc := NewOrchestrator(gen, repo)

	rpt, err := orc.RunForUpload(context.Background(), "t-1", "Acme", "June 2026",
		workbookBytes(t, "PL - RAW", "BS - RAW"))
	if err == nil {
		t.Fatal("expected error when generation fails")
	}
	if rpt.Status != models.StatusFailed || repo.complete {
		t.Errorf("failed generation must not persist sections: %+v", rpt)
	}
}

func TestRunForUploadFallbackSection(t *testing.T) {
	gen := &fakeGenerator{document: "No headings here, just a wall of analysis text."}
	repo := &fakeRepo{}
	orc := NewOrchestrator(gen, repo)

	_, err := orc.RunForUpload(context.Background(), "t-1", "Acme", "June 2026",
		workbookBytes(t, "PL - RAW", "BS - RAW"))
	if err != nil {
		t.Fatalf("RunForUpload() error = %v", err)
	}
	if len(repo.sections) != 1 || repo.sections[0].Key != report.SectionFullReport {
		t.Errorf("sections = %+v, want single full_report fallback", repo.sections)
	}
}
