// Package report exposes the portal's report endpoints: workbook upload,
// report status, and section rendering.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"monthend_portal/pkg/core/pipeline"
	"monthend_portal/pkg/core/render"
	corereport "monthend_portal/pkg/core/report"
	"monthend_portal/pkg/core/store"
	"monthend_portal/pkg/models"
)

// maxUploadBytes caps workbook uploads at 25 MB.
const maxUploadBytes = 25 << 20

// Handler wires the pipeline and the repository into HTTP endpoints.
type Handler struct {
	orchestrator *pipeline.Orchestrator
	repo         store.ReportRepository
}

// NewHandler creates a report handler.
func NewHandler(orc *pipeline.Orchestrator, repo store.ReportRepository) *Handler {
	return &Handler{orchestrator: orc, repo: repo}
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Tenant-ID")
}

// tenantID reads the authenticated tenant scope. Authentication itself is an
// external collaborator; by the time a request reaches this service the
// gateway has resolved the identity to a tenant header.
func tenantID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Tenant-ID"))
}

// HandleGenerate accepts a multipart workbook upload and runs the full
// pipeline. The request itself is the long-lived operation; the response
// carries the final report record (completed or failed).
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenant := tenantID(r)
	if tenant == "" {
		http.Error(w, "missing X-Tenant-ID", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart upload", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("workbook")
	if err != nil {
		http.Error(w, "missing workbook file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	workbookBytes, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	tenantName := r.FormValue("tenant_name")
	if tenantName == "" {
		tenantName = tenant
	}
	periodLabel := r.FormValue("period_label")
	if periodLabel == "" {
		http.Error(w, "missing period_label", http.StatusBadRequest)
		return
	}

	log.Printf("[Report] Upload from tenant %s, period %q, %d bytes", tenant, periodLabel, len(workbookBytes))

	rpt, runErr := h.orchestrator.RunForUpload(r.Context(), tenant, tenantName, periodLabel, workbookBytes)
	if runErr != nil {
		// The report record carries the failure; the client still gets it.
		writeJSON(w, http.StatusUnprocessableEntity, rpt)
		return
	}
	writeJSON(w, http.StatusOK, rpt)
}

// HandleList returns the tenant's reports, newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	tenant := tenantID(r)
	if tenant == "" {
		http.Error(w, "missing X-Tenant-ID", http.StatusUnauthorized)
		return
	}

	reports, err := h.repo.ListReports(r.Context(), tenant)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list reports: %v", err), http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

// HandleGet returns one report's status and metadata.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	tenant := tenantID(r)
	if tenant == "" {
		http.Error(w, "missing X-Tenant-ID", http.StatusUnauthorized)
		return
	}
	reportID := r.URL.Query().Get("report_id")
	if reportID == "" {
		http.Error(w, "missing report_id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		rpt, err := h.repo.GetReport(r.Context(), tenant, reportID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "report not found", http.StatusNotFound)
				return
			}
			http.Error(w, fmt.Sprintf("failed to load report: %v", err), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, rpt)
	case http.MethodDelete:
		if err := h.repo.Delete(r.Context(), tenant, reportID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "report not found", http.StatusNotFound)
				return
			}
			http.Error(w, fmt.Sprintf("failed to delete report: %v", err), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// RenderedSection is a section prepared for display: narrative split from
// tables, every cell classified. Computed fresh on every request so
// formatting-rule changes apply to old reports without reprocessing.
type RenderedSection struct {
	Key         corereport.SectionKey `json:"key"`
	DisplayName string                `json:"display_name"`
	SortOrder   int                   `json:"sort_order"`
	Paragraphs  []string              `json:"paragraphs"`
	Tables      []render.Table        `json:"tables"`
	Insights    []string              `json:"insights"`
	Takeaways   []string              `json:"takeaways"`
	Questions   []string              `json:"questions"`
}

// SectionsResponse includes an explicit no-content flag so a report with
// zero sections never renders as a blank screen.
type SectionsResponse struct {
	ReportID  string            `json:"report_id"`
	Sections  []RenderedSection `json:"sections"`
	NoContent bool              `json:"no_content"`
}

// HandleSections returns a report's sections in canonical order, rendered.
func (h *Handler) HandleSections(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tenant := tenantID(r)
	if tenant == "" {
		http.Error(w, "missing X-Tenant-ID", http.StatusUnauthorized)
		return
	}
	reportID := r.URL.Query().Get("report_id")
	if reportID == "" {
		http.Error(w, "missing report_id", http.StatusBadRequest)
		return
	}

	records, err := h.repo.ListSections(r.Context(), tenant, reportID)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to load sections: %v", err), http.StatusInternalServerError)
		return
	}

	resp := SectionsResponse{ReportID: reportID, Sections: []RenderedSection{}}
	for _, rec := range records {
		resp.Sections = append(resp.Sections, renderSection(rec))
	}
	resp.NoContent = len(resp.Sections) == 0
	writeJSON(w, http.StatusOK, resp)
}

// renderSection recomputes classification for one persisted section.
func renderSection(rec models.SectionRecord) RenderedSection {
	narrative := render.NormalizeHTMLTables(rec.Narrative)
	tables, remainder := render.ParseTables(narrative)

	var paragraphs []string
	for _, para := range strings.Split(remainder, "\n") {
		line := strings.TrimSpace(para)
		if line == "" {
			continue
		}
		// Block headers that slipped past extraction are suppressed here.
		if corereport.IsResidualBlockHeading(line) {
			continue
		}
		paragraphs = append(paragraphs, line)
	}

	return RenderedSection{
		Key:         rec.Key,
		DisplayName: rec.DisplayName,
		SortOrder:   rec.SortOrder,
		Paragraphs:  paragraphs,
		Tables:      tables,
		Insights:    rec.Insights,
		Takeaways:   rec.Takeaways,
		Questions:   rec.Questions,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
