// Package pipeline runs one upload end to end: extract the workbook, call
// the generation service once, segment the document, persist the sections.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"monthend_portal/pkg/core/agent"
	"monthend_portal/pkg/core/extract"
	"monthend_portal/pkg/core/prompt"
	"monthend_portal/pkg/core/report"
	"monthend_portal/pkg/core/store"
	"monthend_portal/pkg/core/utils"
	"monthend_portal/pkg/models"
)

// ReportGenerator is the opaque generation capability: payload in, one long
// markdown document out. The pipeline's correctness does not depend on what
// happens inside the call.
type ReportGenerator interface {
	Generate(ctx context.Context, payload string) (string, error)
}

// AgentGenerator implements ReportGenerator on the configured provider via
// the prompt library.
type AgentGenerator struct {
	Manager *agent.Manager
}

func (g *AgentGenerator) Generate(ctx context.Context, payload string) (string, error) {
	userPrompt, systemPrompt, err := prompt.Get().Render(prompt.ReportPromptID, map[string]interface{}{
		"Payload": payload,
	})
	if err != nil {
		return "", err
	}
	return g.Manager.ExecutePrompt(ctx, "report_writer", userPrompt, systemPrompt, nil)
}

// Orchestrator wires the extractor, the generator and the repository.
type Orchestrator struct {
	extractor   *extract.Extractor
	generator   ReportGenerator
	repo        store.ReportRepository
	tokenBudget int
	timeout     time.Duration
}

// NewOrchestrator creates an orchestrator with default budget and timeout.
func NewOrchestrator(generator ReportGenerator, repo store.ReportRepository) *Orchestrator {
	return &Orchestrator{
		extractor:   extract.NewExtractor(),
		generator:   generator,
		repo:        repo,
		tokenBudget: extract.DefaultTokenBudget,
		timeout:     llmTimeout,
	}
}

const llmTimeout = 10 * time.Minute

// SetTokenBudget overrides the extraction budget (mainly for tests).
func (o *Orchestrator) SetTokenBudget(budget int) {
	o.tokenBudget = budget
}

// RunForUpload executes the full pipeline for one uploaded workbook. The
// report record always ends in completed or failed; partial sections are
// never persisted. Extraction failures are fail-fast: the generation call is
// never made on an unreadable or incomplete workbook.
func (o *Orchestrator) RunForUpload(ctx context.Context, tenantID, tenantName, periodLabel string, workbookBytes []byte) (*models.Report, error) {
	rpt := &models.Report{
		TenantID:    tenantID,
		TenantName:  tenantName,
		PeriodLabel: periodLabel,
		Status:      models.StatusGenerating,
	}
	if err := o.repo.Create(ctx, rpt); err != nil {
		return nil, fmt.Errorf("failed to create report record: %w", err)
	}
	log.Printf("[Pipeline] Report %s: extracting workbook (%d bytes)", rpt.ID, len(workbookBytes))

	// 1. Extraction. Structural failures and missing statements are
	// different error kinds but both stop the run before generation.
	result, err := o.extractor.Extract(workbookBytes, o.tokenBudget)
	if err != nil {
		var missingErr *extract.MissingSheetsError
		switch {
		case errors.As(err, &missingErr):
			return o.fail(ctx, rpt, fmt.Sprintf("workbook is missing required sheets: %v", missingErr.Missing))
		case errors.Is(err, extract.ErrWorkbookUnreadable):
			return o.fail(ctx, rpt, "uploaded file could not be read as a workbook")
		default:
			return o.fail(ctx, rpt, fmt.Sprintf("extraction failed: %v", err))
		}
	}

	payload := extract.BuildPayload(result, tenantName, periodLabel)
	log.Printf("[Pipeline] Report %s: %d sheets, ~%d tokens", rpt.ID, len(result.Sheets), result.TotalEstimatedTokens)

	// 2. The single outbound generation call, the pipeline's only network
	// I/O and only suspension point.
	genCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	document, err := o.generator.Generate(genCtx, payload)
	if err != nil {
		return o.fail(ctx, rpt, fmt.Sprintf("generation failed: %v", err))
	}
	document = utils.CleanMarkdown(document)
	if document == "" {
		return o.fail(ctx, rpt, "generation returned an empty document")
	}
	if !utils.ValidateMarkdown(document) {
		return o.fail(ctx, rpt, "generation returned a document that does not parse as markdown")
	}

	// 3. Segmentation and block extraction. Never errors: zero matched
	// headings falls back to a single whole-document section.
	sections := report.ParseSections(document)
	records := make([]models.SectionRecord, 0, len(sections))
	for _, sec := range sections {
		blocks := report.ExtractBlocks(sec.Content, sec.DisplayName)
		records = append(records, models.SectionRecord{
			ReportID:    rpt.ID,
			Key:         sec.Key,
			DisplayName: sec.DisplayName,
			SortOrder:   sec.SortOrder,
			Narrative:   blocks.Narrative,
			Insights:    blocks.Insights,
			Takeaways:   blocks.Takeaways,
			Questions:   blocks.Questions,
		})
	}

	// 4. Persist everything in one batch.
	if err := o.repo.Complete(ctx, rpt.ID, records); err != nil {
		return o.fail(ctx, rpt, fmt.Sprintf("failed to persist sections: %v", err))
	}

	rpt.Status = models.StatusCompleted
	log.Printf("[Pipeline] Report %s: completed with %d sections", rpt.ID, len(records))
	return rpt, nil
}

func (o *Orchestrator) fail(ctx context.Context, rpt *models.Report, message string) (*models.Report, error) {
	log.Printf("[Pipeline] Report %s: failed: %s", rpt.ID, message)
	if err := o.repo.MarkFailed(ctx, rpt.ID, message); err != nil {
		log.Printf("[Pipeline] Report %s: could not record failure: %v", rpt.ID, err)
	}
	rpt.Status = models.StatusFailed
	rpt.FailureMessage = message
	return rpt, errors.New(message)
}
