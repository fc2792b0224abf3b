// Command pipeline runs the month-end review pipeline from the command line:
// extract a workbook and either print the payload (dry run) or generate and
// persist a full report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"monthend_portal/pkg/core/agent"
	"monthend_portal/pkg/core/extract"
	"monthend_portal/pkg/core/pipeline"
	"monthend_portal/pkg/core/prompt"
	"monthend_portal/pkg/core/store"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

func main() {
	godotenv.Load()

	var (
		workbookPath = flag.String("file", "", "path to the .xlsx workbook")
		tenantID     = flag.String("tenant", "local", "tenant ID to attribute the report to")
		tenantName   = flag.String("name", "", "client display name (defaults to tenant ID)")
		periodLabel  = flag.String("period", "", "period label, e.g. \"June 2026\"")
		budget       = flag.Int("budget", extract.DefaultTokenBudget, "token budget for extraction")
		dryRun       = flag.Bool("dry", false, "extract and print the payload without generating")
	)
	flag.Parse()

	if *workbookPath == "" || *periodLabel == "" {
		fmt.Println("usage: pipeline -file <workbook.xlsx> -period <label> [-tenant id] [-name display] [-dry]")
		os.Exit(2)
	}
	if *tenantName == "" {
		*tenantName = *tenantID
	}

	workbookBytes, err := os.ReadFile(*workbookPath)
	if err != nil {
		fmt.Printf("[FATAL] Cannot read workbook: %v\n", err)
		os.Exit(1)
	}

	if *dryRun {
		runDry(workbookBytes, *tenantName, *periodLabel, *budget)
		return
	}

	if err := prompt.LoadFromDirectory("resources"); err != nil {
		fmt.Printf("[WARNING] Prompt library: %v (using built-ins)\n", err)
	}
	configData, _ := os.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	mgr := agent.NewManager(agentCfg)

	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[FATAL] Database initialization failed: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	orc := pipeline.NewOrchestrator(&pipeline.AgentGenerator{Manager: mgr}, store.NewReportRepo())
	orc.SetTokenBudget(*budget)

	rpt, err := orc.RunForUpload(ctx, *tenantID, *tenantName, *periodLabel, workbookBytes)
	if err != nil {
		fmt.Printf("[FAILED] %v\n", err)
		if rpt != nil {
			fmt.Printf("  report %s recorded as %s\n", rpt.ID, rpt.Status)
		}
		os.Exit(1)
	}
	fmt.Printf("[OK] Report %s completed for %s / %s\n", rpt.ID, rpt.TenantName, rpt.PeriodLabel)
}

// runDry extracts without touching the database or any provider.
func runDry(workbookBytes []byte, tenantName, periodLabel string, budget int) {
	extractor := extract.NewExtractor()
	result, err := extractor.Extract(workbookBytes, budget)
	if err != nil {
		var missingErr *extract.MissingSheetsError
		switch {
		case errors.As(err, &missingErr):
			fmt.Printf("[FAILED] Missing required sheets: %v\n", missingErr.Missing)
		case errors.Is(err, extract.ErrWorkbookUnreadable):
			fmt.Println("[FAILED] File could not be read as a workbook")
		default:
			fmt.Printf("[FAILED] %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("[OK] %d sheets, ~%d tokens (budget %d)\n", len(result.Sheets), result.TotalEstimatedTokens, budget)
	for _, sheet := range result.Sheets {
		fmt.Printf("  - %-20s ~%d tokens\n", sheet.Name, sheet.EstimatedTokens)
	}
	for _, skipped := range result.SkippedForBudget {
		fmt.Printf("  - %-20s SKIPPED (over budget)\n", skipped)
	}
	fmt.Println("---")
	fmt.Println(extract.BuildPayload(result, tenantName, periodLabel))
}
