package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"monthend_portal/pkg/api/assistant"
	"monthend_portal/pkg/api/config"
	"monthend_portal/pkg/api/report"
	"monthend_portal/pkg/core/agent"
	"monthend_portal/pkg/core/pipeline"
	"monthend_portal/pkg/core/prompt"
	"monthend_portal/pkg/core/store"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

var agentMgr *agent.Manager

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize Prompt Library
	// Determine resources path (relative to executable or working directory)
	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		// Try from executable directory
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to built-in prompts")
	} else {
		fmt.Printf("[PROMPT] Loaded %d prompts from %s\n", prompt.Get().Count(), resourcesPath)
	}

	// Initialize manager from config
	configData, _ := os.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr = agent.NewManager(agentCfg)

	// Database
	if err := store.InitDB(context.Background()); err != nil {
		fmt.Printf("[FATAL] Database initialization failed: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	repo := store.NewReportRepo()

	// Pipeline
	generator := &pipeline.AgentGenerator{Manager: agentMgr}
	orchestrator := pipeline.NewOrchestrator(generator, repo)

	// Report endpoints
	reportHandler := report.NewHandler(orchestrator, repo)
	http.HandleFunc("/api/report/generate", reportHandler.HandleGenerate)
	http.HandleFunc("/api/report/list", reportHandler.HandleList)
	http.HandleFunc("/api/report", reportHandler.HandleGet)
	http.HandleFunc("/api/report/sections", reportHandler.HandleSections)

	// AI Assistant endpoints
	assistantHandler := assistant.NewHandler(agentMgr)
	http.HandleFunc("/api/assistant/navigate", assistantHandler.HandleNavigate)

	// Config endpoints
	configHandler := config.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleGet)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	fmt.Println("API server starting on :8080...")
	fmt.Println("  - POST   /api/report/generate")
	fmt.Println("  - GET    /api/report/list")
	fmt.Println("  - GET    /api/report?report_id=")
	fmt.Println("  - DELETE /api/report?report_id=")
	fmt.Println("  - GET    /api/report/sections?report_id=")
	fmt.Println("  - POST   /api/assistant/navigate")
	fmt.Println("  - GET    /api/config")
	fmt.Println("  - POST   /api/config/switch")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
