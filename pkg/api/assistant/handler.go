// Package assistant exposes the portal's navigation endpoint: a natural
// language message in, a section-navigation intent out.
package assistant

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"monthend_portal/pkg/core/agent"
	"monthend_portal/pkg/core/prompt"
	"monthend_portal/pkg/core/report"
	"monthend_portal/pkg/core/utils"
)

// Handler answers navigation questions against the fixed section taxonomy.
type Handler struct {
	manager *agent.Manager
}

func NewHandler(mgr *agent.Manager) *Handler {
	return &Handler{manager: mgr}
}

// NavigateRequest is the inbound chat message.
type NavigateRequest struct {
	Message string `json:"message"`
}

// NavigateResponse is the model's parsed intent. TargetSection is a canonical
// section key only when Intent is "navigate".
type NavigateResponse struct {
	Intent        string  `json:"intent"`
	TargetSection string  `json:"target_section,omitempty"`
	SectionLabel  string  `json:"section_label,omitempty"`
	Confidence    float64 `json:"confidence"`
	Explanation   string  `json:"explanation,omitempty"`
}

// sectionRegistry renders the taxonomy as "key: Display Name" lines for the
// system prompt.
func sectionRegistry() string {
	var b strings.Builder
	for _, def := range report.Taxonomy {
		fmt.Fprintf(&b, "- %s: %s\n", def.Key, def.DisplayName)
	}
	return b.String()
}

// HandleNavigate classifies one user message into a navigation intent.
func (h *Handler) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Tenant-ID")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "missing message", http.StatusBadRequest)
		return
	}

	userPrompt, systemPrompt, err := prompt.Get().Render(prompt.NavigatePromptID, map[string]interface{}{
		"Message": req.Message,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("prompt error: %v", err), http.StatusInternalServerError)
		return
	}
	systemPrompt = strings.ReplaceAll(systemPrompt, "{{SECTION_REGISTRY}}", sectionRegistry())

	raw, err := h.manager.ExecutePrompt(r.Context(), "navigator", userPrompt, systemPrompt, map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		log.Printf("[Assistant] Navigation call failed: %v", err)
		http.Error(w, "navigation assistant unavailable", http.StatusBadGateway)
		return
	}

	// Model output is JSON-shaped at best; repair before decoding.
	repaired := utils.MustRepairJSON(raw)
	var resp NavigateResponse
	if err := json.Unmarshal([]byte(repaired), &resp); err != nil {
		log.Printf("[Assistant] Unparseable intent %q: %v", raw, err)
		resp = NavigateResponse{Intent: "chat", Confidence: 0, Explanation: "could not parse intent"}
	}

	// Only canonical keys may be navigation targets.
	if resp.Intent == "navigate" {
		if _, ok := validKeys()[resp.TargetSection]; !ok {
			resp.Intent = "chat"
			resp.TargetSection = ""
		} else if resp.SectionLabel == "" {
			resp.SectionLabel = report.DisplayNameFor(report.SectionKey(resp.TargetSection))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func validKeys() map[string]struct{} {
	keys := make(map[string]struct{}, len(report.Taxonomy)+1)
	for _, def := range report.Taxonomy {
		keys[string(def.Key)] = struct{}{}
	}
	keys[string(report.SectionFullReport)] = struct{}{}
	return keys
}
