package llm

import "testing"

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		options    map[string]interface{}
		fallback   string
		want       string
	}{
		{"options override wins", "provider-default", map[string]interface{}{"model": "per-role"}, "fallback", "per-role"},
		{"configured model when no override", "provider-default", map[string]interface{}{}, "fallback", "provider-default"},
		{"fallback for zero-value provider", "", map[string]interface{}{}, "gemini-2.0-flash", "gemini-2.0-flash"},
		{"empty override ignored", "", map[string]interface{}{"model": ""}, "gemini-2.0-flash", "gemini-2.0-flash"},
		{"non-string override ignored", "", map[string]interface{}{"model": 7}, "deepseek-chat", "deepseek-chat"},
		{"nil options", "", nil, "deepseek-chat", "deepseek-chat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveModel(tt.configured, tt.options, tt.fallback); got != tt.want {
				t.Errorf("ResolveModel(%q, %v, %q) = %q, want %q", tt.configured, tt.options, tt.fallback, got, tt.want)
			}
		})
	}
}
