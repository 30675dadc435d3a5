package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
)

// stubFindings is what the stub model answers to threat model prompts.
const stubFindings = `Here is my analysis:
{"findings": [
  {"title": "Session fixation on login", "description": "The session id survives authentication.", "stride_category": "SPOOFING", "severity": "HIGH", "remediation": "Issue a new session on login."},
  {"title": "Verbose upstream errors", "description": "Stack traces reach the client.", "stride_category": "INFORMATION_DISCLOSURE", "severity": "MEDIUM", "remediation": "Return generic errors."}
]}`

// stubAssessment is what the stub model answers to vendor prompts.
const stubAssessment = `{"risk_rating": "MEDIUM", "summary": "Adequate controls with gaps in incident response.", "concerns": ["No breach notification SLA"], "recommendations": ["Add a 72 hour notification clause"]}`

// LLMStub imitates the Anthropic messages API.
type LLMStub struct {
	*httptest.Server
	calls atomic.Int32
}

func NewLLMStub() *LLMStub {
	stub := &LLMStub{}
	stub.Server = httptest.NewServer(http.HandlerFunc(stub.serveMessages))
	return stub
}

func (s *LLMStub) Calls() int { return int(s.calls.Load()) }

func (s *LLMStub) serveMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/v1/messages" {
		http.NotFound(w, r)
		return
	}
	if r.Header.Get("x-api-key") == "" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"type": "authentication_error", "message": "missing key"}}`))
		return
	}
	s.calls.Add(1)

	var req struct {
		System   string `json:"system"`
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	answer := stubFindings
	prompt := strings.ToLower(req.System)
	for _, m := range req.Messages {
		prompt += strings.ToLower(m.Content)
	}
	if strings.Contains(prompt, "vendor") {
		answer = stubAssessment
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model":   "stub",
		"content": []map[string]string{{"type": "text", "text": answer}},
		"usage":   map[string]int{"input_tokens": 100, "output_tokens": 50},
	})
}
