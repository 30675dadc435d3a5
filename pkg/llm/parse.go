package llm

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-json-experiment/json"

	"github.com/bguard/bguard-suite/pkg/model"
)

// ExtractJSON returns the first complete JSON object or array in text.
// Models tend to wrap their answer in prose or Markdown code fences.
func ExtractJSON(text string) ([]byte, error) {
	var raw []byte
	err := decodeFirst(text, func(candidate []byte) error {
		var v any
		if err := json.Unmarshal(candidate, &v); err != nil {
			return err
		}
		raw = candidate
		return nil
	})
	return raw, err
}

// decodeFirst hands each bracketed candidate in text to decode until one is
// accepted. Prose like "see [1]" is valid JSON, so a candidate of the wrong
// shape does not end the search.
func decodeFirst(text string, decode func([]byte) error) error {
	var lastErr error
	for start := 0; start < len(text); start++ {
		c := text[start]
		if c != '{' && c != '[' {
			continue
		}
		end := matchBracket(text, start)
		if end < 0 {
			continue
		}
		if err := decode([]byte(text[start:end])); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("%w: %v", ErrNoAnswer, lastErr)
	}
	return ErrNoAnswer
}

// matchBracket returns the index just past the bracket closing the one at
// start, or -1.
func matchBracket(text string, start int) int {
	var stack []byte
	inString, escaped := false, false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i + 1
			}
		}
	}
	return -1
}

type rawFinding struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	StrideCategory string `json:"stride_category"`
	Category       string `json:"category"`
	Severity       string `json:"severity"`
	Remediation    string `json:"remediation"`
	Recommendation string `json:"recommendation"`
}

// ParseFindings turns a model answer into findings. Items with an unknown
// STRIDE category or severity, or without a title, are dropped. The answer
// may be an array or an object with a "findings" array.
func ParseFindings(text string) ([]model.Finding, error) {
	var items []rawFinding
	err := decodeFirst(text, func(raw []byte) error {
		items = nil
		if raw[0] == '[' {
			return json.Unmarshal(raw, &items)
		}
		var wrapped struct {
			Findings *[]rawFinding `json:"findings"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return err
		}
		if wrapped.Findings == nil {
			return errors.New(`object has no "findings" member`)
		}
		items = *wrapped.Findings
		return nil
	})
	if err != nil {
		return nil, err
	}

	findings := make([]model.Finding, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		category := item.StrideCategory
		if category == "" {
			category = item.Category
		}
		stride, err := model.ParseStrideCategory(category)
		if err != nil {
			continue
		}
		severity, err := model.ParseSeverity(strings.TrimSpace(item.Severity))
		if err != nil {
			continue
		}
		remediation := item.Remediation
		if remediation == "" {
			remediation = item.Recommendation
		}
		findings = append(findings, model.Finding{
			Title:          title,
			Description:    strings.TrimSpace(item.Description),
			StrideCategory: stride,
			Severity:       severity,
			Status:         model.FindingOpen,
			Remediation:    strings.TrimSpace(remediation),
			Source:         model.FindingSourceAI,
		})
	}
	return findings, nil
}

// RiskRatings are the ratings a vendor assessment may carry.
var RiskRatings = []string{"CRITICAL", "HIGH", "MEDIUM", "LOW"}

// Assessment is the parsed answer to a vendor assessment prompt.
type Assessment struct {
	RiskRating      string   `json:"risk_rating"`
	Summary         string   `json:"summary"`
	Concerns        []string `json:"concerns"`
	Recommendations []string `json:"recommendations"`
}

// Narrative renders the assessment as Markdown for storage on the review.
func (a *Assessment) Narrative() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(a.Summary))
	writeList := func(heading string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n\n### %s\n", heading)
		for _, item := range items {
			fmt.Fprintf(&b, "\n- %s", strings.TrimSpace(item))
		}
	}
	writeList("Concerns", a.Concerns)
	writeList("Recommendations", a.Recommendations)
	return strings.TrimSpace(b.String())
}

// ParseAssessment turns a model answer into an Assessment. The risk rating
// must be one of RiskRatings.
func ParseAssessment(text string) (*Assessment, error) {
	var a Assessment
	err := decodeFirst(text, func(raw []byte) error {
		a = Assessment{}
		if err := json.Unmarshal(raw, &a); err != nil {
			return err
		}
		a.RiskRating = strings.ToUpper(strings.TrimSpace(a.RiskRating))
		if !slices.Contains(RiskRatings, a.RiskRating) {
			return fmt.Errorf("unknown risk rating %q", a.RiskRating)
		}
		if strings.TrimSpace(a.Summary) == "" {
			return errors.New("empty summary")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}
