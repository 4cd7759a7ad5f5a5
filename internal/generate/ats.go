package generate

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ATSResult is the structured outcome of an ATS compatibility check.
type ATSResult struct {
	Score       int             `json:"score"`
	Breakdown   map[string]bool `json:"breakdown"`
	Feedback    string          `json:"feedback"`
	Suggestions []string        `json:"suggestions"`
}

// skillEntry is one value of the raw per-skill map variant.
type skillEntry struct {
	Match bool `json:"match"`
}

// ParseATSResponse coerces the model's output into an ATSResult. The model is
// asked for the final schema but is not guaranteed to honor it: the response
// is either the schema itself (it has a "score" key) or a raw map of skill
// name to {match: bool}. The raw variant is mapped to a score by counting
// matched skills over total skills as a percentage.
func ParseATSResponse(raw string) (ATSResult, error) {
	jsonText, err := extractJSON(raw)
	if err != nil {
		return ATSResult{}, err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &probe); err != nil {
		return ATSResult{}, fmt.Errorf("parse ats response: %w", err)
	}

	if _, ok := probe["score"]; ok {
		var direct ATSResult
		if err := json.Unmarshal([]byte(jsonText), &direct); err != nil {
			return ATSResult{}, fmt.Errorf("parse ats response: %w", err)
		}
		return direct, nil
	}

	var skills map[string]skillEntry
	if err := json.Unmarshal([]byte(jsonText), &skills); err != nil {
		return ATSResult{}, fmt.Errorf("parse ats response: %w", err)
	}
	if len(skills) == 0 {
		return ATSResult{}, fmt.Errorf("parse ats response: no skills in output")
	}
	return scoreFromSkillMap(skills), nil
}

// scoreFromSkillMap derives an ATSResult from a per-skill match map.
func scoreFromSkillMap(skills map[string]skillEntry) ATSResult {
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	matched := 0
	breakdown := make(map[string]bool, len(skills))
	var suggestions []string
	for _, name := range names {
		hit := skills[name].Match
		breakdown[name] = hit
		if hit {
			matched++
			suggestions = append(suggestions, fmt.Sprintf("Good: %s is represented in your resume.", name))
		} else {
			suggestions = append(suggestions, fmt.Sprintf("Add evidence of %s to your resume.", name))
		}
	}

	total := len(skills)
	score := int(math.Round(float64(matched) / float64(total) * 100))
	return ATSResult{
		Score:       score,
		Breakdown:   breakdown,
		Feedback:    fmt.Sprintf("Your resume matches %d out of %d skills from the job description.", matched, total),
		Suggestions: suggestions,
	}
}

// extractJSON pulls the outermost JSON object out of a model response, which
// may wrap it in prose or markdown fences.
func extractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("parse ats response: no JSON object in output")
	}
	return raw[start : end+1], nil
}
