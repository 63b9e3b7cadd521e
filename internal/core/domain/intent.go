package domain

import "strings"

// QueryIntent is a coarse classification of what kind of answer a query
// is seeking. It selects the retrieval profile, nothing else.
type QueryIntent string

const (
	IntentFact       QueryIntent = "fact"
	IntentSummary    QueryIntent = "summary"
	IntentComparison QueryIntent = "comparison"
	IntentList       QueryIntent = "list"
)

// CueTable is the versioned set of intent cue phrases. Matching is
// case-insensitive substring matching evaluated in a fixed priority:
// comparison first, then list, then summary; anything else is a fact
// lookup. Keeping the phrases as data makes the priority auditable and
// lets deployments extend the bilingual vocabulary without a rebuild.
type CueTable struct {
	Version    string   `yaml:"version"`
	Comparison []string `yaml:"comparison"`
	List       []string `yaml:"list"`
	Summary    []string `yaml:"summary"`
}

// DefaultCueTable covers the English and Thai phrasings our operators
// actually type.
func DefaultCueTable() CueTable {
	return CueTable{
		Version: "2026-02",
		Comparison: []string{
			"compare", "vs", "versus", "difference", "differences",
			"เปรียบเทียบ", "แตกต่าง", "ต่างกัน",
		},
		List: []string{
			"list all", "list of", "enumerate", "what are all",
			"ทั้งหมด", "มีอะไรบ้าง", "รายการ",
		},
		Summary: []string{
			"summarize", "summarise", "summary", "overview",
			"สรุป", "ภาพรวม",
		},
	}
}

// Classify maps a raw query to an intent. It never fails: empty input and
// queries without any recognized cue resolve to IntentFact.
func (t CueTable) Classify(query string) QueryIntent {
	q := strings.ToLower(query)
	switch {
	case containsAny(q, t.Comparison):
		return IntentComparison
	case containsAny(q, t.List):
		return IntentList
	case containsAny(q, t.Summary):
		return IntentSummary
	default:
		return IntentFact
	}
}

func containsAny(q string, cues []string) bool {
	for _, cue := range cues {
		if cue == "" {
			continue
		}
		if strings.Contains(q, strings.ToLower(cue)) {
			return true
		}
	}
	return false
}
