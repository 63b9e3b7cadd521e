package domain

import "testing"

func TestClassifyDefaultsToFact(t *testing.T) {
	cues := DefaultCueTable()
	for _, query := range []string{"", "how do I reset a voicemail PIN", "ลูกค้าโอนเงินไม่ได้"} {
		if got := cues.Classify(query); got != IntentFact {
			t.Fatalf("Classify(%q) = %s, want fact", query, got)
		}
	}
}

func TestClassifyRecognizesCues(t *testing.T) {
	cues := DefaultCueTable()
	cases := []struct {
		query string
		want  QueryIntent
	}{
		{"compare prepaid vs postpaid plans", IntentComparison},
		{"เปรียบเทียบแพ็กเกจ", IntentComparison},
		{"list all escalation codes", IntentList},
		{"แพ็กเกจทั้งหมดมีอะไรบ้าง", IntentList},
		{"summarize the refund policy", IntentSummary},
		{"สรุปขั้นตอนการคืนเงิน", IntentSummary},
		{"COMPARE the two refund flows", IntentComparison},
	}
	for _, tc := range cases {
		if got := cues.Classify(tc.query); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.query, got, tc.want)
		}
	}
}

// A query hitting several cue families must resolve in the fixed
// priority: comparison, then list, then summary.
func TestClassifyPriorityOrder(t *testing.T) {
	cues := DefaultCueTable()
	if got := cues.Classify("compare and list all and summarize everything"); got != IntentComparison {
		t.Fatalf("expected comparison to win, got %s", got)
	}
	if got := cues.Classify("list all topics and summarize them"); got != IntentList {
		t.Fatalf("expected list to win over summary, got %s", got)
	}
}
