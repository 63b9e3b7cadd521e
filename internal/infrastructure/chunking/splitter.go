package chunking

import "strings"

// Splitter cuts extracted document text into fixed-size overlapping
// windows, counted in runes so Thai and other multibyte scripts do not
// get sliced mid-character. The overlap keeps a sentence that straddles
// a boundary retrievable from either side.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

// NewSplitter clamps nonsense inputs instead of erroring: these values
// come straight from env config and a bad knob should not take the
// worker down.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 900
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{ChunkSize: chunkSize, Overlap: overlap}
}

func (s *Splitter) Split(text string) []string {
	runes := []rune(normalizeNewlines(text))
	total := len(runes)
	if total == 0 {
		return nil
	}

	step := s.ChunkSize - s.Overlap
	if step <= 0 {
		step = s.ChunkSize
	}

	out := make([]string, 0, total/step+1)
	start := 0
	for start < total {
		end := min(start+s.ChunkSize, total)
		if window := strings.TrimSpace(string(runes[start:end])); window != "" {
			out = append(out, window)
		}
		if end == total {
			break
		}
		start += step
	}
	return out
}

// normalizeNewlines folds Windows line endings so a CRLF pair never
// counts as two runes against the window.
func normalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
