package ollama

import (
	"fmt"
	"strings"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

func buildClassificationPrompt(text string) string {
	const maxSnippet = 4000
	snippet := text
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}

	return `You are a classifier for call-center knowledge documents.
Return strict JSON object with keys:
category (one of: billing, technical, account, promotions, policy, general),
language (ISO 639-1 code of the dominant language, e.g. "en" or "th"),
tags (array of strings), confidence (number from 0 to 1), summary (string).
No markdown, no extra keys.

Document:
` + snippet
}

func buildAnswerPrompt(question string, results []domain.RetrievalResult) string {
	var contextBuilder strings.Builder
	for idx, result := range results {
		contextBuilder.WriteString(fmt.Sprintf(
			"[%d] file=%s relevance=%.1f\n%s\n\n",
			idx+1,
			result.Filename,
			result.NormalizedScore,
			result.Content,
		))
	}

	return fmt.Sprintf(`You are an assistant for call-center agents.
Answer the question only from the context below and cite sources as [n].
If the context is insufficient, say it directly.
Answer in the language of the question.

Question:
%s

Context:
%s
`, question, contextBuilder.String())
}
