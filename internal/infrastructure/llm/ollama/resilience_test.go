package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/kittipatc/opsdesk/internal/core/domain"
	"github.com/kittipatc/opsdesk/internal/infrastructure/resilience"
)

func TestClassifyOllamaError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want resilience.Verdict
	}{
		{"nil", nil, resilience.Verdict{}},
		{"caller cancelled", context.Canceled, resilience.Verdict{}},
		{"deadline", fmt.Errorf("embed: %w", context.DeadlineExceeded), resilience.Verdict{}},
		{"overloaded", &HTTPStatusError{Operation: "generate", StatusCode: http.StatusServiceUnavailable, Status: "503 Service Unavailable"}, resilience.Verdict{Retry: true, Record: true}},
		{"unknown model", &HTTPStatusError{Operation: "embed", StatusCode: http.StatusNotFound, Status: "404 Not Found"}, resilience.Verdict{}},
		{"decode failure", errors.New("decode embed response: unexpected EOF"), resilience.Verdict{Record: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyOllamaError(tc.err); got != tc.want {
				t.Fatalf("classifyOllamaError(%v) = %+v, want %+v", tc.err, got, tc.want)
			}
		})
	}
}

func TestTagTemporaryOnlyWrapsTransientFailures(t *testing.T) {
	transient := &HTTPStatusError{Operation: "generate", StatusCode: http.StatusBadGateway, Status: "502 Bad Gateway"}
	if err := tagTemporary("ollama generate", transient); !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("502 not tagged temporary: %v", err)
	}

	final := &HTTPStatusError{Operation: "generate", StatusCode: http.StatusBadRequest, Status: "400 Bad Request"}
	if err := tagTemporary("ollama generate", final); domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("400 tagged temporary: %v", err)
	}

	if err := tagTemporary("ollama embed", nil); err != nil {
		t.Fatalf("nil error changed: %v", err)
	}
}
