package ollama

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/kittipatc/opsdesk/internal/core/domain"
	"github.com/kittipatc/opsdesk/internal/infrastructure/resilience"
)

// HTTPStatusError is a non-2xx answer from the Ollama API with enough
// of the body kept to make the log line useful.
type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "ollama status error"
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("ollama %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("ollama %s status: %s: %s", e.Operation, e.Status, body)
}

// transientStatuses are worth another attempt; anything else from the
// API (404 unknown model, 400 bad request) will fail the same way twice.
var transientStatuses = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

func classifyOllamaError(err error) resilience.Verdict {
	switch {
	case err == nil:
		return resilience.Verdict{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The caller gave up; not the upstream's fault.
		return resilience.Verdict{}
	case resilience.IsCircuitOpen(err):
		return resilience.Verdict{Retry: true, Record: true}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if transientStatuses[statusErr.StatusCode] {
			return resilience.Verdict{Retry: true, Record: true}
		}
		return resilience.Verdict{}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Verdict{Retry: true, Record: true}
	}
	return resilience.Verdict{Record: true}
}

// tagTemporary marks transient ollama failures as domain.ErrTemporary so
// the HTTP layer answers 503 instead of 500.
func tagTemporary(operation string, err error) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifyOllamaError(err).Retry || resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}
