package httpadapter

import (
	"net/http"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

// kindMappings orders the checks: a wrapped error can carry more than
// one kind, and the caller-facing ones win over the operational ones.
var kindMappings = []struct {
	kind   error
	label  string
	status int
}{
	{domain.ErrInvalidInput, "invalid_input", http.StatusBadRequest},
	{domain.ErrUnauthorized, "unauthorized", http.StatusUnauthorized},
	{domain.ErrNotFound, "not_found", http.StatusNotFound},
	{domain.ErrTemporary, "temporary", http.StatusServiceUnavailable},
}

func mapErrorToHTTPStatus(err error) int {
	for _, m := range kindMappings {
		if domain.IsKind(err, m.kind) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// errorKind names the domain kind for response bodies, so clients can
// branch on a stable token instead of parsing the message.
func errorKind(err error) string {
	for _, m := range kindMappings {
		if domain.IsKind(err, m.kind) {
			return m.label
		}
	}
	return "internal"
}
