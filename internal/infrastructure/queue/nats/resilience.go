package nats

import (
	"context"
	"errors"

	"github.com/kittipatc/opsdesk/internal/core/domain"
	"github.com/kittipatc/opsdesk/internal/infrastructure/resilience"
	"github.com/nats-io/nats.go"
)

// transientConnErrs covers the connection states a publish can hit while
// the client is between servers; the library reconnects on its own, so a
// short retry usually lands.
var transientConnErrs = []error{
	nats.ErrNoServers,
	nats.ErrTimeout,
	nats.ErrConnectionClosed,
	nats.ErrDisconnected,
}

func classifyNATSError(err error) resilience.Verdict {
	switch {
	case err == nil:
		return resilience.Verdict{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resilience.Verdict{}
	case resilience.IsCircuitOpen(err):
		return resilience.Verdict{Retry: true, Record: true}
	}
	for _, transient := range transientConnErrs {
		if errors.Is(err, transient) {
			return resilience.Verdict{Retry: true, Record: true}
		}
	}
	return resilience.Verdict{Record: true}
}

// tagTemporary marks transient publish failures as domain.ErrTemporary so
// the upload handler can tell the client to retry.
func tagTemporary(err error) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifyNATSError(err).Retry || resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, "nats publish", err)
	}
	return err
}
