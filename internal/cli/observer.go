package cli

import (
	"context"

	"github.com/alexanderramin/projman/internal/service"
)

type gatedObserver struct {
	enabled func() bool
	inner   service.UseCaseObserver
}

// GatedObserver forwards use-case events to inner only while enabled
// reports true, so --verbose can take effect after services are wired.
func GatedObserver(enabled func() bool, inner service.UseCaseObserver) service.UseCaseObserver {
	return &gatedObserver{enabled: enabled, inner: inner}
}

func (o *gatedObserver) ObserveUseCase(ctx context.Context, event service.UseCaseEvent) {
	if o.enabled() {
		o.inner.ObserveUseCase(ctx, event)
	}
}
