package page

import (
	"context"
	"time"

	"github.com/hrygo/folio/internal/observability"
)

// Event reports a state change of a page.
type Event struct {
	SessionID string
	Page      string
	Source    string
	State     State
	Items     int
	Err       error
	Duration  time.Duration
}

// Subscriber receives page events. OnEvent is called synchronously from the
// loading goroutine and must not block.
type Subscriber interface {
	OnEvent(ctx context.Context, ev Event)
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(ctx context.Context, ev Event)

// OnEvent calls f.
func (f SubscriberFunc) OnEvent(ctx context.Context, ev Event) {
	f(ctx, ev)
}

// MetricsSubscriber records page loads in m.
func MetricsSubscriber(m *observability.Metrics) Subscriber {
	return SubscriberFunc(func(_ context.Context, ev Event) {
		switch ev.State {
		case StateLoading:
			m.RecordLoad(ev.Page)
		case StateRendered:
			m.RecordRendered(ev.Page, ev.Duration)
		case StateFailed:
			m.RecordFailed(ev.Page, ev.Duration)
		}
	})
}
