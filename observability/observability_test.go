package observability_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aalemi-dev/tracewire/observability"
)

type recordingObserver struct {
	mu  sync.Mutex
	ops []observability.OperationContext
}

func (r *recordingObserver) ObserveOperation(ctx observability.OperationContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, ctx)
}

func TestObserver_ConcurrentCalls(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{}
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			obs.ObserveOperation(observability.OperationContext{
				Component: observability.ComponentHTTP,
				Operation: "request",
				Resource:  "/auth/login",
				TraceID:   "4bf92f3577b34da6a3ce929d0e0e4736",
				Duration:  5 * time.Millisecond,
			})
		}()
	}
	wg.Wait()

	assert.Len(t, obs.ops, 20)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", obs.ops[0].TraceID)
}
