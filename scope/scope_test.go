package scope

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aalemi-dev/tracewire/ids"
	"github.com/aalemi-dev/tracewire/logger"
	"github.com/aalemi-dev/tracewire/observability"
	"github.com/aalemi-dev/tracewire/tracectx"
	"github.com/aalemi-dev/tracewire/tracer"
)

func newTestManager(t *testing.T, cfg Config) (*Manager, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tr, err := tracer.NewClient(tracer.Config{ServiceName: "scope-test"}, tracer.WithSpanProcessor(rec))
	require.NoError(t, err)
	return NewManager(cfg, tr), rec
}

type recordingObserver struct {
	mu  sync.Mutex
	ops []observability.OperationContext
}

func (r *recordingObserver) ObserveOperation(ctx observability.OperationContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, ctx)
}

func TestRunInNewScope_SetsAndRestoresCurrent(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Config{})
	outer := context.Background()

	var inside tracectx.TraceContext
	err := m.RunInNewScope(outer, "op", true, func(ctx context.Context) error {
		tc, ok := m.Current(ctx)
		require.True(t, ok)
		inside = tc
		return nil
	})

	require.NoError(t, err)
	assert.True(t, inside.IsValid())
	assert.True(t, inside.Sampled)

	_, ok := Current(outer)
	assert.False(t, ok, "outer context has no current trace after the scope exits")

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "op", ended[0].Name())
	assert.Equal(t, inside.TraceID, ended[0].SpanContext().TraceID())
	assert.Equal(t, inside.SpanID, ended[0].SpanContext().SpanID())
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
}

func TestRunInNewScope_RepeatedCallsStartNewTraces(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t, Config{})
	seen := make(map[trace.TraceID]struct{})

	for i := 0; i < 3; i++ {
		err := m.RunInNewScope(context.Background(), "send", true, func(ctx context.Context) error {
			tc, _ := Current(ctx)
			seen[tc.TraceID] = struct{}{}
			return nil
		})
		require.NoError(t, err)
	}

	assert.Len(t, seen, 3)
}

func TestRunInNewScope_IgnoresEnclosingScope(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Config{})

	var outerTC, innerTC tracectx.TraceContext
	err := m.RunInNewScope(context.Background(), "outer", true, func(ctx context.Context) error {
		outerTC, _ = Current(ctx)
		return m.RunInNewScope(ctx, "inner", true, func(ctx context.Context) error {
			innerTC, _ = Current(ctx)
			return nil
		})
	})

	require.NoError(t, err)
	assert.NotEqual(t, outerTC.TraceID, innerTC.TraceID)

	ended := rec.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "inner", ended[0].Name())
	assert.False(t, ended[0].Parent().IsValid(), "independent root has no parent span")
}

func TestRunInChildScope_DerivesFromCurrent(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Config{})

	var parent, child tracectx.TraceContext
	err := m.RunInNewScope(context.Background(), "auth.login", false, func(ctx context.Context) error {
		parent, _ = Current(ctx)
		return m.RunInChildScope(ctx, "http POST /auth/login", func(ctx context.Context) error {
			child, _ = Current(ctx)
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, parent.TraceID, child.TraceID)
	assert.NotEqual(t, parent.SpanID, child.SpanID)
	assert.Equal(t, parent.Sampled, child.Sampled)
	assert.Empty(t, rec.Ended(), "unsampled spans are not recorded")
}

func TestRunInChildScope_SpanParentage(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Config{})

	err := m.RunInNewScope(context.Background(), "parent", true, func(ctx context.Context) error {
		return m.RunInChildScope(ctx, "child", func(ctx context.Context) error { return nil })
	})
	require.NoError(t, err)

	ended := rec.Ended()
	require.Len(t, ended, 2)
	child, parent := ended[0], ended[1]
	assert.Equal(t, "child", child.Name())
	assert.Equal(t, parent.SpanContext().SpanID(), child.Parent().SpanID())
	assert.Equal(t, parent.SpanContext().TraceID(), child.SpanContext().TraceID())
}

func TestRunInChildScope_NoCurrentStartsRoot(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t, Config{SampleRate: Rate(0)})

	var tc tracectx.TraceContext
	err := m.RunInChildScope(context.Background(), "orphan", func(ctx context.Context) error {
		tc, _ = Current(ctx)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, tc.IsValid())
	assert.False(t, tc.Sampled, "sampled flag drawn from the configured rate")
}

func TestConcurrentScopesAreIsolated(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t, Config{})

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	traces := make(map[trace.TraceID]struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.RunInNewScope(context.Background(), "worker", true, func(ctx context.Context) error {
				mine, ok := Current(ctx)
				if !assert.True(t, ok) {
					return nil
				}
				for j := 0; j < 5; j++ {
					time.Sleep(time.Millisecond)
					err := m.RunInChildScope(ctx, "step", func(ctx context.Context) error {
						got, _ := Current(ctx)
						assert.Equal(t, mine.TraceID, got.TraceID)
						return nil
					})
					assert.NoError(t, err)
					got, _ := Current(ctx)
					assert.Equal(t, mine, got)
				}
				mu.Lock()
				traces[mine.TraceID] = struct{}{}
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, traces, workers)
}

func TestRunInNewScope_ErrorMarksSpanFailed(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Config{})
	boom := errors.New("HTTP 500 Internal Server Error")

	err := m.RunInNewScope(context.Background(), "failing", true, func(ctx context.Context) error {
		return boom
	})

	assert.Same(t, boom, err)
	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, codes.Error, rec.Ended()[0].Status().Code)
}

func TestRunInNewScope_CancellationEndsScope(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())

	err := m.RunInNewScope(ctx, "cancelled", true, func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, codes.Error, rec.Ended()[0].Status().Code)
}

func TestRunInNewScope_PanicEndsScopeAndRepanics(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Config{})

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = m.RunInNewScope(context.Background(), "panicking", true, func(ctx context.Context) error {
			panic("kaboom")
		})
	})

	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, codes.Error, rec.Ended()[0].Status().Code)
	assert.Contains(t, rec.Ended()[0].Status().Description, "kaboom")
}

func TestScopeEnd_Idempotent(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Config{})
	obs := &recordingObserver{}
	m.WithObserver(obs)

	_, sc := m.StartRoot(context.Background(), "ws connect", true)
	assert.False(t, sc.Ended())

	sc.End(errors.New("dial failed"))
	sc.End(nil)
	sc.End(errors.New("second"))

	assert.True(t, sc.Ended())
	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, "dial failed", rec.Ended()[0].Status().Description)
	require.Len(t, obs.ops, 1)
	assert.Equal(t, observability.ComponentScope, obs.ops[0].Component)
	assert.Equal(t, "ws connect", obs.ops[0].Resource)
	assert.EqualError(t, obs.ops[0].Error, "dial failed")
}

func TestEntropyFailure_DegradesToUntraced(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.WarnLevel)
	m := NewManager(Config{}, nil).
		WithIDSource(ids.NewGeneratorWithEntropy(iotest.ErrReader(errors.New("no entropy")))).
		WithLogger(&logger.LoggerClient{Zap: zap.New(core)})

	parentTC, err := tracectx.NewRoot(ids.NewGenerator(), true)
	require.NoError(t, err)
	parent := tracectx.NewContext(context.Background(), parentTC)

	ran := 0
	err = m.RunInNewScope(parent, "login", true, func(ctx context.Context) error {
		ran++
		_, ok := Current(ctx)
		assert.False(t, ok, "untraced operation has no current context")
		return nil
	})
	require.NoError(t, err)

	err = m.RunInChildScope(parent, "child", func(ctx context.Context) error {
		ran++
		_, ok := Current(ctx)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2, ran)
	assert.Equal(t, 2, logs.FilterMessage("trace context unavailable, continuing untraced").Len())
}

func TestEntropyFailure_BusinessErrorStillReturned(t *testing.T) {
	t.Parallel()
	m := NewManager(Config{}, nil).
		WithIDSource(ids.NewGeneratorWithEntropy(iotest.ErrReader(errors.New("no entropy"))))
	boom := errors.New("business failure")

	err := m.RunInNewScope(context.Background(), "op", true, func(ctx context.Context) error { return boom })

	assert.Same(t, boom, err)
}

func TestSample(t *testing.T) {
	t.Parallel()

	always := NewManager(Config{}, nil)
	never := NewManager(Config{SampleRate: Rate(0)}, nil)
	half := NewManager(Config{SampleRate: Rate(0.5)}, nil)

	for i := 0; i < 20; i++ {
		assert.True(t, always.Sample())
		assert.False(t, never.Sample())
	}

	half.random = func() float64 { return 0.25 }
	assert.True(t, half.Sample())
	half.random = func() float64 { return 0.75 }
	assert.False(t, half.Sample())
}

func TestContinueRemote(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Config{State: "default-state"})
	remote, err := tracectx.NewRoot(ids.NewGenerator(), true)
	require.NoError(t, err)

	ctx := m.ContinueRemote(context.Background(), remote, "sentry-environment=dev")
	assert.Equal(t, "sentry-environment=dev", m.State(ctx))

	var child tracectx.TraceContext
	err = m.RunInChildScope(ctx, "handle ping", func(ctx context.Context) error {
		child, _ = Current(ctx)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, remote.TraceID, child.TraceID)
	assert.NotEqual(t, remote.SpanID, child.SpanID)
	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, remote.SpanID, rec.Ended()[0].Parent().SpanID())
	assert.True(t, rec.Ended()[0].Parent().IsRemote())
}

func TestContinueRemote_InvalidIsIgnored(t *testing.T) {
	t.Parallel()
	m := NewManager(Config{State: "default-state"}, nil)

	ctx := m.ContinueRemote(context.Background(), tracectx.TraceContext{}, "x")

	_, ok := Current(ctx)
	assert.False(t, ok)
	assert.Equal(t, "default-state", m.State(ctx))
}

func TestManagerWithoutTracer(t *testing.T) {
	t.Parallel()
	m := NewManager(Config{}, nil)

	ctx, sc := m.StartRoot(context.Background(), "bare", true)
	tc, ok := sc.TraceContext()
	require.True(t, ok)

	cur, _ := Current(ctx)
	assert.Equal(t, tc, cur)
	assert.Equal(t, "bare", sc.Name())
	assert.NotPanics(t, func() {
		sc.SetAttributes(map[string]interface{}{"k": "v"})
		sc.End(nil)
	})
}
