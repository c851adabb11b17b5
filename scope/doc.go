// Package scope binds a trace context to one logical operation.
//
// The current context of an operation is the value stored on its
// context.Context. Entering a scope derives a new context.Context carrying the
// new trace context; the caller's context is never modified, so leaving the
// scope restores the previous context automatically. Operations running
// concurrently therefore never observe each other's context, whatever
// goroutines they hop across.
//
// # Running Operations
//
//	err := scopes.RunInNewScope(ctx, "auth.login", scopes.Sample(), func(ctx context.Context) error {
//	    return client.Do(ctx, "/auth/login", opts) // sends this trace's carrier
//	})
//
// RunInNewScope always starts a new trace, even when ctx already has one.
// RunInChildScope continues the current trace, or starts one when there is
// none. Both end the scope's span on return, error, cancellation and panic (a
// panic is re-raised after the span ends).
//
// # Explicit Scopes
//
// Operations whose end is driven by a state machine hold a *Scope and end it
// themselves. End is idempotent:
//
//	ctx, sc := scopes.StartRoot(ctx, "ws connect", scopes.Sample())
//	conn, _, err := dialer.DialContext(ctx, url, nil)
//	sc.End(err) // first call wins
//
// # Degradation
//
// When identifiers cannot be minted (ids.ErrEntropyUnavailable) the scope is
// untraced: a warning is logged, the operation still runs, and it sees no
// current context, so nothing is propagated. No error reaches the caller.
//
// # Receiving
//
// ContinueRemote installs a decoded inbound carrier as the remote parent of
// scopes started from the returned context.
package scope
