package codectx

import (
	"context"
	"time"

	"drift/internal/ir"
)

// Bounded wraps a provider with a hard per-query deadline so one slow
// lookup can never stall a whole run.
type Bounded struct {
	inner   Provider
	timeout time.Duration
}

// Bound applies the per-query timeout to every call on p. A zero or
// negative timeout falls back to the default limit.
func Bound(p Provider, timeout time.Duration) *Bounded {
	if timeout <= 0 {
		timeout = ir.DefaultLimits().ProviderTimeout
	}
	return &Bounded{inner: p, timeout: timeout}
}

// LookupSymbol implements Provider.
func (b *Bounded) LookupSymbol(ctx context.Context, name string, loc ir.Location) (Symbol, bool, error) {
	qctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	type result struct {
		sym Symbol
		ok  bool
		err error
	}
	ch := make(chan result, 1)
	go func() {
		sym, ok, err := b.inner.LookupSymbol(qctx, name, loc)
		ch <- result{sym, ok, err}
	}()

	select {
	case r := <-ch:
		return r.sym, r.ok, r.err
	case <-qctx.Done():
		return Symbol{}, false, qctx.Err()
	}
}

// FindRecentRename implements Provider.
func (b *Bounded) FindRecentRename(ctx context.Context, name string) (Rename, bool, error) {
	qctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	type result struct {
		ren Rename
		ok  bool
		err error
	}
	ch := make(chan result, 1)
	go func() {
		ren, ok, err := b.inner.FindRecentRename(qctx, name)
		ch <- result{ren, ok, err}
	}()

	select {
	case r := <-ch:
		return r.ren, r.ok, r.err
	case <-qctx.Done():
		return Rename{}, false, qctx.Err()
	}
}
