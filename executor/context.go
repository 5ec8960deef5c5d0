// Package executor describes the deterministic host contract the multisig
// engine is installed into: the two-phase Visit/Execute capability the
// engine calls back into, the read-only query surface it consults, and the
// per-call ambient authority context.
//
// None of this package implements a real ledger executor — that lives
// outside this module's scope (consensus, storage, networking). It exists
// so native/multisig compiles and can be tested against an in-memory double
// without depending on a concrete chain implementation.
package executor

import (
	"time"

	"msigchain/core/events"
	"msigchain/core/types"
)

// Context carries the ambient authority a visited instruction is checked
// against, the current block's declared creation time, and the emitter the
// engine reports state transitions through. It is an immutable value rather
// than a mutable field on a shared executor: a handler rebinds authority by
// constructing a derived Context with WithAuthority, so a forgotten restore
// can never leak the rebound authority upward to a caller holding an older
// Context.
type Context struct {
	Authority types.AccountID
	BlockTime time.Time
	Emitter   events.Emitter
}

// WithAuthority returns a copy of c with Authority rebound to id. The
// receiver is left unmodified.
func (c Context) WithAuthority(id types.AccountID) Context {
	c.Authority = id
	return c
}

// Emit reports evt through c's emitter, if one is configured. A zero-value
// Context (no Emitter set) silently drops events rather than panicking on a
// nil interface, the same tolerance events.NoopEmitter gives an explicitly
// configured emitter.
func (c Context) Emit(evt events.Event) {
	if c.Emitter == nil {
		return
	}
	c.Emitter.Emit(evt)
}

// NowMillis returns the block's declared creation time in epoch
// milliseconds, saturating at zero for times before the epoch. This is the
// only clock source the engine may read; callers must never substitute
// time.Now() here, since every validator must derive the identical value
// from the same block.
func (c Context) NowMillis() uint64 {
	ms := c.BlockTime.UnixMilli()
	if ms < 0 {
		return 0
	}
	return uint64(ms)
}
