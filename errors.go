package gocessing

import (
	"errors"

	"github.com/gocessing/gocessing/internal/registry"
)

// The error taxonomy exposed across the API boundary. Every failure from
// an entry point wraps exactly one of these sentinels; match with
// errors.Is.
var (
	// ErrInvalidHandle reports a stale, unknown, or wrong-kind handle —
	// a caller bug.
	ErrInvalidHandle = registry.ErrInvalidHandle

	// ErrResourceExhausted reports a native allocation failure or the
	// configured object cap — an environment limit.
	ErrResourceExhausted = registry.ErrExhausted

	// ErrFlushInProgress reports a reentrant flush. This cannot occur
	// under correct sequential use; it indicates a callback re-entering
	// the API during an engine tick.
	ErrFlushInProgress = errors.New("flush already in progress")

	// ErrRenderFailure reports an internal renderer fault during
	// materialization or the engine tick. Near-fatal: it is logged with
	// full context, but the process stays alive because flush cleanup is
	// unconditional.
	ErrRenderFailure = errors.New("render failure")
)
