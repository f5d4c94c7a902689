package engine

import (
	"fmt"
	"log/slog"
	"time"
)

// App is the process-wide engine instance. It is created on first object
// creation, lives on one designated goroutine for the host application's
// lifetime, and is torn down explicitly at shutdown. All access is
// asserted against the owning goroutine: a violation fails fast instead
// of corrupting world state.
type App struct {
	world  *World
	logger *slog.Logger
	owner  uint64
	ticks  uint64

	postTick []func() error
}

// NewApp creates the engine bound to the calling goroutine.
func NewApp(logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		world:  NewWorld(),
		logger: logger,
		owner:  currentGoroutineID(),
	}
}

// World returns the engine's entity-component world.
func (a *App) World() *World { return a.world }

// Ticks returns the number of completed engine updates.
func (a *App) Ticks() uint64 { return a.ticks }

// AssertOwner panics if called from any goroutine other than the one that
// created the engine. This is a programming-contract violation, not a
// recoverable error.
func (a *App) AssertOwner() {
	if g := currentGoroutineID(); g != a.owner {
		panic(fmt.Sprintf(
			"engine accessed from goroutine %d, but it is owned by goroutine %d; "+
				"all drawing calls must run on the goroutine that initialized the engine", g, a.owner))
	}
}

// AddPostTickHook registers fn to run at the end of every tick, after
// rendering and presentation. A non-nil error from a hook fails the tick.
func (a *App) AddPostTickHook(fn func() error) {
	a.postTick = append(a.postTick, fn)
}

// ClearPostTickHooks removes all registered hooks.
func (a *App) ClearPostTickHooks() {
	a.postTick = nil
}

// Update runs exactly one synchronous engine tick: camera activation,
// rasterization, presentation, then post-tick hooks. It blocks until the
// whole pipeline has completed; no partial or pipelined execution is
// observable from outside.
func (a *App) Update() error {
	a.AssertOwner()
	start := time.Now()
	a.ticks++

	activateCameras(a.world)
	renderScene(a.world)
	presentSurfaces(a.world)

	for _, fn := range a.postTick {
		if err := fn(); err != nil {
			return err
		}
	}

	a.logger.Debug("engine tick", "tick", a.ticks, "elapsed", time.Since(start))
	return nil
}
