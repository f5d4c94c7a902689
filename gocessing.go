// Package gocessing is an immediate-mode drawing API bridged onto a
// retained-mode entity-component renderer. Callers script drawing the
// Processing way: create a surface, attach a graphics context, record
// draw calls, flush. Each flush converts the recorded commands into
// transient engine entities, drives exactly one synchronous engine tick,
// and tears the transients down again, so the retained engine never
// leaks into the caller's mental model.
//
// The whole API is single-goroutine: every call must run on the
// goroutine that first touched the package. Violations panic rather than
// corrupt state. Errors are returned directly and additionally parked in
// a pending-error slot for foreign binding layers that poll CheckError
// after every call.
package gocessing

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gocessing/gocessing/internal/config"
	"github.com/gocessing/gocessing/internal/engine"
	"github.com/gocessing/gocessing/internal/lasterr"
	"github.com/gocessing/gocessing/internal/logging"
	"github.com/gocessing/gocessing/internal/registry"
)

// Handle is an opaque reference to an API object. The zero value is
// never valid. Handles to destroyed objects stay detectably invalid and
// never alias a newer object.
type Handle uint64

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

func (c Color) vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

func colorOf(v mgl32.Vec4) Color {
	return Color{R: v.X(), G: v.Y(), B: v.Z(), A: v.W()}
}

// Config holds the engine settings applied at Init.
type Config struct {
	// MaxObjects caps the number of live objects across all kinds.
	MaxObjects int
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// ClearColor is the color new surfaces are cleared to.
	ClearColor Color
}

// DefaultConfig returns the settings used when Init is never called:
// Processing's light-gray canvas and a generous object cap, with
// environment overrides applied.
func DefaultConfig() Config {
	cfg, err := config.FromEnv()
	if err != nil {
		cfg = config.Default()
	}
	return fromInternal(cfg)
}

// LoadConfig reads a JSON config file from fsys, layered over the
// defaults with environment overrides on top.
func LoadConfig(fsys fs.FS, name string) (Config, error) {
	cfg, err := config.NewLoader(fsys).Load(name)
	if err != nil {
		return fromInternal(cfg), err
	}
	return fromInternal(cfg), nil
}

func fromInternal(cfg config.Config) Config {
	return Config{
		MaxObjects: cfg.MaxObjects,
		LogLevel:   cfg.LogLevel,
		ClearColor: Color{cfg.ClearColor[0], cfg.ClearColor[1], cfg.ClearColor[2], cfg.ClearColor[3]},
	}
}

// state is the process-wide engine instance, created on the designated
// goroutine and never shared.
type state struct {
	cfg      Config
	logger   *slog.Logger
	app      *engine.App
	objects  *registry.Registry
	errs     *lasterr.Slot
	flushing bool
}

var proc *state

// Init creates the engine with the given configuration and binds it to
// the calling goroutine. Calling Init when the engine already exists is a
// logged no-op; the original configuration stays in effect. Init is
// optional: any object-creating call initializes with DefaultConfig.
func Init(cfg Config) error {
	if proc != nil {
		proc.app.AssertOwner()
		proc.logger.Debug("init skipped: engine already running")
		return nil
	}
	if cfg.MaxObjects <= 0 {
		return fmt.Errorf("max objects must be positive, got %d", cfg.MaxObjects)
	}
	runtime.LockOSThread()
	logger := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	proc = &state{
		cfg:     cfg,
		logger:  logger,
		app:     engine.NewApp(logger),
		objects: registry.New(cfg.MaxObjects),
		errs:    lasterr.New(logger),
	}
	proc.logger.Info("engine initialized", "max_objects", cfg.MaxObjects)
	return nil
}

// Shutdown runs one final engine tick so deferred work drains, then tears
// the engine down. code is the host application's exit status, recorded
// in the log for post-mortems. Safe to call without a prior Init.
func Shutdown(code int) error {
	if proc == nil {
		return nil
	}
	return entry("shutdown", func(st *state) error {
		err := st.app.Update()
		st.logger.Info("engine shut down",
			"code", code, "ticks", st.app.Ticks(), "leaked_objects", st.objects.Live())
		proc = nil
		return err
	})
}

// CheckError returns and clears the pending error from the most recent
// failed call. Foreign binding layers poll this after every call; Go
// callers normally use the returned errors instead.
func CheckError() (string, bool) {
	if proc == nil {
		return "", false
	}
	return proc.errs.Take()
}

// Ticks returns the number of engine ticks completed so far.
func Ticks() uint64 {
	if proc == nil {
		return 0
	}
	return proc.app.Ticks()
}

// ensureInit initializes with defaults on the first call of any entry
// point, matching the lazy creation of the engine behind the API.
func ensureInit() (*state, error) {
	if proc == nil {
		if err := Init(DefaultConfig()); err != nil {
			return nil, err
		}
	}
	return proc, nil
}

// entry is the boundary wrapper around every API call: assert the
// designated goroutine, clear the pending-error slot, run the operation,
// and park any failure in the slot. The goroutine assertion runs before
// the panic guard on purpose; a wrong-goroutine panic must propagate.
func entry(op string, fn func(st *state) error) error {
	st, err := ensureInit()
	if err != nil {
		return err
	}
	st.app.AssertOwner()
	st.errs.Clear()
	return st.run(op, fn)
}

func (st *state) run(op string, fn func(st *state) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			st.logger.Error("panic in entry point", "op", op, "panic", r)
			err = fmt.Errorf("%w: panic in %s: %v", ErrRenderFailure, op, r)
		}
		if err != nil {
			st.errs.Record(err)
		}
	}()
	return fn(st)
}

// Typed resolve helpers. Resolution happens fresh on every call so stale
// handles fail at the call that uses them, not somewhere downstream.

func (st *state) surfaceObj(h Handle) (*surfaceObject, error) {
	v, err := st.objects.Resolve(registry.Handle(h), registry.KindSurface)
	if err != nil {
		return nil, err
	}
	return v.(*surfaceObject), nil
}

func (st *state) graphicsObj(h Handle) (*graphicsObject, error) {
	v, err := st.objects.Resolve(registry.Handle(h), registry.KindGraphics)
	if err != nil {
		return nil, err
	}
	return v.(*graphicsObject), nil
}

func (st *state) imageObj(h Handle) (*imageObject, error) {
	v, err := st.objects.Resolve(registry.Handle(h), registry.KindImage)
	if err != nil {
		return nil, err
	}
	return v.(*imageObject), nil
}

func (st *state) geometryObj(h Handle) (*geometryObject, error) {
	v, err := st.objects.Resolve(registry.Handle(h), registry.KindGeometry)
	if err != nil {
		return nil, err
	}
	return v.(*geometryObject), nil
}

func (st *state) materialObj(h Handle) (*materialObject, error) {
	v, err := st.objects.Resolve(registry.Handle(h), registry.KindMaterial)
	if err != nil {
		return nil, err
	}
	return v.(*materialObject), nil
}

func (st *state) fontObj(h Handle) (*fontObject, error) {
	v, err := st.objects.Resolve(registry.Handle(h), registry.KindFont)
	if err != nil {
		return nil, err
	}
	return v.(*fontObject), nil
}
