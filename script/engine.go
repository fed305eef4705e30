// Package script runs the Lua fragments embedded in markup results.
package script

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	glua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/drake/galley/internal/logging"
)

const (
	defaultTimeout   = 2 * time.Second
	defaultCacheSize = 64
)

// Host is what fragments can reach outside the VM.
type Host interface {
	// DishText returns the canonical text of the current dish.
	DishText() string
	// DishKind returns the current dish kind name.
	DishKind() string
	// Notify shows a transient notice.
	Notify(msg string)
}

// Options configures an Engine.
type Options struct {
	// Timeout bounds a single fragment. Zero uses two seconds.
	Timeout time.Duration
	// CacheSize is the number of compiled fragments kept. Zero uses 64.
	CacheSize int
	Logger    *log.Logger
}

// Engine wraps gopher-lua. One VM is shared by all fragments so a later
// fragment can use globals an earlier one defined.
type Engine struct {
	L          *glua.LState
	protos     *lru.Cache[string, *glua.FunctionProto]
	regexCache *lru.Cache[string, *regexp.Regexp]

	host    Host
	timeout time.Duration
	logger  *log.Logger

	galleyTable *glua.LTable
}

// NewEngine creates an Engine. Call Init before use.
func NewEngine(host Host, opts Options) *Engine {
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, _ := lru.New[string, *glua.FunctionProto](size)
	regexCache, _ := lru.New[string, *regexp.Regexp](regexCacheSize)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Engine{
		protos:     cache,
		regexCache: regexCache,
		host:       host,
		timeout:    timeout,
		logger:     logging.Named(opts.Logger, "script"),
	}
}

// Init creates (or recreates) the Lua VM and registers the galley API.
// Compiled fragments survive a re-init.
func (e *Engine) Init() error {
	if e.L != nil {
		e.L.Close()
	}
	e.L = glua.NewState(glua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   glua.LGFunction
	}{
		{glua.LoadLibName, glua.OpenPackage},
		{glua.BaseLibName, glua.OpenBase},
		{glua.TabLibName, glua.OpenTable},
		{glua.StringLibName, glua.OpenString},
		{glua.MathLibName, glua.OpenMath},
	} {
		if err := e.L.CallByParam(glua.P{
			Fn:      e.L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, glua.LString(lib.name)); err != nil {
			return fmt.Errorf("open %s: %w", lib.name, err)
		}
	}
	e.registerAPI()
	return nil
}

// Close releases the VM.
func (e *Engine) Close() {
	if e.L != nil {
		e.L.Close()
		e.L = nil
	}
}

// Execute runs fragments in order. Each gets its own deadline and a failure
// in one does not stop the rest. The returned slice holds one entry per
// fragment, nil on success.
func (e *Engine) Execute(ctx context.Context, fragments []string) []error {
	errs := make([]error, len(fragments))
	for i, src := range fragments {
		name := fmt.Sprintf("fragment#%d", i+1)
		if err := e.run(ctx, name, src); err != nil {
			errs[i] = err
			e.logger.Debug("fragment failed", logging.FieldFragment, name, logging.FieldError, err)
		}
	}
	return errs
}

// DoString runs a single chunk of Lua under the engine's deadline.
func (e *Engine) DoString(name, code string) error {
	return e.run(context.Background(), name, code)
}

func (e *Engine) run(ctx context.Context, name, code string) error {
	if e.L == nil {
		if err := e.Init(); err != nil {
			return err
		}
	}
	proto, err := e.compile(name, code)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.L.SetContext(runCtx)
	e.L.Push(e.L.NewFunctionFromProto(proto))
	err = e.L.PCall(0, glua.MultRet, nil)
	e.L.RemoveContext()
	e.L.SetTop(0)

	if err != nil {
		if runCtx.Err() != nil {
			// An interrupted VM may be left mid-instruction; start over.
			if initErr := e.Init(); initErr != nil {
				return errors.Join(err, initErr)
			}
			return fmt.Errorf("%s: %w", name, runCtx.Err())
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// compile parses code once per distinct source.
func (e *Engine) compile(name, code string) (*glua.FunctionProto, error) {
	if proto, ok := e.protos.Get(code); ok {
		return proto, nil
	}
	chunk, err := parse.Parse(strings.NewReader(code), name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	proto, err := glua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	e.protos.Add(code, proto)
	return proto, nil
}

// CachedFragments returns how many compiled fragments are cached.
func (e *Engine) CachedFragments() int {
	return e.protos.Len()
}
