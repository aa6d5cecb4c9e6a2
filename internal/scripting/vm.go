package scripting

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// ErrTimeout is returned when a script call runs past its deadline.
var ErrTimeout = errors.New("scripting: script timed out")

// LogEntry is one message written by a script with log() or console.log().
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// VM is a sandboxed goja runtime. Calls are serialized.
type VM struct {
	runtime *goja.Runtime
	mu      sync.Mutex
	timeout time.Duration

	logs    []LogEntry
	logsMu  sync.Mutex
	maxLogs int
	onLog   func(string)
}

const scriptInitTimeout = 2 * time.Second

// NewVM creates a sandboxed runtime. timeout bounds each function call;
// zero means one second.
func NewVM(timeout time.Duration) *VM {
	if timeout <= 0 {
		timeout = time.Second
	}
	vm := &VM{
		runtime: goja.New(),
		timeout: timeout,
		maxLogs: 500,
	}
	vm.runtime.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	vm.injectGlobals()
	return vm
}

func (vm *VM) injectGlobals() {
	vm.runtime.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		vm.appendLog(strings.Join(parts, " "))
		return goja.Undefined()
	})

	console := vm.runtime.NewObject()
	console.Set("log", vm.runtime.Get("log"))
	vm.runtime.Set("console", console)

	// No module loading, network or dynamic code.
	for _, name := range []string{"require", "fetch", "XMLHttpRequest", "eval", "Function"} {
		vm.runtime.Set(name, goja.Undefined())
	}
}

func (vm *VM) appendLog(msg string) {
	vm.logsMu.Lock()
	if len(vm.logs) >= vm.maxLogs {
		vm.logs = vm.logs[1:]
	}
	vm.logs = append(vm.logs, LogEntry{Time: time.Now(), Message: msg})
	onLog := vm.onLog
	vm.logsMu.Unlock()

	if onLog != nil {
		onLog(msg)
	}
}

// Execute runs the script body once, defining its functions.
func (vm *VM) Execute(source string) error {
	return vm.runWithTimeout(scriptInitTimeout, func() error {
		if _, err := vm.runtime.RunString(source); err != nil {
			return fmt.Errorf("scripting: execute: %w", err)
		}
		return nil
	})
}

// HasFunc reports whether the script defines a global function name.
func (vm *VM) HasFunc(name string) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	_, ok := goja.AssertFunction(vm.runtime.Get(name))
	return ok
}

// Call invokes the global function name with Go values as arguments and
// returns its result exported to Go.
func (vm *VM) Call(name string, args ...any) (any, error) {
	var out any
	err := vm.runWithTimeout(vm.timeout, func() error {
		fn, ok := goja.AssertFunction(vm.runtime.Get(name))
		if !ok {
			return fmt.Errorf("scripting: %s is not a function", name)
		}
		values := make([]goja.Value, len(args))
		for i, a := range args {
			values[i] = vm.runtime.ToValue(a)
		}
		result, err := fn(goja.Undefined(), values...)
		if err != nil {
			return fmt.Errorf("scripting: %s(): %w", name, err)
		}
		out = result.Export()
		return nil
	})
	return out, err
}

// Logs returns a copy of the log buffer.
func (vm *VM) Logs() []LogEntry {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	out := make([]LogEntry, len(vm.logs))
	copy(out, vm.logs)
	return out
}

// ClearLogs empties the log buffer.
func (vm *VM) ClearLogs() {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	vm.logs = vm.logs[:0]
}

func (vm *VM) runWithTimeout(timeout time.Duration, fn func() error) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.runtime.ClearInterrupt()

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		vm.runtime.Interrupt(ErrTimeout)
		select {
		case err := <-done:
			if err != nil {
				return fmt.Errorf("%w: %v", ErrTimeout, err)
			}
			return ErrTimeout
		case <-time.After(200 * time.Millisecond):
			return ErrTimeout
		}
	}
}
