package fourth

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/jcorbin/gofourth/internal/mem"
	"github.com/jcorbin/gofourth/internal/panicerr"
)

// Cell is a value stack or heap cell: a number or a text.
type Cell = mem.Cell

// Num returns a numeric cell.
func Num(f float64) Cell { return mem.Num(f) }

// Text returns a text cell.
func Text(s string) Cell { return mem.Text(s) }

// New creates a VM whose memory holds a stack region of stackCap cells (shared
// by the value and return stacks) followed by heapCap heap cells.
func New(stackCap, heapCap int, opts ...VMOption) *VM {
	vm := &VM{mem: mem.New(stackCap, heapCap)}
	defaultOptions.apply(vm)
	VMOptions(opts...).apply(vm)
	vm.compileBuiltins()
	return vm
}

// Run interprets src. Any abort condition is returned as an *Error, after
// both stacks have been reset; definitions made before the abort remain.
func (vm *VM) Run(src string) error {
	return vm.RunSource("", src)
}

// RunSource is like Run, but names the source in error locations.
func (vm *VM) RunSource(name, src string) error {
	err := panicerr.Recover("VM", func() error {
		return vm.run(name, src)
	})
	if err == nil || errors.Is(err, errReentrant) {
		return err
	}
	var ab abortError
	if errors.As(err, &ab) {
		return ab.err
	}
	vm.mem.Reset()
	return err
}

// Stack returns a copy of the value stack, bottom first.
func (vm *VM) Stack() []Cell { return vm.mem.Stack() }

// Words returns the names of all words defined by ":", in order of their
// first definition.
func (vm *VM) Words() []string { return vm.dict.userWords() }

// Defined returns true if name currently resolves to a word.
func (vm *VM) Defined(name string) bool { return vm.dict.resolve(name) != nil }

// WithOutput sets where "." and EMIT write; output is flushed at the end of
// every Run, and before an abort returns.
func WithOutput(w io.Writer) VMOption { return outputOption{w} }

// WithTee adds another writer to receive a copy of all output.
func WithTee(w io.Writer) VMOption { return teeOption{w} }

// WithLogger enables debug logging of definitions, aborts, and every
// interpreted token.
func WithLogger(logger *log.Logger) VMOption { return loggerOption{logger} }

// WithComments enables or disables the "( ... )" and "\" comment syntax;
// it is enabled by default.
func WithComments(enabled bool) VMOption { return commentsOption(enabled) }

// WithCallDepth limits how deeply composite words may call each other;
// exceeding the limit aborts with StackOverflow. A limit of 0 disables the
// check.
func WithCallDepth(limit int) VMOption { return callDepthOption(limit) }
