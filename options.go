package fourth

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/jcorbin/gofourth/internal/flushio"
)

// VMOption customizes a VM under construction.
type VMOption interface{ apply(vm *VM) }

const defaultCallDepth = 1024

var defaultOptions = VMOptions(
	WithOutput(io.Discard),
	WithComments(true),
	WithCallDepth(defaultCallDepth),
)

// VMOptions combines any number of options into one; nil options are
// ignored.
func VMOptions(opts ...VMOption) VMOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

type options []VMOption

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type loggerOption struct{ *log.Logger }
type commentsOption bool
type callDepthOption int

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = flushio.Tee(vm.out, flushio.NewWriteFlusher(o.Writer))
}

func (o loggerOption) apply(vm *VM) { vm.logger = o.Logger }

func (enabled commentsOption) apply(vm *VM) { vm.scan.comments = bool(enabled) }

func (limit callDepthOption) apply(vm *VM) { vm.maxDepth = int(limit) }
