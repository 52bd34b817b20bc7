package fourth

import (
	"io"
	"strings"

	"github.com/jcorbin/gofourth/internal/mem"
	"github.com/jcorbin/gofourth/internal/runeio"
)

// print writes a cell followed by a line feed.
func (vm *VM) print(c mem.Cell) {
	vm.write(c.String() + "\n")
}

// emit writes a number as the rune it encodes, or a text verbatim.
func (vm *VM) emit(c mem.Cell) {
	var err error
	if f, ok := c.Number(); ok {
		_, err = runeio.WriteANSIRune(vm.out, rune(f))
	} else {
		_, err = runeio.WriteANSIString(vm.out, c.String())
	}
	vm.haltif(err)
}

func (vm *VM) write(s string) {
	_, err := io.WriteString(vm.out, s)
	vm.haltif(err)
}

// printStack writes the value stack depth and contents, without changing it.
func (vm *VM) printStack() {
	stack := vm.mem.Stack()
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(mem.Num(float64(len(stack))).String())
	sb.WriteByte('>')
	for _, c := range stack {
		sb.WriteByte(' ')
		sb.WriteString(c.GoString())
	}
	sb.WriteByte('\n')
	vm.write(sb.String())
}
