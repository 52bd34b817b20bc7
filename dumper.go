package fourth

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes a human readable description of the VM's memory and user
// defined words to w.
func (vm *VM) Dump(w io.Writer) {
	vmDumper{vm: vm, out: w}.dump()
}

type vmDumper struct {
	vm  *VM
	out io.Writer

	addrWidth int
}

func (dump vmDumper) dump() {
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  sp: %v\n", dump.vm.mem.SP())
	fmt.Fprintf(dump.out, "  rp: %v\n", dump.vm.mem.RP())
	dump.dumpStacks()
	dump.dumpHeap()
	dump.dumpWords()
}

func (dump vmDumper) dumpStacks() {
	fmt.Fprintf(dump.out, "  stack: %v\n", formatCells(dump.vm.mem.Stack()))
	fmt.Fprintf(dump.out, "  rstack: %v\n", formatCells(dump.vm.mem.RStack()))
}

func (dump vmDumper) dumpHeap() {
	m := dump.vm.mem
	fmt.Fprintf(dump.out, "# Heap @%v\n", m.Cap())
	if dump.addrWidth == 0 {
		dump.addrWidth = len(strconv.Itoa(m.Len()))
	}
	for addr := m.Cap(); addr < m.Len(); addr++ {
		if c, err := m.Fetch(addr); err == nil && c.Truth() {
			fmt.Fprintf(dump.out, "  @%*v %#v\n", dump.addrWidth, addr, c)
		}
	}
}

func (dump vmDumper) dumpWords() {
	fmt.Fprintf(dump.out, "# Words\n")
	for _, name := range dump.vm.dict.userWords() {
		w := dump.vm.dict.resolve(name)
		if len(w.body) == 0 {
			fmt.Fprintf(dump.out, "  : %v ;\n", name)
		} else {
			fmt.Fprintf(dump.out, "  : %v %v ;\n", name, dump.formatBody(w.body))
		}
	}
}

// formatBody decompiles a word body; branches are shown with their target
// action index, like "0BRANCH>4".
func (dump vmDumper) formatBody(body []action) string {
	parts := make([]string, len(body))
	for i, act := range body {
		switch act.op {
		case opLit:
			parts[i] = fmt.Sprintf("%#v", act.lit)
		case opCall:
			parts[i] = dump.vm.dict.string(act.sym)
		case opBranch0:
			parts[i] = fmt.Sprintf("0BRANCH>%v", act.target)
		case opBranch:
			parts[i] = fmt.Sprintf("BRANCH>%v", act.target)
		case opDo:
			parts[i] = fmt.Sprintf("DO>%v", act.target)
		case opLoop:
			parts[i] = fmt.Sprintf("LOOP>%v", act.target)
		default:
			parts[i] = fmt.Sprintf("?%v", act.op)
		}
	}
	return strings.Join(parts, " ")
}

func formatCells(cells []Cell) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c.GoString()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
