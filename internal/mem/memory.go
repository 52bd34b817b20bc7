package mem

import (
	"errors"
	"fmt"
)

var (
	// ErrOverflow indicates that a push found no room left between the value
	// stack and the return stack.
	ErrOverflow = errors.New("stack overflow")

	// ErrUnderflow indicates a pop from an empty (or too shallow) stack, or a
	// return stack reservation with no room left.
	ErrUnderflow = errors.New("stack underflow")
)

// AddrError indicates a fetch or store outside of memory.
type AddrError struct {
	Addr int
	Op   string
}

func (ae AddrError) Error() string {
	return fmt.Sprintf("invalid address by %v @%v", ae.Op, ae.Addr)
}

// Memory is a single cell array shared by a value stack, a return stack, and
// a heap.
//
// The value stack grows up from address 0, the return stack grows down from
// address Cap()-1, and the heap occupies [Cap(), Len()).
//
// Any failing operation resets both stacks before returning its error, so no
// partial state survives an abort.
type Memory struct {
	cells    []Cell
	stackCap int
	sp, rp   int
}

// New allocates memory for a stack region of the given capacity, followed by
// a heap region.
func New(stackCap, heapCap int) *Memory {
	if stackCap < 0 {
		stackCap = 0
	}
	if heapCap < 0 {
		heapCap = 0
	}
	m := &Memory{
		cells:    make([]Cell, stackCap+heapCap),
		stackCap: stackCap,
	}
	m.Reset()
	return m
}

// Reset clears both stacks; heap contents are left alone.
func (m *Memory) Reset() {
	m.sp = 0
	m.rp = m.stackCap - 1
}

// Len returns the total number of addressable cells.
func (m *Memory) Len() int { return len(m.cells) }

// Cap returns the stack region capacity, which is also the heap base address.
func (m *Memory) Cap() int { return m.stackCap }

// SP returns the index of the next free value stack slot.
func (m *Memory) SP() int { return m.sp }

// RP returns the index of the next free return stack slot.
func (m *Memory) RP() int { return m.rp }

// Stack returns a copy of the value stack, bottom first.
func (m *Memory) Stack() []Cell {
	return append(make([]Cell, 0, m.sp), m.cells[:m.sp]...)
}

// RStack returns a copy of the return stack, bottom first.
func (m *Memory) RStack() []Cell {
	var rs []Cell
	for i := m.stackCap - 1; i > m.rp; i-- {
		rs = append(rs, m.cells[i])
	}
	return rs
}

// Push appends a cell to the value stack.
func (m *Memory) Push(c Cell) error {
	if m.sp > m.rp {
		return m.fail(ErrOverflow)
	}
	m.cells[m.sp] = c
	m.sp++
	return nil
}

// Pop removes and returns the top of the value stack.
func (m *Memory) Pop() (Cell, error) {
	if m.sp <= 0 {
		return Cell{}, m.fail(ErrUnderflow)
	}
	m.sp--
	return m.cells[m.sp], nil
}

// Top returns the top of the value stack without removing it.
func (m *Memory) Top() (Cell, error) {
	if m.sp <= 0 {
		return Cell{}, m.fail(ErrUnderflow)
	}
	return m.cells[m.sp-1], nil
}

// Dup pushes a copy of the top of the value stack.
func (m *Memory) Dup() error {
	c, err := m.Top()
	if err != nil {
		return err
	}
	return m.Push(c)
}

// Swap exchanges the top two value stack cells.
func (m *Memory) Swap() error {
	if m.sp < 2 {
		return m.fail(ErrUnderflow)
	}
	m.cells[m.sp-2], m.cells[m.sp-1] = m.cells[m.sp-1], m.cells[m.sp-2]
	return nil
}

// Over pushes a copy of the second value stack cell.
func (m *Memory) Over() error {
	if m.sp < 2 {
		return m.fail(ErrUnderflow)
	}
	return m.Push(m.cells[m.sp-2])
}

// Fetch loads the cell at addr.
func (m *Memory) Fetch(addr int) (Cell, error) {
	if addr < 0 || addr >= len(m.cells) {
		return Cell{}, m.fail(AddrError{addr, "fetch"})
	}
	return m.cells[addr], nil
}

// Store writes c at addr.
func (m *Memory) Store(addr int, c Cell) error {
	if addr < 0 || addr >= len(m.cells) {
		return m.fail(AddrError{addr, "store"})
	}
	m.cells[addr] = c
	return nil
}

// Reserve claims the next return stack slot, returning its address.
func (m *Memory) Reserve() (int, error) {
	slot := m.rp
	m.rp--
	if m.rp < m.sp {
		return 0, m.fail(ErrUnderflow)
	}
	return slot, nil
}

// Release gives back the most recently reserved return stack slot.
func (m *Memory) Release() error {
	if m.rp >= m.stackCap-1 {
		return m.fail(ErrUnderflow)
	}
	m.rp++
	return nil
}

// RTop returns the address of the most recently reserved return stack slot.
func (m *Memory) RTop() (int, error) {
	if m.rp >= m.stackCap-1 {
		return 0, m.fail(ErrUnderflow)
	}
	return m.rp + 1, nil
}

func (m *Memory) fail(err error) error {
	m.Reset()
	return err
}
