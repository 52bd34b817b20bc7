package mem_test

import (
	"errors"
	"log"
	"os"
	"testing"

	"github.com/jcorbin/gofourth/internal/logio"
	"github.com/jcorbin/gofourth/internal/mem"
	"github.com/jcorbin/gofourth/internal/panicerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Memory(t *testing.T) {
	for _, tc := range []memoryTestCase{
		memoryTest("push pop", 4, 4,
			"init", func(t *testing.T, m *mem.Memory) {
				require.Equal(t, 8, m.Len(), "expected stack+heap cells")
				require.Equal(t, 4, m.Cap(), "expected stack capacity")
				require.Equal(t, 0, m.SP(), "expected empty value stack")
				require.Equal(t, 3, m.RP(), "expected empty return stack")
			},

			"push 1 2 3 4", func(t *testing.T, m *mem.Memory) {
				for i := 1; i <= 4; i++ {
					require.NoError(t, m.Push(mem.Num(float64(i))), "must push %v", i)
				}
				expectStack(t, m, 1, 2, 3, 4)
			},

			"push 5 overflows", func(t *testing.T, m *mem.Memory) {
				err := m.Push(mem.Num(5))
				require.True(t, errors.Is(err, mem.ErrOverflow), "expected overflow, got %v", err)
				expectStack(t, m)
				require.Equal(t, 3, m.RP(), "expected reset return stack")
			},

			"pop empty underflows", func(t *testing.T, m *mem.Memory) {
				_, err := m.Pop()
				require.True(t, errors.Is(err, mem.ErrUnderflow), "expected underflow, got %v", err)
				_, err = m.Top()
				require.True(t, errors.Is(err, mem.ErrUnderflow), "expected underflow, got %v", err)
			},

			"push pop round trip", func(t *testing.T, m *mem.Memory) {
				require.NoError(t, m.Push(mem.Text("hello")))
				c, err := m.Pop()
				require.NoError(t, err)
				require.Equal(t, mem.Text("hello"), c)
				expectStack(t, m)
			},
		),

		memoryTest("stack shuffles", 4, 0,
			"dup", func(t *testing.T, m *mem.Memory) {
				require.NoError(t, m.Push(mem.Num(7)))
				require.NoError(t, m.Dup())
				expectStack(t, m, 7, 7)
			},

			"over swap", func(t *testing.T, m *mem.Memory) {
				require.NoError(t, m.Push(mem.Num(9)))
				require.NoError(t, m.Over())
				expectStack(t, m, 7, 7, 9, 7)
				require.NoError(t, m.Swap())
				expectStack(t, m, 7, 7, 7, 9)
			},

			"swap needs two", func(t *testing.T, m *mem.Memory) {
				m.Reset()
				require.NoError(t, m.Push(mem.Num(1)))
				require.True(t, errors.Is(m.Swap(), mem.ErrUnderflow), "expected swap underflow")
				expectStack(t, m)
				require.True(t, errors.Is(m.Over(), mem.ErrUnderflow), "expected over underflow")
				require.True(t, errors.Is(m.Dup(), mem.ErrUnderflow), "expected dup underflow")
			},
		),

		memoryTest("heap", 2, 3,
			"store fetch", func(t *testing.T, m *mem.Memory) {
				require.NoError(t, m.Store(2, mem.Num(42)), "must store @2")
				require.NoError(t, m.Store(4, mem.Text("x")), "must store @4")
				c, err := m.Fetch(2)
				require.NoError(t, err)
				require.Equal(t, mem.Num(42), c)
				c, err = m.Fetch(4)
				require.NoError(t, err)
				require.Equal(t, mem.Text("x"), c)
				c, err = m.Fetch(3)
				require.NoError(t, err)
				require.Equal(t, mem.Cell{}, c, "expected zero cell @3")
			},

			"out of bounds", func(t *testing.T, m *mem.Memory) {
				require.NoError(t, m.Push(mem.Num(1)))
				var ae mem.AddrError
				require.True(t, errors.As(m.Store(5, mem.Num(1)), &ae), "expected address error")
				require.Equal(t, mem.AddrError{Addr: 5, Op: "store"}, ae)
				expectStack(t, m)
				_, err := m.Fetch(-1)
				require.True(t, errors.As(err, &ae), "expected address error")
				require.Equal(t, mem.AddrError{Addr: -1, Op: "fetch"}, ae)
			},

			"reset keeps heap", func(t *testing.T, m *mem.Memory) {
				m.Reset()
				c, err := m.Fetch(2)
				require.NoError(t, err)
				require.Equal(t, mem.Num(42), c)
			},
		),

		memoryTest("return stack", 4, 0,
			"reserve", func(t *testing.T, m *mem.Memory) {
				require.NoError(t, m.Push(mem.Num(7)))
				require.NoError(t, m.Push(mem.Num(0)))
				slot, err := m.Reserve()
				require.NoError(t, err, "must reserve a slot")
				require.Equal(t, 3, slot)
				require.Equal(t, 2, m.RP())
				require.NoError(t, m.Store(slot, mem.Num(5)))
				top, err := m.RTop()
				require.NoError(t, err)
				require.Equal(t, slot, top)
				require.Equal(t, []mem.Cell{mem.Num(5)}, m.RStack())
			},

			"reserve collides with value stack", func(t *testing.T, m *mem.Memory) {
				_, err := m.Reserve()
				require.True(t, errors.Is(err, mem.ErrUnderflow), "expected underflow, got %v", err)
				expectStack(t, m)
				require.Equal(t, 3, m.RP(), "expected reset return stack")
			},

			"release", func(t *testing.T, m *mem.Memory) {
				_, err := m.Reserve()
				require.NoError(t, err)
				require.NoError(t, m.Release())
				require.True(t, errors.Is(m.Release(), mem.ErrUnderflow), "expected release underflow")
				_, err = m.RTop()
				require.True(t, errors.Is(err, mem.ErrUnderflow), "expected rtop underflow")
			},
		),
	} {
		t.Run(tc.name, tc.run)
	}
}

func Test_Cell(t *testing.T) {
	assert.Equal(t, "3", mem.Num(3).String())
	assert.Equal(t, "0.5", mem.Num(0.5).String())
	assert.Equal(t, "-1", mem.Bool(true).String())
	assert.Equal(t, "0", mem.Bool(false).String())
	assert.Equal(t, `"a b"`, mem.Text("a b").GoString())

	assert.False(t, mem.Num(0).Truth())
	assert.False(t, mem.Text("").Truth())
	assert.True(t, mem.Num(0.1).Truth())
	assert.True(t, mem.Text("0").Truth())

	assert.True(t, mem.Num(2).Equal(mem.Num(2)))
	assert.False(t, mem.Num(2).Equal(mem.Text("2")))
	assert.True(t, mem.Text("x").Equal(mem.Text("x")))
	assert.Equal(t, mem.Num(0), mem.Cell{}, "zero cell is the number 0")

	n, ok := mem.Text("x").Number()
	assert.False(t, ok)
	assert.Equal(t, 0.0, n)
}

func expectStack(t *testing.T, m *mem.Memory, values ...float64) {
	want := make([]mem.Cell, len(values))
	for i, v := range values {
		want[i] = mem.Num(v)
	}
	require.Equal(t, want, m.Stack(), "expected stack values")
	require.Equal(t, len(values), m.SP(), "expected stack pointer")
}

func memoryTest(name string, stackCap, heapCap int, args ...interface{}) (tc memoryTestCase) {
	tc.name = name
	tc.stackCap = stackCap
	tc.heapCap = heapCap
	for i := 0; i < len(args); i++ {
		var step memoryTestStep

		step.name = args[i].(string)

		if i++; i >= len(args) {
			panic("memoryTest: missing function argument after name")
		}
		step.f = args[i].(func(t *testing.T, m *mem.Memory))

		tc.steps = append(tc.steps, step)
	}
	return tc
}

type memoryTestCase struct {
	name     string
	stackCap int
	heapCap  int
	steps    []memoryTestStep
}

func (tc memoryTestCase) run(t *testing.T) {
	tcLogOut := &logio.Writer{Logf: t.Logf}
	log.SetOutput(tcLogOut)
	defer log.SetOutput(os.Stderr)

	m := mem.New(tc.stackCap, tc.heapCap)
	defer func() {
		if t.Failed() {
			t.Logf("sp: %v rp: %v", m.SP(), m.RP())
			t.Logf("stack: %#v", m.Stack())
			t.Logf("rstack: %#v", m.RStack())
		}
	}()

	for _, step := range tc.steps {
		if !t.Run(step.name, func(t *testing.T) {
			isolateTest(t, step.bind(m))
		}) {
			break
		}
	}
}

type memoryTestStep struct {
	name string
	f    func(t *testing.T, m *mem.Memory)

	m *mem.Memory
}

func (step memoryTestStep) bind(m *mem.Memory) func(t *testing.T) {
	step.m = m
	return step.boundTest
}

func (step memoryTestStep) boundTest(t *testing.T) {
	step.f(t, step.m)
}

func isolateTest(t *testing.T, f func(t *testing.T)) {
	if err := panicerr.Recover(t.Name(), func() error {
		f(t)
		return nil
	}); err != nil {
		t.Logf("%+v", err)
		t.Fail()
	}
}
