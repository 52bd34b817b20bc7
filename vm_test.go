package fourth

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jcorbin/gofourth/internal/logio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		t.Run(vmt.name, vmt.run)
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	vmt.stackCap = 16
	vmt.heapCap = 16
	return vmt
}

type vmTestCase struct {
	name     string
	stackCap int
	heapCap  int
	opts     []VMOption
	inputs   []string
	expect   []func(t *testing.T, vm *VM)
	wantErr  error
	output   *string

	wantErrString string

	exclusive bool
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withMemory(stackCap, heapCap int) vmTestCase {
	vmt.stackCap = stackCap
	vmt.heapCap = heapCap
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	vmt.opts = append(vmt.opts, opts...)
	return vmt
}

// withInput adds a source text to be passed to its own Run call.
func (vmt vmTestCase) withInput(src string) vmTestCase {
	vmt.inputs = append(vmt.inputs, src)
	return vmt
}

// expectError expects the last Run to fail with err; any earlier Run must
// succeed.
func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	vmt.output = &output
	return vmt
}

func (vmt vmTestCase) expectOutputLines(lines ...string) vmTestCase {
	output := ""
	if len(lines) > 0 {
		output = strings.Join(lines, "\n") + "\n"
	}
	return vmt.expectOutput(output)
}

func (vmt vmTestCase) expectStack(values ...interface{}) vmTestCase {
	want := cells(values...)
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, want, vm.Stack(), "expected stack values")
	})
	return vmt
}

func (vmt vmTestCase) expectRStack(values ...interface{}) vmTestCase {
	want := cells(values...)
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		rs := vm.mem.RStack()
		if rs == nil {
			rs = []Cell{}
		}
		assert.Equal(t, want, rs, "expected return stack values")
	})
	return vmt
}

func (vmt vmTestCase) expectDefined(name string, defined bool) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, defined, vm.Defined(name), "expected %q definedness", name)
	})
	return vmt
}

func (vmt vmTestCase) expectWords(names ...string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, names, vm.Words(), "expected defined words")
	})
	return vmt
}

func (vmt vmTestCase) expectDump(dump string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		var out strings.Builder
		vm.Dump(&out)
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return vmt
}

func (vmt vmTestCase) expectErrorString(mess string) vmTestCase {
	vmt.wantErrString = mess
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Since(then))
	}(time.Now())

	var out strings.Builder
	vm := vmt.buildVM(t, &out)
	defer func() {
		if t.Failed() {
			vmt.dumpToTest(t, vm)
		}
	}()

	var err error
	for i, src := range vmt.inputs {
		err = vm.RunSource(fmt.Sprintf("input_%v", i+1), src)
		if i < len(vmt.inputs)-1 {
			require.NoError(t, err, "unexpected error from input #%v", i+1)
		}
	}
	if vmt.wantErrString != "" {
		assert.EqualError(t, err, vmt.wantErrString, "expected error string")
	}
	if vmt.wantErr != nil {
		require.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
	} else {
		require.NoError(t, err, "unexpected VM run error")
	}

	if vmt.output != nil {
		assert.Equal(t, *vmt.output, out.String(), "expected output")
	}
	for _, expect := range vmt.expect {
		expect(t, vm)
	}
}

func (vmt vmTestCase) buildVM(t *testing.T, out *strings.Builder) *VM {
	logger := log.NewWithOptions(&logio.Writer{Logf: t.Logf}, log.Options{
		Level:  log.DebugLevel,
		Prefix: "vm",
	})
	opts := append([]VMOption{
		WithOutput(out),
		WithLogger(logger),
	}, vmt.opts...)
	return New(vmt.stackCap, vmt.heapCap, opts...)
}

func (vmt vmTestCase) dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	vm.Dump(&lw)
}

//// utilities

func cells(values ...interface{}) []Cell {
	cs := make([]Cell, len(values))
	for i, value := range values {
		switch v := value.(type) {
		case int:
			cs[i] = Num(float64(v))
		case float64:
			cs[i] = Num(v)
		case string:
			cs[i] = Text(v)
		case Cell:
			cs[i] = v
		default:
			panic(fmt.Sprintf("unsupported cell value %T", value))
		}
	}
	return cs
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}
