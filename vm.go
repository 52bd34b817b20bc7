package fourth

import (
	"errors"
	"math"

	"github.com/charmbracelet/log"
	"github.com/jcorbin/gofourth/internal/flushio"
	"github.com/jcorbin/gofourth/internal/mem"
)

// VM is one interpreter instance: a memory model, a dictionary, and an input
// buffer. It is not safe for concurrent use, and Run is not reentrant.
type VM struct {
	mem  *mem.Memory
	dict dictionary
	scan scanner

	out    flushio.WriteFlusher
	logger *log.Logger

	cur      token // the token being interpreted
	maxDepth int
	depth    int
	running  bool
}

var errReentrant = errors.New("fourth: Run called while already running")

func (vm *VM) run(name, src string) error {
	if vm.running {
		return errReentrant
	}
	vm.running = true
	defer func() { vm.running = false }()

	vm.scan.reset(name, src)
	vm.cur = token{}
	vm.depth = 0
	for {
		tok := vm.next()
		if tok.end() {
			return vm.out.Flush()
		}
		vm.interpret(tok)
	}
}

// next reads a token from the input buffer, aborting on any scan error.
func (vm *VM) next() token {
	tok, err := vm.scan.next()
	if err != nil {
		vm.abort(err)
	}
	return tok
}

// interpret executes one token read outside of any definition.
func (vm *VM) interpret(tok token) {
	vm.cur = tok
	vm.logDebug("exec", "token", tok, "loc", tok.loc)
	if tok.kind == tokenText {
		vm.push(mem.Text(tok.text))
		return
	}
	if w := vm.dict.resolve(tok.text); w != nil {
		if w.kind == fragmentWord {
			vm.abortAt(tok, &Error{Kind: CompileOnlyWordMisuse, Word: tok.text})
		}
		vm.invoke(w)
		return
	}
	lit, ok := parseLiteral(tok.text)
	if !ok {
		vm.abortAt(tok, &Error{Kind: UnrecognizedWord, Word: tok.text})
	}
	vm.push(lit)
}

// executeName runs a word by name, as EXECUTE does; an unknown name is parsed
// as a literal.
func (vm *VM) executeName(name string) {
	if w := vm.dict.resolve(name); w != nil {
		if w.kind == fragmentWord {
			vm.abort(&Error{Kind: CompileOnlyWordMisuse, Word: name})
		}
		vm.invoke(w)
		return
	}
	lit, ok := parseLiteral(name)
	if !ok {
		vm.abort(&Error{Kind: UnrecognizedWord, Word: name})
	}
	vm.push(lit)
}

func (vm *VM) invoke(w *word) {
	switch w.kind {
	case primitiveWord:
		w.prim(vm)
	case compositeWord:
		vm.call(w)
	default:
		vm.abort(&Error{Kind: CompileOnlyWordMisuse, Word: w.name})
	}
}

// call runs a composite word's body.
func (vm *VM) call(w *word) {
	if vm.maxDepth > 0 && vm.depth >= vm.maxDepth {
		vm.abort(&Error{Kind: StackOverflow, Word: w.name, Mess: "call depth exceeded"})
	}
	vm.depth++
	defer func() { vm.depth-- }()

	type loopFrame struct {
		slot  int
		limit float64
	}
	var loops []loopFrame

	body := w.body
	for pc := 0; pc < len(body); {
		act := body[pc]
		pc++
		switch act.op {
		case opLit:
			vm.push(act.lit)

		case opCall:
			callee := vm.dict.lookup(act.sym)
			if callee == nil {
				vm.abort(&Error{Kind: UnrecognizedWord, Word: vm.dict.string(act.sym), Mess: "in " + w.name})
			}
			vm.invoke(callee)

		case opBranch0:
			if !vm.pop().Truth() {
				pc = act.target
			}

		case opBranch:
			pc = act.target

		case opDo:
			slot, err := vm.mem.Reserve()
			vm.haltif(err)
			index := vm.popNumber()
			limit := vm.popNumber()
			vm.haltif(vm.mem.Store(slot, mem.Num(index)))
			loops = append(loops, loopFrame{slot, limit})

		case opLoop:
			frame := loops[len(loops)-1]
			c, err := vm.mem.Fetch(frame.slot)
			vm.haltif(err)
			index, _ := c.Number()
			index++
			vm.haltif(vm.mem.Store(frame.slot, mem.Num(index)))
			if index < frame.limit {
				pc = act.target
				continue
			}
			loops = loops[:len(loops)-1]
			vm.haltif(vm.mem.Release())
		}
	}
}

//// Stack access, aborting on failure

func (vm *VM) push(c mem.Cell) { vm.haltif(vm.mem.Push(c)) }

func (vm *VM) pop() mem.Cell {
	c, err := vm.mem.Pop()
	vm.haltif(err)
	return c
}

func (vm *VM) popNumber() float64 {
	c := vm.pop()
	f, ok := c.Number()
	if !ok {
		vm.abort(&Error{Kind: TypeMismatch, Word: c.String(), Mess: "expected a number"})
	}
	return f
}

// address converts a cell into a memory address.
func (vm *VM) address(c mem.Cell) int {
	f, ok := c.Number()
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		vm.abort(&Error{Kind: InvalidAddress, Word: c.String()})
	}
	return int(f)
}

//// Aborting

// abort resets both stacks and unwinds to Run with err.
func (vm *VM) abort(err error) {
	vm.mem.Reset()

	var fe *Error
	if !errors.As(err, &fe) {
		fe = &Error{Kind: kindOf(err), Err: err}
	}
	if fe.Loc.Line == 0 {
		fe.Loc = vm.cur.loc
	}

	// ignore any panics while trying to flush output
	func() {
		defer func() { recover() }()
		if ferr := vm.out.Flush(); ferr != nil && fe.Err == nil {
			fe.Err = ferr
		}
	}()

	vm.logDebug("abort", "err", fe)
	panic(abortError{fe})
}

// abortAt is abort, filling in the error location and word from tok.
func (vm *VM) abortAt(tok token, err error) {
	var fe *Error
	if errors.As(err, &fe) {
		if fe.Loc.Line == 0 {
			fe.Loc = tok.loc
		}
		if fe.Word == "" {
			fe.Word = tok.text
		}
	}
	vm.abort(err)
}

func (vm *VM) haltif(err error) {
	if err != nil {
		vm.abort(err)
	}
}

//// Logging

func (vm *VM) logDebug(mess string, keyvals ...interface{}) {
	if vm.logger != nil {
		vm.logger.Debug(mess, keyvals...)
	}
}
