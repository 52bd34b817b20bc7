package fourth

import (
	"github.com/jcorbin/gofourth/internal/mem"
)

// builtin describes one native dictionary entry: either a primitive, usable
// both directly and inside definitions, or a compile-only fragment.
type builtin struct {
	name string
	prim func(vm *VM)
	frag func(c *compiler) error
}

var builtins []builtin

func init() {
	builtins = []builtin{
		//// Introspection
		{name: "SP", prim: func(vm *VM) { vm.push(mem.Num(float64(vm.mem.SP()))) }},
		{name: "RP", prim: func(vm *VM) { vm.push(mem.Num(float64(vm.mem.RP()))) }},
		{name: ".S", prim: (*VM).printStack},

		//// Output
		{name: ".", prim: func(vm *VM) { vm.print(vm.pop()) }},
		{name: "EMIT", prim: func(vm *VM) { vm.emit(vm.pop()) }},
		{name: "CR", prim: func(vm *VM) { vm.write("\n") }},

		//// Stack
		{name: "DUP", prim: func(vm *VM) { vm.haltif(vm.mem.Dup()) }},
		{name: "DROP", prim: func(vm *VM) { vm.pop() }},
		{name: "SWAP", prim: func(vm *VM) { vm.haltif(vm.mem.Swap()) }},
		{name: "OVER", prim: func(vm *VM) { vm.haltif(vm.mem.Over()) }},

		//// Definitions and execution
		{name: ":", prim: (*VM).define},
		{name: "'", prim: func(vm *VM) {
			tok := vm.next()
			if tok.end() {
				vm.abort(&Error{Kind: UnrecognizedWord, Word: "'", Mess: "missing word"})
			}
			vm.push(mem.Text(tok.text))
		}},
		{name: "EXECUTE", prim: func(vm *VM) { vm.executeName(vm.pop().String()) }},

		//// Operators
		{name: "=", prim: func(vm *VM) { b, a := vm.pop(), vm.pop(); vm.push(mem.Bool(a.Equal(b))) }},
		{name: "<", prim: func(vm *VM) { vm.compare(func(cmp int) bool { return cmp < 0 }) }},
		{name: ">", prim: func(vm *VM) { vm.compare(func(cmp int) bool { return cmp > 0 }) }},
		{name: "+", prim: (*VM).add},
		{name: "-", prim: func(vm *VM) { b, a := vm.popNumber(), vm.popNumber(); vm.push(mem.Num(a - b)) }},
		{name: "*", prim: func(vm *VM) { b, a := vm.popNumber(), vm.popNumber(); vm.push(mem.Num(a * b)) }},
		{name: "/", prim: func(vm *VM) { b, a := vm.popNumber(), vm.popNumber(); vm.push(mem.Num(a / b)) }},

		//// Memory
		{name: "@", prim: func(vm *VM) {
			c, err := vm.mem.Fetch(vm.address(vm.pop()))
			vm.haltif(err)
			vm.push(c)
		}},
		{name: "!", prim: func(vm *VM) {
			addr := vm.address(vm.pop())
			vm.haltif(vm.mem.Store(addr, vm.pop()))
		}},

		//// Control flow
		{name: "I", prim: func(vm *VM) {
			slot, err := vm.mem.RTop()
			vm.haltif(err)
			c, err := vm.mem.Fetch(slot)
			vm.haltif(err)
			vm.push(c)
		}},
		{name: "IF", frag: compileIf},
		{name: "ELSE", frag: compileElse},
		{name: "THEN", frag: compileThen},
		{name: "DO", frag: compileDo},
		{name: "LOOP", frag: compileLoop},
		{name: ";", frag: func(c *compiler) error { return nil }},
	}
}

func (vm *VM) compileBuiltins() {
	for _, b := range builtins {
		w := &word{prim: b.prim, frag: b.frag}
		if b.frag != nil {
			w.kind = fragmentWord
		} else {
			w.kind = primitiveWord
		}
		vm.dict.define(b.name, w)
	}
}

// add sums two numbers, or concatenates if either operand is text.
func (vm *VM) add() {
	b, a := vm.pop(), vm.pop()
	x, aok := a.Number()
	y, bok := b.Number()
	if aok && bok {
		vm.push(mem.Num(x + y))
	} else {
		vm.push(mem.Text(a.String() + b.String()))
	}
}

// compare orders two numbers, or two texts; mixing them is a TypeMismatch.
func (vm *VM) compare(test func(cmp int) bool) {
	b, a := vm.pop(), vm.pop()
	var cmp int
	if a.IsText() && b.IsText() {
		switch x, y := a.String(), b.String(); {
		case x < y:
			cmp = -1
		case x > y:
			cmp = 1
		}
	} else {
		x, aok := a.Number()
		y, bok := b.Number()
		if !aok || !bok {
			vm.abort(&Error{Kind: TypeMismatch, Mess: "cannot compare text with a number"})
		}
		switch {
		case x < y:
			cmp = -1
		case x > y:
			cmp = 1
		}
	}
	vm.push(mem.Bool(test(cmp)))
}
