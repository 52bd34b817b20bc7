package fourth

import (
	"fmt"
	"strings"

	"github.com/jcorbin/gofourth/internal/mem"
)

type opcode uint8

const (
	opLit     opcode = iota + 1 // push lit
	opCall                      // run the word currently bound to sym
	opBranch0                   // pop; jump to target when false
	opBranch                    // jump to target
	opDo                        // reserve a loop slot; pop index, then limit
	opLoop                      // step the loop index; jump to target until limit
)

// action is one step of a compiled word body.
type action struct {
	op     opcode
	lit    mem.Cell
	sym    symbol
	target int
}

// marker records an open control structure while compiling.
type marker struct {
	name string
	at   int
}

// compiler accumulates the body of one definition.
type compiler struct {
	vm   *VM
	name string
	body []action
	open []marker
}

func (c *compiler) here() int { return len(c.body) }

func (c *compiler) emit(act action) int {
	c.body = append(c.body, act)
	return len(c.body) - 1
}

func (c *compiler) push(name string, at int) {
	c.open = append(c.open, marker{name, at})
}

// pop closes the innermost open structure, which must have been opened by one
// of the given words.
func (c *compiler) pop(closer string, openers ...string) (marker, error) {
	i := len(c.open) - 1
	if i < 0 {
		return marker{}, c.failf(closer, "%v without %v", closer, strings.Join(openers, " or "))
	}
	m := c.open[i]
	for _, opener := range openers {
		if m.name == opener {
			c.open = c.open[:i]
			return m, nil
		}
	}
	return marker{}, c.failf(closer, "%v closes %v, expected %v", closer, m.name, strings.Join(openers, " or "))
}

func (c *compiler) failf(word, mess string, args ...interface{}) error {
	return &Error{
		Kind: CompilationFailure,
		Word: word,
		Mess: fmt.Sprintf("in %v: ", c.name) + fmt.Sprintf(mess, args...),
	}
}

// compileToken appends whatever tok means to the body.
func (c *compiler) compileToken(tok token) error {
	if tok.kind == tokenText {
		c.emit(action{op: opLit, lit: mem.Text(tok.text)})
		return nil
	}

	sym := c.vm.dict.symbol(tok.text)
	if w := c.vm.dict.lookup(sym); w != nil {
		if w.kind == fragmentWord {
			return w.frag(c)
		}
		c.emit(action{op: opCall, sym: sym})
		return nil
	}

	if lit, ok := parseLiteral(tok.text); ok {
		c.emit(action{op: opLit, lit: lit})
		return nil
	}
	return &Error{Kind: UnrecognizedWord, Word: tok.text, Mess: "in " + c.name}
}

// finish checks that every opened structure was closed.
func (c *compiler) finish() error {
	if i := len(c.open) - 1; i >= 0 {
		return c.failf(c.open[i].name, "unterminated %v", c.open[i].name)
	}
	return nil
}

// define implements ":", reading a name and then a body through ";", and
// installing the result only if all of it compiled.
func (vm *VM) define() {
	tok := vm.next()
	switch {
	case tok.end(), tok.is(";"):
		vm.abort(&Error{Kind: UnterminatedDefinition, Word: ":", Loc: tok.loc, Mess: "missing word name"})
	case tok.is(":"):
		vm.abort(&Error{Kind: NestedDefinitionError, Word: tok.text, Loc: tok.loc})
	case tok.kind != tokenWord:
		vm.abort(&Error{Kind: CompilationFailure, Word: tok.text, Loc: tok.loc, Mess: "invalid word name"})
	}

	c := compiler{vm: vm, name: tok.text}
	start := tok.loc
	for {
		tok := vm.next()
		switch {
		case tok.end():
			vm.abort(&Error{Kind: UnterminatedDefinition, Word: c.name, Loc: start, Mess: "missing ;"})
		case tok.is(";"):
			if err := c.finish(); err != nil {
				vm.abortAt(tok, err)
			}
			vm.dict.define(c.name, &word{kind: compositeWord, body: c.body})
			vm.logDebug("define", "word", c.name, "actions", len(c.body))
			return
		case tok.is(":"):
			vm.abort(&Error{Kind: NestedDefinitionError, Word: tok.text, Loc: tok.loc, Mess: "in " + c.name})
		}
		if err := c.compileToken(tok); err != nil {
			vm.abortAt(tok, err)
		}
	}
}

//// Structural words

func compileIf(c *compiler) error {
	c.push("IF", c.emit(action{op: opBranch0, target: -1}))
	return nil
}

func compileElse(c *compiler) error {
	m, err := c.pop("ELSE", "IF")
	if err != nil {
		return err
	}
	at := c.emit(action{op: opBranch, target: -1})
	c.body[m.at].target = c.here()
	c.push("ELSE", at)
	return nil
}

func compileThen(c *compiler) error {
	m, err := c.pop("THEN", "IF", "ELSE")
	if err != nil {
		return err
	}
	c.body[m.at].target = c.here()
	return nil
}

func compileDo(c *compiler) error {
	c.push("DO", c.emit(action{op: opDo}))
	return nil
}

func compileLoop(c *compiler) error {
	m, err := c.pop("LOOP", "DO")
	if err != nil {
		return err
	}
	c.emit(action{op: opLoop, target: m.at + 1})
	c.body[m.at].target = c.here()
	return nil
}
