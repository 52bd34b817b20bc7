package fourth

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Location names a position within a source text.
type Location struct {
	Name string
	Line int
	Col  int
}

func (loc Location) String() string {
	if loc.Name == "" {
		return fmt.Sprintf("%v:%v", loc.Line, loc.Col)
	}
	return fmt.Sprintf("%v:%v:%v", loc.Name, loc.Line, loc.Col)
}

type tokenKind uint8

const (
	tokenEnd tokenKind = iota
	tokenWord
	tokenText
)

type token struct {
	kind tokenKind
	text string
	loc  Location
}

func (tok token) end() bool { return tok.kind == tokenEnd }

// is returns true only for a word token (not a quoted text) spelled s.
func (tok token) is(s string) bool { return tok.kind == tokenWord && tok.text == s }

func (tok token) String() string {
	switch tok.kind {
	case tokenEnd:
		return "<end>"
	case tokenText:
		return fmt.Sprintf("%q", tok.text)
	}
	return tok.text
}

// scanner is the input buffer: a source text and a cursor into it.
type scanner struct {
	src      string
	pos      int
	loc      Location
	comments bool
}

func (sc *scanner) reset(name, src string) {
	sc.src = src
	sc.pos = 0
	sc.loc = Location{Name: name, Line: 1, Col: 1}
}

func (sc *scanner) peekRune() (rune, int) {
	if sc.pos >= len(sc.src) {
		return -1, 0
	}
	return utf8.DecodeRuneInString(sc.src[sc.pos:])
}

func (sc *scanner) advance(n int) {
	for _, r := range sc.src[sc.pos : sc.pos+n] {
		if r == '\n' {
			sc.loc.Line++
			sc.loc.Col = 1
		} else {
			sc.loc.Col++
		}
	}
	sc.pos += n
}

func (sc *scanner) skipSpace() {
	for {
		r, n := sc.peekRune()
		if n == 0 || !unicode.IsSpace(r) {
			return
		}
		sc.advance(n)
	}
}

// scanWord returns the next run of non-whitespace runes; quoted text literals
// are recognized when quotes is true.
func (sc *scanner) scanWord(quotes bool) (token, error) {
	sc.skipSpace()
	tok := token{loc: sc.loc}
	start := sc.pos

	r, n := sc.peekRune()
	if n == 0 {
		return tok, nil
	}

	if quotes && (r == '"' || r == '\'') {
		if next, m := utf8.DecodeRuneInString(sc.src[sc.pos+n:]); m > 0 && !unicode.IsSpace(next) {
			end := strings.IndexRune(sc.src[sc.pos+n:], r)
			if end < 0 {
				rest := sc.src[sc.pos:]
				if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
					rest = rest[:i]
				}
				return tok, &Error{
					Kind: UnrecognizedWord,
					Word: rest,
					Loc:  tok.loc,
					Mess: "unterminated text literal",
				}
			}
			tok.kind = tokenText
			tok.text = sc.src[sc.pos+n : sc.pos+n+end]
			sc.advance(n + end + n)
			return tok, nil
		}
	}

	for {
		r, n := sc.peekRune()
		if n == 0 || unicode.IsSpace(r) {
			break
		}
		sc.advance(n)
	}
	tok.kind = tokenWord
	tok.text = sc.src[start:sc.pos]
	return tok, nil
}

// skipLine discards input through the next line feed.
func (sc *scanner) skipLine() {
	if i := strings.IndexByte(sc.src[sc.pos:], '\n'); i >= 0 {
		sc.advance(i + 1)
	} else {
		sc.advance(len(sc.src) - sc.pos)
	}
}

// next returns the next token, skipping any comments; an end token signals
// that the input is exhausted.
func (sc *scanner) next() (token, error) {
	for {
		tok, err := sc.scanWord(true)
		if err != nil || !sc.comments || tok.kind != tokenWord {
			return tok, err
		}
		switch tok.text {
		case "(":
			if err := sc.skipComment(tok); err != nil {
				return token{}, err
			}
		case `\`:
			sc.skipLine()
		default:
			return tok, nil
		}
	}
}

func (sc *scanner) skipComment(open token) error {
	for {
		tok, _ := sc.scanWord(false)
		if tok.end() {
			return &Error{Kind: UnterminatedComment, Word: open.text, Loc: open.loc}
		}
		if strings.HasSuffix(tok.text, ")") {
			return nil
		}
	}
}
