package fourth

import (
	"strconv"
	"strings"

	"github.com/jcorbin/gofourth/internal/mem"
	"github.com/jcorbin/gofourth/internal/runeio"
)

// parseLiteral tries to read a numeric literal from a word token, without
// touching any VM state. Control mnemonics like <NL> or ^[ read as their code
// point.
func parseLiteral(s string) (mem.Cell, bool) {
	if r, ok := runeio.ControlWord(s); ok {
		return mem.Num(float64(r)), true
	}
	if s == "" || !strings.ContainsAny(s[:1], "+-.0123456789") {
		// rejects strconv's "inf" and "nan" spellings, which are better left
		// available as word names
		return mem.Cell{}, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return mem.Cell{}, false
	}
	return mem.Num(f), true
}
