package fourth

// symbol identifies an interned word name; 0 means "no name".
type symbol uint

type wordKind uint8

const (
	primitiveWord wordKind = iota + 1 // native Go code
	fragmentWord                      // compile-only structure
	compositeWord                     // compiled action list
)

// word is a dictionary entry.
type word struct {
	name string
	kind wordKind
	prim func(vm *VM)
	frag func(c *compiler) error
	body []action
}

// dictionary maps names to words. Names are interned into symbols so that
// compiled bodies can refer to a word by name, and pick up whatever it is
// bound to when the call happens.
type dictionary struct {
	strings []string
	symbols map[string]symbol
	words   []*word // indexed by symbol-1
	defined []symbol
}

func (dict *dictionary) string(sym symbol) string {
	if i := int(sym) - 1; i >= 0 && i < len(dict.strings) {
		return dict.strings[i]
	}
	return ""
}

func (dict *dictionary) symbol(name string) symbol {
	return dict.symbols[name]
}

func (dict *dictionary) symbolicate(name string) symbol {
	sym, defined := dict.symbols[name]
	if !defined {
		if dict.symbols == nil {
			dict.symbols = make(map[string]symbol)
		}
		dict.strings = append(dict.strings, name)
		dict.words = append(dict.words, nil)
		sym = symbol(len(dict.strings))
		dict.symbols[name] = sym
	}
	return sym
}

// lookup returns the word currently bound to sym, or nil.
func (dict *dictionary) lookup(sym symbol) *word {
	if i := int(sym) - 1; i >= 0 && i < len(dict.words) {
		return dict.words[i]
	}
	return nil
}

// resolve returns the word currently bound to name, or nil.
func (dict *dictionary) resolve(name string) *word {
	return dict.lookup(dict.symbol(name))
}

// define binds name to w, replacing any prior binding.
func (dict *dictionary) define(name string, w *word) symbol {
	w.name = name
	sym := dict.symbolicate(name)
	if dict.words[sym-1] == nil || dict.words[sym-1].kind != compositeWord {
		if w.kind == compositeWord {
			dict.defined = append(dict.defined, sym)
		}
	}
	dict.words[sym-1] = w
	return sym
}

// userWords returns the names of all composite words, in order of their first
// definition.
func (dict *dictionary) userWords() []string {
	var names []string
	for _, sym := range dict.defined {
		if w := dict.lookup(sym); w != nil && w.kind == compositeWord {
			names = append(names, w.name)
		}
	}
	return names
}
