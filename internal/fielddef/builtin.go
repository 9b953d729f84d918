package fielddef

import (
	_ "embed"
	"sync"
)

//go:embed builtin.fields
var builtinSource string

var builtin = sync.OnceValue(func() *Set {
	s, err := ParseString("builtin.fields", builtinSource)
	if err != nil {
		panic("fielddef: " + err.Error())
	}
	return s
})

// Builtin returns the field shapes shipped with the module.
func Builtin() *Set {
	return builtin()
}
