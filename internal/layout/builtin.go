package layout

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed builtin.json
var builtinJSON []byte

var (
	builtinOnce   sync.Once
	builtinLayout *Layout
)

// Builtin returns the embedded Probhat layout used when no layout file is
// configured or the configured one cannot be used.
func Builtin() *Layout {
	builtinOnce.Do(func() {
		l, err := Parse(builtinJSON)
		if err != nil {
			panic(fmt.Sprintf("layout: embedded builtin layout is invalid: %v", err))
		}
		builtinLayout = l
	})
	return builtinLayout
}
