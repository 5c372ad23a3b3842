package natives

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/loxscript/lox/internal/gc"
	"github.com/loxscript/lox/internal/value"
)

func init() {
	register("upper", caseNative("upper", cases.Upper(language.Und)))
	register("lower", caseNative("lower", cases.Lower(language.Und)))
}

func caseNative(name string, caser cases.Caser) factory {
	return func(heap *gc.Heap) value.NativeFn {
		return func(args []value.Value) (value.Value, error) {
			if len(args) != 1 || !args[0].IsString() {
				return value.Nil(), argError(name, "1 string argument", args)
			}
			return value.FromObj(heap.InternString(caser.String(args[0].AsString().Chars))), nil
		}
	}
}
