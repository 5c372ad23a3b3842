package natives

import (
	"github.com/loxscript/lox/internal/gc"
	"github.com/loxscript/lox/internal/value"
)

// typeName returns the runtime type name of a value, grounded on the
// teacher's own vm.TypeName/typeof builtin plugin.
func typeName(v value.Value) string {
	switch {
	case v.IsNil():
		return "nil"
	case v.IsBool():
		return "bool"
	case v.IsNumber():
		return "number"
	case v.IsString():
		return "string"
	case v.IsFunction(), v.IsClosure(), v.IsNative(), v.IsBoundMethod():
		return "function"
	case v.IsClass():
		return "class"
	case v.IsInstance():
		return "instance"
	default:
		return "object"
	}
}

func init() {
	register("type", func(heap *gc.Heap) value.NativeFn {
		return func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return value.Nil(), argError("type", "1 argument", args)
			}
			return value.FromObj(heap.InternString(typeName(args[0]))), nil
		}
	})
}
