package natives

import (
	"github.com/google/uuid"

	"github.com/loxscript/lox/internal/gc"
	"github.com/loxscript/lox/internal/value"
)

func init() {
	register("uuid", func(heap *gc.Heap) value.NativeFn {
		return func(args []value.Value) (value.Value, error) {
			if len(args) != 0 {
				return value.Nil(), argError("uuid", "0 arguments", args)
			}
			return value.FromObj(heap.InternString(uuid.NewString())), nil
		}
	})
}
