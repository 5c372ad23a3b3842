package natives

import (
	"time"

	"github.com/loxscript/lox/internal/gc"
	"github.com/loxscript/lox/internal/value"
)

func init() {
	register("clock", func(_ *gc.Heap) value.NativeFn {
		return func(args []value.Value) (value.Value, error) {
			if len(args) != 0 {
				return value.Nil(), argError("clock", "0 arguments", args)
			}
			return value.Number(float64(time.Now().UnixNano()) / float64(time.Second)), nil
		}
	})
}
