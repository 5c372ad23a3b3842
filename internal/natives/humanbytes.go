package natives

import (
	"github.com/dustin/go-humanize"

	"github.com/loxscript/lox/internal/gc"
	"github.com/loxscript/lox/internal/value"
)

func init() {
	register("humanBytes", func(heap *gc.Heap) value.NativeFn {
		return func(args []value.Value) (value.Value, error) {
			if len(args) != 1 || !args[0].IsNumber() {
				return value.Nil(), argError("humanBytes", "1 number argument", args)
			}
			return value.FromObj(heap.InternString(humanize.Bytes(uint64(args[0].AsNumber())))), nil
		}
	})
}

// FormatBytes exposes the same humanize formatting used internally by
// GC-cycle log lines (SPEC_FULL.md §4.2), so the log message and the
// humanBytes() native render byte counts identically.
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
