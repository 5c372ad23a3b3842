package natives

import (
	"github.com/dlclark/regexp2"

	"github.com/loxscript/lox/internal/gc"
	"github.com/loxscript/lox/internal/value"
)

func init() {
	register("match", func(_ *gc.Heap) value.NativeFn {
		return func(args []value.Value) (value.Value, error) {
			pattern, text, err := twoStringArgs("match", args)
			if err != nil {
				return value.Nil(), err
			}
			re, err := regexp2.Compile(pattern, regexp2.None)
			if err != nil {
				return value.Nil(), err
			}
			m, err := re.MatchString(text)
			if err != nil {
				return value.Nil(), err
			}
			return value.Bool(m), nil
		}
	})

	register("replace", func(heap *gc.Heap) value.NativeFn {
		return func(args []value.Value) (value.Value, error) {
			if len(args) != 3 || !args[0].IsString() || !args[1].IsString() || !args[2].IsString() {
				return value.Nil(), argError("replace", "3 string arguments", args)
			}
			re, err := regexp2.Compile(args[0].AsString().Chars, regexp2.None)
			if err != nil {
				return value.Nil(), err
			}
			result, err := re.Replace(args[1].AsString().Chars, args[2].AsString().Chars, -1, -1)
			if err != nil {
				return value.Nil(), err
			}
			return value.FromObj(heap.InternString(result)), nil
		}
	})
}

func twoStringArgs(name string, args []value.Value) (string, string, error) {
	if len(args) != 2 || !args[0].IsString() || !args[1].IsString() {
		return "", "", argError(name, "2 string arguments", args)
	}
	return args[0].AsString().Chars, args[1].AsString().Chars, nil
}
