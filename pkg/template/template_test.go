package template

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/stringsmith/pkg/errors"
	"github.com/arthur-debert/stringsmith/pkg/funcs"
	"github.com/arthur-debert/stringsmith/pkg/tokens"
)

func TestConditionalSections(t *testing.T) {
	tmpl, err := New("{{User: ;username;}}{{ (ID: ;user_id;)}}")
	require.NoError(t, err)

	t.Run("all values present", func(t *testing.T) {
		out, err := tmpl.FormatNamed(map[string]any{"username": "admin", "user_id": 123})
		require.NoError(t, err)
		assert.Equal(t, "User: admin (ID: 123)", out)
	})

	t.Run("missing value drops the whole section", func(t *testing.T) {
		out, err := tmpl.FormatNamed(map[string]any{"username": "admin"})
		require.NoError(t, err)
		assert.Equal(t, "User: admin", out)
	})

	t.Run("no values at all", func(t *testing.T) {
		out, err := tmpl.FormatNamed(nil)
		require.NoError(t, err)
		assert.Equal(t, "", out)
	})
}

func TestPresenceMonotonicity(t *testing.T) {
	tmpl, err := New("start {{Hello ;name;! }}end")
	require.NoError(t, err)

	without, err := tmpl.FormatNamed(nil)
	require.NoError(t, err)
	assert.Equal(t, "start end", without)

	with, err := tmpl.FormatNamed(map[string]any{"name": "World"})
	require.NoError(t, err)
	assert.Equal(t, "start Hello World! end", with)
}

func TestMandatoryEnforcement(t *testing.T) {
	tmpl, err := New("{{!user}} says {{msg}}")
	require.NoError(t, err)

	t.Run("missing mandatory field errors", func(t *testing.T) {
		_, err := tmpl.FormatNamed(map[string]any{"msg": "hi"})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrMissingMandatory))
		assert.Equal(t, "user", errors.GetErrorDetails(err)["field"])
	})

	t.Run("all fields present", func(t *testing.T) {
		out, err := tmpl.FormatNamed(map[string]any{"user": "a", "msg": "hi"})
		require.NoError(t, err)
		assert.Equal(t, "a says hi", out)
	})
}

func TestPositionalArguments(t *testing.T) {
	tmpl, err := New("{{}} + {{}} = {{}}")
	require.NoError(t, err)

	t.Run("all slots filled", func(t *testing.T) {
		out, err := tmpl.Format("15", "27", "42")
		require.NoError(t, err)
		assert.Equal(t, "15 + 27 = 42", out)
	})

	t.Run("partial slots degrade", func(t *testing.T) {
		out, err := tmpl.Format("15")
		require.NoError(t, err)
		assert.Equal(t, "15 + = ", out)
	})

	t.Run("positional sections bind in template order", func(t *testing.T) {
		tmpl, err := New("{{a: ;;}}{{b: ;;}}")
		require.NoError(t, err)

		out, err := tmpl.Format("1", "2")
		require.NoError(t, err)
		assert.Equal(t, "a: 1b: 2", out)
	})
}

func TestAmbiguousCallRejection(t *testing.T) {
	tmpl, err := New("{{msg}}")
	require.NoError(t, err)

	_, err = tmpl.Render(Values{
		Positional: []any{"a"},
		Named:      map[string]any{"msg": "b"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAmbiguousArgs))
}

func TestConditionalGating(t *testing.T) {
	isUrgent := funcs.New("is_urgent", []string{"priority"}, func(args ...any) (any, error) {
		return args[0].(int) > 7, nil
	})

	tmpl, err := New("{{?is_urgent;URGENT ;}}{{msg}}", WithFunctions(isUrgent))
	require.NoError(t, err)

	t.Run("condition true emits the gated section", func(t *testing.T) {
		out, err := tmpl.FormatNamed(map[string]any{"priority": 9, "msg": "down"})
		require.NoError(t, err)
		assert.Equal(t, "URGENT down", out)
	})

	t.Run("condition false suppresses it", func(t *testing.T) {
		out, err := tmpl.FormatNamed(map[string]any{"priority": 3, "msg": "ok"})
		require.NoError(t, err)
		assert.Equal(t, "ok", out)
	})
}

func TestWrappingSymmetry(t *testing.T) {
	tmpl, err := New("{{#red@bold;ERROR: ;message;}}")
	require.NoError(t, err)

	out, err := tmpl.FormatNamed(map[string]any{"message": "failed"})
	require.NoError(t, err)

	// Open codes in declaration order, reset codes reversed.
	want := "\x1b[31m" + "\x1b[1m" + "ERROR: failed" +
		"\x1b[22;23;24;25;27;29m" + "\x1b[39m"
	assert.Equal(t, want, out)

	// Rendering again after a valueless call gives the same output.
	empty, err := tmpl.FormatNamed(nil)
	require.NoError(t, err)
	assert.Equal(t, "", empty)

	again, err := tmpl.FormatNamed(map[string]any{"message": "failed"})
	require.NoError(t, err)
	assert.Equal(t, want, again)
}

func TestRoundTripEscaping(t *testing.T) {
	tmpl, err := New(`\{\{x\}\} and a \; delimiter`)
	require.NoError(t, err)

	out, err := tmpl.Format()
	require.NoError(t, err)
	assert.Equal(t, "{{x}} and a ; delimiter", out)
}

func TestIdempotentCompilation(t *testing.T) {
	source := "{{#red;Level ;priority;}} {{!msg}} tail"

	first, err := New(source)
	require.NoError(t, err)
	second, err := New(source)
	require.NoError(t, err)

	assert.Equal(t, first.Describe(), second.Describe())
}

func TestLiteralTransform(t *testing.T) {
	shout := funcs.New("shout", []string{"msg"}, func(args ...any) (any, error) {
		return fmt.Sprintf("%v!!", args[0]), nil
	})

	tmpl, err := New("{{$shout;msg}}", WithFunctions(shout))
	require.NoError(t, err)

	out, err := tmpl.FormatNamed(map[string]any{"msg": "fire"})
	require.NoError(t, err)
	assert.Equal(t, "fire!!", out)
}

func TestFunctionBackedColor(t *testing.T) {
	priorityColor := funcs.New("priority_color", []string{"priority"}, func(args ...any) (any, error) {
		if args[0].(int) > 5 {
			return "red", nil
		}
		return "yellow", nil
	})

	tmpl, err := New("{{#priority_color;Level ;priority;}}", WithFunctions(priorityColor))
	require.NoError(t, err)

	out, err := tmpl.FormatNamed(map[string]any{"priority": 8})
	require.NoError(t, err)
	assert.Equal(t, "\x1b[31mLevel 8\x1b[39m", out)

	out, err = tmpl.FormatNamed(map[string]any{"priority": 2})
	require.NoError(t, err)
	assert.Equal(t, "\x1b[33mLevel 2\x1b[39m", out)
}

func TestMultiParameterFunction(t *testing.T) {
	isProfitable := funcs.New("is_profitable", []string{"revenue", "costs"}, func(args ...any) (any, error) {
		return args[0].(float64) > args[1].(float64), nil
	})

	tmpl, err := New("{{?is_profitable; profitable;revenue;}}", WithFunctions(isProfitable))
	require.NoError(t, err)

	t.Run("both parameters available", func(t *testing.T) {
		out, err := tmpl.FormatNamed(map[string]any{"revenue": 150.0, "costs": 100.0})
		require.NoError(t, err)
		assert.Equal(t, " profitable150", out)
	})

	t.Run("function false hides section", func(t *testing.T) {
		out, err := tmpl.FormatNamed(map[string]any{"revenue": 50.0, "costs": 100.0})
		require.NoError(t, err)
		assert.Equal(t, "", out)
	})

	t.Run("missing parameter suppresses like a missing field", func(t *testing.T) {
		out, err := tmpl.FormatNamed(map[string]any{"revenue": 150.0})
		require.NoError(t, err)
		assert.Equal(t, "", out)
	})
}

func TestFunctionFailurePolicy(t *testing.T) {
	failing := funcs.New("explode", nil, func(args ...any) (any, error) {
		return nil, fmt.Errorf("boom")
	})

	t.Run("default policy suppresses the section", func(t *testing.T) {
		tmpl, err := New("{{?explode;gated ;msg;}}ok", WithFunctions(failing))
		require.NoError(t, err)

		out, err := tmpl.FormatNamed(map[string]any{"msg": "hi"})
		require.NoError(t, err)
		assert.Equal(t, "ok", out)
	})

	t.Run("strict policy propagates", func(t *testing.T) {
		tmpl, err := New("{{?explode;gated ;msg;}}ok", WithFunctions(failing), WithStrictFunctions())
		require.NoError(t, err)

		_, err = tmpl.FormatNamed(map[string]any{"msg": "hi"})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrFunctionFailed))
	})
}

func TestBakeErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   errors.ErrorCode
	}{
		{"unknown color", "{{#nosuchcolor;x;}}", errors.ErrUnknownColor},
		{"unknown emphasis", "{{@sparkly;x;}}", errors.ErrUnknownEmphasis},
		{"unknown conditional function", "{{?missing;x;}}", errors.ErrUnknownFunction},
		{"unknown transform function", "{{$missing;x;}}", errors.ErrUnknownFunction},
		{"duplicate token kind", "{{#red#blue;x;}}", errors.ErrDuplicateToken},
		{"duplicate emphasis kind", "{{@underline@italic;x;}}", errors.ErrDuplicateToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.source)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "want %s, got %v", tt.code, err)
		})
	}
}

func TestInlineFormatting(t *testing.T) {
	t.Run("color switch inside a prefix", func(t *testing.T) {
		tmpl, err := New("{{{#red}E:{#normal} ;msg;}}")
		require.NoError(t, err)

		out, err := tmpl.FormatNamed(map[string]any{"msg": "hi"})
		require.NoError(t, err)
		// The section closes with a reset for every kind used inline.
		assert.Equal(t, "\x1b[31mE:\x1b[39m hi\x1b[39m", out)
	})

	t.Run("emphasis inside a suffix", func(t *testing.T) {
		tmpl, err := New("{{pre ;msg; {@bold}now}}")
		require.NoError(t, err)

		out, err := tmpl.FormatNamed(map[string]any{"msg": "hi"})
		require.NoError(t, err)
		assert.Equal(t, "pre hi \x1b[1mnow\x1b[22;23;24;25;27;29m", out)
	})

	t.Run("same kind may repeat inline", func(t *testing.T) {
		tmpl, err := New("{{{#red}a{#green}b ;msg;}}")
		require.NoError(t, err)

		out, err := tmpl.FormatNamed(map[string]any{"msg": "x"})
		require.NoError(t, err)
		assert.Equal(t, "\x1b[31ma\x1b[32mb x\x1b[39m", out)
	})

	t.Run("section token owns the reset for its kind", func(t *testing.T) {
		tmpl, err := New("{{#blue;{#red}hot{#normal} ;msg;}}")
		require.NoError(t, err)

		out, err := tmpl.FormatNamed(map[string]any{"msg": "x"})
		require.NoError(t, err)
		// One color reset from the section token, none duplicated for inline.
		assert.Equal(t, "\x1b[34m\x1b[31mhot\x1b[39m x\x1b[39m", out)
	})

	t.Run("section vanishes with its inline codes", func(t *testing.T) {
		tmpl, err := New("{{{#red}E: ;msg;}}")
		require.NoError(t, err)

		out, err := tmpl.FormatNamed(nil)
		require.NoError(t, err)
		assert.Equal(t, "", out)
	})

	t.Run("unknown inline color is a compile error", func(t *testing.T) {
		_, err := New("{{{#nosuch}x ;msg;}}")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownColor))
	})

	t.Run("function values are rejected inline", func(t *testing.T) {
		dyn := funcs.New("dyn", nil, func(args ...any) (any, error) {
			return "red", nil
		})
		_, err := New("{{{#dyn}x ;msg;}}", WithFunctions(dyn))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestSkipEmpty(t *testing.T) {
	t.Run("default keeps empty strings", func(t *testing.T) {
		tmpl, err := New("{{val: ;v;}}")
		require.NoError(t, err)

		out, err := tmpl.FormatNamed(map[string]any{"v": ""})
		require.NoError(t, err)
		assert.Equal(t, "val: ", out)
	})

	t.Run("skip-empty treats them as missing", func(t *testing.T) {
		tmpl, err := New("{{val: ;v;}}", WithSkipEmpty())
		require.NoError(t, err)

		out, err := tmpl.FormatNamed(map[string]any{"v": ""})
		require.NoError(t, err)
		assert.Equal(t, "", out)
	})
}

func TestNilValueIsAbsent(t *testing.T) {
	tmpl, err := New("{{val: ;v;}}")
	require.NoError(t, err)

	out, err := tmpl.FormatNamed(map[string]any{"v": nil})
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestValueStringification(t *testing.T) {
	tmpl, err := New("{{n}} {{f}} {{b}}")
	require.NoError(t, err)

	out, err := tmpl.FormatNamed(map[string]any{"n": 42, "f": 2.5, "b": true})
	require.NoError(t, err)
	assert.Equal(t, "42 2.5 true", out)
}

func TestBracketedLiteralContent(t *testing.T) {
	// A section with no field reference emits its content when the call
	// supplies no positional values.
	tmpl, err := New("{{ready ;;go}}")
	require.NoError(t, err)

	out, err := tmpl.FormatNamed(map[string]any{"unrelated": 1})
	require.NoError(t, err)
	assert.Equal(t, "ready go", out)
}

func TestCustomDelimiterRender(t *testing.T) {
	tmpl, err := New("{{Hello |name|!}}", WithDelimiter('|'))
	require.NoError(t, err)

	out, err := tmpl.FormatNamed(map[string]any{"name": "World"})
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", out)
}

// badgeHandler is a custom token kind used to test registry extension.
type badgeHandler struct{}

type badgeBinding struct{}

func (badgeBinding) Resolve(funcs.Context) (tokens.Result, error) {
	return tokens.Result{Open: "[", Reset: "]"}, nil
}

func (badgeHandler) Kind() tokens.Kind { return "badge" }

func (badgeHandler) Bind(raw string, fns *funcs.Table) (tokens.Binding, error) {
	return badgeBinding{}, nil
}

func TestCustomTokenHandler(t *testing.T) {
	reg := tokens.Default().Clone()
	require.NoError(t, reg.Register('%', badgeHandler{}))

	tmpl, err := New("{{%x;msg}}", WithTokens(reg))
	require.NoError(t, err)

	out, err := tmpl.FormatNamed(map[string]any{"msg": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "[hi]", out)
}

func TestConcurrentRendering(t *testing.T) {
	tmpl, err := New("{{#red;worker ;id;}}")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			out, err := tmpl.FormatNamed(map[string]any{"id": n})
			assert.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("\x1b[31mworker %d\x1b[39m", n), out)
		}(i)
	}
	wg.Wait()
}

func TestTemplateAccessors(t *testing.T) {
	fn := funcs.New("f", nil, func(args ...any) (any, error) { return true, nil })
	tmpl, err := New("{{!a}} {{b}}", WithFunctions(fn))
	require.NoError(t, err)

	assert.Equal(t, "{{!a}} {{b}}", tmpl.Source())
	assert.Equal(t, []string{"f"}, tmpl.Functions())
	assert.Equal(t, []string{"a"}, tmpl.MandatoryFields())
}
