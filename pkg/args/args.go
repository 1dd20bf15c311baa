// Package args classifies command-line tokens into flags and raw
// arguments.
//
// Whether a flag carries a parameter is decided by the token's shape,
// not by a declared flag type:
//
//	-f            short flag f, no parameter
//	-bfoo         short flag b, parameter "foo"
//	--fizz        long flag fizz, no parameter
//	--buzz=foo    long flag buzz, parameter "foo"
//	--            every following token is a raw argument
//	-             a raw argument
//	anything else a raw argument
//
// Flags must be declared; an undeclared flag fails with
// KindInvalidParameter.
package args

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// Flag is one flag occurrence.
type Flag struct {
	// Name is the flag name without dashes.
	Name string `json:"name"`

	// Long is true for "--name" forms.
	Long bool `json:"long"`

	// Value is the attached parameter; meaningful only when HasValue.
	Value string `json:"value,omitempty"`

	// HasValue reports whether the token carried a parameter.
	HasValue bool `json:"has_value"`
}

// Result is a parsed command line.
type Result struct {
	flags []Flag
	raw   []string
}

// Parse classifies tokens against the declared short and long flags.
//
// Example:
//
//	res, err := args.Parse(ctx, os.Args[1:], []rune{'v'}, []string{"config"})
//	if err != nil {
//	    return err
//	}
//	if f, ok := res.Flag("config"); ok && f.HasValue {
//	    path = f.Value
//	}
func Parse(ctx context.Context, tokens []string, short []rune, long []string) (*Result, error) {
	defer callstack.Enter(ctx, "args.Parse").Exit()

	res := &Result{}
	for i, tok := range tokens {
		switch {
		case tok == "--":
			res.raw = append(res.raw, tokens[i+1:]...)
			return res, nil

		case strings.HasPrefix(tok, "--"):
			name, value, hasValue := strings.Cut(tok[2:], "=")
			if name == "" {
				return nil, errors.Failf(ctx, errors.KindInvalidParameter,
					"argument %d: flag %q has no name", i, tok)
			}
			if !slices.Contains(long, name) {
				return nil, errors.Failf(ctx, errors.KindInvalidParameter,
					"argument %d: unknown flag --%s", i, name)
			}
			res.flags = append(res.flags, Flag{Name: name, Long: true, Value: value, HasValue: hasValue})

		case len(tok) > 1 && tok[0] == '-':
			r, size := utf8.DecodeRuneInString(tok[1:])
			if r == utf8.RuneError {
				return nil, errors.Failf(ctx, errors.KindBadContent,
					"argument %d: flag %q is not valid UTF-8", i, tok)
			}
			if !slices.Contains(short, r) {
				return nil, errors.Failf(ctx, errors.KindInvalidParameter,
					"argument %d: unknown flag -%c", i, r)
			}
			value := tok[1+size:]
			res.flags = append(res.flags, Flag{Name: string(r), Value: value, HasValue: value != ""})

		default:
			res.raw = append(res.raw, tok)
		}
	}
	return res, nil
}

// Flags returns every flag occurrence in command-line order.
func (r *Result) Flags() []Flag {
	return slices.Clone(r.flags)
}

// Flag returns the last occurrence of the named flag.
func (r *Result) Flag(name string) (Flag, bool) {
	for i := len(r.flags) - 1; i >= 0; i-- {
		if r.flags[i].Name == name {
			return r.flags[i], true
		}
	}
	return Flag{}, false
}

// Has reports whether the named flag occurred.
func (r *Result) Has(name string) bool {
	_, ok := r.Flag(name)
	return ok
}

// Raw returns the raw arguments in command-line order.
func (r *Result) Raw() []string {
	return slices.Clone(r.raw)
}
