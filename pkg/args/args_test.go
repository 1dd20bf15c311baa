package args

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StricklySoft/stricklysoft-sys/internal/testutil"
	"github.com/StricklySoft/stricklysoft-sys/internal/testutil/fixtures"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

func TestParse_MixedForms(t *testing.T) {
	t.Parallel()
	res, err := Parse(context.Background(),
		fixtures.MixedTokens(), fixtures.MixedShortFlags(), fixtures.MixedLongFlags())
	require.NoError(t, err)

	assert.Equal(t, []Flag{
		{Name: "f"},
		{Name: "b", Value: "foo", HasValue: true},
		{Name: "fizz", Long: true},
		{Name: "buzz", Long: true, Value: "foo", HasValue: true},
	}, res.Flags())
	assert.Equal(t, []string{"bar"}, res.Raw())

	f, ok := res.Flag("f")
	require.True(t, ok)
	assert.False(t, f.HasValue)

	b, ok := res.Flag("b")
	require.True(t, ok)
	assert.Equal(t, "foo", b.Value)

	buzz, ok := res.Flag("buzz")
	require.True(t, ok)
	assert.Equal(t, "foo", buzz.Value)

	assert.True(t, res.Has("fizz"))
	assert.False(t, res.Has("x"))
}

func TestParse_Terminator(t *testing.T) {
	t.Parallel()
	res, err := Parse(context.Background(),
		[]string{"-f", "--", "-b", "--fizz", "x"}, []rune{'f', 'b'}, []string{"fizz"})
	require.NoError(t, err)

	assert.Len(t, res.Flags(), 1)
	assert.Equal(t, []string{"-b", "--fizz", "x"}, res.Raw())
}

func TestParse_EdgeTokens(t *testing.T) {
	t.Parallel()
	res, err := Parse(context.Background(),
		[]string{"-", "", "--buzz=", "-é7"}, []rune{'é'}, []string{"buzz"})
	require.NoError(t, err)

	assert.Equal(t, []string{"-", ""}, res.Raw())
	buzz, ok := res.Flag("buzz")
	require.True(t, ok)
	assert.True(t, buzz.HasValue, "an empty attached value is still a value")
	assert.Empty(t, buzz.Value)

	e, ok := res.Flag("é")
	require.True(t, ok)
	assert.Equal(t, "7", e.Value)
}

func TestParse_LastOccurrenceWins(t *testing.T) {
	t.Parallel()
	res, err := Parse(context.Background(),
		[]string{"--level=1", "--level=2"}, nil, []string{"level"})
	require.NoError(t, err)

	f, _ := res.Flag("level")
	assert.Equal(t, "2", f.Value)
	assert.Len(t, res.Flags(), 2)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tests := []struct {
		name   string
		tokens []string
		want   errors.Kind
	}{
		{"unknown short", []string{"-x"}, errors.KindInvalidParameter},
		{"unknown long", []string{"--nope"}, errors.KindInvalidParameter},
		{"nameless long", []string{"--=v"}, errors.KindInvalidParameter},
		{"invalid utf-8", []string{"-\xff"}, errors.KindBadContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(ctx, tt.tokens, []rune{'f'}, []string{"fizz"})
			testutil.AssertKind(t, err, tt.want)
		})
	}
}

func TestParse_ErrorCarriesFrame(t *testing.T) {
	t.Parallel()
	ctx, tr := testutil.TrackedContext(t, 4)

	_, err := Parse(ctx, []string{"-x"}, nil, nil)

	e := testutil.RequireKind(t, err, errors.KindInvalidParameter)
	require.Len(t, e.Backtrace, 1)
	assert.Equal(t, "args.Parse", e.Backtrace[0].Function)
	assert.Equal(t, 0, tr.Depth())
}

func TestResult_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()
	res, err := Parse(context.Background(), []string{"-f", "a"}, []rune{'f'}, nil)
	require.NoError(t, err)

	res.Raw()[0] = "mutated"
	res.Flags()[0].Name = "mutated"
	assert.Equal(t, []string{"a"}, res.Raw())
	assert.True(t, res.Has("f"))
}
