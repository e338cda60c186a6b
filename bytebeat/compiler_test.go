package bytebeat

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, c *Compiler, expr string) *Generator {
	t.Helper()
	res := c.Compile(expr, DefaultParams)
	require.NoError(t, res.Err, "compile %q", expr)
	require.True(t, res.Accepted(), "compile %q: %s", expr, res.Diagnostic)
	return res.Generator
}

func TestCompile_TAnd255(t *testing.T) {
	g := mustCompile(t, &Compiler{}, "t & 255")
	for _, p := range []Params{DefaultParams, {}, {X: 15, Y: 15, A: 15, B: 15}} {
		assert.Equal(t, uint8(44), g.Sample(300, p))
	}
}

func TestCompile_ImplicitMask(t *testing.T) {
	g := mustCompile(t, &Compiler{}, "t * (t >> 5 | t >> 8)")
	require.True(t, g.Masked())

	for tt := uint32(0); tt < 1<<20; tt += 97 {
		ti := int64(tt)
		want := uint8((ti * ((ti >> 5) | (ti >> 8))) & 255)
		require.Equal(t, want, g.Sample(tt, DefaultParams), "t=%d", tt)
	}
}

func TestCompile_ExplicitMaskNotDoubled(t *testing.T) {
	tests := []struct {
		expr string
		t    uint32
		want uint8 // clamped; an extra & 255 would give a different byte
	}{
		{"(t & 255) * 2", 200, 255},
		{"(t&0xFF)*2", 200, 255},
		{"(t & 0XfF) + 100", 200, 255},
		{"t % 256 + 100", 200, 255},
		{"(t & 255) - 300", 10, 0},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			g := mustCompile(t, &Compiler{}, tc.expr)
			assert.False(t, g.Masked())
			assert.Equal(t, tc.want, g.Sample(tc.t, DefaultParams))
		})
	}
}

func TestCompile_SemanticMaskPolicy(t *testing.T) {
	c := &Compiler{Mask: MaskSemantic}

	g := mustCompile(t, c, "(t & 255) * 2")
	assert.True(t, g.Masked(), "root is *, so the mask applies")
	assert.Equal(t, uint8(144), g.Sample(200, DefaultParams))

	g = mustCompile(t, c, "(t * 3) & 0x7f")
	assert.False(t, g.Masked())

	g = mustCompile(t, c, "t * 3 % 256")
	assert.False(t, g.Masked())

	g = mustCompile(t, &Compiler{}, "t & 0x7f")
	assert.True(t, g.Masked(), "textual policy only knows &255, &0xff and %256")
}

func TestCompile_ResultAlwaysByte(t *testing.T) {
	exprs := []string{
		"t * (t >> 5 | t >> 8)",
		"(t & 255) * 1000",
		"t * -1000",
		"sin(t / 10) * 1e12",
		"t / 3",
		"(t & 255) + x * y * a * b",
		"t >>> 0",
	}
	rng := rand.New(rand.NewPCG(1, 2))
	special := []uint32{0, 1, 255, 256, 1<<31 - 1, 1 << 31, 1<<32 - 1}

	for _, expr := range exprs {
		g := mustCompile(t, &Compiler{}, expr)
		for i := 0; i < 2000; i++ {
			tt := rng.Uint32()
			if i < len(special) {
				tt = special[i]
			}
			p := Params{X: rng.Float32() * 15, Y: rng.Float32() * 15, A: rng.Float32() * 15, B: rng.Float32() * 15}
			raw := g.Raw(tt, p)
			got := g.Sample(tt, p)
			if g.Masked() {
				require.Equal(t, uint8(toInt32(raw)&0xFF), got, "%s t=%d", expr, tt)
			} else {
				require.Equal(t, clampByte(raw), got, "%s t=%d", expr, tt)
			}
		}
	}
}

func TestCompile_Idempotent(t *testing.T) {
	const expr = "(t * x & t >> y) | (t * a & t >> b) + sin(t) * 8"
	g1 := mustCompile(t, &Compiler{}, expr)
	g2 := mustCompile(t, &Compiler{}, expr)

	for _, p := range []Params{DefaultParams, {X: 1, Y: 2, A: 3, B: 4}, {X: 15, Y: 0, A: 7.5, B: 1}} {
		for tt := uint32(0); tt < 50000; tt += 7 {
			require.Equal(t, g1.Sample(tt, p), g2.Sample(tt, p), "t=%d", tt)
		}
	}
}

func TestCompile_ParamsSuppliedPerCall(t *testing.T) {
	g := mustCompile(t, &Compiler{}, "x * 10 + t")
	assert.Equal(t, uint8(50), g.Sample(0, DefaultParams))
	assert.Equal(t, uint8(30), g.Sample(0, Params{X: 3}))
	assert.Equal(t, uint8(31), g.Sample(1, Params{X: 3}))
}

func TestCompile_HardFailures(t *testing.T) {
	tests := []struct {
		expr string
		want error
	}{
		{"(t * 2", ErrSyntax},
		{"t * 2)", ErrSyntax},
		{"t +", ErrSyntax},
		{"t = 5", ErrSyntax},
		{"t @ 2", ErrSyntax},
		{"12t", ErrSyntax},
		{"pow(t)", ErrSyntax},
		{"min()", ErrSyntax},
		{"t ? 1", ErrSyntax},
		{"t * q", ErrUndefined},
		{"foo(t)", ErrUndefined},
		{"Math.t", ErrUndefined},
		{"window", ErrUndefined},
		{"t / t", ErrEval},
		{"1 / 0", ErrEval},
		{"sqrt(x - 10)", ErrEval},
		{"1e400 * t", ErrEval},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			res := Compile(tc.expr, DefaultParams)
			require.True(t, res.Failed())
			assert.False(t, res.Accepted())
			assert.Nil(t, res.Generator)
			assert.NotEmpty(t, res.Diagnostic)
			assert.True(t, errors.Is(res.Err, tc.want), "got %v", res.Err)

			var ce *CompileError
			require.True(t, errors.As(res.Err, &ce))
		})
	}
}

func TestCompile_DiagnosticPosition(t *testing.T) {
	res := Compile("t * q", DefaultParams)
	var ce *CompileError
	require.True(t, errors.As(res.Err, &ce))
	assert.Equal(t, KindUndefined, ce.Kind)
	assert.Equal(t, 4, ce.Pos)
	assert.Equal(t, "reference error at column 5: q is not defined", res.Diagnostic)
}

func TestCompile_EmptyIsSoft(t *testing.T) {
	for _, expr := range []string{"", "   ", ";", " ; ; "} {
		res := Compile(expr, DefaultParams)
		assert.False(t, res.Failed(), "%q", expr)
		assert.True(t, res.Flagged(), "%q", expr)
		assert.False(t, res.Accepted(), "%q", expr)
		assert.Same(t, DefaultGenerator, res.Generator)
		assert.Equal(t, "empty expression", res.Diagnostic)
	}
}

func TestCompile_TrailingSemicolon(t *testing.T) {
	g := mustCompile(t, &Compiler{}, "  t & 255 ;  ")
	assert.Equal(t, "t & 255", g.Source())
}

func TestCompile_SourceTooLong(t *testing.T) {
	expr := "t" + strings.Repeat("+t", MAX_SOURCE_LEN/2)
	res := Compile(expr, DefaultParams)
	require.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, ErrSyntax)
}

func TestCompile_NestingLimit(t *testing.T) {
	ok := strings.Repeat("(", 50) + "t" + strings.Repeat(")", 50)
	mustCompile(t, &Compiler{}, ok)

	deep := strings.Repeat("(", 300) + "t" + strings.Repeat(")", 300)
	res := Compile(deep, DefaultParams)
	require.True(t, res.Failed())
	assert.Contains(t, res.Diagnostic, "nested too deeply")
}

func TestDefaultGenerator(t *testing.T) {
	for _, tt := range []uint32{0, 1, 255, 256, 300, 1<<32 - 1} {
		assert.Equal(t, uint8(tt&0xFF), DefaultGenerator.Sample(tt, DefaultParams))
	}
	DefaultGenerator.Release()
}

func TestParseBackendAndMask(t *testing.T) {
	b, err := ParseBackend("LUA")
	require.NoError(t, err)
	assert.Equal(t, BackendLua, b)
	b, err = ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, BackendNative, b)
	_, err = ParseBackend("v8")
	assert.ErrorIs(t, err, ErrConfig)

	m, err := ParseMaskPolicy("semantic")
	require.NoError(t, err)
	assert.Equal(t, MaskSemantic, m)
	_, err = ParseMaskPolicy("strict")
	assert.ErrorIs(t, err, ErrConfig)
}
