package bytebeat

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rawCase struct {
	expr string
	t    uint32
	want float64
}

var rawCases = []rawCase{
	{"1 + 2 * 3", 0, 7},
	{"(1 + 2) * 3", 0, 9},
	{"2 ** 3 ** 2", 0, 512},
	{"2 ** -1", 0, 0.5},
	{"-2 + 5", 0, 3},
	{"5 / 2", 0, 2.5},
	{"7 % -3", 0, 1},
	{"-7 % 3", 0, -1},
	{"(1 < 2) + (2 <= 2) + (3 > 4) + (4 >= 5)", 0, 2},
	{"(1 == 1) + (1 != 1) + (2 === 2) + (2 !== 3)", 0, 3},
	{"0 || 5", 0, 5},
	{"3 || 5", 0, 3},
	{"3 && 4", 0, 4},
	{"0 && 4", 0, 0},
	{"1 ? 10 : 20", 0, 10},
	{"t ? 1 : 2", 0, 2},
	{"t ? 1 : 2", 9, 1},
	{"t > 5 ? t < 8 ? 1 : 2 : 3", 6, 1},
	{"~0", 0, -1},
	{"!0 + !7", 0, 1},
	{"+t", 3, 3},
	{"0xff + 0b11 + 0o7", 0, 265},
	{"0x1ffffffffffffffff", 0, math.Ldexp(1, 65)},
	{"0b1" + strings.Repeat("0", 70), 0, math.Ldexp(1, 70)},
	{"0o4_000_000_000_000_000_000_000", 0, math.Ldexp(1, 65)},
	{"0x100000001 | 0", 0, 1},
	{"1_000 + .5", 0, 1000.5},
	{"1e3", 0, 1000},
	{"-1 >>> 28", 0, 15},
	{"1 << 33", 0, 2},
	{"-16 >> 2", 0, -4},
	{"2147483648 | 0", 0, -2147483648},
	{"4294967297 & 3", 0, 1},
	{"t >> 4", math.MaxUint32, -1},
	{"t >>> 4", math.MaxUint32, 268435455},
	{"t ^ 255", 15, 240},
	{"Math.floor(7.9) + min(3, 1, 2)", 0, 8},
	{"max(t, 4)", 9, 9},
	{"Math.max(1, 2, 3, 4)", 0, 4},
	{"abs(-3) + sign(-2) + ceil(1.2)", 0, 4},
	{"round(2.5) + round(-2.5)", 0, 1},
	{"pow(2, 10)", 0, 1024},
	{"PI > 3 && Math.E < 3", 0, 1},
	{"x + y + a + b", 0, 27},
}

func TestEval_NumericSemantics(t *testing.T) {
	for _, tc := range rawCases {
		t.Run(tc.expr, func(t *testing.T) {
			g := mustCompile(t, &Compiler{}, tc.expr)
			assert.Equal(t, tc.want, g.Raw(tc.t, DefaultParams))
		})
	}
}

func TestEval_FoldingMatchesRuntime(t *testing.T) {
	// Same expression with and without a t-dependency must agree.
	for _, expr := range []string{"(3 << 4) | 7", "1 / 3 * 9", "-(2 ** 31) >>> 1", "~~5.7"} {
		folded := mustCompile(t, &Compiler{}, expr)
		live := mustCompile(t, &Compiler{}, "t * 0 + ("+expr+")")
		assert.Equal(t, folded.Raw(0, DefaultParams), live.Raw(0, DefaultParams), expr)
	}
}

func TestFold_CollapsesConstants(t *testing.T) {
	root, err := parseExpr("t * (2 + 3) + (1 ? 4 : t)")
	require.NoError(t, err)
	root = fold(root)

	consts := 0
	root.walk(func(n *node) {
		if n.isConst() {
			consts++
		}
	})
	assert.Equal(t, 2, consts)
}

func TestToInt32(t *testing.T) {
	tests := []struct {
		in   float64
		want int32
	}{
		{0, 0},
		{-0.9, 0},
		{1.9, 1},
		{-1.9, -1},
		{2147483647, 2147483647},
		{2147483648, -2147483648},
		{4294967295, -1},
		{4294967296, 0},
		{-4294967297, -1},
		{1e20, 1661992960},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, toInt32(tc.in), "%v", tc.in)
	}
}

func TestClampByte(t *testing.T) {
	assert.Equal(t, uint8(0), clampByte(-5))
	assert.Equal(t, uint8(0), clampByte(math.NaN()))
	assert.Equal(t, uint8(200), clampByte(200.7))
	assert.Equal(t, uint8(255), clampByte(256))
	assert.Equal(t, uint8(3), clampByte(-4294967293))
}
