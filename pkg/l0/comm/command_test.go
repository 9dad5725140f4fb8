package comm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type decodeTestCase struct {
	in     byte
	expect Command
}

type decodeTestCaseBuilder struct {
	cases []decodeTestCase
}

func decodeTestCases() *decodeTestCaseBuilder {
	return &decodeTestCaseBuilder{}
}

func (b *decodeTestCaseBuilder) on(kind Kind, in ...byte) *decodeTestCaseBuilder {
	for _, c := range in {
		b.cases = append(b.cases, decodeTestCase{in: c, expect: Command{Kind: kind, Raw: c}})
	}
	return b
}

func (b *decodeTestCaseBuilder) speed(in byte, speed int) *decodeTestCaseBuilder {
	b.cases = append(b.cases, decodeTestCase{in: in, expect: Command{Kind: SetSpeed, Speed: speed, Raw: in}})
	return b
}

func (b *decodeTestCaseBuilder) build() []decodeTestCase {
	return b.cases
}

func TestDecode(t *testing.T) {
	cases := decodeTestCases().
		on(Forward, 'F', 'f', 'W', 'w').
		on(Backward, 'B', 'b', 'X', 'x').
		on(Left, 'L', 'l', 'A', 'a').
		on(Right, 'R', 'r', 'D', 'd').
		on(Stop, 'S', 's', ' ').
		on(LightsOn, 'O', 'o').
		on(LightsOff, 'P', 'p').
		on(LightsAuto, 'M', 'm').
		on(GetTemp, 'T', 't').
		on(GetHumidity, 'H', 'h').
		on(GetDistance, 'U', 'u').
		on(GetInfo, 'I', 'i').
		on(None, '\r', '\n', '\t', 0, 0x03, 0x1b, 31).
		on(Unknown, '@', '0', 'z', 'Z', '?', 0x7f, 0xff).
		speed('1', 10).
		speed('5', 50).
		speed('9', 90).
		build()
	for _, tc := range cases {
		require.Equalf(t, tc.expect, Decode(tc.in), "decode %q", tc.in)
	}
}

func TestCommandErr(t *testing.T) {
	require.NoError(t, Decode('f').Err())
	err := Decode('@').Err()
	require.Error(t, err)
	require.Equal(t, `unknown command '@'`, err.Error())
}

func TestKindIsMovement(t *testing.T) {
	for _, k := range []Kind{Forward, Backward, Left, Right, Stop} {
		require.True(t, k.IsMovement(), k.String())
	}
	for _, k := range []Kind{None, LightsOn, GetInfo, SetSpeed, Unknown} {
		require.False(t, k.IsMovement(), k.String())
	}
}
