package serial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSpec(t *testing.T) {
	testCases := []struct {
		in     string
		expect Spec
		err    bool
	}{
		{in: "/dev/rfcomm0", expect: Spec{Device: "/dev/rfcomm0", Baud: DefaultBaud}},
		{in: "/dev/ttyUSB0@115200", expect: Spec{Device: "/dev/ttyUSB0", Baud: 115200}},
		{in: "/dev/ttyUSB0@fast", err: true},
		{in: "/dev/ttyUSB0@0", err: true},
		{in: "@9600", err: true},
		{in: "", err: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			spec, err := ParseSpec(tc.in)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expect, spec)
		})
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(Spec{Device: "/dev/does-not-exist-rover", Baud: DefaultBaud})
	require.Error(t, err)
	require.Contains(t, err.Error(), "/dev/does-not-exist-rover@9600")
}
