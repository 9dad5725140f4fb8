package l1

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVehicleRef(t *testing.T) {
	ref := VehicleRef{Type: "rover", ID: "abc"}
	require.True(t, ref.IsValid())
	require.Equal(t, "rover/abc", ref.Name())
	require.Equal(t, "rover/abc/tlm", ref.Topic(TopicTelemetry))

	testCases := []struct {
		name  string
		valid bool
	}{
		{"rover/abc", true},
		{"rover", false},
		{"rover/", false},
		{"rover/a/b", false},
		{"rover/+", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, ok := ParseVehicleRef(tc.name)
			require.Equal(t, tc.valid, ok)
			if ok {
				require.Equal(t, tc.name, parsed.Name())
			}
		})
	}
}
