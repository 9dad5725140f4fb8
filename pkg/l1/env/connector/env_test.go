package connector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConnector(t *testing.T) {
	testCases := []struct {
		url string
		ok  bool
	}{
		{"mqtt://localhost:1883/rover/", true},
		{"mqtts://broker:8883", true},
		{"redis://localhost:6379", false},
		{"mqtt://", false},
	}
	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			conf := &Config{RegistryURL: tc.url}
			conn, err := conf.NewConnector()
			if !tc.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.url, conn.BrokerURL)
		})
	}
}

func TestConnectRequiresRef(t *testing.T) {
	conf := &Config{RegistryURL: "mqtt://localhost:1883"}
	conf.Ref.Type = "rover"
	_, err := conf.Connect(context.Background())
	require.Error(t, err)
}
