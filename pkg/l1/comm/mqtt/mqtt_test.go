package mqtt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rover.go/pkg/l1"
)

func TestMatchTopic(t *testing.T) {
	testCases := []struct {
		topic, filter string
		match         bool
	}{
		{"rover/a/tlm", "rover/a/tlm", true},
		{"rover/a/tlm", "+/+/tlm", true},
		{"rover/a/cmd", "+/+/tlm", false},
		{"rover/a/tlm", "#", true},
		{"rover/a/tlm", "rover/#", true},
		{"rover/a", "+/+/tlm", false},
		{"rover/a/tlm/x", "+/+/tlm", false},
		{"rover/a/tlm", "rover/+", false},
	}
	for _, tc := range testCases {
		t.Run(tc.topic+"~"+tc.filter, func(t *testing.T) {
			require.Equal(t, tc.match, MatchTopic(tc.topic, tc.filter))
		})
	}
}

func TestClientOptionsFromURL(t *testing.T) {
	opts, prefix, err := ClientOptionsFromURL("mqtt://u:p@broker:1883/fleet?client-id=me")
	require.NoError(t, err)
	require.Equal(t, "fleet/", prefix)
	require.Len(t, opts.Servers, 1)
	require.Equal(t, "tcp://broker:1883", opts.Servers[0].String())
	require.Equal(t, "u", opts.Username)
	require.Equal(t, "p", opts.Password)
	require.Equal(t, "me", opts.ClientID)

	_, prefix, err = ClientOptionsFromURL("mqtt://broker:1883")
	require.NoError(t, err)
	require.Empty(t, prefix)

	_, _, err = ClientOptionsFromURL("mqtt:///nohost")
	require.Error(t, err)
}

func TestParseMeta(t *testing.T) {
	info, ok := ParseMeta("rover/abc/meta", []byte(`{"description":"sim"}`))
	require.True(t, ok)
	require.Equal(t, l1.VehicleRef{Type: "rover", ID: "abc"}, info.Ref)
	require.Equal(t, "sim", info.Meta.Description)

	_, ok = ParseMeta("rover/abc/meta", nil)
	require.False(t, ok)
	_, ok = ParseMeta("rover/abc/tlm", []byte(`{}`))
	require.False(t, ok)
}

func TestDispatch(t *testing.T) {
	q, err := NewQueueFromURL("mqtt://localhost:1883/fleet/")
	require.NoError(t, err)
	var got []string
	all := q.Sub("+/+/tlm", func(topic string, payload []byte) {
		got = append(got, "all "+topic+" "+string(payload))
	})
	q.Sub("rover/a/tlm", func(topic string, payload []byte) {
		got = append(got, "one "+topic+" "+string(payload))
	})

	q.Dispatch("fleet/rover/a/tlm", []byte("x"))
	q.Dispatch("other/rover/a/tlm", []byte("y"))
	q.Dispatch("fleet/rover/b/cmd", []byte("z"))
	require.ElementsMatch(t, []string{"all rover/a/tlm x", "one rover/a/tlm x"}, got)

	all.Close()
	got = nil
	q.Dispatch("fleet/rover/b/tlm", []byte("w"))
	require.Empty(t, got)
}

func TestReadWriterTopics(t *testing.T) {
	ref := l1.VehicleRef{Type: "rover", ID: "a"}
	rw := NewPacketReadWriter(nil).ForVehicle(ref)
	require.Equal(t, "rover/a/cmd", rw.SubTopic)
	require.Equal(t, "rover/a/tlm", rw.PubTopic)
	rw.ForOperator(ref)
	require.Equal(t, "rover/a/tlm", rw.SubTopic)
	require.Equal(t, "rover/a/cmd", rw.PubTopic)

	rw.handleMsg("rover/a/tlm", []byte("S"))
	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, "S", string(pkt))
}
