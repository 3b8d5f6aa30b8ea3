package statsd

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"session.validate":    "session.validate",
		" session validate ":  "session_validate",
		"a/b..c.":             "a_b.c",
		"":                    "",
		"...":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeName(in), "input %q", in)
	}
}

func TestEncodeTags(t *testing.T) {
	got := encodeTags(
		map[string]string{"env": "prod", "service": "faq"},
		map[string]string{"result": "valid", "env": "stage", " ": "dropped"},
	)
	assert.Equal(t, "|#env:stage,result:valid,service:faq", got)
	assert.Empty(t, encodeTags(nil, nil))
}

func readLine(t *testing.T, conn net.PacketConn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 512)
	n, _, err := conn.ReadFrom(buf)
	require.NoError(t, err)
	return string(buf[:n])
}

func TestClient_EmitsOverUDP(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	c, err := NewClient(Config{
		Enabled:    true,
		Address:    pc.LocalAddr().String(),
		Prefix:     ".faq_api.",
		GlobalTags: map[string]string{"env": "test"},
	})
	require.NoError(t, err)
	defer c.Close()
	require.True(t, c.Enabled())

	c.Count("session.validate", 1, map[string]string{"result": "valid"})
	assert.Equal(t, "faq_api.session.validate:1|c|#env:test,result:valid", readLine(t, pc))

	c.Timing("session.validate.duration", 1500*time.Microsecond, nil)
	assert.Equal(t, "faq_api.session.validate.duration:1.5|ms|#env:test", readLine(t, pc))
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	c := &Client{conn: clientConn}
	assert.True(t, c.Enabled())
	require.NoError(t, c.Close())
	assert.False(t, c.Enabled())
	require.NoError(t, c.Close())

	// Emitting after close is a no-op.
	c.Count("x", 1, nil)

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	require.NoError(t, nilClient.Close())
	nilClient.Count("x", 1, nil)
}

func TestNewClient_DisabledWithoutAddress(t *testing.T) {
	c, err := NewClient(Config{Enabled: true, Address: "   "})
	require.NoError(t, err)
	assert.False(t, c.Enabled())
}

func TestNewClient_DialError(t *testing.T) {
	_, err := NewClient(Config{Enabled: true, Address: "bad address"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "statsd dial"))
}
