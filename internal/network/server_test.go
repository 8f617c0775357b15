package network

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"jokenpoarena/internal/config"
)

func TestEchoServer(t *testing.T) {
	suite.Run(t, new(EchoServerTestSuite))
}

func TestTCPServer(t *testing.T) {
	suite.Run(t, new(TCPServerTestSuite))
}

// Suite do eco UDP usado para medir latência
type EchoServerTestSuite struct {
	suite.Suite

	cancel context.CancelFunc
	done   chan error
	echo   *EchoServer
}

func (ts *EchoServerTestSuite) SetupTest() {
	conn, err := ListenUDP("127.0.0.1:0")
	require.NoError(ts.T(), err, "Binding an ephemeral UDP port should not fail")

	var ctx context.Context
	ctx, ts.cancel = context.WithCancel(context.Background())
	ts.echo = NewEchoServer(conn, 0, 0)
	ts.done = make(chan error, 1)
	go func() { ts.done <- ts.echo.Serve(ctx) }()
}

func (ts *EchoServerTestSuite) TearDownTest() {
	ts.cancel()
	select {
	case err := <-ts.done:
		assert.NoError(ts.T(), err, "Serve must return nil after cancellation")
	case <-time.After(2 * time.Second):
		ts.T().Fatal("Serve did not stop after cancellation")
	}
}

// Qualquer payload volta byte a byte
func (ts *EchoServerTestSuite) TestEchoesVerbatim() {
	client, err := net.Dial("udp", ts.echo.Addr().String())
	require.NoError(ts.T(), err)
	defer client.Close()

	for _, payload := range [][]byte{
		EncodePingPacket(PING_PACKET_TYPE, time.Now().UnixNano()),
		[]byte("ping:1712345678.123"),
		{0x00, 0xFF, 0x10},
	} {
		_, err = client.Write(payload)
		require.NoError(ts.T(), err)

		client.SetReadDeadline(time.Now().Add(2 * time.Second))
		buf := make([]byte, 64)
		n, err := client.Read(buf)
		require.NoError(ts.T(), err, "Echo reply should arrive before the deadline")
		assert.Equal(ts.T(), payload, buf[:n])
	}
}

// Com o limitador ligado, datagramas acima do limite da origem são descartados
func (ts *EchoServerTestSuite) TestRateLimitDrops() {
	limited := NewEchoServer(nil, 1, 2)
	addr := &net.UDPAddr{IP: net.ParseIP("10.0.0.7"), Port: 5000}
	other := &net.UDPAddr{IP: net.ParseIP("10.0.0.8"), Port: 5000}

	assert.True(ts.T(), limited.allow(addr))
	assert.True(ts.T(), limited.allow(addr))
	assert.False(ts.T(), limited.allow(addr), "Third datagram inside the burst window must be dropped")
	assert.True(ts.T(), limited.allow(other), "Limits are tracked per source")
}

// Com a configuração padrão uma rajada inteira volta, mesmo vinda de um só socket
func (ts *EchoServerTestSuite) TestDefaultConfigEchoesWholeBurst() {
	conn, err := ListenUDP("127.0.0.1:0")
	require.NoError(ts.T(), err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := config.Default()
	echo := NewEchoServer(conn, cfg.EchoRate, cfg.EchoBurst)
	go echo.Serve(ctx)

	client, err := net.Dial("udp", echo.Addr().String())
	require.NoError(ts.T(), err)
	defer client.Close()

	const burst = 40
	for i := 0; i < burst; i++ {
		_, err := client.Write(EncodePingPacket(PING_PACKET_TYPE, int64(i)))
		require.NoError(ts.T(), err)
	}

	seen := make(map[int64]bool)
	buf := make([]byte, 64)
	for len(seen) < burst {
		client.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, err := client.Read(buf)
		require.NoError(ts.T(), err, "received %d of %d", len(seen), burst)
		_, stamp, err := DecodePingPacket(buf[:n])
		require.NoError(ts.T(), err)
		seen[stamp] = true
	}
	assert.Empty(ts.T(), echo.limiters, "no per-source state without a limiter")
}

// recordingHandler guarda tudo o que o servidor reporta
type recordingHandler struct {
	mu           sync.Mutex
	connected    []string
	disconnected []string
	messages     []string
}

func (h *recordingHandler) OnConnect(c *Client) {
	h.mu.Lock()
	h.connected = append(h.connected, c.ID())
	h.mu.Unlock()
}

func (h *recordingHandler) OnDisconnect(c *Client) {
	h.mu.Lock()
	h.disconnected = append(h.disconnected, c.ID())
	h.mu.Unlock()
}

func (h *recordingHandler) OnMessage(c *Client, msg *Message) {
	h.mu.Lock()
	h.messages = append(h.messages, msg.Cmd)
	h.mu.Unlock()
	c.Send(map[string]string{"cmd": "ack", "of": msg.Cmd})
}

func (h *recordingHandler) disconnectCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.disconnected)
}

// Suite do accept TCP e do ciclo de vida de cada conexão
type TCPServerTestSuite struct {
	suite.Suite

	handler *recordingHandler
	server  *Server
	ln      net.Listener
	cancel  context.CancelFunc
}

func (ts *TCPServerTestSuite) SetupTest() {
	ln, err := ListenTCP("127.0.0.1:0")
	require.NoError(ts.T(), err)

	var ctx context.Context
	ctx, ts.cancel = context.WithCancel(context.Background())
	ts.ln = ln
	ts.handler = &recordingHandler{}
	ts.server = NewServer(ts.handler)
	go ts.server.ServeTCP(ctx, ln)
}

func (ts *TCPServerTestSuite) TearDownTest() {
	ts.cancel()
}

func (ts *TCPServerTestSuite) TestRequestReply() {
	conn, err := net.Dial("tcp", ts.ln.Addr().String())
	require.NoError(ts.T(), err)
	defer conn.Close()

	require.NoError(ts.T(), WriteMessage(conn, map[string]string{"cmd": "ping_check"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	reply, err := ReadMessage(conn)
	require.NoError(ts.T(), err)
	assert.Equal(ts.T(), "ack", reply.Cmd)

	var body struct {
		Of string `json:"of"`
	}
	require.NoError(ts.T(), reply.Bind(&body))
	assert.Equal(ts.T(), "ping_check", body.Of)
}

// Frame malformado derruba a conexão e dispara OnDisconnect uma vez
func (ts *TCPServerTestSuite) TestMalformedFrameDisconnects() {
	conn, err := net.Dial("tcp", ts.ln.Addr().String())
	require.NoError(ts.T(), err)
	defer conn.Close()

	_, err = conn.Write([]byte{0, 0, 0, 3, 'b', 'a', 'd'})
	require.NoError(ts.T(), err)

	require.Eventually(ts.T(), func() bool { return ts.handler.disconnectCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = ReadMessage(conn)
	assert.Error(ts.T(), err, "Server must close the stream after a malformed frame")
}

func (ts *TCPServerTestSuite) TestClientIdentityIsPeerAddress() {
	conn, err := net.Dial("tcp", ts.ln.Addr().String())
	require.NoError(ts.T(), err)

	require.NoError(ts.T(), WriteMessage(conn, map[string]string{"cmd": "x"}))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = ReadMessage(conn)
	require.NoError(ts.T(), err)
	conn.Close()

	require.Eventually(ts.T(), func() bool { return ts.handler.disconnectCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	ts.handler.mu.Lock()
	defer ts.handler.mu.Unlock()
	require.Len(ts.T(), ts.handler.connected, 1)
	assert.Equal(ts.T(), conn.LocalAddr().String(), ts.handler.connected[0])
	assert.Equal(ts.T(), ts.handler.connected, ts.handler.disconnected)
}

// CloseAll derruba todas as conexões pelo caminho normal de desconexão
func (ts *TCPServerTestSuite) TestCloseAll() {
	var conns []net.Conn
	for i := 0; i < 3; i++ {
		conn, err := net.Dial("tcp", ts.ln.Addr().String())
		require.NoError(ts.T(), err)
		defer conn.Close()
		conns = append(conns, conn)
	}
	require.Eventually(ts.T(), func() bool { return ts.server.Active() == 3 }, 2*time.Second, 10*time.Millisecond)

	ts.server.CloseAll()
	require.Eventually(ts.T(), func() bool { return ts.handler.disconnectCount() == 3 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(ts.T(), 0, ts.server.Active())

	for _, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, err := ReadMessage(conn)
		assert.ErrorIs(ts.T(), err, ErrConnectionClosed)
	}
}

// Send depois do Close falha em vez de bloquear
func TestClientSendAfterClose(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()

	client := NewClient(NewTCPConn(a))
	client.Close()
	client.Close()

	assert.False(t, client.Send(map[string]string{"cmd": "pong"}))
	select {
	case <-client.Done():
	default:
		t.Fatal("Done must be closed after Close")
	}
}
