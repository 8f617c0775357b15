package network

import (
	"bufio"
	"net"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// Tempo para aguardar por uma escrita na conexão.
	writeWait = 10 * time.Second

	// Tamanho do buffer de saída de cada cliente.
	sendBufferSize = 256
)

// FrameConn é um transporte que sabe ler e escrever frames inteiros.
// Existe uma implementação para TCP e outra para WebSocket.
type FrameConn interface {
	ReadMessage() (*Message, error)
	WriteMessage(payload any) error
	Close() error
	RemoteAddr() net.Addr
}

// tcpConn aplica o protocolo de framing sobre um net.Conn.
type tcpConn struct {
	conn   net.Conn
	reader *bufio.Reader
}

// NewTCPConn embrulha uma conexão de stream no protocolo de frames.
func NewTCPConn(conn net.Conn) FrameConn {
	return &tcpConn{conn: conn, reader: bufio.NewReader(conn)}
}

func (t *tcpConn) ReadMessage() (*Message, error) { return ReadMessage(t.reader) }

func (t *tcpConn) WriteMessage(payload any) error {
	t.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return WriteMessage(t.conn, payload)
}

func (t *tcpConn) Close() error { return t.conn.Close() }
func (t *tcpConn) RemoteAddr() net.Addr { return t.conn.RemoteAddr() }

// Client é a representação de um jogador conectado do ponto de vista do servidor.
// A identidade é o endereço do par ("ip:porta").
type Client struct {
	id   string
	conn FrameConn

	// Mensagens de saída. Só a goroutine writeLoop escreve na conexão.
	send chan any
	done chan struct{}

	closeOnce sync.Once
}

// NewClient cria o cliente para uma conexão já estabelecida.
func NewClient(conn FrameConn) *Client {
	return &Client{
		id:   conn.RemoteAddr().String(),
		conn: conn,
		send: make(chan any, sendBufferSize),
		done: make(chan struct{}),
	}
}

func (c *Client) ID() string { return c.id }

// Done é fechado quando o cliente é encerrado.
func (c *Client) Done() <-chan struct{} { return c.done }

// Send enfileira uma mensagem para o cliente. Nunca bloqueia: retorna false
// se o cliente já foi fechado. Um cliente que não consome o próprio buffer
// é desconectado.
func (c *Client) Send(msg any) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	case <-c.done:
		return false
	default:
		log.WithField("client", c.id).Warn("Send buffer full, dropping slow client")
		c.Close()
		return false
	}
}

// Close é idempotente. Fecha a conexão, o que também destrava o readLoop.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// writeLoop bombeia mensagens do canal 'send' para a conexão.
func (c *Client) writeLoop() {
	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteMessage(msg); err != nil {
				log.WithField("client", c.id).WithError(err).Debug("Write failed, closing client")
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// readLoop entrega cada frame ao handler até o primeiro erro.
func (c *Client) readLoop(handler EventHandler) error {
	for {
		msg, err := c.conn.ReadMessage()
		if err != nil {
			return err
		}
		handler.OnMessage(c, msg)
	}
}
