package network

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	// Tempo máximo para aguardar por uma resposta de pong do cliente.
	pongWait = 60 * time.Second

	// Frequência com que enviamos pings para o cliente. Deve ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// upgrader armazena as configurações para promover uma conexão HTTP para WebSocket.
var upgrader = websocket.Upgrader{
	// Para desenvolvimento, qualquer origem é aceita.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wsConn transporta os mesmos payloads JSON do TCP: cada mensagem de texto é um frame.
type wsConn struct {
	conn      *websocket.Conn
	stop      chan struct{}
	closeOnce sync.Once
}

func newWSConn(conn *websocket.Conn) *wsConn {
	conn.SetReadLimit(MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	w := &wsConn{conn: conn, stop: make(chan struct{})}
	go w.pingLoop()
	return w
}

// pingLoop usa WriteControl, que pode rodar em paralelo com o writeLoop do cliente.
func (w *wsConn) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				w.Close()
				return
			}
		case <-w.stop:
			return
		}
	}
}

func (w *wsConn) ReadMessage() (*Message, error) {
	_, data, err := w.conn.ReadMessage()
	if err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			log.WithError(err).WithField("client", w.RemoteAddr().String()).Debug("Unexpected websocket close")
		}
		return nil, fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}
	return DecodePayload(data)
}

func (w *wsConn) WriteMessage(payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

func (w *wsConn) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stop)
		err = w.conn.Close()
	})
	return err
}

func (w *wsConn) RemoteAddr() net.Addr { return w.conn.RemoteAddr() }

// WebSocketHandler promove a requisição HTTP e atende a conexão na própria goroutine do handler.
func (s *Server) WebSocketHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("Websocket upgrade failed")
			return
		}
		s.wg.Add(1)
		defer s.wg.Done()
		s.ServeConn(newWSConn(conn))
	}
}
