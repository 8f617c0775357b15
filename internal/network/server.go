//START OF FILE jokenpoarena/internal/network/server.go
package network

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Server aceita conexões e cria uma goroutine por cliente.
type Server struct {
	handler EventHandler
	wg      sync.WaitGroup

	mu      sync.Mutex
	clients map[*Client]struct{}
}

// NewServer recebe o EventHandler com a lógica do jogo.
func NewServer(handler EventHandler) *Server {
	return &Server{handler: handler, clients: make(map[*Client]struct{})}
}

// ListenTCP abre o listener de stream. Falha aqui é fatal para quem chama.
func ListenTCP(address string) (net.Listener, error) {
	return net.Listen("tcp", address)
}

// ServeTCP roda o loop de accept até o contexto ser cancelado.
func (s *Server) ServeTCP(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	log.WithField("addr", ln.Addr().String()).Info("TCP server listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			log.WithError(err).Warn("Accept failed")
			time.Sleep(50 * time.Millisecond)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.ServeConn(NewTCPConn(conn))
		}()
	}
}

// ServeConn executa o ciclo de vida completo de uma conexão:
// OnConnect, leitura de frames e OnDisconnect. Bloqueia até o fim.
func (s *Server) ServeConn(conn FrameConn) {
	client := NewClient(conn)
	s.track(client, true)
	defer s.track(client, false)
	go client.writeLoop()

	s.handler.OnConnect(client)

	err := client.readLoop(s.handler)
	entry := log.WithField("client", client.ID())
	switch {
	case errors.Is(err, ErrConnectionClosed):
		entry.Debug("Client closed the connection")
	default:
		entry.WithError(err).Info("Dropping client after read error")
	}

	client.Close()
	s.handler.OnDisconnect(client)
}

func (s *Server) track(c *Client, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.clients[c] = struct{}{}
	} else {
		delete(s.clients, c)
	}
}

// Active retorna quantas conexões estão abertas.
func (s *Server) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// CloseAll derruba todas as conexões abertas. Cada uma passa pelo OnDisconnect normalmente.
func (s *Server) CloseAll() {
	s.mu.Lock()
	clients := make([]*Client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
}

// Wait bloqueia até todas as conexões TCP e WebSocket terminarem.
func (s *Server) Wait() {
	s.wg.Wait()
}

//END OF FILE jokenpoarena/internal/network/server.go
