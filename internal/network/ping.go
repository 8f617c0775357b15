// internal/network/ping.go
package network

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// Definimos "tipos" de pacotes para saber o que recebemos.
	PING_PACKET_TYPE byte = 0x01
	PONG_PACKET_TYPE byte = 0x02

	maxDatagramSize = 4096
	maxEchoSources  = 4096
)

// O pacote de ping do cliente é:
// [ 1 byte para o tipo de pacote ] [ 8 bytes para o timestamp em nanossegundos ]
// O servidor não interpreta nada disso, só devolve os bytes.

// EncodePingPacket cria um pacote de 9 bytes para ser enviado.
func EncodePingPacket(packetType byte, timestamp int64) []byte {
	buf := make([]byte, 9)
	buf[0] = packetType
	binary.BigEndian.PutUint64(buf[1:], uint64(timestamp))
	return buf
}

// DecodePingPacket lê um pacote de 9 bytes e extrai as informações.
func DecodePingPacket(data []byte) (packetType byte, timestamp int64, err error) {
	if len(data) < 9 {
		return 0, 0, fmt.Errorf("ping packet too small: expected 9 bytes, got %d", len(data))
	}
	packetType = data[0]
	timestamp = int64(binary.BigEndian.Uint64(data[1:]))
	return packetType, timestamp, nil
}

// EchoServer devolve cada datagrama para quem enviou. Só guarda estado
// por origem quando o limitador está ligado.
type EchoServer struct {
	conn  net.PacketConn
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewEchoServer recebe um socket já aberto. perSecond <= 0 desliga o limite.
func NewEchoServer(conn net.PacketConn, perSecond float64, burst int) *EchoServer {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &EchoServer{
		conn:     conn,
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// ListenUDP abre o socket do eco.
func ListenUDP(address string) (net.PacketConn, error) {
	return net.ListenPacket("udp", address)
}

func (e *EchoServer) Addr() net.Addr { return e.conn.LocalAddr() }

func (e *EchoServer) allow(addr net.Addr) bool {
	if e.limit == rate.Inf {
		return true
	}
	host := addr.String()
	if udp, ok := addr.(*net.UDPAddr); ok {
		host = udp.IP.String()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	limiter, exists := e.limiters[host]
	if !exists {
		if len(e.limiters) >= maxEchoSources {
			e.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(e.limit, e.burst)
		e.limiters[host] = limiter
	}
	return limiter.Allow()
}

// Serve roda até o contexto ser cancelado. Erros de uma iteração são
// registrados e o loop continua.
func (e *EchoServer) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		e.conn.Close()
	}()

	log.WithField("addr", e.conn.LocalAddr().String()).Info("UDP echo listening")

	buf := make([]byte, maxDatagramSize)
	for {
		n, addr, err := e.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			log.WithError(err).Warn("UDP read failed")
			continue
		}
		if !e.allow(addr) {
			continue
		}
		if _, err := e.conn.WriteTo(buf[:n], addr); err != nil {
			log.WithError(err).WithField("peer", addr.String()).Debug("UDP echo write failed")
		}
	}
}
