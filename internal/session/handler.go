//START OF FILE jokenpoarena/internal/session/handler.go
package session

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"jokenpoarena/internal/network"
	"jokenpoarena/internal/services/audit"
	"jokenpoarena/internal/services/gameroom"
	"jokenpoarena/internal/services/queue"
	"jokenpoarena/internal/services/shop"
	"jokenpoarena/internal/session/message"
)

// CommandHandlerFunc é a assinatura de todo comando vindo do cliente.
type CommandHandlerFunc func(h *GameHandler, c *network.Client, msg *network.Message)

// Options são as dependências do GameHandler.
type Options struct {
	Shop            *shop.PackageService
	Roller          *shop.Roller
	Audit           audit.Publisher
	Game            gameroom.Config
	MatchmakingIdle time.Duration
}

// GameHandler liga a rede com o registro, a fila, a loja e as salas.
type GameHandler struct {
	ctx      context.Context
	registry *Registry
	queue    *queue.Matchmaker
	shop     *shop.PackageService
	roller   *shop.Roller
	rooms    *gameroom.RoomManager
	audit    audit.Publisher

	// pedidos de pacote ainda esperando o ticket
	pending sync.WaitGroup

	router map[string]CommandHandlerFunc
}

// NewGameHandler monta o roteador e registra a limpeza de desconexão no registro.
// ctx limita a espera dos tickets de pacote.
func NewGameHandler(ctx context.Context, registry *Registry, opts Options) *GameHandler {
	if opts.Audit == nil {
		opts.Audit = audit.NopPublisher{}
	}
	if opts.Roller == nil {
		opts.Roller = shop.NewRoller()
	}

	h := &GameHandler{
		ctx:      ctx,
		registry: registry,
		shop:     opts.Shop,
		roller:   opts.Roller,
		audit:    opts.Audit,
		router:   make(map[string]CommandHandlerFunc),
	}
	h.queue = queue.NewMatchmaker(h, opts.MatchmakingIdle)
	h.rooms = gameroom.NewRoomManager(registry, opts.Game, h.onMatchFinished)

	registry.OnUnregister(func(id string) {
		if n := h.shop.CancelPending(id); n > 0 {
			log.WithFields(log.Fields{"client": id, "refunded": n}).Info("[GameHandler] Pending packages refunded")
		}
	})
	registry.OnUnregister(func(id string) { h.queue.Remove(id) })

	h.registerLobbyHandlers()
	h.registerMatchHandlers()
	return h
}

func (h *GameHandler) Registry() *Registry { return h.registry }
func (h *GameHandler) Queue() *queue.Matchmaker { return h.queue }
func (h *GameHandler) Rooms() *gameroom.RoomManager { return h.rooms }

// Wait espera as partidas e os pedidos de pacote em andamento.
func (h *GameHandler) Wait() {
	h.rooms.Wait()
	h.pending.Wait()
}

// ============================================================================
// network.EventHandler
// ============================================================================

func (h *GameHandler) OnConnect(c *network.Client) {
	h.registry.Register(c)
}

func (h *GameHandler) OnDisconnect(c *network.Client) {
	h.registry.Unregister(c)
}

// OnMessage despacha pelo campo cmd. Comando desconhecido recebe "unknown"
// e a conexão continua aberta.
func (h *GameHandler) OnMessage(c *network.Client, msg *network.Message) {
	handler, found := h.router[msg.Cmd]
	if !found {
		log.WithFields(log.Fields{"client": c.ID(), "cmd": msg.Cmd}).Debug("[GameHandler] Unknown command")
		c.Send(message.CreateUnknown(msg.Cmd))
		return
	}
	handler(h, c, msg)
}

// ============================================================================
// queue.Pairer
// ============================================================================

func (h *GameHandler) TryPair(a, b string) (bool, bool) {
	return h.registry.TryPair(a, b)
}

// StartMatch cria a sala. Se alguém caiu entre o TryPair e aqui, o outro
// volta para a frente da fila.
func (h *GameHandler) StartMatch(a, b string) {
	mbA, mbB := h.registry.Mailbox(a), h.registry.Mailbox(b)
	switch {
	case mbA != nil && mbB != nil:
		h.rooms.CreateRoom(a, b, mbA, mbB)
	case mbA != nil:
		h.registry.EndMatch(a, mbA)
		h.queue.PushFront(a)
	case mbB != nil:
		h.registry.EndMatch(b, mbB)
		h.queue.PushFront(b)
	}
}

func (h *GameHandler) onMatchFinished(record gameroom.MatchRecord) {
	h.audit.MatchFinished(record)
}

//END OF FILE jokenpoarena/internal/session/handler.go
