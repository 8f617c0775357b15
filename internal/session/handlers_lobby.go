//START OF FILE jokenpoarena/internal/session/handlers_lobby.go
package session

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"jokenpoarena/internal/game/card"
	"jokenpoarena/internal/network"
	"jokenpoarena/internal/services/shop"
	"jokenpoarena/internal/session/message"
)

// registerLobbyHandlers popula o roteador com os comandos de fora de partida.
func (h *GameHandler) registerLobbyHandlers() {
	h.router["join_queue"] = handleJoinQueue
	h.router["open_package"] = handleOpenPackage
	h.router["list_skins"] = handleListSkins
	h.router["equip"] = handleEquip
	h.router["ping_check"] = handlePingCheck
}

// join_queue: entrar na fila duas vezes não duplica a posição.
func handleJoinQueue(h *GameHandler, c *network.Client, msg *network.Message) {
	if info, ok := h.registry.Get(c.ID()); !ok || info.InMatch {
		c.Send(message.CreateUnknown(msg.Cmd))
		return
	}
	if h.queue.Enqueue(c.ID()) {
		log.WithFields(log.Fields{"client": c.ID(), "waiting": h.queue.Len()}).Info("[GameHandler] Player joined the match queue")
	}
	c.Send(message.CreateQueued())
}

// open_package reserva uma unidade de estoque e espera o ticket em outra
// goroutine, sem segurar a leitura da conexão.
func handleOpenPackage(h *GameHandler, c *network.Client, msg *network.Message) {
	ticket, err := h.shop.Request(c.ID())
	if errors.Is(err, shop.ErrNoStock) {
		c.Send(message.CreatePackageEmpty())
		return
	}
	if err != nil {
		log.WithError(err).WithField("client", c.ID()).Error("[GameHandler] Package request failed")
		c.Send(message.CreatePackageEmpty())
		return
	}

	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		h.awaitPackage(ticket)
	}()
}

// awaitPackage sorteia e entrega o pacote quando o ticket for atendido.
// Se o jogador saiu nesse meio tempo o pacote é contado como perdido.
func (h *GameHandler) awaitPackage(ticket *shop.Ticket) {
	entry := log.WithFields(log.Fields{"client": ticket.PlayerID, "ticket": ticket.ID})
	if err := ticket.Wait(h.ctx); err != nil {
		entry.WithError(err).Debug("[GameHandler] Package ticket not fulfilled")
		return
	}

	awarded := h.roller.Roll()
	if !h.registry.AddPackages(ticket.PlayerID, awarded) {
		h.shop.ReportUndelivered()
		entry.Warn("[GameHandler] Package fulfilled after player left")
		return
	}

	h.registry.Send(ticket.PlayerID, message.CreatePackageOpened(ticket.ID, awarded))
	h.audit.PackageGranted(ticket.PlayerID, ticket.ID, awarded)
	entry.WithField("awarded", awarded).Info("[GameHandler] Package opened")
}

func handleListSkins(h *GameHandler, c *network.Client, msg *network.Message) {
	owned, equipped, ok := h.registry.Skins(c.ID())
	if !ok {
		return
	}
	c.Send(message.CreateSkinsList(owned, equipped))
}

// equip: {"type": "Pedra", "skin": "Magma Vivo"}
func handleEquip(h *GameHandler, c *network.Client, msg *network.Message) {
	var req struct {
		Type string `json:"type"`
		Skin string `json:"skin"`
	}
	if err := msg.Bind(&req); err != nil {
		c.Send(message.CreateEquipFail())
		return
	}
	t, err := card.ParseType(req.Type)
	if err != nil {
		c.Send(message.CreateEquipFail())
		return
	}
	if err := h.registry.Equip(c.ID(), t, req.Skin); err != nil {
		log.WithError(err).WithField("client", c.ID()).Debug("[GameHandler] Equip refused")
		c.Send(message.CreateEquipFail())
		return
	}
	c.Send(message.CreateEquipOK(t, req.Skin))
}

func handlePingCheck(h *GameHandler, c *network.Client, msg *network.Message) {
	c.Send(message.CreatePong())
}

//END OF FILE jokenpoarena/internal/session/handlers_lobby.go
