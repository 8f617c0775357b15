//START OF FILE jokenpoarena/internal/session/handlers_match.go
package session

import (
	"jokenpoarena/internal/network"
	"jokenpoarena/internal/services/gameroom"
	"jokenpoarena/internal/session/message"
)

// registerMatchHandlers popula o roteador com os comandos de dentro da partida.
func (h *GameHandler) registerMatchHandlers() {
	h.router["play"] = handlePlay
}

// play: {"card": "Pedra"} ou {"card": "Magma Vivo"}. A validação contra a mão
// é da sala; aqui só se entrega no mailbox. Fora de partida responde "unknown".
func handlePlay(h *GameHandler, c *network.Client, msg *network.Message) {
	var play gameroom.Play
	if err := msg.Bind(&play); err != nil {
		c.Send(message.CreateUnknown(msg.Cmd))
		return
	}
	if h.registry.Mailbox(c.ID()) == nil {
		c.Send(message.CreateUnknown(msg.Cmd))
		return
	}
	h.registry.Deliver(c.ID(), play)
}

//END OF FILE jokenpoarena/internal/session/handlers_match.go
