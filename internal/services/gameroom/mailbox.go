package gameroom

import (
	"sync"
)

// Play é o que o cliente manda no comando "play".
type Play struct {
	Card string `json:"card"`
	Skin string `json:"skin"`
}

const mailboxSize = 8

// Mailbox é a caixa de entrada de um jogador em uma partida.
// O roteador da conexão entrega jogadas; a sala lê. Close sinaliza desconexão.
type Mailbox struct {
	plays chan Play
	gone  chan struct{}
	once  sync.Once
}

func NewMailbox() *Mailbox {
	return &Mailbox{
		plays: make(chan Play, mailboxSize),
		gone:  make(chan struct{}),
	}
}

// Deliver nunca bloqueia a conexão: com a caixa cheia a jogada é descartada.
func (m *Mailbox) Deliver(p Play) bool {
	select {
	case <-m.gone:
		return false
	default:
	}
	select {
	case m.plays <- p:
		return true
	default:
		return false
	}
}

// Close é idempotente.
func (m *Mailbox) Close() {
	m.once.Do(func() { close(m.gone) })
}

func (m *Mailbox) Gone() <-chan struct{} { return m.gone }

// drain descarta jogadas que sobraram de um turno anterior.
func (m *Mailbox) drain() {
	for {
		select {
		case <-m.plays:
		default:
			return
		}
	}
}
