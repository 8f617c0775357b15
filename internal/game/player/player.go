package player

import (
	"math/rand/v2"

	"jokenpoarena/internal/game/card"
	"jokenpoarena/internal/game/deck"
)

// Player é o lado de um participante dentro de uma partida.
// Só a goroutine da sala mexe nele.
type Player struct {
	id    string
	deck  *deck.Deck
	lives int
}

// NewPlayer cria o baralho aleatório e já compra a mão inicial.
func NewPlayer(id string, lives, deckSize, handSize int, r *rand.Rand) *Player {
	return NewPlayerFromDeck(id, lives, deck.NewRandomDeck(deckSize, r), handSize)
}

// NewPlayerFromDeck usa um baralho já montado.
func NewPlayerFromDeck(id string, lives int, d *deck.Deck, handSize int) *Player {
	p := &Player{
		id:    id,
		deck:  d,
		lives: lives,
	}
	p.deck.DrawMany(handSize)
	return p
}

func (p *Player) ID() string { return p.id }
func (p *Player) Deck() *deck.Deck { return p.deck }
func (p *Player) Lives() int { return p.lives }
func (p *Player) Hand() []card.Type { return p.deck.Hand() }
func (p *Player) Alive() bool { return p.lives > 0 }
func (p *Player) HasNoMoreMoves() bool { return p.deck.Exhausted() }

func (p *Player) LoseLife() {
	if p.lives > 0 {
		p.lives--
	}
}

// Draw compra uma carta se ainda houver no deck.
func (p *Player) Draw() bool {
	_, err := p.deck.DrawToHand()
	return err == nil
}

// ResolvePlay aplica a regra de fallback: a carta escolhida se estiver na mão,
// senão uma carta aleatória da mão, senão um tipo aleatório que não gasta mão.
// Retorna o tipo jogado e se houve fallback.
func (p *Player) ResolvePlay(choice card.Type, r *rand.Rand) (card.Type, bool) {
	if choice.Valid() && p.deck.PlayFromHand(choice) == nil {
		return choice, false
	}
	if played, err := p.deck.PlayRandomFromHand(r); err == nil {
		return played, true
	}
	return card.RandomType(r), true
}
