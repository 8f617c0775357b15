package deck

import (
	"fmt"
	"math/rand/v2"

	"jokenpoarena/internal/game/card"
)

// Nomes das zonas de um jogador durante a partida.
const (
	DECK   = "deck"
	HAND   = "hand"
	PLAYED = "played"
)

// Deck guarda as três zonas de um jogador. A soma das três é sempre o
// tamanho inicial: cartas só mudam de zona, nunca somem.
type Deck struct {
	zones map[string]*pileOfCards
	size  int
}

// NewDeck inicializa todas as zonas vazias.
func NewDeck() *Deck {
	return &Deck{
		zones: map[string]*pileOfCards{
			DECK:   new(pileOfCards),
			HAND:   new(pileOfCards),
			PLAYED: new(pileOfCards),
		},
	}
}

// NewRandomDeck monta um baralho de 'size' cartas sorteadas entre os três tipos e embaralha.
func NewRandomDeck(size int, r *rand.Rand) *Deck {
	d := NewDeck()
	pile := d.zones[DECK]
	for i := 0; i < size; i++ {
		pile.AddCard(card.RandomType(r))
	}
	pile.Shuffle(r)
	d.size = size
	return d
}

// NewDeckFrom monta o baralho na ordem dada. A última carta é o topo.
func NewDeckFrom(types []card.Type) *Deck {
	d := NewDeck()
	for _, t := range types {
		d.zones[DECK].AddCard(t)
	}
	d.size = len(types)
	return d
}

// DrawToHand move a carta do topo do deck para a mão.
func (d *Deck) DrawToHand() (card.Type, error) {
	c, err := d.zones[DECK].DrawTop()
	if err != nil {
		return "", fmt.Errorf("draw: %w", err)
	}
	d.zones[HAND].AddCard(c)
	return c, nil
}

// DrawMany compra até n cartas e devolve quantas foram compradas.
func (d *Deck) DrawMany(n int) int {
	drawn := 0
	for ; drawn < n; drawn++ {
		if _, err := d.DrawToHand(); err != nil {
			break
		}
	}
	return drawn
}

// PlayFromHand move uma cópia do tipo da mão para a zona de jogadas.
func (d *Deck) PlayFromHand(t card.Type) error {
	if !d.zones[HAND].RemoveCard(t) {
		return fmt.Errorf("%w: %s", ErrCardNotInHand, t)
	}
	d.zones[PLAYED].AddCard(t)
	return nil
}

// PlayRandomFromHand joga uma carta qualquer da mão.
func (d *Deck) PlayRandomFromHand(r *rand.Rand) (card.Type, error) {
	c, err := d.zones[HAND].DrawRandom(r)
	if err != nil {
		return "", fmt.Errorf("play random: %w", err)
	}
	d.zones[PLAYED].AddCard(c)
	return c, nil
}

func (d *Deck) InHand(t card.Type) bool { return d.zones[HAND].Contains(t) }

// Hand retorna uma cópia da mão atual.
func (d *Deck) Hand() []card.Type {
	hand := *d.zones[HAND]
	out := make([]card.Type, len(hand))
	copy(out, hand)
	return out
}

func (d *Deck) DeckSize() int { return len(*d.zones[DECK]) }
func (d *Deck) HandSize() int { return len(*d.zones[HAND]) }
func (d *Deck) PlayedCount() int { return len(*d.zones[PLAYED]) }

// Total é deck + mão + jogadas.
func (d *Deck) Total() int {
	return d.DeckSize() + d.HandSize() + d.PlayedCount()
}

// Size é o tamanho com que o baralho foi criado.
func (d *Deck) Size() int { return d.size }

// Exhausted diz se não há mais cartas para jogar nem para comprar.
func (d *Deck) Exhausted() bool {
	return d.DeckSize() == 0 && d.HandSize() == 0
}
