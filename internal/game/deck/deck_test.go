package deck

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jokenpoarena/internal/game/card"
)

func newRNG() *rand.Rand { return rand.New(rand.NewPCG(42, 1)) }

// Cartas só trocam de zona; o total nunca muda
func TestZoneInvariantThroughAMatch(t *testing.T) {
	rng := newRNG()
	d := NewRandomDeck(10, rng)
	require.Equal(t, 10, d.Total())
	require.Equal(t, 10, d.Size())

	assert.Equal(t, 3, d.DrawMany(3))
	assert.Equal(t, 10, d.Total())

	for !d.Exhausted() {
		_, err := d.PlayRandomFromHand(rng)
		require.NoError(t, err)
		assert.Equal(t, 10, d.Total())
		d.DrawMany(1)
		assert.Equal(t, 10, d.Total())
	}

	assert.Equal(t, 10, d.PlayedCount())
	assert.Equal(t, 0, d.DeckSize())
	assert.Equal(t, 0, d.HandSize())
}

// O topo do deck é o fim da pilha
func TestDrawFromTail(t *testing.T) {
	d := NewDeck()
	d.zones[DECK].AddCard(card.Pedra)
	d.zones[DECK].AddCard(card.Papel)
	d.zones[DECK].AddCard(card.Tesoura)

	c, err := d.DrawToHand()
	require.NoError(t, err)
	assert.Equal(t, card.Tesoura, c)

	c, err = d.DrawToHand()
	require.NoError(t, err)
	assert.Equal(t, card.Papel, c)

	assert.Equal(t, []card.Type{card.Tesoura, card.Papel}, d.Hand())
}

func TestDrawFromEmptyDeck(t *testing.T) {
	d := NewDeck()
	_, err := d.DrawToHand()
	assert.ErrorIs(t, err, ErrEmptyPile)
	assert.Equal(t, 0, d.DrawMany(3))
}

func TestPlayFromHand(t *testing.T) {
	d := NewDeck()
	d.zones[HAND].AddCard(card.Pedra)
	d.zones[HAND].AddCard(card.Pedra)

	require.NoError(t, d.PlayFromHand(card.Pedra))
	assert.Equal(t, 1, d.HandSize())
	assert.Equal(t, 1, d.PlayedCount())

	err := d.PlayFromHand(card.Papel)
	assert.ErrorIs(t, err, ErrCardNotInHand)
	assert.Equal(t, 1, d.HandSize(), "failed play must not move cards")
}

func TestPlayRandomFromEmptyHand(t *testing.T) {
	d := NewDeck()
	_, err := d.PlayRandomFromHand(newRNG())
	assert.ErrorIs(t, err, ErrEmptyPile)
}

func TestHandIsACopy(t *testing.T) {
	d := NewDeck()
	d.zones[HAND].AddCard(card.Papel)
	hand := d.Hand()
	hand[0] = card.Tesoura
	assert.True(t, d.InHand(card.Papel))
	assert.False(t, d.InHand(card.Tesoura))
}

func TestNewDeckFrom(t *testing.T) {
	d := NewDeckFrom([]card.Type{card.Papel, card.Pedra})
	assert.Equal(t, 2, d.Size())
	c, err := d.DrawToHand()
	require.NoError(t, err)
	assert.Equal(t, card.Pedra, c)
}
