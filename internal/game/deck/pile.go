package deck

import (
	"errors"
	"math/rand/v2"

	"jokenpoarena/internal/game/card"
)

var (
	ErrEmptyPile     = errors.New("pile is empty")
	ErrCardNotInHand  = errors.New("card not in hand")
)

type pileOfCards []card.Type

func (p *pileOfCards) Shuffle(r *rand.Rand) {
	n := len(*p)
	for i := n - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		(*p)[i], (*p)[j] = (*p)[j], (*p)[i]
	}
}

// DrawTop tira a carta do topo. O topo do baralho é o fim do slice.
func (p *pileOfCards) DrawTop() (card.Type, error) {
	n := len(*p)
	if n == 0 {
		return "", ErrEmptyPile
	}
	top := (*p)[n-1]
	*p = (*p)[:n-1]
	return top, nil
}

// DrawRandom remove uma carta qualquer, com probabilidade uniforme.
func (p *pileOfCards) DrawRandom(r *rand.Rand) (card.Type, error) {
	n := len(*p)
	if n == 0 {
		return "", ErrEmptyPile
	}
	return p.removeAt(r.IntN(n)), nil
}

func (p *pileOfCards) AddCard(t card.Type) {
	*p = append(*p, t)
}

// RemoveCard tira a primeira cópia do tipo pedido.
func (p *pileOfCards) RemoveCard(t card.Type) bool {
	for i, c := range *p {
		if c == t {
			p.removeAt(i)
			return true
		}
	}
	return false
}

func (p *pileOfCards) Contains(t card.Type) bool {
	for _, c := range *p {
		if c == t {
			return true
		}
	}
	return false
}

func (p *pileOfCards) removeAt(index int) card.Type {
	c := (*p)[index]
	*p = append((*p)[:index], (*p)[index+1:]...)
	return c
}
