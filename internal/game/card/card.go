//START OF FILE jokenpoarena/internal/game/card/card.go
package card

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Type é o tipo jogável de uma carta. Os nomes são os mesmos que trafegam no protocolo.
type Type string

const (
	Pedra   Type = "Pedra"
	Papel   Type = "Papel"
	Tesoura Type = "Tesoura"
)

var ErrInvalidType = errors.New("invalid card type")

// AllTypes na ordem fixa usada pelos sorteios.
var AllTypes = []Type{Pedra, Papel, Tesoura}

func (t Type) String() string { return string(t) }

func (t Type) Valid() bool {
	switch t {
	case Pedra, Papel, Tesoura:
		return true
	}
	return false
}

// ParseType aceita apenas o nome exato do tipo.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// RandomType sorteia um tipo com probabilidade uniforme.
func RandomType(r *rand.Rand) Type {
	return AllTypes[r.IntN(len(AllTypes))]
}

// Package é o prêmio de um sorteio: um tipo com uma skin daquele tipo.
type Package struct {
	Type Type   `json:"type"`
	Skin string `json:"skin"`
}

func (p Package) String() string {
	return fmt.Sprintf("%s (%s)", p.Skin, p.Type)
}

//END OF FILE jokenpoarena/internal/game/card/card.go
