//START OF FILE jokenpoarena/internal/game/player/inventory/inventory.go
package inventory

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"jokenpoarena/internal/game/card"
)

var ErrSkinNotOwned = errors.New("skin_not_owned")

// Inventory guarda os pacotes ganhos e a skin equipada em cada tipo.
// Não é seguro para uso concorrente: quem guarda o lock é o registro de sessões.
type Inventory struct {
	owned    []card.Package
	equipped map[card.Type]string
}

func NewInventory() *Inventory {
	return &Inventory{
		equipped: make(map[card.Type]string),
	}
}

// Add acrescenta pacotes. Pacotes ganhos nunca são removidos.
func (i *Inventory) Add(pkgs ...card.Package) {
	i.owned = append(i.owned, pkgs...)
}

// Owned retorna uma cópia dos pacotes.
func (i *Inventory) Owned() []card.Package {
	out := make([]card.Package, len(i.owned))
	copy(out, i.owned)
	return out
}

// Equipped retorna uma cópia do mapa tipo -> skin.
func (i *Inventory) Equipped() map[card.Type]string {
	out := make(map[card.Type]string, len(i.equipped))
	for k, v := range i.equipped {
		out[k] = v
	}
	return out
}

// Owns diz se algum pacote tem exatamente essa skin para esse tipo.
func (i *Inventory) Owns(t card.Type, skin string) bool {
	return lo.ContainsBy(i.owned, func(p card.Package) bool {
		return p.Type == t && p.Skin == skin
	})
}

// Equip troca a skin do tipo. No máximo uma skin equipada por tipo.
func (i *Inventory) Equip(t card.Type, skin string) error {
	if !i.Owns(t, skin) {
		return fmt.Errorf("%w: %s for %s", ErrSkinNotOwned, skin, t)
	}
	i.equipped[t] = skin
	return nil
}

// Display é o nome que o jogador vê para um tipo.
func (i *Inventory) Display(t card.Type) string {
	if skin, ok := i.equipped[t]; ok {
		return skin
	}
	return t.String()
}

// DisplayHand aplica Display em cada carta.
func (i *Inventory) DisplayHand(hand []card.Type) []string {
	return lo.Map(hand, func(t card.Type, _ int) string { return i.Display(t) })
}

// Resolve converte o que o jogador mandou (tipo puro ou skin equipada) em tipo.
func (i *Inventory) Resolve(input string) (card.Type, bool) {
	if t, err := card.ParseType(input); err == nil {
		return t, true
	}
	for t, skin := range i.equipped {
		if skin == input {
			return t, true
		}
	}
	return "", false
}

//END OF FILE jokenpoarena/internal/game/player/inventory/inventory.go
