package card

import (
	"math/rand/v2"
)

// skins é o catálogo estático de nomes de exibição por tipo.
var skins = map[Type][]string{
	Pedra: {
		"Rochedo Ancestral", "Magma Vivo", "Cristal Celeste", "Pedra Filosofal",
		"Meteorito Caído", "Granito Dourado", "Golem de Obsidiana", "Pedra Rúnica",
	},
	Papel: {
		"Pergaminho Arcano", "Carta Real", "Contrato Sombrio", "Origami de Dragão",
		"Mapa do Tesouro", "Folha Dourada", "Diário Proibido", "Manuscrito Eterno",
	},
	Tesoura: {
		"Lâmina Fantasma", "Corte Celestial", "Foice Lunar", "Tesoura de Ferro Forjado",
		"Cortante de Cristal", "Garras Flamejantes", "Navalha Sombria", "Tesoura Samurai",
	},
}

// skinOwner é o índice reverso skin -> tipo, montado uma vez.
var skinOwner = func() map[string]Type {
	m := make(map[string]Type)
	for t, names := range skins {
		for _, name := range names {
			m[name] = t
		}
	}
	return m
}()

// SkinsFor retorna uma cópia das skins de um tipo.
func SkinsFor(t Type) []string {
	names := skins[t]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// TypeOfSkin procura o tipo dono de uma skin do catálogo.
func TypeOfSkin(name string) (Type, bool) {
	t, ok := skinOwner[name]
	return t, ok
}

// RandomSkin escolhe uma skin uniforme dentro do tipo.
func RandomSkin(t Type, r *rand.Rand) string {
	names := skins[t]
	return names[r.IntN(len(names))]
}

// RandomPackage sorteia primeiro o tipo e depois a skin daquele tipo.
func RandomPackage(r *rand.Rand) Package {
	t := RandomType(r)
	return Package{Type: t, Skin: RandomSkin(t, r)}
}
