// card/rules.go
package card

// Constantes para representar o resultado da comparação de cartas.
const (
	Card1Wins = 1
	Card2Wins = -1
	Tie       = 0
)

// winConditions define a regra do Jokenpo.
// A chave vence o valor. Ex: Pedra vence Tesoura.
var winConditions = map[Type]Type{
	Pedra:   Tesoura,
	Tesoura: Papel,
	Papel:   Pedra,
}

// Compare retorna Card1Wins, Card2Wins ou Tie.
// Tipos iguais (ou sem relação de vitória) empatam.
func Compare(type1, type2 Type) int {
	if winConditions[type1] == type2 {
		return Card1Wins
	}
	if winConditions[type2] == type1 {
		return Card2Wins
	}
	return Tie
}

// Beats diz se a vence b.
func Beats(a, b Type) bool {
	return Compare(a, b) == Card1Wins
}
