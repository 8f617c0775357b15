//START OF FILE jokenpoarena/internal/services/shop/random.go
package shop

import (
	"math/rand/v2"
	"sync"
	"time"

	"jokenpoarena/internal/game/card"
)

// PackageSize é o número de sorteios independentes por pacote.
const PackageSize = 3

// Roller sorteia o conteúdo dos pacotes. O rand.Rand não é seguro para
// concorrência, então fica atrás de um mutex: vários clientes abrem pacotes ao mesmo tempo.
type Roller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRoller() *Roller {
	seed := uint64(time.Now().UnixNano())
	return NewSeededRoller(seed)
}

// NewSeededRoller é usado nos testes para ter sorteios reproduzíveis.
func NewSeededRoller(seed uint64) *Roller {
	return &Roller{rng: rand.New(rand.NewPCG(seed, 0))}
}

// Roll sorteia um pacote: para cada item, tipo uniforme e depois skin uniforme daquele tipo.
func (r *Roller) Roll() []card.Package {
	r.mu.Lock()
	defer r.mu.Unlock()

	awarded := make([]card.Package, 0, PackageSize)
	for i := 0; i < PackageSize; i++ {
		awarded = append(awarded, card.RandomPackage(r.rng))
	}
	return awarded
}

//END OF FILE jokenpoarena/internal/services/shop/random.go
