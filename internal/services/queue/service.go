//START OF FILE jokenpoarena/internal/services/queue/service.go
package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// Pairer é quem conhece o estado das sessões. O Matchmaker só sabe de ordem.
type Pairer interface {
	// TryPair valida os dois jogadores (conectados e fora de partida) e,
	// se ambos forem válidos, já os marca como em partida.
	TryPair(a, b string) (okA, okB bool)

	// StartMatch cria a sala para um par aceito por TryPair.
	StartMatch(a, b string)
}

// Matchmaker é a fila FIFO de espera e o watcher que forma os pares.
type Matchmaker struct {
	mu      sync.Mutex
	waiting []string

	wake    chan struct{}
	idle    time.Duration
	pairer  Pairer
	running atomic.Bool
}

const defaultIdle = 100 * time.Millisecond

func NewMatchmaker(pairer Pairer, idle time.Duration) *Matchmaker {
	if idle <= 0 {
		idle = defaultIdle
	}
	return &Matchmaker{
		waiting: make([]string, 0),
		wake:    make(chan struct{}, 1),
		idle:    idle,
		pairer:  pairer,
	}
}

// Enqueue coloca o jogador no fim da fila. Quem já está esperando não entra de novo.
func (m *Matchmaker) Enqueue(playerID string) bool {
	m.mu.Lock()
	if m.indexOf(playerID) >= 0 {
		m.mu.Unlock()
		return false
	}
	m.waiting = append(m.waiting, playerID)
	size := len(m.waiting)
	m.mu.Unlock()

	log.WithFields(log.Fields{"player": playerID, "size": size}).Debug("[Matchmaker] Player added to match queue")
	m.signal()
	return true
}

// PushFront devolve um jogador para a frente da fila, mantendo a prioridade dele.
func (m *Matchmaker) PushFront(playerID string) {
	m.mu.Lock()
	if m.indexOf(playerID) < 0 {
		m.waiting = append([]string{playerID}, m.waiting...)
	}
	m.mu.Unlock()
	m.signal()
}

// Remove tira o jogador da fila (desconexão). Retorna se ele estava esperando.
func (m *Matchmaker) Remove(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(playerID)
	if i < 0 {
		return false
	}
	m.waiting = append(m.waiting[:i], m.waiting[i+1:]...)
	log.WithField("player", playerID).Debug("[Matchmaker] Player removed from match queue")
	return true
}

func (m *Matchmaker) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiting)
}

// Snapshot retorna uma cópia da fila na ordem de chegada.
func (m *Matchmaker) Snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.waiting))
	copy(out, m.waiting)
	return out
}

// Run é o watcher. Acorda a cada Enqueue e, por garantia, a cada 'idle'.
func (m *Matchmaker) Run(ctx context.Context) {
	m.running.Store(true)
	defer m.running.Store(false)
	log.Info("[Matchmaker] Watcher started. Waiting for players...")
	ticker := time.NewTicker(m.idle)
	defer ticker.Stop()

	for {
		for m.tryPairing() {
		}

		select {
		case <-m.wake:
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// tryPairing tira os dois mais antigos e decide o destino deles.
// Retorna false quando não havia dois jogadores na fila.
func (m *Matchmaker) tryPairing() bool {
	m.mu.Lock()
	if len(m.waiting) < 2 {
		m.mu.Unlock()
		return false
	}
	a, b := m.waiting[0], m.waiting[1]
	m.waiting = m.waiting[2:]
	m.mu.Unlock()

	// O lock da fila já foi solto: TryPair usa o lock do registro.
	okA, okB := m.pairer.TryPair(a, b)
	switch {
	case okA && okB:
		log.WithFields(log.Fields{"a": a, "b": b}).Info("[Matchmaker] MATCH FOUND")
		m.pairer.StartMatch(a, b)
	case okA:
		m.PushFront(a)
	case okB:
		m.PushFront(b)
	default:
		log.WithFields(log.Fields{"a": a, "b": b}).Debug("[Matchmaker] Dropping two stale entries")
	}
	return true
}

// CheckHealth falha se o watcher não estiver rodando.
func (m *Matchmaker) CheckHealth() error {
	if !m.running.Load() {
		return errors.New("matchmaking watcher is not running")
	}
	return nil
}

func (m *Matchmaker) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Matchmaker) indexOf(playerID string) int {
	for i, id := range m.waiting {
		if id == playerID {
			return i
		}
	}
	return -1
}

//END OF FILE jokenpoarena/internal/services/queue/service.go
