//START OF FILE jokenpoarena/internal/services/shop/service.go
package shop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNoStock   = errors.New("no_stock")
	ErrCancelled = errors.New("package request cancelled")
)

// Ticket é a promessa de um pacote. Ele já ocupa uma unidade de estoque
// e termina ou atendido (Wait retorna nil) ou cancelado com reembolso.
type Ticket struct {
	ID       string
	PlayerID string

	done chan struct{}
	once sync.Once
	err  error
}

func newTicket(playerID string) *Ticket {
	return &Ticket{
		ID:       uuid.NewString(),
		PlayerID: playerID,
		done:     make(chan struct{}),
	}
}

func (t *Ticket) complete(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}

// Done é fechado quando o ticket foi atendido ou cancelado.
func (t *Ticket) Done() <-chan struct{} { return t.done }

// Wait bloqueia até o ticket terminar ou o contexto acabar.
func (t *Ticket) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats é uma foto do serviço. Stock + Pending + Fulfilled == Capacity sempre.
type Stats struct {
	Capacity  int `json:"capacity"`
	Stock     int `json:"stock"`
	Pending   int `json:"pending"`
	Fulfilled int `json:"fulfilled"`
	Refunded  int `json:"refunded"`
	Lost      int `json:"lost"`
}

// PackageService controla o estoque e a fila FIFO de pedidos.
// Um único worker (Run) atende um pedido por vez, com intervalo fixo.
type PackageService struct {
	mu        sync.Mutex
	capacity  int
	stock     int
	pending   []*Ticket
	inService *Ticket
	fulfilled int
	refunded  int
	lost      int

	interval time.Duration
	wake     chan struct{}
	running  atomic.Bool
}

// NewPackageService cria o serviço com o estoque cheio.
func NewPackageService(capacity int, interval time.Duration) *PackageService {
	return &PackageService{
		capacity: capacity,
		stock:    capacity,
		interval: interval,
		wake:     make(chan struct{}, 1),
	}
}

// Request reserva uma unidade e coloca o pedido no fim da fila.
// Sem estoque retorna ErrNoStock e nada muda.
func (s *PackageService) Request(playerID string) (*Ticket, error) {
	s.mu.Lock()
	if s.stock == 0 {
		s.mu.Unlock()
		return nil, ErrNoStock
	}
	s.stock--
	t := newTicket(playerID)
	s.pending = append(s.pending, t)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return t, nil
}

// CancelPending remove os pedidos do jogador que ainda estão na fila, e também
// o que está sendo atendido se for dele. O estoque volta e os tickets terminam com ErrCancelled.
func (s *PackageService) CancelPending(playerID string) int {
	s.mu.Lock()
	var cancelled []*Ticket
	kept := s.pending[:0]
	for _, t := range s.pending {
		if t.PlayerID == playerID {
			cancelled = append(cancelled, t)
		} else {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(s.pending); i++ {
		s.pending[i] = nil
	}
	s.pending = kept

	if s.inService != nil && s.inService.PlayerID == playerID {
		cancelled = append(cancelled, s.inService)
		s.inService = nil
	}

	s.stock += len(cancelled)
	s.refunded += len(cancelled)
	s.mu.Unlock()

	for _, t := range cancelled {
		t.complete(ErrCancelled)
	}
	if len(cancelled) > 0 {
		log.WithFields(log.Fields{"player": playerID, "refunded": len(cancelled)}).Info("[PackageService] Refunded pending requests")
	}
	return len(cancelled)
}

// ReportUndelivered marca um pacote atendido cujo dono já tinha saído.
// A unidade de estoque não volta.
func (s *PackageService) ReportUndelivered() {
	s.mu.Lock()
	s.lost++
	s.mu.Unlock()
}

func (s *PackageService) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := len(s.pending)
	if s.inService != nil {
		pending++
	}
	return Stats{
		Capacity:  s.capacity,
		Stock:     s.stock,
		Pending:   pending,
		Fulfilled: s.fulfilled,
		Refunded:  s.refunded,
		Lost:      s.lost,
	}
}

// pop move o pedido mais antigo para "em atendimento".
func (s *PackageService) pop() *Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}
	t := s.pending[0]
	s.pending[0] = nil
	s.pending = s.pending[1:]
	s.inService = t
	return t
}

// finish fecha o atendimento, a menos que o ticket tenha sido cancelado no meio.
func (s *PackageService) finish(t *Ticket) bool {
	s.mu.Lock()
	if s.inService != t {
		s.mu.Unlock()
		return false
	}
	s.inService = nil
	s.fulfilled++
	s.mu.Unlock()

	t.complete(nil)
	return true
}

// Run é o worker. Bloqueia até o contexto ser cancelado.
func (s *PackageService) Run(ctx context.Context) {
	s.running.Store(true)
	defer s.running.Store(false)
	log.WithField("stock", s.capacity).Info("[PackageService] Worker started")

	timer := time.NewTimer(s.interval)
	timer.Stop()
	defer timer.Stop()

	for {
		t := s.pop()
		if t == nil {
			select {
			case <-s.wake:
				continue
			case <-ctx.Done():
				return
			}
		}

		timer.Reset(s.interval)
		select {
		case <-timer.C:
			if s.finish(t) {
				log.WithFields(log.Fields{"player": t.PlayerID, "ticket": t.ID}).Debug("[PackageService] Request fulfilled")
			}
		case <-t.done:
			// cancelado durante o intervalo
			timer.Stop()
		case <-ctx.Done():
			return
		}
	}
}

// CheckHealth falha se o worker não estiver rodando.
func (s *PackageService) CheckHealth() error {
	if !s.running.Load() {
		return errors.New("package worker is not running")
	}
	return nil
}

//END OF FILE jokenpoarena/internal/services/shop/service.go
