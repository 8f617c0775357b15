//START OF FILE jokenpoarena/internal/session/registry.go
package session

import (
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"jokenpoarena/internal/game/card"
	"jokenpoarena/internal/game/player/inventory"
	"jokenpoarena/internal/services/gameroom"
)

var ErrNotRegistered = errors.New("session not registered")

// Conn é o lado de envio de uma conexão. *network.Client implementa.
type Conn interface {
	ID() string
	Send(msg any) bool
}

// ClientSession é o estado de um jogador conectado. Só é acessado com o lock do Registry.
type ClientSession struct {
	ID        string
	Conn      Conn
	Inventory *inventory.Inventory

	// mailbox existe se e somente se o jogador está em partida.
	mailbox *gameroom.Mailbox
}

func (s *ClientSession) InMatch() bool { return s.mailbox != nil }

// SessionInfo é uma cópia do estado de uma sessão, segura fora do lock.
type SessionInfo struct {
	ID       string               `json:"id"`
	InMatch  bool                 `json:"in_match"`
	Owned    []card.Package       `json:"owned"`
	Equipped map[card.Type]string `json:"equipped"`
}

// Registry é a tabela de conexões vivas. Um único mutex protege tudo.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*ClientSession

	// Rodam fora do lock, depois que a sessão já saiu do mapa.
	onUnregister []func(id string)
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*ClientSession),
	}
}

// OnUnregister adiciona uma limpeza a ser feita quando uma sessão sai.
// Deve ser chamado antes do servidor aceitar conexões.
func (r *Registry) OnUnregister(hook func(id string)) {
	r.onUnregister = append(r.onUnregister, hook)
}

// Register cria a sessão. Uma identidade repetida substitui a anterior.
func (r *Registry) Register(c Conn) *ClientSession {
	s := &ClientSession{
		ID:        c.ID(),
		Conn:      c,
		Inventory: inventory.NewInventory(),
	}

	r.mu.Lock()
	old, replaced := r.sessions[s.ID]
	r.sessions[s.ID] = s
	total := len(r.sessions)
	r.mu.Unlock()

	if replaced && old.mailbox != nil {
		old.mailbox.Close()
	}
	log.WithFields(log.Fields{"client": s.ID, "total": total}).Info("[Registry] Session created")
	return s
}

// Unregister remove a sessão da conexão c. Chamar de novo não faz nada, e uma
// conexão já substituída não derruba a sessão que tomou o lugar dela.
func (r *Registry) Unregister(c Conn) bool {
	id := c.ID()
	r.mu.Lock()
	s, ok := r.sessions[id]
	ok = ok && s.Conn == c
	if ok {
		delete(r.sessions, id)
	}
	total := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return false
	}

	// A sala percebe a queda na hora pelo gone do mailbox.
	if s.mailbox != nil {
		s.mailbox.Close()
	}
	for _, hook := range r.onUnregister {
		hook(id)
	}
	log.WithFields(log.Fields{"client": id, "total": total}).Info("[Registry] Session removed")
	return true
}

// Get retorna uma cópia do estado da sessão.
func (r *Registry) Get(id string) (SessionInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return SessionInfo{}, false
	}
	return SessionInfo{
		ID:       s.ID,
		InMatch:  s.InMatch(),
		Owned:    s.Inventory.Owned(),
		Equipped: s.Inventory.Equipped(),
	}, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// SetMatchState liga (mailbox != nil) ou desliga o estado "em partida".
func (r *Registry) SetMatchState(id string, mb *gameroom.Mailbox) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	s.mailbox = mb
	return true
}

// TryPair valida os dois lados e, se ambos servem, já marca os dois como
// em partida com mailboxes novos. Tudo dentro do mesmo lock.
func (r *Registry) TryPair(a, b string) (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	valid := func(id string) bool {
		s, ok := r.sessions[id]
		return ok && !s.InMatch()
	}
	okA, okB := valid(a), valid(b)
	if a == b {
		return okA, false
	}
	if okA && okB {
		r.sessions[a].mailbox = gameroom.NewMailbox()
		r.sessions[b].mailbox = gameroom.NewMailbox()
	}
	return okA, okB
}

// Mailbox retorna o mailbox da partida atual ou nil.
func (r *Registry) Mailbox(id string) *gameroom.Mailbox {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s.mailbox
	}
	return nil
}

// AddPackages entrega pacotes. Retorna false se o jogador já saiu.
func (r *Registry) AddPackages(id string, pkgs []card.Package) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	s.Inventory.Add(pkgs...)
	return true
}

func (r *Registry) Equip(id string, t card.Type, skin string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return ErrNotRegistered
	}
	return s.Inventory.Equip(t, skin)
}

// Skins retorna os pacotes e as skins equipadas.
func (r *Registry) Skins(id string) ([]card.Package, map[card.Type]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil, false
	}
	return s.Inventory.Owned(), s.Inventory.Equipped(), true
}

// ============================================================================
// gameroom.PlayerDirectory
// ============================================================================

func (r *Registry) DisplayCard(id string, t card.Type) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s.Inventory.Display(t)
	}
	return t.String()
}

func (r *Registry) DisplayHand(id string, hand []card.Type) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s.Inventory.DisplayHand(hand)
	}
	out := make([]string, len(hand))
	for i, t := range hand {
		out[i] = t.String()
	}
	return out
}

func (r *Registry) ResolveCard(id string, input string) (card.Type, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s.Inventory.Resolve(input)
	}
	if t, err := card.ParseType(input); err == nil {
		return t, true
	}
	return "", false
}

// Send é feito fora do lock; Conn.Send não bloqueia.
func (r *Registry) Send(id string, msg any) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return false
	}
	return s.Conn.Send(msg)
}

// Deliver entrega uma jogada ao mailbox da partida atual.
func (r *Registry) Deliver(id string, p gameroom.Play) bool {
	mb := r.Mailbox(id)
	if mb == nil {
		return false
	}
	return mb.Deliver(p)
}

// EndMatch tira o jogador do estado "em partida", desde que ainda seja a mesma partida.
func (r *Registry) EndMatch(id string, mb *gameroom.Mailbox) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && s.mailbox == mb {
		s.mailbox = nil
	}
}

//END OF FILE jokenpoarena/internal/session/registry.go
