package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jokenpoarena/internal/game/card"
	"jokenpoarena/internal/game/player/inventory"
	"jokenpoarena/internal/services/gameroom"
)

// fakeConn guarda tudo o que recebe
type fakeConn struct {
	id   string
	mu   sync.Mutex
	sent []any
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(msg any) bool {
	f.mu.Lock()
	f.sent = append(f.sent, msg)
	f.mu.Unlock()
	return true
}

func (f *fakeConn) Sent() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.sent...)
}

func TestUnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	var calls []string
	r.OnUnregister(func(id string) { calls = append(calls, id) })

	a := &fakeConn{id: "a"}
	r.Register(a)
	assert.True(t, r.Unregister(a))
	assert.False(t, r.Unregister(a))
	assert.False(t, r.Unregister(&fakeConn{id: "never-seen"}))
	assert.Equal(t, []string{"a"}, calls, "hooks run once per session")
	assert.Equal(t, 0, r.Len())
}

// Os hooks rodam fora do lock e podem chamar o registro de novo
func TestUnregisterHooksRunAfterUnlock(t *testing.T) {
	r := NewRegistry()
	r.OnUnregister(func(id string) {
		_, ok := r.Get(id)
		assert.False(t, ok)
	})
	a := &fakeConn{id: "a"}
	r.Register(a)
	r.Unregister(a)
}

func TestUnregisterClosesMailbox(t *testing.T) {
	r := NewRegistry()
	a := &fakeConn{id: "a"}
	r.Register(a)
	r.Register(&fakeConn{id: "b"})
	okA, okB := r.TryPair("a", "b")
	require.True(t, okA && okB)

	mb := r.Mailbox("a")
	require.NotNil(t, mb)
	r.Unregister(a)

	select {
	case <-mb.Gone():
	default:
		t.Fatal("mailbox must be closed on disconnect")
	}
}

// A conexão substituída por outra com a mesma identidade sai sem levar a nova junto
func TestUnregisterReplacedConnKeepsNewSession(t *testing.T) {
	r := NewRegistry()
	var calls []string
	r.OnUnregister(func(id string) { calls = append(calls, id) })

	old, fresh := &fakeConn{id: "a"}, &fakeConn{id: "a"}
	r.Register(old)
	r.Register(fresh)
	r.Register(&fakeConn{id: "b"})
	okA, okB := r.TryPair("a", "b")
	require.True(t, okA && okB)
	mb := r.Mailbox("a")

	assert.False(t, r.Unregister(old), "the old conn no longer owns the session")
	assert.Empty(t, calls, "refund and queue hooks must not run for the new session")

	info, ok := r.Get("a")
	require.True(t, ok)
	assert.True(t, info.InMatch)
	select {
	case <-mb.Gone():
		t.Fatal("the new session's mailbox must stay open")
	default:
	}

	r.Send("a", "hello")
	assert.Equal(t, []any{"hello"}, fresh.Sent())
	assert.Empty(t, old.Sent())

	assert.True(t, r.Unregister(fresh))
	assert.Equal(t, []string{"a"}, calls)
}

func TestTryPair(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeConn{id: "a"})
	r.Register(&fakeConn{id: "b"})
	r.Register(&fakeConn{id: "c"})

	okA, okGone := r.TryPair("a", "gone")
	assert.True(t, okA)
	assert.False(t, okGone)
	assert.Nil(t, r.Mailbox("a"), "a half-valid pair reserves nothing")

	okA, okB := r.TryPair("a", "b")
	require.True(t, okA && okB)
	infoA, _ := r.Get("a")
	assert.True(t, infoA.InMatch)

	okB, okC := r.TryPair("b", "c")
	assert.False(t, okB, "already in a match")
	assert.True(t, okC)

	okC, okSame := r.TryPair("c", "c")
	assert.True(t, okC)
	assert.False(t, okSame)
}

// EndMatch só limpa a partida que recebeu
func TestEndMatchIgnoresOtherMailbox(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeConn{id: "a"})
	current := gameroom.NewMailbox()
	r.SetMatchState("a", current)

	r.EndMatch("a", gameroom.NewMailbox())
	assert.Same(t, current, r.Mailbox("a"))

	r.EndMatch("a", current)
	assert.Nil(t, r.Mailbox("a"))
}

func TestDeliverNeedsAMatch(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeConn{id: "a"})
	assert.False(t, r.Deliver("a", gameroom.Play{Card: "Pedra"}))

	r.SetMatchState("a", gameroom.NewMailbox())
	assert.True(t, r.Deliver("a", gameroom.Play{Card: "Pedra"}))
}

func TestSkinsAndDisplay(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeConn{id: "a"})

	err := r.Equip("a", card.Pedra, "Magma Vivo")
	assert.ErrorIs(t, err, inventory.ErrSkinNotOwned)

	require.True(t, r.AddPackages("a", []card.Package{{Type: card.Pedra, Skin: "Magma Vivo"}}))
	require.NoError(t, r.Equip("a", card.Pedra, "Magma Vivo"))

	owned, equipped, ok := r.Skins("a")
	require.True(t, ok)
	assert.Len(t, owned, 1)
	assert.Equal(t, map[card.Type]string{card.Pedra: "Magma Vivo"}, equipped)

	assert.Equal(t, []string{"Magma Vivo", "Papel"}, r.DisplayHand("a", []card.Type{card.Pedra, card.Papel}))
	assert.Equal(t, "Magma Vivo", r.DisplayCard("a", card.Pedra))

	got, ok := r.ResolveCard("a", "Magma Vivo")
	assert.True(t, ok)
	assert.Equal(t, card.Pedra, got)

	assert.ErrorIs(t, r.Equip("nobody", card.Pedra, "x"), ErrNotRegistered)
	assert.False(t, r.AddPackages("nobody", nil))
}

// Jogador que já saiu recebe os nomes puros dos tipos
func TestDirectoryForDepartedPlayer(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "Tesoura", r.DisplayCard("x", card.Tesoura))
	assert.Equal(t, []string{"Papel"}, r.DisplayHand("x", []card.Type{card.Papel}))
	got, ok := r.ResolveCard("x", "Papel")
	assert.True(t, ok)
	assert.Equal(t, card.Papel, got)
	assert.False(t, r.Send("x", "hello"))
}

func TestSendReachesConn(t *testing.T) {
	r := NewRegistry()
	c := &fakeConn{id: "a"}
	r.Register(c)
	assert.True(t, r.Send("a", "hello"))
	assert.Equal(t, []any{"hello"}, c.Sent())
}
