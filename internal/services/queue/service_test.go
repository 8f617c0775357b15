package queue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePairer trata todo id em 'live' como um jogador válido na fila
type fakePairer struct {
	mu      sync.Mutex
	live    map[string]bool
	matches [][2]string
}

func newFakePairer(ids ...string) *fakePairer {
	p := &fakePairer{live: make(map[string]bool)}
	for _, id := range ids {
		p.live[id] = true
	}
	return p
}

func (p *fakePairer) TryPair(a, b string) (bool, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	okA, okB := p.live[a], p.live[b]
	if okA && okB {
		p.live[a], p.live[b] = false, false
	}
	return okA, okB
}

func (p *fakePairer) StartMatch(a, b string) {
	p.mu.Lock()
	p.matches = append(p.matches, [2]string{a, b})
	p.mu.Unlock()
}

func (p *fakePairer) kill(id string) {
	p.mu.Lock()
	p.live[id] = false
	p.mu.Unlock()
}

func (p *fakePairer) Matches() [][2]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][2]string, len(p.matches))
	copy(out, p.matches)
	return out
}

func TestPairsTwoOldest(t *testing.T) {
	p := newFakePairer("a", "b", "c")
	m := NewMatchmaker(p, time.Hour)
	m.Enqueue("a")
	m.Enqueue("b")
	m.Enqueue("c")

	assert.True(t, m.tryPairing())
	assert.False(t, m.tryPairing())
	assert.Equal(t, [][2]string{{"a", "b"}}, p.Matches())
	assert.Equal(t, []string{"c"}, m.Snapshot())
}

// O parceiro vivo de um jogador que já saiu volta para a frente, antes de quem chegou depois
func TestReinsertsValidAtFront(t *testing.T) {
	p := newFakePairer("a", "b", "c")
	m := NewMatchmaker(p, time.Hour)
	for _, id := range []string{"a", "stale", "b", "c"} {
		m.Enqueue(id)
	}

	require.True(t, m.tryPairing())
	assert.Empty(t, p.Matches())
	assert.Equal(t, []string{"a", "b", "c"}, m.Snapshot())

	require.True(t, m.tryPairing())
	assert.Equal(t, [][2]string{{"a", "b"}}, p.Matches())
}

func TestReinsertsSecondWhenFirstIsStale(t *testing.T) {
	p := newFakePairer("b", "c")
	m := NewMatchmaker(p, time.Hour)
	for _, id := range []string{"gone", "b", "c"} {
		m.Enqueue(id)
	}

	require.True(t, m.tryPairing())
	assert.Equal(t, []string{"b", "c"}, m.Snapshot())
}

func TestDropsTwoStale(t *testing.T) {
	p := newFakePairer("c")
	m := NewMatchmaker(p, time.Hour)
	for _, id := range []string{"x", "y", "c"} {
		m.Enqueue(id)
	}

	require.True(t, m.tryPairing())
	assert.Equal(t, []string{"c"}, m.Snapshot())
	assert.Empty(t, p.Matches())
}

func TestEnqueueIsIdempotent(t *testing.T) {
	m := NewMatchmaker(newFakePairer(), time.Hour)
	assert.True(t, m.Enqueue("a"))
	assert.False(t, m.Enqueue("a"))
	assert.Equal(t, 1, m.Len())
}

func TestRemove(t *testing.T) {
	m := NewMatchmaker(newFakePairer(), time.Hour)
	m.Enqueue("a")
	m.Enqueue("b")
	m.Enqueue("c")

	assert.True(t, m.Remove("b"))
	assert.False(t, m.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, m.Snapshot())
}

// Com o watcher rodando, o par sai assim que o segundo jogador chega
func TestWatcherWakesOnEnqueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := newFakePairer("a", "b", "c", "d")
	m := NewMatchmaker(p, time.Hour)
	go m.Run(ctx)

	m.Enqueue("a")
	m.Enqueue("b")
	require.Eventually(t, func() bool { return len(p.Matches()) == 1 }, 2*time.Second, 5*time.Millisecond)

	p.kill("c")
	m.Enqueue("c")
	m.Enqueue("d")
	require.Eventually(t, func() bool {
		snap := m.Snapshot()
		return len(snap) == 1 && snap[0] == "d"
	}, 2*time.Second, 5*time.Millisecond, "stale c is dropped and d keeps waiting")
	assert.Len(t, p.Matches(), 1)

	assert.Equal(t, [2]string{"a", "b"}, p.Matches()[0])
}

func TestQueueHandler(t *testing.T) {
	m := NewMatchmaker(newFakePairer(), time.Hour)
	m.Enqueue("10.0.0.1:4000")

	rec := httptest.NewRecorder()
	CreateQueueHandler(m)(rec, httptest.NewRequest(http.MethodGet, "/queue", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status QueueStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, QueueStatus{Size: 1, Waiting: []string{"10.0.0.1:4000"}}, status)
}

func TestCheckHealthFollowsWatcher(t *testing.T) {
	m := NewMatchmaker(newFakePairer(), 0)
	assert.Error(t, m.CheckHealth())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return m.CheckHealth() == nil }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Error(t, m.CheckHealth())
}
