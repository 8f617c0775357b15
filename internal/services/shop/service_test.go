package shop

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
	"github.com/stretchr/testify/suite"

	"jokenpoarena/internal/game/card"
)

func TestPackageService(t *testing.T) {
	suite.Run(t, new(PackageServiceTestSuite))
}

type PackageServiceTestSuite struct {
	suite.Suite

	ctx    context.Context
	cancel context.CancelFunc
}

func (ts *PackageServiceTestSuite) SetupTest() {
	ts.ctx, ts.cancel = context.WithCancel(context.Background())
}

func (ts *PackageServiceTestSuite) TearDownTest() {
	ts.cancel()
}

func (ts *PackageServiceTestSuite) start(capacity int, interval time.Duration) *PackageService {
	s := NewPackageService(capacity, interval)
	go s.Run(ts.ctx)
	require.Eventually(ts.T(), func() bool { return s.CheckHealth() == nil }, time.Second, 5*time.Millisecond)
	return s
}

func (ts *PackageServiceTestSuite) assertInvariant(s *PackageService) {
	st := s.Stats()
	assert.GreaterOrEqual(ts.T(), st.Stock, 0)
	assert.Equal(ts.T(), st.Capacity, st.Stock+st.Pending+st.Fulfilled, "stock + pending + fulfilled must equal capacity: %+v", st)
}

// Com uma unidade e dois pedidos concorrentes, só um é atendido
func (ts *PackageServiceTestSuite) TestSingleUnitTwoRequests() {
	s := ts.start(1, 10*time.Millisecond)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, id := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			ticket, err := s.Request(id)
			if err != nil {
				results <- err
				return
			}
			results <- ticket.Wait(ts.ctx)
		}(id)
	}
	wg.Wait()
	close(results)

	var served, rejected int
	for err := range results {
		switch {
		case err == nil:
			served++
		case err == ErrNoStock:
			rejected++
		default:
			ts.T().Fatalf("unexpected error %v", err)
		}
	}
	assert.Equal(ts.T(), 1, served)
	assert.Equal(ts.T(), 1, rejected)
	assert.Equal(ts.T(), Stats{Capacity: 1, Stock: 0, Fulfilled: 1}, s.Stats())
}

// Recusa com estoque zero não muda nada
func (ts *PackageServiceTestSuite) TestNoStockIsImmediate() {
	s := NewPackageService(0, time.Hour)
	ticket, err := s.Request("a")
	assert.Nil(ts.T(), ticket)
	assert.ErrorIs(ts.T(), err, ErrNoStock)
	assert.Equal(ts.T(), Stats{}, s.Stats())
}

// Pedidos são atendidos na ordem de chegada
func (ts *PackageServiceTestSuite) TestFIFOOrder() {
	s := NewPackageService(5, time.Millisecond)

	var tickets []*Ticket
	for _, id := range []string{"a", "b", "c"} {
		t, err := s.Request(id)
		require.NoError(ts.T(), err)
		tickets = append(tickets, t)
	}
	assert.Equal(ts.T(), 2, s.Stats().Stock)

	for _, want := range tickets {
		got := s.pop()
		require.NotNil(ts.T(), got)
		assert.Equal(ts.T(), want.PlayerID, got.PlayerID)
		assert.True(ts.T(), s.finish(got))
		assert.NoError(ts.T(), want.Wait(ts.ctx))
	}
	assert.Nil(ts.T(), s.pop())
	assert.Equal(ts.T(), Stats{Capacity: 5, Stock: 2, Fulfilled: 3}, s.Stats())
}

// Pedido na fila é devolvido quando o dono sai
func (ts *PackageServiceTestSuite) TestCancelQueuedRefunds() {
	s := NewPackageService(3, time.Hour)
	a, err := s.Request("a")
	require.NoError(ts.T(), err)
	b1, err := s.Request("b")
	require.NoError(ts.T(), err)
	b2, err := s.Request("b")
	require.NoError(ts.T(), err)
	assert.Equal(ts.T(), 0, s.Stats().Stock)

	assert.Equal(ts.T(), 2, s.CancelPending("b"))
	assert.ErrorIs(ts.T(), b1.Wait(ts.ctx), ErrCancelled)
	assert.ErrorIs(ts.T(), b2.Wait(ts.ctx), ErrCancelled)

	select {
	case <-a.Done():
		ts.T().Fatal("other players' tickets must stay queued")
	default:
	}

	st := s.Stats()
	assert.Equal(ts.T(), 2, st.Stock)
	assert.Equal(ts.T(), 1, st.Pending)
	assert.Equal(ts.T(), 2, st.Refunded)
	ts.assertInvariant(s)

	assert.Equal(ts.T(), 0, s.CancelPending("b"), "second cancel is a no-op")
}

// Pedido já em atendimento ainda pode ser cancelado e devolvido
func (ts *PackageServiceTestSuite) TestCancelInService() {
	s := ts.start(2, time.Hour)
	t, err := s.Request("a")
	require.NoError(ts.T(), err)

	require.Eventually(ts.T(), func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.inService == t
	}, time.Second, 5*time.Millisecond)

	assert.Equal(ts.T(), 1, s.CancelPending("a"))
	assert.ErrorIs(ts.T(), t.Wait(ts.ctx), ErrCancelled)
	assert.Equal(ts.T(), Stats{Capacity: 2, Stock: 2, Refunded: 1}, s.Stats())

	// o worker passa para o próximo pedido
	next, err := s.Request("b")
	require.NoError(ts.T(), err)
	s.CancelPending("b")
	assert.ErrorIs(ts.T(), next.Wait(ts.ctx), ErrCancelled)
	ts.assertInvariant(s)
}

// Cinquenta pedidos concorrentes para vinte unidades, com quedas aleatórias
func (ts *PackageServiceTestSuite) TestConcurrentInvariant() {
	s := ts.start(20, time.Millisecond)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var served, rejected, cancelled int
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('A' + i%26)) + string(rune('a'+i/26))
			ticket, err := s.Request(id)
			if err != nil {
				mu.Lock()
				rejected++
				mu.Unlock()
				return
			}
			if i%7 == 0 {
				s.CancelPending(id)
			}
			err = ticket.Wait(ts.ctx)
			mu.Lock()
			if err == nil {
				served++
			} else {
				cancelled++
			}
			mu.Unlock()
		}(i)
		ts.assertInvariant(s)
	}
	wg.Wait()

	st := s.Stats()
	ts.assertInvariant(s)
	assert.Equal(ts.T(), 0, st.Pending)
	assert.Equal(ts.T(), served, st.Fulfilled)
	assert.Equal(ts.T(), cancelled, st.Refunded)
	assert.Equal(ts.T(), 50, served+rejected+cancelled)
}

func (ts *PackageServiceTestSuite) TestHealthFollowsWorker() {
	s := NewPackageService(1, time.Millisecond)
	assert.Error(ts.T(), s.CheckHealth())

	ctx, cancel := context.WithCancel(ts.ctx)
	done := make(chan struct{})
	go func() { s.Run(ctx); close(done) }()
	require.Eventually(ts.T(), func() bool { return s.CheckHealth() == nil }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Error(ts.T(), s.CheckHealth())
}

func TestRollDrawsThreeItems(t *testing.T) {
	r := NewSeededRoller(99)
	for i := 0; i < 20; i++ {
		awarded := r.Roll()
		require.Len(t, awarded, PackageSize)
		for _, p := range awarded {
			owner, ok := card.TypeOfSkin(p.Skin)
			require.True(t, ok)
			assert.Equal(t, p.Type, owner)
		}
	}
}

func TestStatsHandler(t *testing.T) {
	s := NewPackageService(4, time.Hour)
	_, err := s.Request("a")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	CreateStatsHandler(s)(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var st Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, Stats{Capacity: 4, Stock: 3, Pending: 1}, st)

	rec = httptest.NewRecorder()
	CreateStatsHandler(s)(rec, httptest.NewRequest(http.MethodPost, "/stats", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
