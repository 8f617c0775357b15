// START OF FILE jokenpoarena/internal/services/gameroom/room.go
package gameroom

import (
	"math/rand/v2"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"jokenpoarena/internal/game/card"
	"jokenpoarena/internal/game/player"
)

const (
	phase_ROOM_START        = "room_start"
	phase_ROUND_START       = "round_start"
	phase_WAITING_FOR_PLAYS = "waiting_for_plays"
	phase_RESOLVING_ROUND   = "resolving_round"
	phase_DRAW              = "draw"
	phase_GAME_OVER         = "game_over"
)

// PlayerDirectory é a visão que a sala tem do registro de sessões.
// A sala só guarda identidades e mailboxes; nome de skin, envio e
// limpeza do estado "em partida" passam por aqui.
type PlayerDirectory interface {
	DisplayCard(playerID string, t card.Type) string
	DisplayHand(playerID string, hand []card.Type) []string
	ResolveCard(playerID string, input string) (card.Type, bool)
	Send(playerID string, msg any) bool
	EndMatch(playerID string, mb *Mailbox)
}

// Config são os parâmetros de uma partida.
type Config struct {
	TurnTimeout time.Duration
	TurnPause   time.Duration
	Lives       int
	DeckSize    int
	HandSize    int
}

// seat é um lado da mesa.
type seat struct {
	player  *player.Player
	mailbox *Mailbox
}

func (s *seat) id() string { return s.player.ID() }

// MatchRecord resume uma partida encerrada.
type MatchRecord struct {
	ID        string    `json:"match"`
	PlayerA   string    `json:"player_a"`
	PlayerB   string    `json:"player_b"`
	Result    string    `json:"result"`
	Winner    string    `json:"winner,omitempty"`
	Reason    string    `json:"reason"`
	Turns     int       `json:"turns"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// GameRoom é uma partida. Tudo que muda dentro dela muda na goroutine Run.
type GameRoom struct {
	ID    string
	seats [2]*seat
	rng   *rand.Rand
	dir   PlayerDirectory
	cfg   Config

	gameState atomic.Value
	turn      atomic.Int32
	started   time.Time
}

func NewGameRoom(id, playerA, playerB string, mbA, mbB *Mailbox, dir PlayerDirectory, cfg Config) *GameRoom {
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 1))
	gr := &GameRoom{
		ID:  id,
		rng: rng,
		dir: dir,
		cfg: cfg,
		seats: [2]*seat{
			{player: player.NewPlayer(playerA, cfg.Lives, cfg.DeckSize, cfg.HandSize, rng), mailbox: mbA},
			{player: player.NewPlayer(playerB, cfg.Lives, cfg.DeckSize, cfg.HandSize, rng), mailbox: mbB},
		},
	}
	gr.setGameState(phase_ROOM_START)
	return gr
}

// Run executa a máquina de estados até o fim e devolve o resumo.
func (gr *GameRoom) Run() MatchRecord {
	gr.started = time.Now()
	entry := log.WithField("match", gr.ID)
	entry.WithFields(log.Fields{"a": gr.seats[0].id(), "b": gr.seats[1].id()}).Info("[GameRoom] Match started")

	gr.startGame()

	var record MatchRecord
	for {
		gr.turn.Add(1)
		gr.setGameState(phase_ROUND_START)
		gr.startNewRound()

		gr.setGameState(phase_WAITING_FOR_PLAYS)
		plays, absent := gr.collectPlays()
		if absent[0] || absent[1] {
			record = gr.handleForfeit(absent)
			break
		}

		gr.setGameState(phase_RESOLVING_ROUND)
		gr.resolveRound(plays)

		gr.setGameState(phase_DRAW)
		for _, s := range gr.seats {
			s.player.Draw()
		}

		if !gr.shouldContinue() {
			record = gr.handleGameOver()
			break
		}
		if gr.cfg.TurnPause > 0 {
			time.Sleep(gr.cfg.TurnPause)
		}
	}

	gr.setGameState(phase_GAME_OVER)
	for _, s := range gr.seats {
		gr.dir.EndMatch(s.id(), s.mailbox)
	}
	entry.WithFields(log.Fields{"result": record.Result, "reason": record.Reason, "turns": record.Turns}).Info("[GameRoom] Match finished")
	return record
}

func (gr *GameRoom) IsFinished() bool {
	return gr.getGameState() == phase_GAME_OVER
}

func (gr *GameRoom) Phase() string { return gr.getGameState() }

func (gr *GameRoom) Turn() int { return int(gr.turn.Load()) }

func (gr *GameRoom) PlayerIDs() []string {
	return []string{gr.seats[0].id(), gr.seats[1].id()}
}

func (gr *GameRoom) getGameState() string {
	return gr.gameState.Load().(string)
}

func (gr *GameRoom) setGameState(state string) {
	gr.gameState.Store(state)
}

func (gr *GameRoom) opponent(i int) *seat { return gr.seats[1-i] }

// send ignora falha: um jogador que caiu é percebido pelo mailbox.
func (gr *GameRoom) send(s *seat, msg any) {
	gr.dir.Send(s.id(), msg)
}

func (gr *GameRoom) newRecord(result, winner, reason string) MatchRecord {
	return MatchRecord{
		ID:        gr.ID,
		PlayerA:   gr.seats[0].id(),
		PlayerB:   gr.seats[1].id(),
		Result:    result,
		Winner:    winner,
		Reason:    reason,
		Turns:     gr.Turn(),
		StartedAt: gr.started,
		EndedAt:   time.Now(),
	}
}

// END OF FILE jokenpoarena/internal/services/gameroom/room.go
