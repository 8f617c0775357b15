// START OF FILE jokenpoarena/internal/services/gameroom/room_logic.go
package gameroom

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"jokenpoarena/internal/game/card"
	"jokenpoarena/internal/session/message"
)

// ============================================================================
// Fases da partida
// ============================================================================

// startGame avisa cada jogador de quem é o oponente, da mão inicial e das vidas.
func (gr *GameRoom) startGame() {
	for i, s := range gr.seats {
		opp := gr.opponent(i)
		gr.send(s, message.GameStart{
			Cmd:           message.CmdGameStart,
			Match:         gr.ID,
			Opponent:      opp.id(),
			Hand:          gr.dir.DisplayHand(s.id(), s.player.Hand()),
			Lives:         s.player.Lives(),
			OpponentLives: opp.player.Lives(),
		})
	}
}

// startNewRound descarta jogadas atrasadas e manda a mão atual para os dois.
func (gr *GameRoom) startNewRound() {
	turn := gr.Turn()
	tid := fmt.Sprintf("turn-%s-%d-%d", gr.ID, turn, time.Now().Unix())

	for _, s := range gr.seats {
		s.mailbox.drain()
		gr.send(s, message.TurnStart{
			Cmd:  message.CmdTurnStart,
			Turn: turn,
			Hand: gr.dir.DisplayHand(s.id(), s.player.Hand()),
			TID:  tid,
		})
	}
}

// collectPlays espera uma jogada de cada lado com um único prazo para o turno.
// absent[i] indica que o jogador i caiu ou não jogou a tempo.
func (gr *GameRoom) collectPlays() (plays [2]Play, absent [2]bool) {
	timer := time.NewTimer(gr.cfg.TurnTimeout)
	defer timer.Stop()

	inbox := [2]<-chan Play{gr.seats[0].mailbox.plays, gr.seats[1].mailbox.plays}
	var got [2]bool

	for !got[0] || !got[1] {
		select {
		case p := <-inbox[0]:
			plays[0], got[0], inbox[0] = p, true, nil
		case p := <-inbox[1]:
			plays[1], got[1], inbox[1] = p, true, nil
		case <-gr.seats[0].mailbox.Gone():
			return plays, gr.disconnected()
		case <-gr.seats[1].mailbox.Gone():
			return plays, gr.disconnected()
		case <-timer.C:
			log.WithFields(log.Fields{"match": gr.ID, "turn": gr.Turn()}).Info("[GameRoom] Turn deadline expired")
			return plays, [2]bool{!got[0], !got[1]}
		}
	}
	return plays, absent
}

func (gr *GameRoom) disconnected() (absent [2]bool) {
	for i, s := range gr.seats {
		select {
		case <-s.mailbox.Gone():
			absent[i] = true
		default:
		}
	}
	return absent
}

// resolveInput traduz o texto do cliente (tipo ou skin equipada) em tipo.
// Retorna "" quando não dá para resolver, o que força o fallback.
func (gr *GameRoom) resolveInput(playerID string, p Play) card.Type {
	input := p.Card
	if input == "" {
		input = p.Skin
	}
	if t, ok := gr.dir.ResolveCard(playerID, input); ok {
		return t
	}
	return ""
}

// resolveRound compara as cartas, tira a vida do perdedor e manda o resultado.
func (gr *GameRoom) resolveRound(plays [2]Play) {
	var played [2]card.Type
	var fallback [2]bool
	for i, s := range gr.seats {
		played[i], fallback[i] = s.player.ResolvePlay(gr.resolveInput(s.id(), plays[i]), gr.rng)
	}

	winner := -1
	switch card.Compare(played[0], played[1]) {
	case card.Card1Wins:
		winner = 0
	case card.Card2Wins:
		winner = 1
	}
	if winner >= 0 {
		gr.opponent(winner).player.LoseLife()
	}

	for i, s := range gr.seats {
		opp := gr.opponent(i)
		result := message.TurnResult{
			Cmd:          message.CmdTurnResult,
			Turn:         gr.Turn(),
			YourCard:     gr.dir.DisplayCard(s.id(), played[i]),
			YourCardType: played[i],
			OppCard:      gr.dir.DisplayCard(opp.id(), played[1-i]),
			OppCardType:  played[1-i],
			YourLives:    s.player.Lives(),
			OppLives:     opp.player.Lives(),
			Fallback:     fallback[i],
		}
		if winner >= 0 {
			tag := message.WinnerOpponent
			if winner == i {
				tag = message.WinnerYou
			}
			winnerID := gr.seats[winner].id()
			result.Winner = &tag
			result.WinnerID = &winnerID
		}
		gr.send(s, result)
	}
}

// shouldContinue: os dois vivos e ainda existe carta em algum lado.
func (gr *GameRoom) shouldContinue() bool {
	a, b := gr.seats[0].player, gr.seats[1].player
	if !a.Alive() || !b.Alive() {
		return false
	}
	return !a.HasNoMoreMoves() || !b.HasNoMoreMoves()
}

// handleGameOver decide o resultado quando o loop termina normalmente.
func (gr *GameRoom) handleGameOver() MatchRecord {
	a, b := gr.seats[0], gr.seats[1]

	var record MatchRecord
	switch {
	case !a.player.Alive() && !b.player.Alive():
		record = gr.newRecord(message.ResultTie, "", message.ReasonLives)
	case !a.player.Alive():
		record = gr.newRecord(message.WinsResult(b.id()), b.id(), message.ReasonLives)
	case !b.player.Alive():
		record = gr.newRecord(message.WinsResult(a.id()), a.id(), message.ReasonLives)
	default:
		record = gr.newRecord(message.ResultTie, "", message.ReasonCardsExhausted)
	}

	gr.broadcastGameOver(record)
	return record
}

// handleForfeit encerra a partida quando alguém caiu ou estourou o prazo.
// Quem ficou recebe opponent_disconnect e é declarado vencedor.
func (gr *GameRoom) handleForfeit(absent [2]bool) MatchRecord {
	reasonFor := func(s *seat) string {
		select {
		case <-s.mailbox.Gone():
			return message.ReasonOpponentDisconnect
		default:
			return message.ReasonTimeout
		}
	}

	var record MatchRecord
	switch {
	case absent[0] && absent[1]:
		record = gr.newRecord(message.ResultTie, "", reasonFor(gr.seats[0]))
		for _, s := range gr.seats {
			gr.send(s, message.CreateOpponentDisconnect())
		}
	default:
		gone := 0
		if absent[1] {
			gone = 1
		}
		present := gr.opponent(gone)
		record = gr.newRecord(message.WinsResult(present.id()), present.id(), reasonFor(gr.seats[gone]))
		gr.send(present, message.CreateOpponentDisconnect())
	}

	gr.broadcastGameOver(record)
	return record
}

func (gr *GameRoom) broadcastGameOver(record MatchRecord) {
	msg := message.GameOver{
		Cmd:    message.CmdGameOver,
		Result: record.Result,
		Winner: record.Winner,
		Reason: record.Reason,
	}
	for _, s := range gr.seats {
		gr.send(s, msg)
	}
}

// END OF FILE jokenpoarena/internal/services/gameroom/room_logic.go
