// jokenpoarena/cmd/bots/stress-bot/main.go
package main

import (
	"bufio"
	"math/rand/v2"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"jokenpoarena/internal/network"
	"jokenpoarena/internal/session/message"
)

const (
	defaultServerAddr = "localhost:9000"
	defaultBots       = 50
	readTimeout       = 30 * time.Second
)

// counters é o placar agregado de todos os bots.
type counters struct {
	opened   atomic.Int64
	empty    atomic.Int64
	matches  atomic.Int64
	failures atomic.Int64
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = defaultServerAddr
	}
	bots := defaultBots
	if v, err := strconv.Atoi(os.Getenv("BOTS")); err == nil && v > 0 {
		bots = v
	}
	// PACK_OPENER (padrão): um open_package por bot, todos ao mesmo tempo.
	// MATCHMAKER: entra na fila e joga cartas aleatórias até o fim da partida.
	role := os.Getenv("BOT_ROLE")
	if role == "" {
		role = "PACK_OPENER"
	}

	var stats counters
	var wg sync.WaitGroup
	start := make(chan struct{})
	began := time.Now()

	for i := 0; i < bots; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
			if err != nil {
				log.WithError(err).Warn("Connection FAIL")
				stats.failures.Add(1)
				return
			}
			defer conn.Close()
			r := bufio.NewReader(conn)

			<-start
			switch role {
			case "MATCHMAKER":
				runMatchmaker(conn, r, &stats)
			default:
				runPackOpener(conn, r, &stats)
			}
		}()
	}

	close(start)
	wg.Wait()

	log.WithFields(log.Fields{
		"role":     role,
		"bots":     bots,
		"opened":   stats.opened.Load(),
		"empty":    stats.empty.Load(),
		"matches":  stats.matches.Load(),
		"failures": stats.failures.Load(),
		"elapsed":  time.Since(began).Round(time.Millisecond),
	}).Info("Stress run finished")
}

// runPackOpener manda um open_package e espera a resposta.
func runPackOpener(conn net.Conn, r *bufio.Reader, stats *counters) {
	if err := network.WriteMessage(conn, map[string]string{"cmd": "open_package"}); err != nil {
		stats.failures.Add(1)
		return
	}
	for {
		msg, err := read(conn, r)
		if err != nil {
			stats.failures.Add(1)
			return
		}
		switch msg.Cmd {
		case message.CmdPackageOpened:
			stats.opened.Add(1)
			return
		case message.CmdPackageEmpty:
			stats.empty.Add(1)
			return
		}
	}
}

// runMatchmaker joga uma partida inteira escolhendo cartas da mão ao acaso.
func runMatchmaker(conn net.Conn, r *bufio.Reader, stats *counters) {
	if err := network.WriteMessage(conn, map[string]string{"cmd": "join_queue"}); err != nil {
		stats.failures.Add(1)
		return
	}
	for {
		msg, err := read(conn, r)
		if err != nil {
			stats.failures.Add(1)
			return
		}
		switch msg.Cmd {
		case message.CmdTurnStart:
			var turn message.TurnStart
			if err := msg.Bind(&turn); err != nil || len(turn.Hand) == 0 {
				network.WriteMessage(conn, map[string]string{"cmd": "play", "card": "Pedra"})
				continue
			}
			card := turn.Hand[rand.IntN(len(turn.Hand))]
			network.WriteMessage(conn, map[string]string{"cmd": "play", "card": card})
		case message.CmdGameOver:
			stats.matches.Add(1)
			return
		}
	}
}

func read(conn net.Conn, r *bufio.Reader) (*network.Message, error) {
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	return network.ReadMessage(r)
}
