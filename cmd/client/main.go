// jokenpoarena/cmd/client/main.go
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"jokenpoarena/internal/network"
	"jokenpoarena/internal/session/message"
)

const (
	defaultServerAddr = "localhost:9000"
	defaultEchoAddr   = "localhost:9001"

	// Tempo para o jogador escolher a carta antes do sorteio automático.
	inputTimeout = 10 * time.Second
)

// client guarda o estado local: o servidor é a fonte da verdade.
type client struct {
	conn net.Conn
	udp  net.Conn

	inMatch  bool
	awaiting bool
	hand     []string
	timer    *time.Timer
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	serverAddr := envOr("SERVER_ADDR", defaultServerAddr)
	echoAddr := envOr("ECHO_ADDR", defaultEchoAddr)

	conn, err := net.DialTimeout("tcp", serverAddr, 5*time.Second)
	if err != nil {
		log.WithError(err).Fatalf("Could not connect to %s", serverAddr)
	}
	defer conn.Close()

	udp, err := net.Dial("udp", echoAddr)
	if err != nil {
		log.WithError(err).Warn("UDP echo unavailable, latency probe disabled")
	}

	c := &client{conn: conn, udp: udp, timer: time.NewTimer(time.Hour)}
	c.timer.Stop()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	incoming := make(chan *network.Message)
	go readLoop(conn, incoming)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
		close(lines)
	}()

	fmt.Printf("Connected to %s as %s\n", serverAddr, conn.LocalAddr())
	printMenu()

	for {
		select {
		case msg, ok := <-incoming:
			if !ok {
				fmt.Println("\nDisconnected from server.")
				return
			}
			c.handleServer(msg)
		case line, ok := <-lines:
			if !ok {
				return
			}
			if !c.handleInput(line) {
				return
			}
		case <-c.timer.C:
			if c.awaiting {
				choice := "Pedra"
				if len(c.hand) > 0 {
					choice = lo.Sample(c.hand)
				}
				fmt.Printf("\nTime is up! Playing %s at random.\n", choice)
				c.play(choice)
			}
		case <-interrupt:
			fmt.Println("\nBye.")
			return
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func readLoop(conn net.Conn, out chan<- *network.Message) {
	defer close(out)
	r := bufio.NewReader(conn)
	for {
		msg, err := network.ReadMessage(r)
		if err != nil {
			log.WithError(err).Debug("Read loop finished")
			return
		}
		out <- msg
	}
}

func (c *client) send(payload map[string]any) {
	if err := network.WriteMessage(c.conn, payload); err != nil {
		log.WithError(err).Error("Failed to send command")
	}
}

func (c *client) play(card string) {
	c.awaiting = false
	c.timer.Stop()
	c.send(map[string]any{"cmd": "play", "card": card})
}

// handleInput retorna false quando o usuário quer sair.
func (c *client) handleInput(line string) bool {
	if c.awaiting {
		// aceita o número da posição na mão ou o nome da carta
		if i, err := strconv.Atoi(line); err == nil && i >= 1 && i <= len(c.hand) {
			line = c.hand[i-1]
		}
		c.play(line)
		return true
	}
	if c.inMatch {
		fmt.Println("Wait for your turn.")
		return true
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		printMenu()
		return true
	}
	switch strings.ToLower(fields[0]) {
	case "1", "play":
		c.send(map[string]any{"cmd": "join_queue"})
	case "2", "open":
		c.send(map[string]any{"cmd": "open_package"})
	case "3", "skins":
		c.send(map[string]any{"cmd": "list_skins"})
	case "4", "equip":
		if len(fields) < 3 {
			fmt.Println("Usage: equip <Pedra|Papel|Tesoura> <skin name>")
			return true
		}
		c.send(map[string]any{"cmd": "equip", "type": fields[1], "skin": strings.Join(fields[2:], " ")})
	case "5", "ping":
		c.send(map[string]any{"cmd": "ping_check"})
	case "q", "quit", "exit":
		return false
	default:
		printMenu()
	}
	return true
}

func (c *client) handleServer(msg *network.Message) {
	var body map[string]json.RawMessage
	msg.Bind(&body)

	switch msg.Cmd {
	case message.CmdQueued:
		fmt.Println("Waiting for an opponent...")
	case message.CmdGameStart:
		var m message.GameStart
		msg.Bind(&m)
		c.inMatch = true
		fmt.Printf("\n=== Match %s against %s ===\nLives: %d x %d\n", m.Match, m.Opponent, m.Lives, m.OpponentLives)
	case message.CmdTurnStart:
		var m message.TurnStart
		msg.Bind(&m)
		c.hand = m.Hand
		c.awaiting = true
		c.timer.Reset(inputTimeout)
		fmt.Printf("\n--- Turn %d ---\n", m.Turn)
		for i, card := range m.Hand {
			fmt.Printf("  %d) %s\n", i+1, card)
		}
		fmt.Printf("Your play (%s): ", inputTimeout)
	case message.CmdTurnResult:
		var m message.TurnResult
		msg.Bind(&m)
		outcome := "Tie"
		if m.Winner != nil {
			outcome = map[string]string{message.WinnerYou: "You win the turn", message.WinnerOpponent: "Opponent wins the turn"}[*m.Winner]
		}
		fallback := ""
		if m.Fallback {
			fallback = " (random)"
		}
		fmt.Printf("You: %s [%s]%s  x  Opponent: %s [%s]\n%s. Lives: %d x %d\n",
			m.YourCard, m.YourCardType, fallback, m.OppCard, m.OppCardType, outcome, m.YourLives, m.OppLives)
		c.probeLatency()
	case message.CmdOpponentDisconnect:
		fmt.Println("\nYour opponent left the match.")
	case message.CmdGameOver:
		var m message.GameOver
		msg.Bind(&m)
		c.inMatch, c.awaiting = false, false
		c.timer.Stop()
		fmt.Printf("\n=== Game over: %s (%s) ===\n", m.Result, m.Reason)
		printMenu()
	case message.CmdPackageOpened:
		var m message.PackageOpened
		msg.Bind(&m)
		fmt.Println("Package opened:")
		for _, p := range m.Awarded {
			fmt.Printf("  %s - %s\n", p.Type, p.Skin)
		}
	case message.CmdPackageEmpty:
		fmt.Println("No packages left in stock.")
	case message.CmdSkinsList:
		var m message.SkinsList
		msg.Bind(&m)
		fmt.Printf("You own %d skins.\n", len(m.Owned))
		for _, p := range m.Owned {
			fmt.Printf("  %s - %s\n", p.Type, p.Skin)
		}
		for t, skin := range m.Equipped {
			fmt.Printf("Equipped for %s: %s\n", t, skin)
		}
	case message.CmdEquipOK:
		fmt.Println("Skin equipped.")
	case message.CmdEquipFail:
		fmt.Println("You do not own that skin.")
	case message.CmdPong:
		fmt.Println("pong")
	case message.CmdUnknown:
		fmt.Printf("Server did not understand %s\n", body["received"])
	default:
		fmt.Printf("Server: %s\n", msg.Raw)
	}
}

// probeLatency mede o RTT com um datagrama no eco UDP.
func (c *client) probeLatency() {
	if c.udp == nil {
		return
	}
	if _, err := c.udp.Write(network.EncodePingPacket(network.PING_PACKET_TYPE, time.Now().UnixNano())); err != nil {
		return
	}
	c.udp.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 64)
	n, err := c.udp.Read(buf)
	if err != nil {
		fmt.Println("Latency: timeout")
		return
	}
	_, sent, err := network.DecodePingPacket(buf[:n])
	if err != nil {
		return
	}
	fmt.Printf("Latency: %.2f ms\n", float64(time.Now().UnixNano()-sent)/1e6)
}

func printMenu() {
	fmt.Println(`
1) play            find a match
2) open            open a skin package
3) skins           list your skins
4) equip T S       equip skin S for type T
5) ping            ping the server
q) quit`)
}
