//START OF FILE jokenpoarena/internal/services/gameroom/manager.go
package gameroom

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RoomManager gerencia o ciclo de vida de todas as salas ativas.
type RoomManager struct {
	mu    sync.Mutex
	rooms map[string]*GameRoom
	wg    sync.WaitGroup

	dir      PlayerDirectory
	cfg      Config
	onFinish func(MatchRecord)
}

// NewRoomManager recebe o diretório de jogadores e um callback opcional
// chamado ao fim de cada partida.
func NewRoomManager(dir PlayerDirectory, cfg Config, onFinish func(MatchRecord)) *RoomManager {
	return &RoomManager{
		rooms:    make(map[string]*GameRoom),
		dir:      dir,
		cfg:      cfg,
		onFinish: onFinish,
	}
}

// CreateRoom cria a sala e inicia a goroutine da partida.
func (rm *RoomManager) CreateRoom(playerA, playerB string, mbA, mbB *Mailbox) *GameRoom {
	room := NewGameRoom(uuid.NewString(), playerA, playerB, mbA, mbB, rm.dir, rm.cfg)

	rm.mu.Lock()
	rm.rooms[room.ID] = room
	rm.mu.Unlock()

	rm.wg.Add(1)
	go func() {
		defer rm.wg.Done()
		record := room.Run()

		rm.mu.Lock()
		delete(rm.rooms, room.ID)
		rm.mu.Unlock()

		if rm.onFinish != nil {
			rm.onFinish(record)
		}
	}()

	log.WithField("match", room.ID).Debug("[RoomManager] Room created")
	return room
}

// GetRoom retorna a sala ativa ou nil.
func (rm *RoomManager) GetRoom(roomID string) *GameRoom {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.rooms[roomID]
}

func (rm *RoomManager) Active() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.rooms)
}

// Rooms retorna as salas ativas.
func (rm *RoomManager) Rooms() []*GameRoom {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	out := make([]*GameRoom, 0, len(rm.rooms))
	for _, r := range rm.rooms {
		out = append(out, r)
	}
	return out
}

// Wait bloqueia até todas as partidas terminarem.
func (rm *RoomManager) Wait() {
	rm.wg.Wait()
}

//END OF FILE jokenpoarena/internal/services/gameroom/manager.go
