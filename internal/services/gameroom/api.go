// START OF FILE jokenpoarena/internal/services/gameroom/api.go
package gameroom

import (
	"encoding/json"
	"net/http"
	"sort"
)

// RoomStatus é o DTO de uma sala ativa.
type RoomStatus struct {
	RoomID  string   `json:"roomId"`
	Players []string `json:"players"`
	Turn    int      `json:"turn"`
	Phase   string   `json:"phase"`
}

// CreateRoomsHandler lista as partidas em andamento na porta de administração.
func CreateRoomsHandler(rm *RoomManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, `{"error": "Method not allowed"}`, http.StatusMethodNotAllowed)
			return
		}

		rooms := rm.Rooms()
		resp := make([]RoomStatus, 0, len(rooms))
		for _, room := range rooms {
			resp = append(resp, RoomStatus{
				RoomID:  room.ID,
				Players: room.PlayerIDs(),
				Turn:    room.Turn(),
				Phase:   room.Phase(),
			})
		}
		sort.Slice(resp, func(i, j int) bool { return resp[i].RoomID < resp[j].RoomID })

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

//END OF FILE jokenpoarena/internal/services/gameroom/api.go
