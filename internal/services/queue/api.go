// START OF FILE jokenpoarena/internal/services/queue/api.go
package queue

import (
	"encoding/json"
	"net/http"
)

// QueueStatus é o DTO exposto na porta de administração.
type QueueStatus struct {
	Size    int      `json:"size"`
	Waiting []string `json:"waiting"`
}

// CreateQueueHandler mostra quem está esperando, em ordem.
func CreateQueueHandler(m *Matchmaker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, `{"error": "Method not allowed"}`, http.StatusMethodNotAllowed)
			return
		}
		waiting := m.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(QueueStatus{Size: len(waiting), Waiting: waiting})
	}
}

//END OF FILE jokenpoarena/internal/services/queue/api.go
