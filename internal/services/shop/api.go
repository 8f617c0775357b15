//START OF FILE jokenpoarena/internal/services/shop/api.go
package shop

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// CreateStatsHandler expõe o estado do estoque para a porta de administração.
func CreateStatsHandler(s *PackageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, `{"error": "Method not allowed"}`, http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(s.Stats()); err != nil {
			log.WithError(err).Warn("[PackageService] Failed to write stats response")
		}
	}
}

//END OF FILE jokenpoarena/internal/services/shop/api.go
