//START OF FILE jokenpoarena/internal/services/cluster/health.go
package cluster

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// NewBasicHealthHandler só confirma que o processo está de pé.
func NewBasicHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
	}
}

// CheckFunc retorna erro quando o componente não está saudável.
type CheckFunc func() error

// HealthAggregator junta várias verificações em um único endpoint.
type HealthAggregator struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
}

func NewHealthAggregator() *HealthAggregator {
	return &HealthAggregator{
		checks: make(map[string]CheckFunc),
	}
}

func (h *HealthAggregator) AddCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Names retorna os nomes das verificações registradas.
func (h *HealthAggregator) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.Keys(h.checks)
}

// HealthReport é o corpo da resposta do /health.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Run executa todas as verificações.
func (h *HealthAggregator) Run() HealthReport {
	h.mu.RLock()
	defer h.mu.RUnlock()

	report := HealthReport{Status: "healthy", Checks: make(map[string]string, len(h.checks))}
	for name, check := range h.checks {
		if err := check(); err != nil {
			report.Status = "unhealthy"
			report.Checks[name] = err.Error()
			continue
		}
		report.Checks[name] = "ok"
	}
	return report
}

// Handler responde 200 com tudo ok e 503 se alguma verificação falhar.
func (h *HealthAggregator) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := h.Run()
		code := http.StatusOK
		if report.Status != "healthy" {
			code = http.StatusServiceUnavailable
			log.WithField("checks", report.Checks).Warn("[Health] Check failed")
		}
		writeJSON(w, code, report)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

//END OF FILE jokenpoarena/internal/services/cluster/health.go
