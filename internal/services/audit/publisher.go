//START OF FILE jokenpoarena/internal/services/audit/publisher.go
package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"jokenpoarena/internal/game/card"
	"jokenpoarena/internal/services/gameroom"
)

const (
	SubjectPackage = "jokenpo.audit.package"
	SubjectMatch   = "jokenpo.audit.match"
)

// Publisher registra pacotes entregues e partidas encerradas.
// Falha de publicação é logada, nunca derruba quem chamou.
type Publisher interface {
	PackageGranted(playerID, ticketID string, pkgs []card.Package)
	MatchFinished(record gameroom.MatchRecord)
	Close()
}

// PackageEvent é o payload publicado em SubjectPackage.
type PackageEvent struct {
	PlayerID string    `json:"player"`
	TicketID string    `json:"ticket"`
	Tokens   []string  `json:"tokens"`
	At       time.Time `json:"at"`
}

// NewPackageEvent gera um token único por item no formato "tipo:skin#uuid".
func NewPackageEvent(playerID, ticketID string, pkgs []card.Package) PackageEvent {
	return PackageEvent{
		PlayerID: playerID,
		TicketID: ticketID,
		Tokens: lo.Map(pkgs, func(p card.Package, _ int) string {
			return fmt.Sprintf("%s:%s#%s", p.Type, p.Skin, uuid.NewString())
		}),
		At: time.Now(),
	}
}

// ============================================================================
// NATS
// ============================================================================

type NatsPublisher struct {
	conn *nats.Conn
}

// NewNatsPublisher conecta no servidor NATS. A conexão reconecta sozinha.
func NewNatsPublisher(url string) (*NatsPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("jokenpo-arena"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("[Audit] NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("[Audit] NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	log.WithField("url", nc.ConnectedUrl()).Info("[Audit] Connected to NATS")
	return &NatsPublisher{conn: nc}, nil
}

func (p *NatsPublisher) PackageGranted(playerID, ticketID string, pkgs []card.Package) {
	p.publish(SubjectPackage, NewPackageEvent(playerID, ticketID, pkgs))
}

func (p *NatsPublisher) MatchFinished(record gameroom.MatchRecord) {
	p.publish(SubjectMatch, record)
}

func (p *NatsPublisher) publish(subject string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).WithField("subject", subject).Error("[Audit] Failed to encode event")
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		log.WithError(err).WithField("subject", subject).Warn("[Audit] Failed to publish event")
	}
}

// Close envia o que ficou no buffer antes de fechar.
func (p *NatsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// ============================================================================
// Sem auditoria
// ============================================================================

// NopPublisher só deixa rastro no log de debug.
type NopPublisher struct{}

func (NopPublisher) PackageGranted(playerID, ticketID string, pkgs []card.Package) {
	log.WithFields(log.Fields{"player": playerID, "ticket": ticketID, "items": len(pkgs)}).Debug("[Audit] Package granted")
}

func (NopPublisher) MatchFinished(record gameroom.MatchRecord) {
	log.WithFields(log.Fields{"match": record.ID, "result": record.Result}).Debug("[Audit] Match finished")
}

func (NopPublisher) Close() {}

//END OF FILE jokenpoarena/internal/services/audit/publisher.go
