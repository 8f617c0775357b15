//START OF FILE jokenpoarena/internal/services/cluster/register.go
package cluster

import (
	"fmt"
	"os"

	consul "github.com/hashicorp/consul/api"
	log "github.com/sirupsen/logrus"
)

// Registration descreve o endpoint TCP do jogo e onde o Consul checa a saúde.
type Registration struct {
	Name       string
	Host       string
	Port       int
	HealthPort int
}

// ServiceID é único por máquina: nome-hostname-porta.
func (r Registration) ServiceID() string {
	return fmt.Sprintf("%s-%s-%d", r.Name, r.checkHost(), r.Port)
}

// checkHost é o host que o agente usa para chegar no /health.
func (r Registration) checkHost() string {
	if r.Host != "" && r.Host != "0.0.0.0" {
		return r.Host
	}
	if h := os.Getenv("HOSTNAME"); h != "" {
		return h
	}
	h, _ := os.Hostname()
	return h
}

func (r Registration) agentRegistration() *consul.AgentServiceRegistration {
	reg := &consul.AgentServiceRegistration{
		ID:   r.ServiceID(),
		Name: r.Name,
		Port: r.Port,
		Tags: []string{"tcp", "jokenpo"},
	}
	if r.HealthPort > 0 {
		reg.Check = &consul.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", r.checkHost(), r.HealthPort),
			Timeout:                        "5s",
			Interval:                       "10s",
			DeregisterCriticalServiceAfter: "1m",
		}
	} else {
		reg.Check = &consul.AgentServiceCheck{
			TCP:                            fmt.Sprintf("%s:%d", r.checkHost(), r.Port),
			Timeout:                        "5s",
			Interval:                       "10s",
			DeregisterCriticalServiceAfter: "1m",
		}
	}
	return reg
}

// Registrar mantém o registro feito para poder desfazê-lo no shutdown.
type Registrar struct {
	client *consul.Client
	id     string
}

// RegisterService registra o servidor no agente local.
func RegisterService(client *consul.Client, r Registration) (*Registrar, error) {
	reg := r.agentRegistration()
	if err := client.Agent().ServiceRegister(reg); err != nil {
		return nil, fmt.Errorf("register %s in consul: %w", reg.ID, err)
	}
	log.WithFields(log.Fields{"service": r.Name, "id": reg.ID}).Info("[Consul] Service registered")
	return &Registrar{client: client, id: reg.ID}, nil
}

func (r *Registrar) ID() string { return r.id }

func (r *Registrar) Deregister() error {
	if err := r.client.Agent().ServiceDeregister(r.id); err != nil {
		return fmt.Errorf("deregister %s: %w", r.id, err)
	}
	log.WithField("id", r.id).Info("[Consul] Service deregistered")
	return nil
}

//END OF FILE jokenpoarena/internal/services/cluster/register.go
