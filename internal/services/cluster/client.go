//START OF FILE jokenpoarena/internal/services/cluster/client.go
package cluster

import (
	"fmt"
	"strings"

	consul "github.com/hashicorp/consul/api"
	log "github.com/sirupsen/logrus"
)

// NewConsulClient tenta cada endereço da lista (separada por vírgula) e fica
// com o primeiro agente que responde e conhece um líder.
func NewConsulClient(addrs string) (*consul.Client, error) {
	for _, node := range strings.Split(addrs, ",") {
		node = strings.TrimSpace(node)
		if node == "" {
			continue
		}
		cfg := consul.DefaultConfig()
		cfg.Address = node

		client, err := consul.NewClient(cfg)
		if err != nil {
			log.WithError(err).WithField("node", node).Warn("[Consul] Invalid agent address")
			continue
		}
		if _, err := client.Status().Leader(); err != nil {
			log.WithError(err).WithField("node", node).Warn("[Consul] Agent did not answer")
			continue
		}

		log.WithField("node", node).Info("[Consul] Connected")
		return client, nil
	}
	return nil, fmt.Errorf("no consul agent available in %q", addrs)
}

// ConsulCheck é um CheckFunc para o agregador: falha se o agente sumir.
func ConsulCheck(client *consul.Client) CheckFunc {
	return func() error {
		_, err := client.Status().Leader()
		return err
	}
}

//END OF FILE jokenpoarena/internal/services/cluster/client.go
