// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"jokenpoarena/internal/config"
	"jokenpoarena/internal/network"
	"jokenpoarena/internal/services/audit"
	"jokenpoarena/internal/services/cluster"
	"jokenpoarena/internal/services/gameroom"
	"jokenpoarena/internal/services/queue"
	"jokenpoarena/internal/services/shop"
	"jokenpoarena/internal/session"
)

func main() {
	// 1. CARREGA A CONFIGURAÇÃO
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("[Main] Failed to load configuration")
	}
	setupLogging(cfg.LogLevel)
	log.WithFields(log.Fields{
		"tcp":   cfg.TCPAddr(),
		"udp":   cfg.UDPAddr(),
		"ws":    cfg.WebSocketPort,
		"admin": cfg.AdminPort,
		"stock": cfg.PackageStock,
	}).Info("[Main] Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. AUDITORIA (opcional)
	var publisher audit.Publisher = audit.NopPublisher{}
	if cfg.NatsURL != "" {
		p, err := audit.NewNatsPublisher(cfg.NatsURL)
		if err != nil {
			log.WithError(err).Warn("[Main] Audit publisher disabled")
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	// 3. LÓGICA DO JOGO
	packages := shop.NewPackageService(cfg.PackageStock, cfg.PackageServiceInterval)
	handler := session.NewGameHandler(ctx, session.NewRegistry(), session.Options{
		Shop:   packages,
		Roller: shop.NewRoller(),
		Audit:  publisher,
		Game: gameroom.Config{
			TurnTimeout: cfg.TurnTimeout,
			TurnPause:   cfg.TurnPause,
			Lives:       cfg.InitialLives,
			DeckSize:    cfg.DeckSize,
			HandSize:    cfg.HandSize,
		},
		MatchmakingIdle: cfg.MatchmakingIdle,
	})
	server := network.NewServer(handler)

	// 4. BINDS: qualquer falha aqui encerra o processo
	ln, err := network.ListenTCP(cfg.TCPAddr())
	if err != nil {
		log.WithError(err).Fatal("[Main] Failed to bind TCP")
	}
	udp, err := network.ListenUDP(cfg.UDPAddr())
	if err != nil {
		log.WithError(err).Fatal("[Main] Failed to bind UDP")
	}
	echo := network.NewEchoServer(udp, cfg.EchoRate, cfg.EchoBurst)

	var workers sync.WaitGroup
	goWorker := func(name string, fn func() error) {
		workers.Add(1)
		go func() {
			defer workers.Done()
			if err := fn(); err != nil && ctx.Err() == nil {
				log.WithError(err).WithField("worker", name).Error("[Main] Worker stopped")
			}
		}()
	}
	goWorker("packages", func() error { packages.Run(ctx); return nil })
	goWorker("matchmaker", func() error { handler.Queue().Run(ctx); return nil })
	goWorker("udp-echo", func() error { return echo.Serve(ctx) })
	goWorker("tcp", func() error { return server.ServeTCP(ctx, ln) })

	health := cluster.NewHealthAggregator()
	health.AddCheck("packages", packages.CheckHealth)
	health.AddCheck("matchmaker", handler.Queue().CheckHealth)

	var httpServers []*http.Server
	if cfg.WebSocketPort > 0 {
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", server.WebSocketHandler())
		httpServers = append(httpServers, serveHTTP("websocket", cfg.WSAddr(), mux))
	}
	if cfg.AdminPort > 0 {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", health.Handler())
		mux.HandleFunc("/live", cluster.NewBasicHealthHandler())
		mux.HandleFunc("/stats", shop.CreateStatsHandler(packages))
		mux.HandleFunc("/queue", queue.CreateQueueHandler(handler.Queue()))
		mux.HandleFunc("/rooms", gameroom.CreateRoomsHandler(handler.Rooms()))
		httpServers = append(httpServers, serveHTTP("admin", cfg.AdminAddr(), mux))
	}

	// 5. CONSUL (opcional)
	if cfg.ConsulAddr != "" {
		if registrar := registerInConsul(cfg, health); registrar != nil {
			defer func() {
				if err := registrar.Deregister(); err != nil {
					log.WithError(err).Warn("[Main] Consul deregistration failed")
				}
			}()
		}
	}

	log.Info("[Main] Server ready")
	<-ctx.Done()
	log.Info("[Main] Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range httpServers {
		srv.Shutdown(shutdownCtx)
	}
	server.CloseAll()
	server.Wait()
	handler.Wait()
	workers.Wait()
	log.Info("[Main] Bye")
}

func setupLogging(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// serveHTTP faz o bind na hora (falha é fatal) e serve em segundo plano.
func serveHTTP(name, addr string, handler http.Handler) *http.Server {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.WithError(err).WithField("addr", addr).Fatalf("[Main] Failed to bind %s listener", name)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).WithField("listener", name).Error("[Main] HTTP server stopped")
		}
	}()
	log.WithFields(log.Fields{"listener": name, "addr": ln.Addr().String()}).Info("[Main] HTTP listening")
	return srv
}

// registerInConsul não é fatal: sem Consul o servidor continua atendendo.
func registerInConsul(cfg *config.Config, health *cluster.HealthAggregator) *cluster.Registrar {
	client, err := cluster.NewConsulClient(cfg.ConsulAddr)
	if err != nil {
		log.WithError(err).Warn("[Main] Consul unavailable, skipping registration")
		return nil
	}
	registrar, err := cluster.RegisterService(client, cluster.Registration{
		Name:       cfg.ServiceName,
		Host:       cfg.Host,
		Port:       cfg.TCPPort,
		HealthPort: cfg.AdminPort,
	})
	if err != nil {
		log.WithError(err).Warn("[Main] Consul registration failed")
		return nil
	}
	health.AddCheck("consul", cluster.ConsulCheck(client))
	return registrar
}
