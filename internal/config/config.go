//START OF FILE jokenpoarena/internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// ============================================================================
// Constantes de Configuração Padrão
// ============================================================================
const (
	defaultConfigFile = "server.ini"

	defaultHost          = "0.0.0.0"
	defaultTCPPort       = 9000
	defaultUDPPort       = 9001
	defaultWebSocketPort = 0
	defaultAdminPort     = 0
	defaultLogLevel      = "info"

	defaultPackageStock           = 20
	defaultPackageServiceInterval = 200 * time.Millisecond

	defaultTurnTimeout  = 25 * time.Second
	defaultTurnPause    = 50 * time.Millisecond
	defaultInitialLives = 3
	defaultDeckSize     = 10
	defaultHandSize     = 3

	defaultMatchmakingIdle = 100 * time.Millisecond

	// Eco sem limite por padrão; ECHO_RATE > 0 liga o limitador por origem.
	defaultEchoRate  = 0
	defaultEchoBurst = 20

	defaultServiceName = "jokenpo-arena"
)

// Config armazena todas as configurações do servidor.
type Config struct {
	Host          string
	TCPPort       int
	UDPPort       int
	WebSocketPort int
	AdminPort     int
	LogLevel      string

	PackageStock           int
	PackageServiceInterval time.Duration

	TurnTimeout  time.Duration
	TurnPause    time.Duration
	InitialLives int
	DeckSize     int
	HandSize     int

	MatchmakingIdle time.Duration

	EchoRate  float64
	EchoBurst int

	NatsURL     string
	ConsulAddr  string
	ServiceName string
}

// Default retorna a configuração sem arquivo e sem variáveis de ambiente.
func Default() *Config {
	return &Config{
		Host:                   defaultHost,
		TCPPort:                defaultTCPPort,
		UDPPort:                defaultUDPPort,
		WebSocketPort:          defaultWebSocketPort,
		AdminPort:              defaultAdminPort,
		LogLevel:               defaultLogLevel,
		PackageStock:           defaultPackageStock,
		PackageServiceInterval: defaultPackageServiceInterval,
		TurnTimeout:            defaultTurnTimeout,
		TurnPause:              defaultTurnPause,
		InitialLives:           defaultInitialLives,
		DeckSize:               defaultDeckSize,
		HandSize:               defaultHandSize,
		MatchmakingIdle:        defaultMatchmakingIdle,
		EchoRate:               defaultEchoRate,
		EchoBurst:              defaultEchoBurst,
		ServiceName:            defaultServiceName,
	}
}

// Load aplica, nessa ordem: padrões, arquivo INI (SERVER_CONFIG) e ambiente.
// Arquivo ausente não é erro.
func Load() (*Config, error) {
	cfg := Default()

	path := os.Getenv("SERVER_CONFIG")
	if path == "" {
		path = defaultConfigFile
	}
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.WithField("path", path).Debug("[Config] No config file, using defaults")
		return nil
	}
	f, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	return c.applyINI(f)
}

// applyINI lê só as chaves presentes; o resto mantém o valor atual.
func (c *Config) applyINI(f *ini.File) error {
	var errs []error
	str := func(section, key string, dst *string) {
		if k := f.Section(section).Key(key); k.String() != "" {
			*dst = k.String()
		}
	}
	integer := func(section, key string, dst *int) {
		if !f.Section(section).HasKey(key) {
			return
		}
		v, err := f.Section(section).Key(key).Int()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", section, key, err))
			return
		}
		*dst = v
	}
	duration := func(section, key string, dst *time.Duration) {
		if !f.Section(section).HasKey(key) {
			return
		}
		v, err := f.Section(section).Key(key).Duration()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", section, key, err))
			return
		}
		*dst = v
	}

	str("server", "host", &c.Host)
	integer("server", "tcp_port", &c.TCPPort)
	integer("server", "udp_port", &c.UDPPort)
	integer("server", "ws_port", &c.WebSocketPort)
	integer("server", "admin_port", &c.AdminPort)
	str("server", "log_level", &c.LogLevel)

	integer("shop", "stock", &c.PackageStock)
	duration("shop", "service_interval", &c.PackageServiceInterval)

	duration("game", "turn_timeout", &c.TurnTimeout)
	duration("game", "turn_pause", &c.TurnPause)
	integer("game", "lives", &c.InitialLives)
	integer("game", "deck_size", &c.DeckSize)
	integer("game", "hand_size", &c.HandSize)

	duration("queue", "idle", &c.MatchmakingIdle)

	if f.Section("echo").HasKey("rate") {
		v, err := f.Section("echo").Key("rate").Float64()
		if err != nil {
			errs = append(errs, fmt.Errorf("echo.rate: %w", err))
		} else {
			c.EchoRate = v
		}
	}
	integer("echo", "burst", &c.EchoBurst)

	str("integrations", "nats_url", &c.NatsURL)
	str("integrations", "consul_addr", &c.ConsulAddr)
	str("integrations", "service_name", &c.ServiceName)

	return errors.Join(errs...)
}

func (c *Config) loadEnv() error {
	var errs []error
	str := func(env string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	integer := func(env string, dst *int) {
		v := os.Getenv(env)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", env, err))
			return
		}
		*dst = n
	}
	duration := func(env string, dst *time.Duration) {
		v := os.Getenv(env)
		if v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", env, err))
			return
		}
		*dst = d
	}

	str("SERVER_HOST", &c.Host)
	integer("TCP_PORT", &c.TCPPort)
	integer("UDP_PORT", &c.UDPPort)
	integer("WS_PORT", &c.WebSocketPort)
	integer("ADMIN_PORT", &c.AdminPort)
	str("LOG_LEVEL", &c.LogLevel)
	integer("PACKAGE_STOCK", &c.PackageStock)
	duration("PACKAGE_SERVICE_INTERVAL", &c.PackageServiceInterval)
	duration("TURN_TIMEOUT", &c.TurnTimeout)
	duration("TURN_PAUSE", &c.TurnPause)
	integer("INITIAL_LIVES", &c.InitialLives)
	integer("DECK_SIZE", &c.DeckSize)
	integer("HAND_SIZE", &c.HandSize)
	duration("MATCHMAKING_IDLE", &c.MatchmakingIdle)
	if v := os.Getenv("ECHO_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid ECHO_RATE: %w", err))
		} else {
			c.EchoRate = f
		}
	}
	integer("ECHO_BURST", &c.EchoBurst)
	str("NATS_URL", &c.NatsURL)
	str("CONSUL_HTTP_ADDR", &c.ConsulAddr)
	str("SERVICE_NAME", &c.ServiceName)

	return errors.Join(errs...)
}

// Validate rejeita combinações que o servidor não consegue rodar.
func (c *Config) Validate() error {
	var errs []error
	if c.PackageStock <= 0 {
		errs = append(errs, fmt.Errorf("package stock must be positive, got %d", c.PackageStock))
	}
	if c.InitialLives <= 0 {
		errs = append(errs, fmt.Errorf("initial lives must be positive, got %d", c.InitialLives))
	}
	if c.DeckSize <= 0 {
		errs = append(errs, fmt.Errorf("deck size must be positive, got %d", c.DeckSize))
	}
	if c.HandSize <= 0 || c.HandSize > c.DeckSize {
		errs = append(errs, fmt.Errorf("hand size must be in 1..%d, got %d", c.DeckSize, c.HandSize))
	}
	for _, d := range []struct {
		name string
		v    time.Duration
	}{
		{"package service interval", c.PackageServiceInterval},
		{"turn timeout", c.TurnTimeout},
		{"matchmaking idle", c.MatchmakingIdle},
	} {
		if d.v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", d.name, d.v))
		}
	}
	if c.TurnPause < 0 {
		errs = append(errs, fmt.Errorf("turn pause must not be negative, got %s", c.TurnPause))
	}

	ports := map[string]int{"tcp": c.TCPPort, "udp": c.UDPPort, "ws": c.WebSocketPort, "admin": c.AdminPort}
	used := make(map[int]string)
	for _, name := range []string{"tcp", "udp", "ws", "admin"} {
		p := ports[name]
		if p < 0 || p > 65535 {
			errs = append(errs, fmt.Errorf("%s port out of range: %d", name, p))
			continue
		}
		if p == 0 {
			continue
		}
		if other, dup := used[p]; dup {
			errs = append(errs, fmt.Errorf("%s and %s ports are both %d", other, name, p))
		}
		used[p] = name
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) TCPAddr() string { return fmt.Sprintf("%s:%d", c.Host, c.TCPPort) }
func (c *Config) UDPAddr() string { return fmt.Sprintf("%s:%d", c.Host, c.UDPPort) }
func (c *Config) WSAddr() string { return fmt.Sprintf("%s:%d", c.Host, c.WebSocketPort) }
func (c *Config) AdminAddr() string { return fmt.Sprintf("%s:%d", c.Host, c.AdminPort) }

//END OF FILE jokenpoarena/internal/config/config.go
