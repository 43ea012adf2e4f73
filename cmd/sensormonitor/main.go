// Sensor Monitor Core
//
// This is the main entry point for the sensor monitor backend: a REST API
// over the sensor inventory and its unit and type catalogs, guarded by
// bearer tokens from the site identity provider.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/sensor-monitor-core/internal/api"
	"github.com/nerrad567/sensor-monitor-core/internal/audit"
	"github.com/nerrad567/sensor-monitor-core/internal/auth"
	"github.com/nerrad567/sensor-monitor-core/internal/cache"
	"github.com/nerrad567/sensor-monitor-core/internal/catalog"
	"github.com/nerrad567/sensor-monitor-core/internal/infrastructure/config"
	"github.com/nerrad567/sensor-monitor-core/internal/infrastructure/database"
	"github.com/nerrad567/sensor-monitor-core/internal/infrastructure/logging"
	"github.com/nerrad567/sensor-monitor-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/sensor-monitor-core/internal/sensor"
	"github.com/nerrad567/sensor-monitor-core/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
// It blocks until ctx is cancelled and returns nil on clean shutdown.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Sensor Monitor Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx, migrations.FS); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	verifier, err := newVerifier(cfg.Security.JWT)
	if err != nil {
		return fmt.Errorf("configuring token verification: %w", err)
	}
	log.Info("token verification configured",
		"algorithm", verifier.Algorithm(),
		"roles_claim", cfg.Security.JWT.RolesClaim,
	)

	sensorCache, err := cache.New[string, sensor.DTO](cfg.Cache.Sensors.Size)
	if err != nil {
		return fmt.Errorf("creating sensor cache: %w", err)
	}
	sensors := sensor.NewRegistry(sensor.NewSQLiteRepository(db), sensorCache)
	sensors.SetLogger(log.With("component", "sensors"))

	units := catalog.NewRegistry(catalog.Units, catalog.NewSQLiteRepository(db.DB, catalog.Units))
	types := catalog.NewRegistry(catalog.Types, catalog.NewSQLiteRepository(db.DB, catalog.Types))
	for _, reg := range []*catalog.Registry{units, types} {
		reg.SetLogger(log.With("component", reg.Kind().Noun()+"s"))
		// Renames and deletes cascade into sensor rows the cache may hold.
		reg.OnChange(func(kind catalog.Kind, name string) {
			sensors.InvalidateAll()
			log.Debug("sensor cache purged", "kind", kind.Noun(), "name", name)
		})
	}

	checks := map[string]api.HealthChecker{"database": db}

	if cfg.MQTT.Enabled {
		mqttClient, connErr := mqtt.Connect(cfg.MQTT)
		if connErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", connErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log.With("component", "mqtt"))
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		sensors.SetPublisher(sensor.NewMQTTPublisher(mqttClient, mqttClient.Topics(), byte(cfg.MQTT.QoS)))
		checks["mqtt"] = mqttClient
	} else {
		log.Info("MQTT disabled, sensor events will not be published")
	}

	var auditRepo audit.Repository
	if cfg.Audit.Enabled {
		auditRepo = audit.NewSQLiteRepository(db.DB)
	}

	server, err := api.New(api.Deps{
		Config:    cfg.API,
		Logger:    log,
		Verifier:  verifier,
		Sensors:   sensors,
		Units:     units,
		Types:     types,
		AuditRepo: auditRepo,
		Checks:    checks,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server (drains the audit queue)
	// 2. MQTT (if enabled)
	// 3. Database

	return nil
}

// getConfigPath returns the configuration file path.
// Uses SENSORMONITOR_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SENSORMONITOR_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// newVerifier builds the bearer token verifier from configuration,
// reading the RS256 public key from disk when one is configured.
func newVerifier(cfg config.JWTConfig) (*auth.Verifier, error) {
	vc := auth.VerifierConfig{
		Secret:         cfg.Secret,
		Issuer:         cfg.Issuer,
		Audience:       cfg.Audience,
		RolesClaim:     cfg.RolesClaim,
		RolePrefix:     cfg.RolePrefix,
		PrincipalClaim: cfg.PrincipalClaim,
		Leeway:         cfg.Leeway,
	}
	if cfg.PublicKeyFile != "" {
		pem, err := os.ReadFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading public key: %w", err)
		}
		vc.PublicKeyPEM = pem
	}
	return auth.NewVerifier(vc)
}
