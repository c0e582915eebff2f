// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/relaymon/relayhub/api"
	"github.com/relaymon/relayhub/api/resources"
	"github.com/relaymon/relayhub/internal/config"
	"github.com/relaymon/relayhub/internal/database"
	"github.com/relaymon/relayhub/internal/models"
	"github.com/relaymon/relayhub/internal/monitoring"
	"github.com/relaymon/relayhub/internal/repository/rediscache"
	"github.com/relaymon/relayhub/internal/repository/sqldb"
	"github.com/relaymon/relayhub/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	db         database.DB
	redis      *redis.Client
	accessLog  *os.File
	service    *service.Service
	monitoring *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config: cfg,
		srv:    srv,
	}
}

// Start connects the backing stores, builds the handler chain and blocks until shutdown
func (s *Server) Start() error {
	defer s.close()

	if err := s.initialize(); err != nil {
		return err
	}

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

func (s *Server) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.New(s.config.Database)
	if err != nil {
		return err
	}
	s.db = db

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if s.config.Database.InitSchema {
		if err := sqldb.InitializeSchema(ctx, db); err != nil {
			return err
		}
		nuts.L.Infof("[Server] Schema initialized")
	}

	s.service = service.New(
		sqldb.NewReadingRepository(db),
		sqldb.NewThresholdRepository(db),
	).WithLocation(s.config.Server.Location())

	if s.config.Redis.Addr() != "" {
		client, err := rediscache.NewClient(ctx, s.config.Redis)
		if err != nil {
			return err
		}
		s.redis = client
		s.service.WithCache(rediscache.NewThresholdCache(client), s.config.Redis.TTL)
		nuts.L.Infof("[Server] Threshold cache enabled at %s", s.config.Redis.Addr())
	}

	if err := s.service.Validate(); err != nil {
		return err
	}

	s.monitoring, err = monitoring.NewService(monitoring.Config{
		Namespace: s.config.Monitoring.MetricsNamespace,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize monitoring: %w", err)
	}

	s.setupEventHandlers()

	var accessLog io.Writer
	if path := s.config.API.AccessLog; path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open access log: %w", err)
		}
		s.accessLog = f
		accessLog = f
	}

	res := resources.NewResources(s.service, resources.Options{
		ExposeDBErrors: s.config.API.ExposeDBErrors,
	})
	res.SetHealthCheck(s.handleHealth())

	s.srv.Handler = api.NewRouter(res, s.monitoring, api.Options{
		AccessLog:      accessLog,
		AllowedOrigins: s.config.API.CORSAllowedOrigins,
	})
	return nil
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing redis client: %v", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing database: %v", err)
		}
	}
	if s.accessLog != nil {
		s.accessLog.Close()
	}
}

// handleHealth reports ok only while the database answers pings
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := s.db.Ping(r.Context()); err != nil {
			nuts.L.Warnf("[Server] Health check failed: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable","version":"` + nuts.GetVersion() + `"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","version":"` + nuts.GetVersion() + `"}`))
	}
}

func (s *Server) setupEventHandlers() {
	s.service.OnThresholdUpdated(func(t models.Threshold) {
		nuts.L.Infof("[Thresholds] Updated to temp=%v hum=%v", t.TempThreshold, t.HumThreshold)
		s.monitoring.RecordEvent("threshold_update", map[string]string{
			"temp_threshold": strconv.FormatFloat(t.TempThreshold, 'f', -1, 64),
			"hum_threshold":  strconv.FormatFloat(t.HumThreshold, 'f', -1, 64),
		})
	})
}
