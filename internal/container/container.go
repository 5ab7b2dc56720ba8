package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/erp-admin-console/internal/application/dispatcher"
	"github.com/garyjia/erp-admin-console/internal/application/port"
	"github.com/garyjia/erp-admin-console/internal/application/service"
	"github.com/garyjia/erp-admin-console/internal/config"
	"github.com/garyjia/erp-admin-console/internal/domain/event"
	"github.com/garyjia/erp-admin-console/internal/export"
	"github.com/garyjia/erp-admin-console/internal/format"
	"github.com/garyjia/erp-admin-console/internal/infrastructure/external/backend"
	"github.com/garyjia/erp-admin-console/internal/infrastructure/external/demo"
	"github.com/garyjia/erp-admin-console/internal/infrastructure/persistence/repository"
	"github.com/garyjia/erp-admin-console/internal/infrastructure/persistence/sqlite"
	httpserver "github.com/garyjia/erp-admin-console/internal/interfaces/http"
	"github.com/garyjia/erp-admin-console/internal/session"
	"github.com/garyjia/erp-admin-console/pkg/database"
)

// Container manages all application dependencies and lifecycle.
// Components start in dependency order and close in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger
	now    func() time.Time

	// Infrastructure - Data
	database   *database.DB
	db         *sqlite.DB
	storage    port.LocalStorage
	actionLogs port.ActionLogRepository

	// Infrastructure - External
	backend port.Backend

	// Application
	dispatcher    dispatcher.Dispatcher
	notifications *service.NotificationCenter
	recorder      *service.ActionRecorder
	session       *session.Session
	services      httpserver.Services

	// Interfaces
	server *httpserver.Server

	// Lifecycle
	mu     sync.Mutex
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// Option configures a Container
type Option func(*Container)

// WithClock sets the clock shared by the session, services and demo backend
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.now = now
	}
}

// WithBackend replaces the configured backend
func WithBackend(b port.Backend) Option {
	return func(c *Container) {
		c.backend = b
	}
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Container{
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Start initializes all components in dependency order:
// 1. Database and repositories
// 2. Event dispatcher and its subscribers
// 3. Session
// 4. Backend
// 5. Application services
// 6. HTTP server
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization")

	steps := []struct {
		name string
		init func(ctx context.Context) error
	}{
		{"database", c.initDatabase},
		{"dispatcher", c.initDispatcher},
		{"session", c.initSession},
		{"backend", c.initBackend},
		{"services", c.initServices},
		{"server", c.initServer},
	}
	for _, step := range steps {
		if err := step.init(ctx); err != nil {
			c.closeDatabase()
			return fmt.Errorf("failed to initialize %s: %w", step.name, err)
		}
		c.logger.Info("Component initialized", zap.String("component", step.name))
	}

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.server != nil {
		if err := c.server.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop server: %w", err))
		}
	}

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		} else {
			c.logger.Info("Dispatcher closed")
		}
	}

	if err := c.closeDatabase(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors: %v", len(errs), errs)
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}
	set := func(name string, healthy bool, msg string) {
		status.Components[name] = ComponentHealth{Healthy: healthy, Message: msg}
		if !healthy {
			status.Overall = false
		}
	}

	switch {
	case c.database == nil:
		set("database", false, "not initialized")
	default:
		if err := c.database.Ping(); err != nil {
			set("database", false, fmt.Sprintf("ping failed: %v", err))
		} else {
			set("database", true, "")
		}
	}

	if c.dispatcher != nil {
		set("dispatcher", true, "")
	} else {
		set("dispatcher", false, "not initialized")
	}

	if c.backend != nil {
		set("backend", true, c.config.Backend.Mode)
	} else {
		set("backend", false, "not initialized")
	}

	if c.session != nil {
		if c.session.Authenticated() {
			set("session", true, "signed in")
		} else {
			set("session", true, "signed out")
		}
	} else {
		set("session", false, "not initialized")
	}

	return status
}

// initDatabase opens SQLite, applies migrations and builds the repositories.
func (c *Container) initDatabase(_ context.Context) error {
	db, err := database.New(database.Config{
		Path:            c.config.Database.Path,
		MaxOpenConns:    c.config.Database.MaxOpenConns,
		MaxIdleConns:    c.config.Database.MaxIdleConns,
		ConnMaxLifetime: c.config.Database.ConnMaxLifetime,
	}, c.logger)
	if err != nil {
		return err
	}
	c.database = db

	if err := database.NewMigrator(db, c.logger).RunMigrations(database.Migrations()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.db = sqlite.NewDB(db.DB, c.logger)
	c.storage = repository.NewLocalStorageRepository(db.DB, c.logger)
	c.actionLogs = repository.NewActionLogRepository(db.DB, c.logger)
	return nil
}

// initDispatcher builds the synchronous event bus and registers the
// notification center and the action recorder on it.
func (c *Container) initDispatcher(_ context.Context) error {
	c.dispatcher = dispatcher.NewDispatcher(dispatcher.WithLogger(&zapLoggerAdapter{logger: c.logger}))

	c.notifications = service.NewNotificationCenter(service.DefaultNotificationCapacity)
	c.notifications.Subscribe(c.dispatcher)

	c.recorder = service.NewActionRecorder(c.actionLogs, &zapLoggerAdapter{logger: c.logger})
	c.recorder.Subscribe(c.dispatcher)
	return nil
}

// initSession restores the persisted token and applies a configured one.
func (c *Container) initSession(ctx context.Context) error {
	c.session = session.New(c.storage,
		session.WithClock(c.now),
		session.WithTransactions(c.db),
		session.OnClear(func(ctx context.Context) {
			evt := event.NewEvent(event.TypeSessionCleared, service.EntitySession, "", nil)
			if err := c.dispatcher.Dispatch(ctx, evt); err != nil {
				c.logger.Error("Failed to dispatch session cleared", zap.Error(err))
			}
		}),
	)
	if err := c.session.Init(ctx); err != nil {
		return err
	}

	if token := c.config.Session.Token; token != "" && token != c.session.Token() {
		if err := c.session.Login(ctx, token); err != nil {
			return err
		}
		c.logger.Info("Signed in with configured token")
	}
	return nil
}

// initBackend selects the in-process demo data set or the remote ERP API.
func (c *Container) initBackend(_ context.Context) error {
	if c.backend != nil {
		return nil
	}

	switch c.config.Backend.Mode {
	case config.BackendDemo:
		c.backend = NewDemoBackend(c.config.Demo, c.now)
	case config.BackendRemote:
		b := c.config.Backend
		c.backend = backend.NewClient(backend.Config{
			BaseURL:    b.BaseURL,
			Timeout:    b.Timeout,
			RetryCount: b.RetryCount,
		}, c.session, c.logger, backend.WithUnauthorizedHandler(func(ctx context.Context) {
			if err := c.session.Clear(ctx); err != nil {
				c.logger.Error("Failed to clear session after 401", zap.Error(err))
			}
		}))
	default:
		return fmt.Errorf("unknown backend mode %q", c.config.Backend.Mode)
	}
	c.logger.Info("Backend selected", zap.String("mode", c.config.Backend.Mode))
	return nil
}

// NewDemoBackend builds the seeded in-memory backend described by cfg
func NewDemoBackend(cfg config.DemoConfig, now func() time.Time) *demo.Backend {
	return demo.New(demo.Config{
		Seed:             cfg.Seed,
		Accounts:         cfg.Accounts,
		Refunds:          cfg.Refunds,
		Expenses:         cfg.Expenses,
		Inventory:        cfg.Inventory,
		PurchasesPerItem: cfg.PurchasesPerItem,
		Approver:         cfg.Approver,
	}, demo.WithClock(now))
}

// initServices builds every use case over the backend.
func (c *Container) initServices(_ context.Context) error {
	formatter := format.NewFormatter(c.config.Display.CurrencySymbol, c.config.Display.Locale)
	logger := &zapLoggerAdapter{logger: c.logger}

	expenses := service.NewExpenseService(c.backend, formatter, c.now, c.dispatcher, logger)
	c.services = httpserver.Services{
		Session:       c.session,
		Accounts:      service.NewAccountService(c.backend, c.dispatcher, logger),
		Refunds:       service.NewRefundService(c.backend, formatter, c.dispatcher, logger),
		Expenses:      expenses,
		Inventory:     service.NewInventoryService(c.backend, formatter, c.now, c.dispatcher, logger),
		Reports:       service.NewReportService(c.backend, expenses, export.NewExporter(c.logger), formatter, c.now, c.dispatcher, logger),
		Dashboard:     service.NewDashboardService(c.backend, formatter, c.dispatcher, logger),
		Notifications: c.notifications,
		Activity:      service.NewActivityService(c.actionLogs),
	}
	return nil
}

// initServer builds the HTTP server; Run starts listening.
func (c *Container) initServer(_ context.Context) error {
	s := c.config.Server
	c.server = httpserver.NewServer(httpserver.ServerConfig{
		Host:            s.Host,
		Port:            s.Port,
		ReadTimeout:     s.ReadTimeout,
		WriteTimeout:    s.WriteTimeout,
		ShutdownTimeout: s.ShutdownTimeout,
		AllowedOrigins:  s.AllowedOrigins,
	}, c.services, &zapLoggerAdapter{logger: c.logger})
	return nil
}

// Run serves HTTP until ctx is canceled.
func (c *Container) Run(ctx context.Context) error {
	if !c.ready.Load() {
		return fmt.Errorf("container not started")
	}
	return c.server.Start(ctx)
}

func (c *Container) closeDatabase() error {
	if c.database == nil {
		return nil
	}
	err := c.database.Close()
	if err != nil {
		c.logger.Error("Failed to close database", zap.Error(err))
	} else {
		c.logger.Info("Database closed")
	}
	c.database = nil
	return err
}

// Services returns the use cases exposed over HTTP.
func (c *Container) Services() httpserver.Services {
	return c.services
}

// Server returns the HTTP server.
func (c *Container) Server() *httpserver.Server {
	return c.server
}

// Session returns the operator session.
func (c *Container) Session() *session.Session {
	return c.session
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// zapLoggerAdapter adapts zap.Logger to the key/value Logger interfaces.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...any) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...any) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
