// Package container wires the application's dependencies with ordered
// initialization and reverse-order teardown.
package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/seconnect/ice-backend/internal/application/dispatcher"
	"github.com/seconnect/ice-backend/internal/application/port"
	"github.com/seconnect/ice-backend/internal/application/service"
	"github.com/seconnect/ice-backend/internal/config"
	"github.com/seconnect/ice-backend/internal/infrastructure/email"
	"github.com/seconnect/ice-backend/internal/infrastructure/identity"
	"github.com/seconnect/ice-backend/internal/infrastructure/messaging"
	"github.com/seconnect/ice-backend/internal/infrastructure/persistence/repository"
	"github.com/seconnect/ice-backend/internal/infrastructure/worker"
	"github.com/seconnect/ice-backend/pkg/database"
)

// Container holds all application dependencies.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure
	db           *database.DB
	repositories *RepositoryBundle
	publisher    *messaging.Publisher
	emailSender  port.EmailSender
	userResolver port.UserResolver

	// Application
	dispatcher dispatcher.Dispatcher
	services   *ServiceBundle

	// Workers
	workers *worker.WorkerManager

	mu     sync.Mutex
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	ReferenceValue    port.ReferenceValueRepository
	SalesLetter       port.SalesLetterVersionRepository
	TargetPlan        port.TargetPlanRepository
	Employee          port.EmployeeRepository
	WorkflowSetup     port.WorkflowSetupRepository
	NotificationEmail port.NotificationEmailRepository
	MessageTemplate   port.MessageTemplateRepository
	WorkflowTask      port.WorkflowTaskRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	StatusWorkflow service.StatusWorkflowService
	Email          service.EmailService
	Task           service.TaskService
	Report         service.ReportService
}

// NewContainer creates a new container from configuration. Call Start to
// initialize components.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Container{config: cfg, logger: logger}, nil
}

// Start initializes all components in dependency order: database and
// repositories, external adapters, application services, then workers.
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	if err := c.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := c.initExternal(); err != nil {
		return fmt.Errorf("failed to initialize external adapters: %w", err)
	}

	c.initServices()

	if err := c.initWorkers(ctx); err != nil {
		return fmt.Errorf("failed to initialize workers: %w", err)
	}

	c.ready.Store(true)
	c.logger.Info("Container started")
	return nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	db, err := database.New(database.Config{
		Path:            c.config.Database.Path,
		MaxOpenConns:    c.config.Database.MaxOpenConns,
		MaxIdleConns:    c.config.Database.MaxIdleConns,
		ConnMaxLifetime: c.config.Database.ConnMaxLifetime,
	}, c.logger)
	if err != nil {
		return err
	}
	c.db = db

	migrator := database.NewMigrator(db, c.logger)
	if err := migrator.RunMigrations(ctx, c.config.Database.MigrationsDir); err != nil {
		return err
	}

	c.repositories = &RepositoryBundle{
		ReferenceValue:    repository.NewReferenceValueRepository(db.DB, c.logger),
		SalesLetter:       repository.NewSalesLetterVersionRepository(db.DB, c.logger),
		TargetPlan:        repository.NewTargetPlanRepository(db.DB, c.logger),
		Employee:          repository.NewEmployeeRepository(db.DB, c.logger),
		WorkflowSetup:     repository.NewWorkflowSetupRepository(db.DB, c.logger),
		NotificationEmail: repository.NewNotificationEmailRepository(db.DB, c.logger),
		MessageTemplate:   repository.NewMessageTemplateRepository(db.DB, c.logger),
		WorkflowTask:      repository.NewWorkflowTaskRepository(db.DB, c.logger),
	}
	return nil
}

func (c *Container) initExternal() error {
	publisher, err := messaging.NewPublisher(c.config.Queue.URL, c.logger)
	if err != nil {
		return err
	}
	c.publisher = publisher

	c.emailSender = email.NewSMTPSender(email.Config{
		Host:     c.config.Email.SMTPHost,
		Port:     c.config.Email.SMTPPort,
		Username: c.config.Email.SMTPUsername,
		Password: c.config.Email.SMTPPassword,
		From:     c.config.Email.FromAddress,
	}, c.logger)

	c.userResolver = identity.NewResolver(c.config.Identity.ServiceAccountEmail)
	return nil
}

func (c *Container) initServices() {
	svcLogger := &zapLoggerAdapter{logger: c.logger}
	c.dispatcher = dispatcher.NewDispatcher(svcLogger)

	emailService := service.NewEmailService(c.repositories.MessageTemplate, c.emailSender, svcLogger)
	c.services = &ServiceBundle{
		Email: emailService,
		StatusWorkflow: service.NewStatusWorkflowService(
			service.EmailOptions{
				SendToDefault:    c.config.Email.SendToDefault,
				DefaultToAddress: c.config.Email.DefaultToAddress,
				DefaultCCAddress: c.config.Email.DefaultCCAddress,
			},
			c.config.Queue.NotificationSubject,
			c.repositories.ReferenceValue,
			c.repositories.WorkflowSetup,
			c.repositories.Employee,
			c.repositories.SalesLetter,
			c.repositories.NotificationEmail,
			c.repositories.TargetPlan,
			c.emailSender,
			emailService,
			c.userResolver,
			c.publisher,
			svcLogger,
		),
		Task:   service.NewTaskService(c.repositories.WorkflowTask, svcLogger),
		Report: service.NewReportService(c.repositories.NotificationEmail, svcLogger),
	}
}

func (c *Container) initWorkers(ctx context.Context) error {
	c.workers = worker.NewWorkerManager(c.logger)
	c.workers.Register(worker.NewNotificationWorker(
		c.publisher.Conn(),
		c.config.Queue.NotificationSubject,
		c.repositories.WorkflowSetup,
		c.repositories.WorkflowTask,
		c.services.Email,
		c.dispatcher,
		c.logger,
	))
	return c.workers.StartAll(ctx)
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	var errs []error

	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		}
	}

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		}
	}

	if c.publisher != nil {
		c.publisher.Close()
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}
	c.logger.Info("Container closed")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// DB returns the database handle.
func (c *Container) DB() *database.DB {
	return c.db
}

// Repositories returns the repository bundle.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Services returns the service bundle.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// ServiceLogger returns the service-facing logger adapter.
func (c *Container) ServiceLogger() service.Logger {
	return &zapLoggerAdapter{logger: c.logger}
}

// zapLoggerAdapter adapts zap.Logger to the service.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
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
