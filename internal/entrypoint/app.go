package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/audit"
	"github.com/mrlokans/shayfa/internal/auth"
	"github.com/mrlokans/shayfa/internal/cart"
	"github.com/mrlokans/shayfa/internal/config"
	auditRepo "github.com/mrlokans/shayfa/internal/database/audit"
	http_controllers "github.com/mrlokans/shayfa/internal/http"
	"github.com/mrlokans/shayfa/internal/khatm"
	"github.com/mrlokans/shayfa/internal/payment"
	"github.com/mrlokans/shayfa/internal/recordstore"
	"github.com/mrlokans/shayfa/internal/scheduler"
	"github.com/mrlokans/shayfa/internal/tasks"
	"github.com/mrlokans/shayfa/internal/token"
)

// App holds every long-lived component of the process.
type App struct {
	Config *config.Config

	Store  *recordstore.Store
	Codec  token.Codec
	Client *api.Client
	Audit  *audit.Service // nil while running on the in-memory fallback

	Session        *auth.Session
	Navigator      *auth.Navigator
	SessionManager *auth.SessionManager // nil while running on the in-memory fallback
	RateLimiter    *auth.RateLimiter
	CSRFSecret     []byte

	Carts    *cart.Registry
	Trackers *khatm.Registry
	Purger   *cart.Purger

	Tasks     *tasks.Client // nil when the queue is disabled or unavailable
	Scheduler *scheduler.MaintenanceScheduler

	cancel context.CancelFunc
}

// NewApp opens storage and wires the components. Storage failures fall back to
// memory; only configuration errors are returned.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	codec, err := token.NewCodec(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("invalid token configuration: %w", err)
	}

	app := &App{Config: cfg, Codec: codec}
	app.Store = recordstore.Open(cfg.Database.Path)
	app.Client = api.NewClient(app.Store, codec, api.OptionsFromConfig(cfg))

	observers := []auth.Observer{}
	app.Navigator = auth.NewNavigator(auth.SurfaceApp)
	observers = append(observers, app.Navigator)

	if db := app.Store.Database(); db != nil {
		app.Audit = audit.NewService(auditRepo.NewRepository(db.DB))
		observers = append(observers, app.Audit)

		sqlDB, err := db.DB.DB()
		if err != nil {
			app.Store.Close()
			return nil, fmt.Errorf("failed to get SQL DB for sessions: %w", err)
		}
		app.SessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			app.Store.Close()
			return nil, fmt.Errorf("failed to initialize session manager: %w", err)
		}
	} else {
		log.Printf("WARNING: audit log and cookie sessions are disabled while storage is in memory")
	}

	app.Session = auth.NewSession(ctx, app.Client, codec, observers...)
	app.RateLimiter = auth.NewRateLimiter(auth.DefaultRateLimitConfig())

	if cfg.Auth.SessionSecret != "" {
		app.CSRFSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			app.CSRFSecret = []byte(cfg.Auth.SessionSecret)
		}
	}

	guard := &singleflight.Group{}
	gateway := payment.NewSimulatedGateway(cfg.Checkout.PaymentDelay)
	app.Carts = cart.NewRegistry(func() *cart.Engine {
		return cart.NewEngine(app.Client, gateway, guard, app.Audit)
	})
	app.Trackers = khatm.NewRegistry(func() *khatm.Tracker {
		return khatm.NewTracker(app.Client, guard, app.Audit)
	})
	app.Purger = cart.NewPurger(app.Client)

	var runner scheduler.Runner = inlineRunner(app.Purger, app.Audit)
	if cfg.Tasks.Enabled && app.Store.Ready() {
		taskClient, err := tasks.NewClient(cfg.Database.Path, tasks.ConfigFromSettings(cfg.Tasks))
		if err != nil {
			log.Printf("WARNING: task queue unavailable, maintenance will run inline: %v", err)
		} else {
			taskClient.RegisterMaintenance(app.Purger, app.Audit)
			app.Tasks = taskClient
			runner = taskClient
		}
	}
	app.Scheduler = scheduler.NewMaintenanceScheduler(runner, cfg.Maintenance, app.Audit)

	return app, nil
}

// Start launches the task workers and the maintenance schedule.
func (a *App) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)
	if a.Tasks != nil {
		a.Tasks.Start(ctx)
	}
	if err := a.Scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start maintenance scheduler: %w", err)
	}
	return nil
}

// RouterConfig describes the HTTP surface over the app's components.
func (a *App) RouterConfig(version string) http_controllers.RouterConfig {
	return http_controllers.RouterConfig{
		Version:        version,
		Storage:        a.Store,
		Client:         a.Client,
		Codec:          a.Codec,
		Session:        a.Session,
		SessionManager: a.SessionManager,
		RateLimiter:    a.RateLimiter,
		Carts:          a.Carts,
		Trackers:       a.Trackers,
		AuditService:   a.Audit,
		Maintenance:    a.Scheduler,
		CSRFSecret:     a.CSRFSecret,
		SecureCookies:  a.Config.Auth.SecureCookies,
		Logger:         true,
	}
}

// Close stops background work and releases storage.
func (a *App) Close(ctx context.Context) {
	a.Scheduler.Stop()
	if a.Tasks != nil {
		a.Tasks.Stop(ctx)
		if err := a.Tasks.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.RateLimiter.Stop()
	a.Audit.Wait()
	if err := a.Store.Close(); err != nil {
		log.Printf("Error closing record store: %v", err)
	}
}

// inlineRunner runs maintenance without the task queue. Audit cleanup is only
// included when there is an audit log to clean.
func inlineRunner(purger *cart.Purger, auditService *audit.Service) scheduler.DirectRunner {
	runner := scheduler.DirectRunner{Purger: purger}
	if auditService != nil {
		runner.Cleaner = auditService
	}
	return runner
}
