package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shayfa/internal/catalog"
	"github.com/mrlokans/shayfa/internal/config"
	http_controllers "github.com/mrlokans/shayfa/internal/http"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Printf("Shutdown Server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
	return nil
}

// Run seeds first-run data, starts background maintenance and serves HTTP until
// the process is signalled.
func Run(cfg *config.Config, version string) error {
	log.Printf("Starting Shayfa v%s", version)

	ctx := context.Background()
	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}

	if !app.Store.Ready() {
		log.Printf("WARNING: running without persistence, data is lost on restart")
	}
	if _, err := catalog.Seed(ctx, app.Client); err != nil {
		log.Printf("WARNING: failed to seed catalog: %v", err)
	}

	if err := app.Start(ctx); err != nil {
		app.Close(ctx)
		return err
	}

	router := http_controllers.NewRouter(app.RouterConfig(version))
	return Serve(router, cfg, app.Close)
}
