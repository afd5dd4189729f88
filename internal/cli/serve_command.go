package cli

import (
	"context"
	"time"

	"project-tracker/internal/server"
)

// shutdownTimeout bounds how long in-flight requests may finish
const shutdownTimeout = 10 * time.Second

// ServeCommand handles "serve"
type ServeCommand struct {
	app *App
}

// NewServeCommand creates a new serve handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{app: app}
}

// Execute serves the HTTP API until ctx is cancelled
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	srv := server.New(c.app.businessAPI, c.app.config, c.app.logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(c.app.config.Server.Addr)
	}()
	c.app.printf("Serving on %s\n", c.app.config.Server.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
