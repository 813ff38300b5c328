package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"foodintel/handlers"
	"foodintel/middleware"
	"foodintel/routes"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set; login and protected routes are unavailable")
	}

	s, err := buildStack(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	app := fiber.New(fiber.Config{AppName: "foodintel"})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(log))

	routes.SetupRoutes(app, handlers.New(handlers.Handlers{
		Auth:     cfg.Auth,
		Caps:     s.caps,
		Catalog:  s.catalog,
		Market:   s.market,
		Reports:  s.reports,
		Shopping: s.shopping,
		Registry: s.registry,
		Log:      log,
	}))

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
