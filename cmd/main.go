package main

import (
	"context"
	"log/slog"
	"os"

	"pos-catalog/cmd/bootstrap"
	"pos-catalog/internal/usecase/commands"
	"pos-catalog/internal/usecase/queries"

	"go.uber.org/fx"
)

// catalogd owns the versioned catalog store. It migrates the schema, wires
// the command and query services and serves operational endpoints until
// terminated.
func main() {
	app := fx.New(
		bootstrap.Module,
		fx.Invoke(
			func(
				_ commands.ProductCommands,
				_ commands.ContainerCommands,
				_ commands.PointOfSaleCommands,
				_ queries.CatalogQueries,
			) {
				slog.Info("catalog services initialized")
			},
		),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start application", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("failed to stop application", "error", err)
	}

	slog.Info("application stopped")
}
