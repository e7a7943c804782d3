package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
	"github.com/jhoicas/reventa-inventario/internal/application/inventory"
	"github.com/jhoicas/reventa-inventario/internal/domain/bundle"
	"github.com/jhoicas/reventa-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/reventa-inventario/pkg/config"
	"github.com/jhoicas/reventa-inventario/pkg/logger"
)

func newLoadCmd(flags *rootFlags) *cobra.Command {
	var platform string
	cmd := &cobra.Command{
		Use:   "load <archivo.csv|xlsx>",
		Short: "Importa la planilla en PostgreSQL (una transacción por planilla)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})

			orders, err := flags.readSheet(args[0])
			if err != nil {
				return err
			}
			dec, err := flags.decomposer()
			if err != nil {
				return err
			}
			if platform == "" {
				platform = cfg.Sales.DefaultPlatform
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runLoad(ctx, cmd, cfg, log, dec, platform, orders)
		},
	}
	cmd.Flags().StringVar(&platform, "platform", "", "plataforma de las órdenes (por defecto SALES_DEFAULT_PLATFORM)")
	return cmd
}

func runLoad(ctx context.Context, cmd *cobra.Command, cfg *config.Config, log *logger.Logger,
	dec *bundle.Decomposer, platform string, orders []dto.SalesOrderInput) error {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, log.Named("migrate")); err != nil {
		return err
	}

	uc := inventory.NewRegisterSaleUseCase(
		postgres.NewTxRunner(pool), postgres.NewSalesRepository(pool), dec, platform, log.Named("sales"),
	)
	summary, err := uc.ImportOrders(ctx, orders)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), RenderSummary(summary))
	return nil
}
