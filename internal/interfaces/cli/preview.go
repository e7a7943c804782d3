package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhoicas/reventa-inventario/internal/application/inventory"
)

func newPreviewCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <archivo.csv|xlsx>",
		Short: "Muestra cómo se descompone y reparte cada línea, sin tocar la base de datos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := flags.readSheet(args[0])
			if err != nil {
				return err
			}
			dec, err := flags.decomposer()
			if err != nil {
				return err
			}
			uc := inventory.NewRegisterSaleUseCase(nil, nil, dec, "", zerolog.Nop())

			out := cmd.OutOrStdout()
			for _, o := range orders {
				fmt.Fprintln(out, RenderPreview(o.OrderNo, uc.Preview(o.Lines...)))
			}
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d órdenes", len(orders))))
			return nil
		},
	}
}
