package cli

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/reventa-inventario/internal/infrastructure/vocabulary"
)

func newVocabCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "vocab",
		Short: "Imprime el vocabulario efectivo como YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := flags.loadVocabulary()
			if err != nil {
				return err
			}
			return vocabulary.Encode(cmd.OutOrStdout(), v)
		},
	}
}
