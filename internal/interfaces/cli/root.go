// Package cli implementa salesimport: previsualiza e importa planillas de órdenes de la plataforma.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
	"github.com/jhoicas/reventa-inventario/internal/domain/bundle"
	"github.com/jhoicas/reventa-inventario/internal/infrastructure/csvimport"
	"github.com/jhoicas/reventa-inventario/internal/infrastructure/vocabulary"
	"github.com/jhoicas/reventa-inventario/pkg/config"
)

type rootFlags struct {
	encoding  string
	vocabPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "salesimport",
		Short:         "Importa planillas de órdenes al inventario de reventa",
		Long:          "Descompone los paquetes de cada línea, reparte el ingreso y registra las órdenes con su costo base.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.encoding, "encoding", "auto", "codificación del CSV: auto, utf-8 o big5")
	cmd.PersistentFlags().StringVar(&flags.vocabPath, "vocab", "", "YAML de vocabulario (por defecto BUNDLE_VOCABULARY_PATH o el incorporado)")

	cmd.AddCommand(newPreviewCmd(flags))
	cmd.AddCommand(newLoadCmd(flags))
	cmd.AddCommand(newVocabCmd(flags))
	return cmd
}

// NewRootCmdForTest devuelve el comando raíz para tests.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute ejecuta la CLI.
func Execute() error {
	return newRootCmd().Execute()
}

// loadVocabulary usa --vocab; si no viene, la ruta de la configuración.
func (f *rootFlags) loadVocabulary() (bundle.Vocabulary, error) {
	path := f.vocabPath
	if path == "" {
		if cfg, err := config.Load(); err == nil {
			path = cfg.Bundle.VocabularyPath
		}
	}
	return vocabulary.Load(path)
}

func (f *rootFlags) decomposer() (*bundle.Decomposer, error) {
	v, err := f.loadVocabulary()
	if err != nil {
		return nil, err
	}
	return bundle.NewDecomposer(v)
}

func (f *rootFlags) readSheet(path string) ([]dto.SalesOrderInput, error) {
	enc, err := csvimport.ParseEncoding(f.encoding)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir planilla: %w", err)
	}
	defer file.Close()
	return csvimport.NewReader(enc).ReadFile(path, file)
}
