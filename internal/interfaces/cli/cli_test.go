package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
	"github.com/jhoicas/reventa-inventario/internal/domain/bundle"
	"github.com/jhoicas/reventa-inventario/internal/interfaces/cli"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())
	cmd := cli.NewRootCmdForTest()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSheet(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestPreview_MuestraDescomposicion(t *testing.T) {
	sheet := writeSheet(t, "订单编号,商品名称,数量,单价\nO1,抹茶+焙茶 各2盒,1,400\n")

	out, err := run(t, "preview", "--encoding", "utf-8", sheet)
	require.NoError(t, err)
	assert.Contains(t, out, "Orden O1")
	assert.Contains(t, out, "抹茶")
	assert.Contains(t, out, "焙茶")
	assert.Contains(t, out, "100.00")
	assert.Contains(t, out, "1 órdenes")
}

func TestPreview_VocabularioPersonalizado(t *testing.T) {
	vocabPath := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(vocabPath, []byte("unit_words: [box]\npart_separator: \"&\"\n"), 0o600))
	sheet := writeSheet(t, "Order No,Product Name,Qty,Unit Price\nE1,Tea 3 box&Mug 1 box,1,40\n")

	out, err := run(t, "preview", "--vocab", vocabPath, sheet)
	require.NoError(t, err)
	assert.Contains(t, out, "Tea")
	assert.Contains(t, out, "Mug")
}

func TestPreview_Errores(t *testing.T) {
	_, err := run(t, "preview", filepath.Join(t.TempDir(), "no-existe.csv"))
	assert.Error(t, err)

	_, err = run(t, "preview", "--encoding", "latin1", writeSheet(t, "x"))
	assert.Error(t, err)

	_, err = run(t, "preview")
	assert.Error(t, err)
}

func TestVocab_ImprimeYAML(t *testing.T) {
	out, err := run(t, "vocab")
	require.NoError(t, err)

	var v bundle.Vocabulary
	require.NoError(t, yaml.Unmarshal([]byte(out), &v))
	assert.Equal(t, bundle.DefaultVocabulary(), v)
}

func TestRenderSummary(t *testing.T) {
	out := cli.RenderSummary(&dto.ImportSummaryResponse{
		Orders: 3, Created: 1, Skipped: 2, SkippedOrderNos: []string{"O1", "O2"}, Items: 3,
		CreatedProducts: []string{"B"},
		Oversold:        []dto.OversoldProductResponse{{ProductID: "p2", Name: "B", Quantity: -3}},
	})
	assert.Contains(t, out, "1 órdenes creadas")
	assert.Contains(t, out, "O1, O2")
	assert.Contains(t, out, "-3")
}

func TestRenderPreview_SinLineas(t *testing.T) {
	out := cli.RenderPreview("O9", []dto.SalesPreviewLineResponse{{
		Description: "A", Quantity: 1, UnitPrice: decimal.NewFromInt(10),
		Items: []dto.AllocationResponse{{Name: "A", Quantity: 1, UnitPrice: decimal.NewFromInt(10), Revenue: decimal.NewFromInt(10)}},
	}})
	assert.Contains(t, out, "Orden O9")
	assert.Contains(t, out, "10.00")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
