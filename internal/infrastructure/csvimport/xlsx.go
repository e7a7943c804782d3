package csvimport

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
	"github.com/jhoicas/reventa-inventario/internal/domain"
)

// ReadXLSX lee la primera hoja de un libro .xlsx. La codificación no aplica.
func (r *Reader) ReadXLSX(src io.Reader) ([]dto.SalesOrderInput, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %v: %w", err, domain.ErrInvalidInput)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx sin hojas: %w", domain.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheets[0], err)
	}
	return r.ReadRows(rows)
}

// ReadFile elige el formato por la extensión del nombre: .xlsx va por ReadXLSX, el resto como CSV.
func (r *Reader) ReadFile(name string, src io.Reader) ([]dto.SalesOrderInput, error) {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return r.ReadXLSX(src)
	}
	return r.Read(src)
}
