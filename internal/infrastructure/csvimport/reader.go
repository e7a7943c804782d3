// Package csvimport convierte la planilla de órdenes exportada por la plataforma de venta
// (CSV o Excel .xlsx) en órdenes listas para RegisterSaleUseCase.ImportOrders.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
	"github.com/jhoicas/reventa-inventario/internal/domain"
)

type column int

const (
	colOrderNo column = iota
	colProductName
	colQuantity
	colUnitPrice
	colTotalPrice
	colOrderDate
	colCustomerName
	colShippingFee
)

// headerAliases encabezados aceptados (simplificado, tradicional e inglés). Inglés sin distinguir mayúsculas.
var headerAliases = map[string]column{
	"订单编号": colOrderNo, "訂單編號": colOrderNo, "order no": colOrderNo, "order_no": colOrderNo, "order id": colOrderNo,
	"商品名称": colProductName, "商品名稱": colProductName, "product name": colProductName, "product": colProductName,
	"数量": colQuantity, "數量": colQuantity, "quantity": colQuantity, "qty": colQuantity,
	"单价": colUnitPrice, "單價": colUnitPrice, "unit price": colUnitPrice, "price": colUnitPrice,
	"总价": colTotalPrice, "總價": colTotalPrice, "total price": colTotalPrice, "total": colTotalPrice,
	"下单时间": colOrderDate, "下單時間": colOrderDate, "order date": colOrderDate, "date": colOrderDate,
	"买家姓名": colCustomerName, "買家姓名": colCustomerName, "buyer name": colCustomerName, "customer": colCustomerName,
	"运费": colShippingFee, "運費": colShippingFee, "shipping fee": colShippingFee, "shipping": colShippingFee,
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"2006-01-02",
	"2006/01/02",
	time.RFC3339,
}

// Reader lee la planilla de órdenes.
type Reader struct {
	Encoding Encoding
	Location *time.Location // zona de las fechas sin offset; nil = time.Local
}

// NewReader construye un Reader para la codificación indicada.
func NewReader(enc Encoding) *Reader {
	return &Reader{Encoding: enc, Location: time.Local}
}

// headerSearchRows filas iniciales donde se busca el encabezado (la plataforma antepone título y filtros).
const headerSearchRows = 20

// Read lee una planilla CSV. Ver ReadRows.
func (r *Reader) Read(src io.Reader) ([]dto.SalesOrderInput, error) {
	text, err := decode(src, r.Encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(text)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}
	return r.ReadRows(rows)
}

// ReadRows agrupa las filas por número de orden en el orden en que aparece cada orden por primera vez.
// El encabezado es la primera fila (entre las primeras headerSearchRows) que trae las columnas requeridas;
// lo anterior se descarta. Las filas sin número de orden se descartan. Si falta el precio unitario
// se usa total / cantidad.
func (r *Reader) ReadRows(rows [][]string) ([]dto.SalesOrderInput, error) {
	headerAt, cols, err := findHeader(rows)
	if err != nil {
		return nil, err
	}

	var orders []dto.SalesOrderInput
	index := make(map[string]int)
	for i := headerAt + 1; i < len(rows); i++ {
		record, line := rows[i], i+1
		get := func(c column) string {
			i, ok := cols[c]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		orderNo := get(colOrderNo)
		if orderNo == "" {
			continue
		}
		lineIn, err := r.parseLine(get)
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", line, err)
		}

		pos, ok := index[orderNo]
		if !ok {
			pos = len(orders)
			index[orderNo] = pos
			orders = append(orders, dto.SalesOrderInput{OrderNo: orderNo})
		}
		o := &orders[pos]
		o.Lines = append(o.Lines, lineIn)
		if o.CustomerName == "" {
			o.CustomerName = get(colCustomerName)
		}
		if o.OrderDate == nil {
			if o.OrderDate, err = r.parseDate(get(colOrderDate)); err != nil {
				return nil, fmt.Errorf("fila %d: %w", line, err)
			}
		}
		if o.ShippingFeePaidByCustomer.IsZero() {
			if o.ShippingFeePaidByCustomer, err = parseAmount(get(colShippingFee)); err != nil {
				return nil, fmt.Errorf("fila %d: envío: %w", line, err)
			}
		}
	}
	return orders, nil
}

// findHeader devuelve el índice de la fila de encabezado. Si ninguna califica, el error es el de la
// primera fila no vacía.
func findHeader(rows [][]string) (int, map[column]int, error) {
	var firstErr error
	for i := 0; i < len(rows) && i < headerSearchRows; i++ {
		if blankRow(rows[i]) {
			continue
		}
		cols, err := mapHeader(rows[i])
		if err == nil {
			return i, cols, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		return 0, nil, fmt.Errorf("planilla vacía: %w", domain.ErrInvalidInput)
	}
	return 0, nil, firstErr
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r *Reader) parseLine(get func(column) string) (dto.SalesLineInput, error) {
	desc := get(colProductName)
	if desc == "" {
		return dto.SalesLineInput{}, fmt.Errorf("nombre de producto vacío: %w", domain.ErrInvalidInput)
	}
	qtyText := stripNumber(get(colQuantity))
	qty, err := strconv.Atoi(qtyText)
	if err != nil || qty <= 0 {
		return dto.SalesLineInput{}, fmt.Errorf("cantidad %q inválida: %w", get(colQuantity), domain.ErrInvalidInput)
	}
	price, err := parseAmount(get(colUnitPrice))
	if err != nil {
		return dto.SalesLineInput{}, fmt.Errorf("precio unitario: %w", err)
	}
	if get(colUnitPrice) == "" && get(colTotalPrice) != "" {
		total, err := parseAmount(get(colTotalPrice))
		if err != nil {
			return dto.SalesLineInput{}, fmt.Errorf("precio total: %w", err)
		}
		price = total.Div(decimal.NewFromInt(int64(qty)))
	}
	if price.IsNegative() {
		return dto.SalesLineInput{}, fmt.Errorf("precio negativo: %w", domain.ErrInvalidInput)
	}
	return dto.SalesLineInput{Description: desc, Quantity: qty, UnitPrice: price}, nil
}

func (r *Reader) parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("fecha %q no reconocida: %w", s, domain.ErrInvalidInput)
}

func mapHeader(header []string) (map[column]int, error) {
	cols := make(map[column]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if c, ok := headerAliases[key]; ok {
			if _, dup := cols[c]; !dup {
				cols[c] = i
			}
		}
	}
	required := []struct {
		col  column
		name string
	}{{colOrderNo, "订单编号"}, {colProductName, "商品名称"}, {colQuantity, "数量"}}
	var missing []string
	for _, r := range required {
		if _, ok := cols[r.col]; !ok {
			missing = append(missing, r.name)
		}
	}
	_, hasUnit := cols[colUnitPrice]
	_, hasTotal := cols[colTotalPrice]
	if !hasUnit && !hasTotal {
		missing = append(missing, "单价")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("faltan columnas %s: %w", strings.Join(missing, ", "), domain.ErrInvalidInput)
	}
	return cols, nil
}

// stripNumber quita separadores de miles, espacios y símbolos de moneda.
func stripNumber(s string) string {
	s = strings.TrimSpace(s)
	for _, p := range []string{"NT$", "NT", "$", "¥", "￥"} {
		s = strings.TrimPrefix(s, p)
	}
	return strings.NewReplacer(",", "", "，", "", " ", "").Replace(s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	clean := stripNumber(s)
	if clean == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("monto %q inválido: %w", s, domain.ErrInvalidInput)
	}
	return d, nil
}
