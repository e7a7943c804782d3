package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
	"github.com/jhoicas/reventa-inventario/internal/domain"
	apphttp "github.com/jhoicas/reventa-inventario/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/reventa-inventario/pkg/jwt"
)

type fakeProducts struct {
	apphttp.ProductService
	created []dto.CreateProductRequest
}

func (f *fakeProducts) Create(_ context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "dup" {
		return nil, domain.ErrDuplicate
	}
	f.created = append(f.created, in)
	return &dto.ProductResponse{ID: "p1", Name: in.Name}, nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*dto.ProductResponse, error) {
	return nil, domain.ErrNotFound
}

type fakePurchases struct {
	apphttp.PurchaseService
	err error
}

func (f *fakePurchases) RegisterBatch(_ context.Context, in dto.CreatePurchaseBatchRequest) (*dto.PurchaseBatchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.PurchaseBatchResponse{ID: "b1", Warnings: []string{"shipping_rate_degenerate"}}, nil
}

type fakeSales struct {
	apphttp.SalesService
	imported [][]dto.SalesOrderInput
	deleted  int
	skipped  bool
}

func (f *fakeSales) Preview(lines ...dto.SalesLineInput) []dto.SalesPreviewLineResponse {
	out := make([]dto.SalesPreviewLineResponse, len(lines))
	for i, l := range lines {
		out[i] = dto.SalesPreviewLineResponse{Description: l.Description, Quantity: l.Quantity}
	}
	return out
}

func (f *fakeSales) RegisterOrder(_ context.Context, in dto.SalesOrderInput) (*dto.RegisterOrderResponse, error) {
	if f.skipped {
		return &dto.RegisterOrderResponse{Skipped: true}, nil
	}
	return &dto.RegisterOrderResponse{Order: &dto.SalesOrderResponse{OrderNo: in.OrderNo}}, nil
}

func (f *fakeSales) ImportOrders(_ context.Context, orders []dto.SalesOrderInput) (*dto.ImportSummaryResponse, error) {
	f.imported = append(f.imported, orders)
	return &dto.ImportSummaryResponse{Orders: len(orders), Created: len(orders)}, nil
}

func (f *fakeSales) DeleteAllOrders(context.Context) (*dto.DeleteAllResponse, error) {
	f.deleted++
	return &dto.DeleteAllResponse{Deleted: 3}, nil
}

type fakeInventory struct{}

func (fakeInventory) Stats(context.Context) (*dto.InventoryStatsResponse, error) {
	return &dto.InventoryStatsResponse{TotalActiveProducts: 2, TotalInventoryValue: decimal.NewFromInt(320)}, nil
}

func (fakeInventory) DownloadPDF(context.Context) ([]byte, string, error) {
	return []byte("%PDF-1.3"), "inventario_20240301.pdf", nil
}

type testEnv struct {
	app      *fiber.App
	products *fakeProducts
	sales    *fakeSales
}

func newEnv(jwtSecret string, purchaseErr error) *testEnv {
	env := &testEnv{products: &fakeProducts{}, sales: &fakeSales{}}
	env.app = apphttp.NewApp(apphttp.AppOptions{Name: "reventa-test", Log: zerolog.Nop()}, apphttp.RouterDeps{
		Products:  env.products,
		Purchases: &fakePurchases{err: purchaseErr},
		Sales:     env.sales,
		Stats:     fakeInventory{},
		Reports:   fakeInventory{},
		JWTSecret: jwtSecret,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body, auth string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func TestHealth(t *testing.T) {
	resp, body := newEnv("", nil).do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "reventa-test")
}

func TestProducts_CrearYErrores(t *testing.T) {
	env := newEnv("", nil)

	resp, _ := env.do(t, http.MethodPost, "/api/products", `{"name":"A餅乾","weight":"0.5"}`, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, env.products.created, 1)
	assert.True(t, env.products.created[0].Weight.Equal(decimal.RequireFromString("0.5")))

	resp, _ = env.do(t, http.MethodPost, "/api/products", `{"name":"dup"}`, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/api/products", `{"name":"","weight":-1}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Details, "name")
	assert.Equal(t, "gte=0", e.Details["weight"])

	resp, _ = env.do(t, http.MethodPost, "/api/products", `{`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/products/nope", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPurchases_MapeoDeErrores(t *testing.T) {
	body := `{"total_origin":1000,"items":[{"product_id":"p1","quantity":1,"unit_price_origin":1000}]}`

	resp, data := newEnv("", nil).do(t, http.MethodPost, "/api/purchases", body, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, string(data), "shipping_rate_degenerate")

	resp, data = newEnv("", domain.ErrUnknownProduct).do(t, http.MethodPost, "/api/purchases", body, "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(data), "UNKNOWN_PRODUCT")

	resp, _ = newEnv("", nil).do(t, http.MethodPost, "/api/purchases", `{"items":[]}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSales_PreviewYRegistro(t *testing.T) {
	env := newEnv("", nil)

	resp, data := env.do(t, http.MethodPost, "/api/sales/preview",
		`{"lines":[{"description":"A+B 各2盒","quantity":1,"unit_price":400}]}`, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "A+B 各2盒")

	order := `{"order_no":"O1","lines":[{"description":"A","quantity":1,"unit_price":100}]}`
	resp, _ = env.do(t, http.MethodPost, "/api/sales", order, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	env.sales.skipped = true
	resp, data = env.do(t, http.MethodPost, "/api/sales", order, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"skipped":true`)
}

func TestSales_ImportMultipart(t *testing.T) {
	env := newEnv("", nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "orders.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("订单编号,商品名称,数量,单价\nO1,A,1,100\nO1,B,2,50\nO2,C,1,10\n"))
	require.NoError(t, mw.WriteField("encoding", "utf-8"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/sales/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, env.sales.imported, 1)
	orders := env.sales.imported[0]
	require.Len(t, orders, 2)
	assert.Len(t, orders[0].Lines, 2)
}

func TestSales_ImportSinArchivo(t *testing.T) {
	resp, data := newEnv("", nil).do(t, http.MethodPost, "/api/sales/import", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(data), "MISSING_FILE")
}

func TestSales_DeleteAllRequiereAdmin(t *testing.T) {
	env := newEnv(testJWTSecret, nil)

	resp, _ := env.do(t, http.MethodDelete, "/api/sales/all", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/sales/all", "", tokenForRole(t, pkgjwt.RoleOperator))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, env.sales.deleted)

	resp, data := env.do(t, http.MethodDelete, "/api/sales/all", "", tokenForRole(t, pkgjwt.RoleAdmin))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, env.sales.deleted)
	assert.JSONEq(t, `{"deleted":3}`, string(data))
}

func TestSinJWT_APIAbierta(t *testing.T) {
	env := newEnv("", nil)
	resp, _ := env.do(t, http.MethodDelete, "/api/sales/all", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestInventory_StatsYReporte(t *testing.T) {
	env := newEnv("", nil)

	resp, data := env.do(t, http.MethodGet, "/api/inventory/stats", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"total_active_products":2,"total_inventory_value":"320"}`, string(data))

	resp, data = env.do(t, http.MethodGet, "/api/inventory/report.pdf", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inventario_20240301.pdf")
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRutaInexistente(t *testing.T) {
	resp, _ := newEnv("", nil).do(t, http.MethodGet, "/api/nada", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
