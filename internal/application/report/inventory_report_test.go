package report_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
	"github.com/jhoicas/reventa-inventario/internal/application/report"
	"github.com/jhoicas/reventa-inventario/internal/domain/entity"
	"github.com/jhoicas/reventa-inventario/internal/domain/repository"
)

type stubProducts struct {
	repository.ProductRepository
	items []*entity.Product
}

func (s *stubProducts) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	if offset >= len(s.items) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.items) {
		end = len(s.items)
	}
	return s.items[offset:end], nil
}

type stubSales struct {
	repository.SalesRepository
	summaries []repository.ProductSalesSummary
}

func (s *stubSales) SummaryByProduct(context.Context) ([]repository.ProductSalesSummary, error) {
	return s.summaries, nil
}

type stubGenerator struct {
	got *dto.InventoryReport
	err error
}

func (g *stubGenerator) GenerateInventoryReport(_ context.Context, r *dto.InventoryReport) ([]byte, error) {
	g.got = r
	return []byte("%PDF-1.4"), g.err
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newReportUC(gen *stubGenerator) *report.InventoryReportUseCase {
	products := &stubProducts{items: []*entity.Product{
		{ID: "p2", Name: "Mug", Quantity: -1, AvgCost: d("80")},
		{ID: "p1", Name: "Matcha", Quantity: 4, AvgCost: d("100")},
	}}
	sales := &stubSales{summaries: []repository.ProductSalesSummary{
		{ProductID: "p1", UnitsSold: 6, Revenue: d("900"), CostOfSales: d("600")},
	}}
	return report.NewInventoryReportUseCase(products, sales, gen)
}

func TestInventoryReport_Build(t *testing.T) {
	rep, err := newReportUC(&stubGenerator{}).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, rep.Lines, 2)

	matcha := rep.Lines[0]
	assert.Equal(t, "Matcha", matcha.Name)
	assert.True(t, matcha.InventoryValue.Equal(d("400")))
	assert.Equal(t, 6, matcha.UnitsSold)
	assert.True(t, matcha.GrossMargin.Equal(d("300")))
	assert.True(t, matcha.MarginPct.Equal(d("33.33")), matcha.MarginPct.String())

	mug := rep.Lines[1]
	assert.True(t, mug.MarginPct.IsZero())
	assert.True(t, mug.InventoryValue.Equal(d("-80")))

	assert.True(t, rep.TotalValue.Equal(d("320")))
	assert.True(t, rep.TotalMargin.Equal(d("300")))
	assert.Equal(t, 1, rep.OversoldCount)
}

func TestInventoryReport_DownloadPDF(t *testing.T) {
	gen := &stubGenerator{}
	pdf, filename, err := newReportUC(gen).DownloadPDF(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Regexp(t, `^inventario_\d{8}\.pdf$`, filename)
	require.NotNil(t, gen.got)
	assert.Len(t, gen.got.Lines, 2)

	_, _, err = newReportUC(&stubGenerator{err: errors.New("boom")}).DownloadPDF(context.Background())
	assert.Error(t, err)
}
