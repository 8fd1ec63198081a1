package ports

import (
	"context"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
)

// SalesReportGenerator genera el PDF del reporte de ventas.
type SalesReportGenerator interface {
	GenerateSalesReport(ctx context.Context, storeName string, report *dto.SalesReport) ([]byte, error)
}

// PriceFeedBuilder construye el XML de lista de precios de Kaspi.
type PriceFeedBuilder interface {
	Build(in dto.PriceFeedInput) (xml []byte, etag string, err error)
}
