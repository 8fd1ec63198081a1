package kaspiapi

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

func (rp remoteProduct) toEntity(storeID string) entity.Product {
	available := true
	if rp.Available != nil {
		available = *rp.Available
	}
	kaspiID := rp.KaspiID
	if kaspiID == "" {
		kaspiID = rp.ID
	}
	return entity.Product{
		ID:          rp.ID,
		StoreID:     storeID,
		KaspiID:     kaspiID,
		SKU:         rp.SKU,
		Name:        rp.Name,
		Brand:       rp.Brand,
		Category:    rp.Category,
		ImageURL:    rp.ImageURL,
		Price:       numberToDecimal(rp.Price),
		BotActive:   rp.BotActive,
		MinProfit:   numberToDecimal(rp.MinProfit),
		MaxProfit:   numberToDecimal(rp.MaxProfit),
		PickupPoint: rp.PickupPoint,
		Available:   available,
	}
}

// numberToDecimal vacío o inválido = 0.
func numberToDecimal(n json.Number) decimal.Decimal {
	if n == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
