package dto

import "github.com/shopspring/decimal"

// NicheResult métricas (simuladas) de un nicho de Kaspi.
type NicheResult struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Demand      int             `json:"demand"`      // búsquedas/mes
	Competition string          `json:"competition"` // low, medium, high
	Sellers     int             `json:"sellers"`
	AvgPrice    decimal.Decimal `json:"avg_price"`
	Score       int             `json:"score"` // 0..100
}

// NicheSearchResponse resultado de la búsqueda.
type NicheSearchResponse struct {
	Query   string        `json:"query"`
	Results []NicheResult `json:"results"`
	Mocked  bool          `json:"mocked"`
}
