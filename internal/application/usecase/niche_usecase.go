package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/domain"
)

// nicheVariants sufijos con los que se generan los nichos de una consulta.
var nicheVariants = []struct {
	suffix   string
	category string
}{
	{"", "Общее"},
	{"для дома", "Дом и сад"},
	{"детские", "Детские товары"},
	{"профессиональные", "Инструменты"},
	{"беспроводные", "Электроника"},
	{"набор", "Подарки"},
	{"мини", "Аксессуары"},
	{"премиум", "Красота и здоровье"},
}

// NicheUseCase búsqueda de nichos con métricas simuladas y deterministas por consulta.
type NicheUseCase struct{}

// NewNicheUseCase construye el caso de uso.
func NewNicheUseCase() *NicheUseCase {
	return &NicheUseCase{}
}

// Search genera hasta limit nichos (por defecto 8) ordenados por demanda descendente.
// La misma consulta produce siempre los mismos resultados.
func (uc *NicheUseCase) Search(_ context.Context, query string, limit int) (*dto.NicheSearchResponse, error) {
	q := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	if len([]rune(q)) < 2 || len([]rune(q)) > 100 {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > len(nicheVariants) {
		limit = len(nicheVariants)
	}

	title := cases.Title(language.Russian)
	results := make([]dto.NicheResult, 0, len(nicheVariants))
	for _, v := range nicheVariants {
		name := q
		if v.suffix != "" {
			name = q + " " + v.suffix
		}
		h := demoHash("niche", name)
		demand := 500 + int(h%49500)
		sellers := 1 + int((h>>16)%120)
		price := decimal.NewFromInt(int64(1500 + (h>>24)%148500)).Round(-2)

		competition := "low"
		switch {
		case sellers > 60:
			competition = "high"
		case sellers > 20:
			competition = "medium"
		}
		results = append(results, dto.NicheResult{
			Name:        title.String(name),
			Category:    v.category,
			Demand:      demand,
			Competition: competition,
			Sellers:     sellers,
			AvgPrice:    price,
			Score:       nicheScore(demand, sellers),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Demand > results[j].Demand
	})
	return &dto.NicheSearchResponse{Query: q, Results: results[:limit], Mocked: true}, nil
}

// nicheScore 0..100: demanda alta y pocos vendedores puntúan más.
func nicheScore(demand, sellers int) int {
	perSeller := demand / sellers
	score := perSeller / 50
	if score > 100 {
		score = 100
	}
	return score
}
