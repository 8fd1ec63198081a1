package usecase

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

// Datos de demostración deterministas: el mismo store id produce siempre los mismos datos.

var demoCatalog = []struct {
	name, brand, category string
	price                 int64
}{
	{"Смартфон Samsung Galaxy A54 128GB", "Samsung", "Смартфоны", 189990},
	{"Наушники Apple AirPods Pro 2", "Apple", "Аудио", 119990},
	{"Робот-пылесос Xiaomi Robot Vacuum S10", "Xiaomi", "Бытовая техника", 129990},
	{"Умные часы Huawei Watch GT 4", "Huawei", "Гаджеты", 99990},
	{"Электрочайник Tefal KO6931", "Tefal", "Кухня", 24990},
	{"Фен Dyson Supersonic HD07", "Dyson", "Красота", 289990},
	{"Кофемашина DeLonghi Magnifica S", "DeLonghi", "Кухня", 219990},
	{"Пауэрбанк Anker 20000 mAh", "Anker", "Аксессуары", 18990},
	{"Монитор LG 27GP850-B", "LG", "Компьютеры", 179990},
	{"Клавиатура Logitech MX Keys", "Logitech", "Компьютеры", 54990},
	{"Садовый шланг Gardena 20 м", "Gardena", "Сад", 15990},
	{"Набор кастрюль Tefal Duetto 10 пр.", "Tefal", "Кухня", 69990},
}

var demoSellers = []string{"TechnoMart", "AlmatyShop", "KZ Gadgets", "Sulpak Partner", "Astana Store"}

func demoHash(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

func demoProducts(storeID string, now time.Time) []*entity.Product {
	out := make([]*entity.Product, 0, len(demoCatalog))
	for i, c := range demoCatalog {
		h := demoHash(storeID, c.name)
		id := fmt.Sprintf("%s-p%02d", storeID, i+1)
		out = append(out, &entity.Product{
			ID:          id,
			StoreID:     storeID,
			KaspiID:     fmt.Sprintf("%d", 100000000+h%900000000),
			SKU:         fmt.Sprintf("DEMO-%03d", i+1),
			Name:        c.name,
			Brand:       c.brand,
			Category:    c.category,
			Price:       decimal.NewFromInt(c.price),
			BotActive:   h%3 != 0,
			MinProfit:   decimal.NewFromInt(c.price * 5 / 100),
			MaxProfit:   decimal.NewFromInt(c.price * 20 / 100),
			PickupPoint: "PP1",
			Available:   true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return out
}

func demoCompetitors(p *entity.Product, now time.Time) []*entity.Competitor {
	out := make([]*entity.Competitor, 0, 3)
	for i := 0; i < 3; i++ {
		h := demoHash(p.ID, demoSellers[i])
		delta := decimal.NewFromInt(int64(h%2000) - 1000)
		out = append(out, &entity.Competitor{
			ID:         fmt.Sprintf("%s-c%d", p.ID, i+1),
			ProductID:  p.ID,
			SellerName: demoSellers[(int(h%uint64(len(demoSellers)))+i)%len(demoSellers)],
			Price:      p.Price.Add(delta),
			Rating:     decimal.NewFromInt(int64(35+h%15)).Div(decimal.NewFromInt(10)),
			Delivery:   []string{"Завтра", "1-2 дня", "3-5 дней"}[i],
			UpdatedAt:  now,
		})
	}
	return out
}

// demoOrders pedidos simulados repartidos en los últimos days días (máximo maxOrders).
func demoOrders(storeID string, maxOrders, days int, now time.Time) []entity.Order {
	var out []entity.Order
	today := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
	for d := 0; d < days && len(out) < maxOrders; d++ {
		day := today.AddDate(0, 0, -d)
		perDay := int(demoHash(storeID, day.Format("2006-01-02")) % 6)
		for k := 0; k < perDay && len(out) < maxOrders; k++ {
			h := demoHash(storeID, day.Format("2006-01-02"), fmt.Sprint(k))
			idx := int(h % uint64(len(demoCatalog)))
			item := demoCatalog[idx]
			qty := int(h%2) + 1
			price := decimal.NewFromInt(item.price)
			out = append(out, entity.Order{
				ID:     fmt.Sprintf("demo-%s-%d", day.Format("20060102"), k),
				Code:   fmt.Sprintf("%d", 500000000+h%100000000),
				Date:   day.Add(time.Duration(k) * time.Hour),
				Amount: price.Mul(decimal.NewFromInt(int64(qty))),
				Status: "COMPLETED",
				Products: []entity.OrderLine{
					{Name: item.name, SKU: fmt.Sprintf("DEMO-%03d", idx+1), Quantity: qty, Price: price},
				},
			})
		}
	}
	return out
}
