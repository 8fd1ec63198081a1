// Package sales agrega pedidos de Kaspi para los gráficos del panel:
// totales por día, fusión de páginas "cargar más" y deduplicación de productos.
// Son funciones puras sobre slices; no hacen I/O.
package sales

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

const dayLayout = "2006-01-02"

// DayTotal acumulado de un día.
type DayTotal struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary KPIs del período.
type Summary struct {
	TotalOrders   int             `json:"total_orders"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AverageCheck  decimal.Decimal `json:"average_check"`
	AveragePerDay decimal.Decimal `json:"average_per_day"`
	Days          int             `json:"days"`
}

// ProductSales ventas acumuladas de un producto (deduplicado por nombre).
type ProductSales struct {
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Quantity int             `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// dayKey normaliza la fecha a YYYY-MM-DD (acepta timestamps ISO completos).
func dayKey(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > len(dayLayout) {
		return s[:len(dayLayout)]
	}
	return s
}

// FromOrders convierte pedidos en filas diarias de un pedido cada una, en la zona loc.
func FromOrders(orders []entity.Order, loc *time.Location) []entity.SalesOrder {
	if loc == nil {
		loc = time.UTC
	}
	rows := make([]entity.SalesOrder, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, entity.SalesOrder{
			Date:   o.Date.In(loc).Format(dayLayout),
			Count:  1,
			Amount: o.Amount,
		})
	}
	return rows
}

// AggregateByDay suma cantidad y monto por día calendario.
func AggregateByDay(rows []entity.SalesOrder) map[string]DayTotal {
	out := make(map[string]DayTotal, len(rows))
	for _, r := range rows {
		key := dayKey(r.Date)
		if key == "" {
			continue
		}
		t := out[key]
		t.Count += r.Count
		t.Amount = t.Amount.Add(r.Amount)
		out[key] = t
	}
	return out
}

// Series ordena los totales por fecha ascendente. Si from y to no son cero,
// rellena con ceros los días sin ventas dentro del rango [from, to].
func Series(totals map[string]DayTotal, from, to time.Time) []entity.SalesOrder {
	if !from.IsZero() && !to.IsZero() && !to.Before(from) {
		var out []entity.SalesOrder
		start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			key := d.Format(dayLayout)
			t := totals[key]
			out = append(out, entity.SalesOrder{Date: key, Count: t.Count, Amount: t.Amount})
		}
		return out
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]entity.SalesOrder, 0, len(keys))
	for _, k := range keys {
		t := totals[k]
		out = append(out, entity.SalesOrder{Date: k, Count: t.Count, Amount: t.Amount})
	}
	return out
}

// Merge agrega la página "cargar más" a la inicial, descartando pedidos ya presentes (por ID).
// Pedidos sin ID se agregan siempre.
func Merge(initial, more []entity.Order) []entity.Order {
	seen := make(map[string]struct{}, len(initial))
	out := make([]entity.Order, 0, len(initial)+len(more))
	for _, o := range initial {
		if o.ID != "" {
			seen[o.ID] = struct{}{}
		}
		out = append(out, o)
	}
	for _, o := range more {
		if o.ID != "" {
			if _, dup := seen[o.ID]; dup {
				continue
			}
			seen[o.ID] = struct{}{}
		}
		out = append(out, o)
	}
	return out
}

// DedupeProductsByName agrupa las líneas de todos los pedidos por nombre de producto
// (sin distinguir mayúsculas ni espacios extremos). Gana el primer nombre visto;
// cantidades y montos se suman. Resultado ordenado por monto descendente.
func DedupeProductsByName(orders []entity.Order) []ProductSales {
	fold := cases.Fold()
	index := make(map[string]int)
	var out []ProductSales
	for _, o := range orders {
		for _, l := range o.Products {
			name := strings.TrimSpace(l.Name)
			if name == "" {
				continue
			}
			key := fold.String(strings.Join(strings.Fields(name), " "))
			qty := l.Quantity
			if qty <= 0 {
				qty = 1
			}
			amount := l.Price.Mul(decimal.NewFromInt(int64(qty)))
			if i, ok := index[key]; ok {
				out[i].Quantity += qty
				out[i].Amount = out[i].Amount.Add(amount)
				continue
			}
			index[key] = len(out)
			out = append(out, ProductSales{Name: name, SKU: l.SKU, Quantity: qty, Amount: amount})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

// Summarize calcula totales, ticket promedio y promedio diario (2 decimales).
func Summarize(totals map[string]DayTotal) Summary {
	var s Summary
	for _, t := range totals {
		s.TotalOrders += t.Count
		s.TotalAmount = s.TotalAmount.Add(t.Amount)
	}
	s.Days = len(totals)
	if s.TotalOrders > 0 {
		s.AverageCheck = s.TotalAmount.Div(decimal.NewFromInt(int64(s.TotalOrders))).Round(2)
	}
	if s.Days > 0 {
		s.AveragePerDay = s.TotalAmount.Div(decimal.NewFromInt(int64(s.Days))).Round(2)
	}
	return s
}
