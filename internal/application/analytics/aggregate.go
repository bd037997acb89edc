package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// summarize totales de pedidos completados. El costo sale de las líneas (costo del producto al vender).
func summarize(orders []*entity.Order, period dto.Period) dto.SalesSummaryDTO {
	s := dto.SalesSummaryDTO{
		Period:            period,
		TotalSales:        decimal.Zero,
		TotalDiscounts:    decimal.Zero,
		TotalCost:         decimal.Zero,
		GrossProfit:       decimal.Zero,
		MarginPercent:     decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}
	for _, o := range orders {
		s.OrderCount++
		s.TotalSales = s.TotalSales.Add(o.TotalAmount)
		s.TotalDiscounts = s.TotalDiscounts.Add(o.DiscountAmount)
		for _, it := range o.Items {
			s.ItemsSold += it.Quantity
			s.TotalCost = s.TotalCost.Add(it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	s.TotalSales = s.TotalSales.Round(2)
	s.TotalCost = s.TotalCost.Round(2)
	s.GrossProfit = s.TotalSales.Sub(s.TotalCost)
	if s.TotalSales.IsPositive() {
		s.MarginPercent = s.GrossProfit.Div(s.TotalSales).Mul(hundred).Round(2)
	}
	if s.OrderCount > 0 {
		s.AverageOrderValue = s.TotalSales.Div(decimal.NewFromInt(int64(s.OrderCount))).Round(2)
	}
	return s
}

// bestSellers top n productos por cantidad; empates por ingreso y luego nombre.
func bestSellers(orders []*entity.Order, n int) []dto.BestSellerDTO {
	byProduct := make(map[string]*dto.BestSellerDTO)
	for _, o := range orders {
		for _, it := range o.Items {
			b, ok := byProduct[it.ProductID]
			if !ok {
				b = &dto.BestSellerDTO{ProductID: it.ProductID, Name: it.ProductName, Category: it.Category, Revenue: decimal.Zero}
				byProduct[it.ProductID] = b
			}
			b.Quantity += it.Quantity
			b.Revenue = b.Revenue.Add(it.Subtotal)
		}
	}
	out := make([]dto.BestSellerDTO, 0, len(byProduct))
	for _, b := range byProduct {
		b.Revenue = b.Revenue.Round(2)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// paymentMethods ventas por método, de mayor a menor total.
func paymentMethods(orders []*entity.Order) []dto.PaymentMethodDTO {
	byMethod := make(map[string]*dto.PaymentMethodDTO)
	for _, o := range orders {
		p, ok := byMethod[o.PaymentMethod]
		if !ok {
			p = &dto.PaymentMethodDTO{Method: o.PaymentMethod, Total: decimal.Zero}
			byMethod[o.PaymentMethod] = p
		}
		p.Count++
		p.Total = p.Total.Add(o.TotalAmount)
	}
	out := make([]dto.PaymentMethodDTO, 0, len(byMethod))
	for _, p := range byMethod {
		p.Total = p.Total.Round(2)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// hourly 24 buckets en la zona loc.
func hourly(orders []*entity.Order, loc *time.Location) []dto.HourlySalesDTO {
	out := make([]dto.HourlySalesDTO, 24)
	for h := range out {
		out[h] = dto.HourlySalesDTO{Hour: h, Total: decimal.Zero}
	}
	for _, o := range orders {
		h := o.CreatedAt.In(loc).Hour()
		out[h].Orders++
		out[h].Total = out[h].Total.Add(o.TotalAmount)
	}
	return out
}

// monthly los últimos months meses hasta now, en orden cronológico, incluidos los meses sin ventas.
func monthly(orders []*entity.Order, loc *time.Location, now time.Time, months int) []dto.MonthlySalesDTO {
	now = now.In(loc)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -(months - 1), 0)
	out := make([]dto.MonthlySalesDTO, months)
	index := make(map[string]int, months)
	for i := range out {
		key := first.AddDate(0, i, 0).Format("2006-01")
		out[i] = dto.MonthlySalesDTO{Month: key, Total: decimal.Zero}
		index[key] = i
	}
	for _, o := range orders {
		if i, ok := index[o.CreatedAt.In(loc).Format("2006-01")]; ok {
			out[i].Orders++
			out[i].Total = out[i].Total.Add(o.TotalAmount)
		}
	}
	return out
}

// daily un registro por día de [from, to), incluidos los días sin ventas.
func daily(orders []*entity.Order, loc *time.Location, p dto.Period) []dto.DailySalesDTO {
	out := make([]dto.DailySalesDTO, 0)
	index := make(map[string]int)
	for day := p.From.In(loc); day.Before(p.To); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		index[key] = len(out)
		out = append(out, dto.DailySalesDTO{Day: key, Total: decimal.Zero})
	}
	for _, o := range orders {
		if i, ok := index[o.CreatedAt.In(loc).Format("2006-01-02")]; ok {
			out[i].Orders++
			out[i].Total = out[i].Total.Add(o.TotalAmount)
		}
	}
	return out
}

// categories desempeño por categoría, de mayor a menor ingreso.
func categories(orders []*entity.Order) []dto.CategoryPerformanceDTO {
	byCat := make(map[string]*dto.CategoryPerformanceDTO)
	for _, o := range orders {
		for _, it := range o.Items {
			c, ok := byCat[it.Category]
			if !ok {
				c = &dto.CategoryPerformanceDTO{Category: it.Category, Revenue: decimal.Zero, Cost: decimal.Zero}
				byCat[it.Category] = c
			}
			c.Quantity += it.Quantity
			c.Revenue = c.Revenue.Add(it.Subtotal)
			c.Cost = c.Cost.Add(it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	out := make([]dto.CategoryPerformanceDTO, 0, len(byCat))
	for _, c := range byCat {
		c.Revenue = c.Revenue.Round(2)
		c.Cost = c.Cost.Round(2)
		c.Profit = c.Revenue.Sub(c.Cost)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func transactionRows(orders []*entity.Order) []dto.TransactionRowDTO {
	out := make([]dto.TransactionRowDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.TransactionRowDTO{
			OrderID:       o.ID,
			OrderNumber:   o.OrderNumber,
			CreatedAt:     o.CreatedAt,
			CashierName:   o.CashierName,
			CustomerName:  o.CustomerName,
			PaymentMethod: o.PaymentMethod,
			ItemCount:     o.ItemCount(),
			Total:         o.TotalAmount,
		})
	}
	return out
}
