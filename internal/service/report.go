package service

import (
	"fmt"
	"sort"
	"time"

	"comanda/internal/models"
	"comanda/internal/repository"

	"github.com/shopspring/decimal"
)

type ChannelShare struct {
	Channel models.Channel  `json:"channel"`
	Revenue decimal.Decimal `json:"revenue"`
	Pct     decimal.Decimal `json:"pct"`
}

type ProductStat struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Units     int             `json:"units"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type CourierStat struct {
	CourierID      string          `json:"courier_id"`
	Name           string          `json:"name"`
	Delivered      int             `json:"delivered"`
	Revenue        decimal.Decimal `json:"revenue"`
	AvgDeliveryMin decimal.Decimal `json:"avg_delivery_min"`
}

type DayReport struct {
	Date      string           `json:"date"`
	ShiftType models.ShiftType `json:"shift_type,omitempty"`

	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int             `json:"order_count"`
	AvgTicket  decimal.Decimal `json:"avg_ticket"`

	CountsByStatus  map[models.OrderStatus]int `json:"counts_by_status"`
	CountsByChannel map[models.Channel]int     `json:"counts_by_channel"`

	RevenueByHour [24]decimal.Decimal `json:"revenue_by_hour"`
	ByChannel     []ChannelShare      `json:"by_channel"`
	TopProducts   []ProductStat       `json:"top_products"`
	Couriers      []CourierStat       `json:"couriers"`
}

// DailyReport aggregates one calendar day of orders in memory. Revenue-side
// figures consider delivered orders only; status/channel counts cover every
// order of the day. Read-only: owns no state.
func (s *Service) DailyReport(date string, shiftType models.ShiftType) (DayReport, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return DayReport{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	if shiftType != "" && !shiftType.Valid() {
		return DayReport{}, fmt.Errorf("%w: unknown shift type %q", ErrValidation, shiftType)
	}

	from := day
	to := day.AddDate(0, 0, 1)

	orders, err := s.repos.List(repository.OrderFilter{From: from, To: to})
	if err != nil {
		return DayReport{}, err
	}

	if shiftType != "" {
		shifts, err := s.repos.ListBetween(from, to)
		if err != nil {
			return DayReport{}, err
		}
		wanted := make(map[string]bool, len(shifts))
		for _, sh := range shifts {
			if sh.Type == shiftType {
				wanted[sh.ID] = true
			}
		}
		filtered := orders[:0]
		for _, o := range orders {
			if wanted[o.ShiftID] {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	rep := DayReport{
		Date:            date,
		ShiftType:       shiftType,
		Revenue:         decimal.Zero,
		AvgTicket:       decimal.Zero,
		CountsByStatus:  map[models.OrderStatus]int{},
		CountsByChannel: map[models.Channel]int{},
	}
	for i := range rep.RevenueByHour {
		rep.RevenueByHour[i] = decimal.Zero
	}

	channelRevenue := map[models.Channel]decimal.Decimal{}
	products := map[string]*ProductStat{}
	couriers := map[string]*CourierStat{}
	courierMinutes := map[string]decimal.Decimal{}

	for _, o := range orders {
		rep.CountsByStatus[o.Status]++
		rep.CountsByChannel[o.Channel]++

		if o.Status != models.StatusEntregado {
			continue
		}

		rep.OrderCount++
		rep.Revenue = rep.Revenue.Add(o.Total)
		rep.RevenueByHour[o.CreatedAt.Hour()] = rep.RevenueByHour[o.CreatedAt.Hour()].Add(o.Total)
		channelRevenue[o.Channel] = channelRevenue[o.Channel].Add(o.Total)

		for _, it := range o.Items {
			p, ok := products[it.ProductID]
			if !ok {
				p = &ProductStat{ProductID: it.ProductID, Name: it.Name, Revenue: decimal.Zero}
				products[it.ProductID] = p
			}
			p.Units += it.Quantity
			p.Revenue = p.Revenue.Add(it.Subtotal)
		}

		if o.Reparto != nil {
			c, ok := couriers[o.Reparto.CourierID]
			if !ok {
				c = &CourierStat{CourierID: o.Reparto.CourierID, Name: o.Reparto.CourierName, Revenue: decimal.Zero}
				couriers[o.Reparto.CourierID] = c
				courierMinutes[o.Reparto.CourierID] = decimal.Zero
			}
			c.Delivered++
			c.Revenue = c.Revenue.Add(o.Total)
			if o.Reparto.DeliveredAt != nil {
				mins := decimal.NewFromFloat(o.Reparto.DeliveredAt.Sub(o.Reparto.AssignedAt).Minutes())
				courierMinutes[o.Reparto.CourierID] = courierMinutes[o.Reparto.CourierID].Add(mins)
			}
		}
	}

	if rep.OrderCount > 0 {
		rep.AvgTicket = rep.Revenue.Div(decimal.NewFromInt(int64(rep.OrderCount))).Round(2)
	}

	for ch, rev := range channelRevenue {
		share := ChannelShare{Channel: ch, Revenue: rev, Pct: decimal.Zero}
		if rep.Revenue.IsPositive() {
			share.Pct = rev.Mul(hundred).Div(rep.Revenue).Round(2)
		}
		rep.ByChannel = append(rep.ByChannel, share)
	}
	sort.Slice(rep.ByChannel, func(i, j int) bool {
		if !rep.ByChannel[i].Revenue.Equal(rep.ByChannel[j].Revenue) {
			return rep.ByChannel[i].Revenue.GreaterThan(rep.ByChannel[j].Revenue)
		}
		return rep.ByChannel[i].Channel < rep.ByChannel[j].Channel
	})

	for _, p := range products {
		rep.TopProducts = append(rep.TopProducts, *p)
	}
	// Revenue descending, product id ascending on ties so the ranking is
	// deterministic.
	sort.Slice(rep.TopProducts, func(i, j int) bool {
		if !rep.TopProducts[i].Revenue.Equal(rep.TopProducts[j].Revenue) {
			return rep.TopProducts[i].Revenue.GreaterThan(rep.TopProducts[j].Revenue)
		}
		return rep.TopProducts[i].ProductID < rep.TopProducts[j].ProductID
	})

	for id, c := range couriers {
		if c.Delivered > 0 {
			c.AvgDeliveryMin = courierMinutes[id].Div(decimal.NewFromInt(int64(c.Delivered))).Round(1)
		} else {
			c.AvgDeliveryMin = decimal.Zero
		}
		rep.Couriers = append(rep.Couriers, *c)
	}
	sort.Slice(rep.Couriers, func(i, j int) bool {
		if rep.Couriers[i].Delivered != rep.Couriers[j].Delivered {
			return rep.Couriers[i].Delivered > rep.Couriers[j].Delivered
		}
		return rep.Couriers[i].CourierID < rep.Couriers[j].CourierID
	})

	return rep, nil
}
