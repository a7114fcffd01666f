package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bazario-dev/marketplace-api/models"
	"github.com/bazario-dev/marketplace-api/policy"
	"github.com/bazario-dev/marketplace-api/store"
)

const maxOverviewDays = 365

// Overview is a date-range report with deltas against the preceding window
// of equal length.
type Overview struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	Revenue      float64 `json:"revenue"`
	OrderCount   int     `json:"order_count"`
	UnitsSold    int     `json:"units_sold"`
	RevenueDelta float64 `json:"revenue_delta_pct"`
	OrdersDelta  float64 `json:"orders_delta_pct"`
	UnitsDelta   float64 `json:"units_delta_pct"`

	Daily []DayBucket `json:"daily"`
}

// DayBucket is one day's totals; days without orders are zero-filled.
type DayBucket struct {
	Day        time.Time `json:"day"`
	Revenue    float64   `json:"revenue"`
	OrderCount int       `json:"order_count"`
	UnitsSold  int       `json:"units_sold"`
}

type AnalyticsService struct {
	store store.Store
	log   *logrus.Logger
	now   func() time.Time
}

func NewAnalyticsService(st store.Store, log *logrus.Logger) *AnalyticsService {
	return &AnalyticsService{store: st, log: log, now: time.Now}
}

// Overview reports the trailing N days. shopID 0 is the platform-wide view
// (staff only, enforced by the caller's routing); a nonzero shopID restricts
// every figure to that shop's order items and requires management rights.
func (s *AnalyticsService) Overview(ctx context.Context, actor policy.Actor, shopID uint, days int) (*Overview, error) {
	if days < 1 || days > maxOverviewDays {
		return nil, ErrInvalidRange
	}
	if shopID != 0 {
		shop, err := s.store.ShopByID(ctx, shopID)
		if err != nil {
			return nil, ErrShopNotFound
		}
		if !policy.CanManageShop(actor, shop) {
			return nil, ErrForbidden
		}
	} else if !actor.Role.IsStaff() {
		return nil, ErrForbidden
	}

	to := startOfDay(s.now()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -days)
	prevFrom := from.AddDate(0, 0, -days)

	orders, err := s.store.OrdersBetween(ctx, shopID, from, to)
	if err != nil {
		return nil, err
	}
	prev, err := s.store.OrdersBetween(ctx, shopID, prevFrom, from)
	if err != nil {
		return nil, err
	}

	revenue, count, units := aggregate(orders, shopID)
	prevRevenue, prevCount, prevUnits := aggregate(prev, shopID)

	return &Overview{
		From:         from,
		To:           to,
		Revenue:      revenue,
		OrderCount:   count,
		UnitsSold:    units,
		RevenueDelta: percentChange(revenue, prevRevenue),
		OrdersDelta:  percentChange(float64(count), float64(prevCount)),
		UnitsDelta:   percentChange(float64(units), float64(prevUnits)),
		Daily:        bucketByDay(orders, from, to, shopID),
	}, nil
}

// aggregate sums revenue, order count and units. Figures come from the
// frozen order items so a shop-scoped view counts only that shop's lines.
func aggregate(orders []models.Order, shopID uint) (revenue float64, count, units int) {
	for _, order := range orders {
		matched := false
		for _, item := range order.Items {
			if shopID != 0 && item.ShopID != shopID {
				continue
			}
			matched = true
			revenue += item.PriceAtPurchase * float64(item.Quantity)
			units += item.Quantity
		}
		if matched {
			count++
		}
	}
	return revenue, count, units
}

// bucketByDay splits [from, to) into day buckets, zero-filling gaps so the
// dashboard always gets a contiguous series.
func bucketByDay(orders []models.Order, from, to time.Time, shopID uint) []DayBucket {
	days := dayOrdinal(to) - dayOrdinal(from)
	if days < 1 {
		return nil
	}

	buckets := make([]DayBucket, days)
	for i := range buckets {
		buckets[i].Day = from.AddDate(0, 0, i)
	}

	for _, order := range orders {
		idx := dayOrdinal(order.CreatedAt) - dayOrdinal(from)
		if idx < 0 || idx >= days {
			continue
		}
		matched := false
		for _, item := range order.Items {
			if shopID != 0 && item.ShopID != shopID {
				continue
			}
			matched = true
			buckets[idx].Revenue += item.PriceAtPurchase * float64(item.Quantity)
			buckets[idx].UnitsSold += item.Quantity
		}
		if matched {
			buckets[idx].OrderCount++
		}
	}
	return buckets
}

// percentChange reports the delta vs the previous window. A zero base with
// any current value reads as a 100% gain.
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dayOrdinal counts calendar days, so bucket indices are immune to
// DST-shortened days in the server's location.
func dayOrdinal(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
