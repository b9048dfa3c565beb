package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/nocturnelux/storefront/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const topProductLimit = 5

// TopProduct is a product ranked by revenue.
type TopProduct struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Revenue   decimal.Decimal `json:"revenue"`
	UnitsSold int             `json:"unitsSold"`
}

// DaySales is one calendar day of sales.
type DaySales struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// Analytics is the admin dashboard summary.
type Analytics struct {
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalOrders    int             `json:"totalOrders"`
	TotalCustomers int             `json:"totalCustomers"`
	TopProducts    []TopProduct    `json:"topProducts"`
	Last7Days      []DaySales      `json:"last7Days"`
	OrdersByStatus map[string]int  `json:"ordersByStatus"`
}

// ComputeAnalytics scans every order, order item and product. Days are
// bucketed in now's location, ending with the day containing now.
func ComputeAnalytics(db *gorm.DB, now time.Time) (*Analytics, error) {
	var orders []models.Order
	if err := db.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	var items []models.OrderItem
	if err := db.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	var products []models.Product
	if err := db.Select("id", "name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return summarize(orders, items, products, now), nil
}

func summarize(orders []models.Order, items []models.OrderItem, products []models.Product, now time.Time) *Analytics {
	out := &Analytics{
		TotalRevenue:   decimal.Zero,
		TotalOrders:    len(orders),
		TopProducts:    []TopProduct{},
		OrdersByStatus: map[string]int{},
	}
	for _, s := range []string{
		models.OrderStatusPending, models.OrderStatusProcessing, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled,
	} {
		out.OrdersByStatus[s] = 0
	}

	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	days := make(map[string]*DaySales, 7)
	for i := 6; i >= 0; i-- {
		key := today.AddDate(0, 0, -i).Format("2006-01-02")
		out.Last7Days = append(out.Last7Days, DaySales{Date: key, Revenue: decimal.Zero})
	}
	for i := range out.Last7Days {
		days[out.Last7Days[i].Date] = &out.Last7Days[i]
	}

	customers := make(map[string]struct{})
	for _, o := range orders {
		out.TotalRevenue = out.TotalRevenue.Add(o.Total)
		customers[o.UserID] = struct{}{}
		out.OrdersByStatus[o.Status]++
		if d, ok := days[o.CreatedAt.In(loc).Format("2006-01-02")]; ok {
			d.Revenue = d.Revenue.Add(o.Total)
			d.Orders++
		}
	}
	out.TotalCustomers = len(customers)

	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	byProduct := make(map[string]*TopProduct)
	for _, it := range items {
		tp, ok := byProduct[it.ProductID]
		if !ok {
			name, found := names[it.ProductID]
			if !found {
				name = it.ProductName
			}
			tp = &TopProduct{ProductID: it.ProductID, Name: name, Revenue: decimal.Zero}
			byProduct[it.ProductID] = tp
		}
		tp.Revenue = tp.Revenue.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		tp.UnitsSold += it.Quantity
	}
	for _, tp := range byProduct {
		out.TopProducts = append(out.TopProducts, *tp)
	}
	sort.Slice(out.TopProducts, func(i, j int) bool {
		a, b := out.TopProducts[i], out.TopProducts[j]
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.Name < b.Name
	})
	if len(out.TopProducts) > topProductLimit {
		out.TopProducts = out.TopProducts[:topProductLimit]
	}
	return out
}
