package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	dashboardCacheKey = "dashboard:stats"
	dashboardCacheTTL = time.Minute
)

type DashboardStats struct {
	TodaySalesTotal   decimal.Decimal `json:"today_sales_total"`
	TodaySalesCount   int             `json:"today_sales_count"`
	ProductCount      int             `json:"product_count"`
	LowStockCount     int             `json:"low_stock_count"`
	OutstandingCredit decimal.Decimal `json:"outstanding_credit"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	saleSvc  SaleService
	cache    *redis.Client
}

func NewDashboardService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	saleSvc SaleService,
	cache *redis.Client,
) DashboardService {
	return &dashboardService{sales: sales, products: products, saleSvc: saleSvc, cache: cache}
}

// Stats serves from the Redis cache when fresh; a cache outage degrades to a
// direct computation instead of failing the request.
func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var cached DashboardStats
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}
	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("dashboard cache write failed")
			}
		}
	}
	return stats, nil
}

func (s *dashboardService) compute(ctx context.Context) (*DashboardStats, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	todaySales, err := s.sales.List(ctx, &startOfDay, &now, nil)
	if err != nil {
		return nil, err
	}
	todayTotal := decimal.Zero
	for _, sale := range todaySales {
		todayTotal = todayTotal.Add(sale.TotalAmount)
	}

	products, err := s.products.List(ctx, "", nil)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.products.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	balances, err := s.saleSvc.CustomerBalances(ctx)
	if err != nil {
		return nil, err
	}
	outstanding := decimal.Zero
	for _, b := range balances {
		outstanding = outstanding.Add(b.Outstanding)
	}

	return &DashboardStats{
		TodaySalesTotal:   todayTotal,
		TodaySalesCount:   len(todaySales),
		ProductCount:      len(products),
		LowStockCount:     len(lowStock),
		OutstandingCredit: outstanding,
		GeneratedAt:       now,
	}, nil
}
