package handler

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

type StatsResponse struct {
	TotalAmount float64 `json:"totalAmount"`
	Count       int     `json:"count"`
}

type SeriesPointResponse struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type TopSellerResponse struct {
	ProductRef  string  `json:"productRef"`
	Name        string  `json:"name"`
	Image       string  `json:"image"`
	TotalSold   int     `json:"totalSold"`
	TotalAmount float64 `json:"totalAmount"`
}

type SaleResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId,omitempty"`
	Quantity  int       `json:"quantity"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateSaleRequest usa ponteiros para diferenciar campo ausente de zero
type CreateSaleRequest struct {
	ProductID string           `json:"productId"`
	Quantity  *int             `json:"quantity"`
	Amount    *decimal.Decimal `json:"amount"`
}

type SnapshotResponse struct {
	TakenAt    time.Time                `json:"takenAt"`
	Stats      map[string]StatsResponse `json:"stats"`
	TopSellers []TopSellerResponse      `json:"topSellers"`
}

func toStatsResponse(stats domain.SalesStats) StatsResponse {
	return StatsResponse{
		TotalAmount: utils.MoneyToFloat(stats.TotalAmount),
		Count:       stats.Count,
	}
}

func toSeriesResponse(points []domain.SeriesPoint) []SeriesPointResponse {
	response := make([]SeriesPointResponse, 0, len(points))
	for _, p := range points {
		response = append(response, SeriesPointResponse{Label: p.Label, Value: utils.MoneyToFloat(p.Value)})
	}
	return response
}

func toTopSellersResponse(entries []domain.TopSeller) []TopSellerResponse {
	response := make([]TopSellerResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, TopSellerResponse{
			ProductRef:  e.ProductRef,
			Name:        e.Name,
			Image:       e.Image,
			TotalSold:   e.TotalSold,
			TotalAmount: utils.MoneyToFloat(e.TotalAmount),
		})
	}
	return response
}

func toSaleResponse(sale *domain.Sale) SaleResponse {
	return SaleResponse{
		ID:        sale.ID,
		ProductID: sale.ProductRef,
		Quantity:  sale.Quantity,
		Amount:    utils.MoneyToFloat(sale.Amount),
		CreatedAt: sale.CreatedAt,
	}
}

func toSnapshotResponse(snapshot *domain.SalesSnapshot) *SnapshotResponse {
	if snapshot == nil {
		return nil
	}

	stats := make(map[string]StatsResponse, len(snapshot.Stats))
	for tag, s := range snapshot.Stats {
		stats[string(tag)] = toStatsResponse(s)
	}

	return &SnapshotResponse{
		TakenAt:    snapshot.TakenAt,
		Stats:      stats,
		TopSellers: toTopSellersResponse(snapshot.TopSellers),
	}
}
