package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

func periodParam(r *http.Request) domain.PeriodTag {
	return domain.PeriodTag(httprouter.ParamsFromContext(r.Context()).ByName("period"))
}

// GetSalesStats retorna total e quantidade de vendas do período
func GetSalesStats(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		period := periodParam(r)
		logger := log.ForContext(r.Context()).WithField("period", string(period))

		stats, err := service.Stats(r.Context(), period)
		if err != nil {
			writeReportError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, toStatsResponse(*stats))
	})
}

// GetSalesSeries retorna a série para o gráfico de tendência
func GetSalesSeries(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		period := periodParam(r)
		logger := log.ForContext(r.Context()).WithField("period", string(period))

		points, err := service.Series(r.Context(), period)
		if err != nil {
			writeReportError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, toSeriesResponse(points))
	})
}

func GetTopSellers(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		period := periodParam(r)
		logger := log.ForContext(r.Context()).WithField("period", string(period))

		limit, err := queryLimit(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit deve ser um número inteiro", nil)
			return
		}

		top, err := service.TopSellers(r.Context(), period, limit)
		if err != nil {
			writeReportError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, toTopSellersResponse(top))
	})
}

// CreateSale registra uma venda concluída no PDV
func CreateSale(service selling.Seller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req CreateSaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		if req.Quantity == nil || req.Amount == nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "quantity e amount são obrigatórios", nil)
			return
		}

		sale, err := service.Record(r.Context(), domain.NewSale{
			ProductRef: req.ProductID,
			Quantity:   *req.Quantity,
			Amount:     *req.Amount,
		})
		if err != nil {
			if errors.Is(err, selling.ErrInvalidSale) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
				return
			}

			logger.WithError(err).Error("Erro ao registrar venda")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao registrar venda", nil)
			return
		}

		writeJSON(w, logger, http.StatusCreated, toSaleResponse(sale))
	})
}

func ListSales(service selling.Seller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		limit, err := queryLimit(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit deve ser um número inteiro", nil)
			return
		}

		sales, err := service.ListRecent(r.Context(), limit)
		if err != nil {
			logger.WithError(err).Error("Erro ao listar vendas")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar vendas", nil)
			return
		}

		response := make([]SaleResponse, 0, len(sales))
		for _, sale := range sales {
			response = append(response, toSaleResponse(sale))
		}

		writeJSON(w, logger, http.StatusOK, response)
	})
}
