package handler

import (
	"errors"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, logger log.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error("Erro ao enviar resposta")
	}
}

// writeReportError traduz os erros do reporting para o contrato da API
func writeReportError(w http.ResponseWriter, logger log.Logger, err error) {
	if errors.Is(err, reporting.ErrInvalidPeriod) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidPeriod, "Período inválido. Valores aceitos: day, week, month", nil)
		return
	}

	logger.WithError(err).Error("Erro ao consultar vendas")
	apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar vendas", nil)
}

// queryLimit lê o parâmetro limit. Ausente vira zero e o serviço aplica o padrão.
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}

	return strconv.Atoi(raw)
}
