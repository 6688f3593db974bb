package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/internal/scheduler"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

const (
	CronJobTypeSalesSnapshot = "sales-snapshot"
)

// CronJobServices contém os jobs que podem ser executados manualmente
type CronJobServices struct {
	SalesSnapshotService *scheduler.SalesSnapshotService
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeSalesSnapshot:
			if services.SalesSnapshotService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de snapshot de vendas não disponível", nil)
				return
			}
			if !services.SalesSnapshotService.TriggerManualSync() {
				apiErrors.WriteError(w, apiErrors.ErrJobAlreadyRunning, "Snapshot de vendas já está em execução", nil)
				return
			}
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: sales-snapshot", nil)
			return
		}

		logrus.WithField("type", cronType).Info("Cron job disparada manualmente")

		writeJSON(w, logger, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}

		if services.SalesSnapshotService != nil {
			s := services.SalesSnapshotService.GetStatus()
			status[CronJobTypeSalesSnapshot] = map[string]any{
				"sync_enabled":           s.SyncEnabled,
				"sync_cron":              s.SyncCron,
				"running":                s.Running,
				"last_sync_started_at":   s.LastSyncStartedAt,
				"last_sync_completed_at": s.LastSyncCompletedAt,
				"last_error":             s.LastError,
				"last_snapshot":          toSnapshotResponse(s.LastSnapshot),
			}
		}

		writeJSON(w, log.ForContext(r.Context()), http.StatusOK, status)
	}
}
