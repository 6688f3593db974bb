// Package scheduler contém os jobs agendados da API
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/reporting"
	"golang.org/x/sync/errgroup"
)

const snapshotTimeout = 2 * time.Minute

var ErrSnapshotRunning = errors.New("snapshot de vendas já está em execução")

type SalesSnapshotConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// SalesSnapshotStatus é o estado exposto em /v1/cron/status
type SalesSnapshotStatus struct {
	SyncEnabled         bool
	SyncCron            string
	Running             bool
	LastSyncStartedAt   time.Time
	LastSyncCompletedAt time.Time
	LastError           string
	LastSnapshot        *domain.SalesSnapshot
}

type SalesSnapshotService struct {
	scheduler           *gocron.Scheduler
	reporter            reporting.Reporter
	config              SalesSnapshotConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastError           string
	lastSnapshot        *domain.SalesSnapshot
	now                 func() time.Time
}

func NewSalesSnapshotService(reporter reporting.Reporter, cfg *config.Config) *SalesSnapshotService {
	snapshotConfig := SalesSnapshotConfig{
		CronSchedule: cfg.SalesSnapshot.CronSchedule,
		SyncEnabled:  cfg.SalesSnapshot.Enabled,
	}

	location := cfg.App.Location
	if location == nil {
		location = time.UTC
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": snapshotConfig.CronSchedule,
		"timezone":      location.String(),
	}).Info("Configuração do agendador de snapshot de vendas carregada")

	return &SalesSnapshotService{
		scheduler: gocron.NewScheduler(location),
		reporter:  reporter,
		config:    snapshotConfig,
		now:       time.Now,
	}
}

func (s *SalesSnapshotService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Cron de snapshot de vendas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de snapshot de vendas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.TakeSnapshot(ctx); err != nil && !errors.Is(err, ErrSnapshotRunning) {
			logrus.WithError(err).Error("Erro no snapshot agendado de vendas")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar snapshot de vendas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de snapshot de vendas")
		s.scheduler.Stop()
	}()

	return nil
}

// TakeSnapshot calcula os relatórios dos três períodos e os mais vendidos do dia
func (s *SalesSnapshotService) TakeSnapshot(ctx context.Context) (*domain.SalesSnapshot, error) {
	if !s.begin() {
		logrus.Warn("Snapshot de vendas já está em execução")
		return nil, ErrSnapshotRunning
	}

	return s.run(ctx)
}

func (s *SalesSnapshotService) run(ctx context.Context) (*domain.SalesSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	snapshot, err := s.collect(ctx)
	s.finish(snapshot, err)
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields{"top_sellers": len(snapshot.TopSellers)}
	for tag, stats := range snapshot.Stats {
		fields[string(tag)+"_total"] = stats.TotalAmount.StringFixed(2)
		fields[string(tag)+"_count"] = stats.Count
	}
	logrus.WithFields(fields).Info("Snapshot de vendas concluído")

	return snapshot, nil
}

func (s *SalesSnapshotService) collect(ctx context.Context) (*domain.SalesSnapshot, error) {
	stats := make([]domain.SalesStats, len(domain.PeriodTags))
	var top []domain.TopSeller

	g, gctx := errgroup.WithContext(ctx)
	for i, tag := range domain.PeriodTags {
		g.Go(func() error {
			result, err := s.reporter.Stats(gctx, tag)
			if err != nil {
				return fmt.Errorf("erro ao calcular stats (%s): %w", tag, err)
			}
			stats[i] = *result
			return nil
		})
	}
	g.Go(func() error {
		result, err := s.reporter.TopSellers(gctx, domain.PeriodDay, reporting.MaxTopSellers)
		if err != nil {
			return fmt.Errorf("erro ao calcular mais vendidos: %w", err)
		}
		top = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot := &domain.SalesSnapshot{
		TakenAt:    s.now(),
		Stats:      make(map[domain.PeriodTag]domain.SalesStats, len(domain.PeriodTags)),
		TopSellers: top,
	}
	for i, tag := range domain.PeriodTags {
		snapshot.Stats[tag] = stats[i]
	}

	return snapshot, nil
}

func (s *SalesSnapshotService) begin() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}

	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	return true
}

func (s *SalesSnapshotService) finish(snapshot *domain.SalesSnapshot, err error) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.syncRunning = false
	s.lastSyncCompletedAt = s.now()
	if err != nil {
		s.lastError = err.Error()
		return
	}

	s.lastError = ""
	s.lastSnapshot = snapshot
}

// TriggerManualSync dispara o snapshot em background. Retorna false quando já existe um em execução.
func (s *SalesSnapshotService) TriggerManualSync() bool {
	if !s.begin() {
		logrus.Info("Snapshot de vendas já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando snapshot manual de vendas")
	go func() {
		if _, err := s.run(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro no snapshot manual de vendas")
		}
	}()

	return true
}

func (s *SalesSnapshotService) GetStatus() SalesSnapshotStatus {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return SalesSnapshotStatus{
		SyncEnabled:         s.config.SyncEnabled,
		SyncCron:            s.config.CronSchedule,
		Running:             s.syncRunning,
		LastSyncStartedAt:   s.lastSyncStartedAt,
		LastSyncCompletedAt: s.lastSyncCompletedAt,
		LastError:           s.lastError,
		LastSnapshot:        s.lastSnapshot,
	}
}
