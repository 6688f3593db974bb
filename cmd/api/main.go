package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/mongodb"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/api"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/scheduler"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

// stores agrupa os repositórios do driver escolhido em DATABASE_DRIVER
type stores struct {
	sales   repository.SaleRepository
	catalog repository.ProductCatalog
	pinger  repository.Pinger
	close   func() error
}

func main() {
	chdirToSource()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db := openStores(ctx, cfg)
	defer db.close()

	reportingService := reporting.NewService(db.sales, db.catalog, cfg.App.Location, cfg.Reporting.TopSellersLimit)
	sellingService := selling.NewService(db.sales, cfg.Reporting.RecentSalesLimit)
	authenticator := authenticating.NewService(cfg.Auth)

	salesSnapshotService := scheduler.NewSalesSnapshotService(reportingService, cfg)
	if err := salesSnapshotService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de snapshot de vendas")
	} else {
		logrus.Info("Agendador de snapshot de vendas iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		reportingService,
		sellingService,
		authenticator,
		db.pinger,
		salesSnapshotService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// chdirToSource garante que o .env ao lado do binário em desenvolvimento seja encontrado
func chdirToSource() {
	_, file, _, _ := runtime.Caller(0)
	os.Chdir(path.Dir(file))
}

func openStores(ctx context.Context, cfg *config.Config) stores {
	switch cfg.Database.Driver {
	case config.DriverMongoDB:
		conn := mongoconn(ctx, cfg.MongoDB)
		return stores{
			sales:   repository.NewMongoSaleRepository(conn.Database()),
			catalog: repository.NewMongoProductCatalog(conn.Database()),
			pinger:  conn,
			close:   conn.Close,
		}
	default:
		conn := pgconn(ctx, cfg.Database)
		return stores{
			sales:   repository.NewSaleRepository(conn),
			catalog: repository.NewProductCatalog(conn),
			pinger:  conn,
			close:   conn.Close,
		}
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

func mongoconn(ctx context.Context, mongoConfig config.MongoDB) *mongodb.Connection {
	conn, err := mongodb.NewConnection(ctx, mongoConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao MongoDB")
	}

	logrus.WithField("database", mongoConfig.Database).Info("Conexão com MongoDB estabelecida com sucesso")
	return conn
}
