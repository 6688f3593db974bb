package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMongoDB  = "mongodb"
)

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
	MongoDB       MongoDB       `mapstructure:",squash"`
	Auth          Auth          `mapstructure:",squash"`
	Cors          Cors          `mapstructure:",squash"`
	Reporting     Reporting     `mapstructure:",squash"`
	SalesSnapshot SalesSnapshot `mapstructure:",squash"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type MongoDB struct {
	URI            string        `mapstructure:"mongodb_uri"`
	Database       string        `mapstructure:"mongodb_database"`
	ConnectTimeout time.Duration `mapstructure:"mongodb_connect_timeout"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Timezone string `mapstructure:"app_timezone"`
	// Location é resolvida a partir de Timezone em NewConfig
	Location *time.Location `mapstructure:"-"`
}

// Auth guarda o segredo usado para validar os tokens emitidos pelo serviço de login
type Auth struct {
	Enabled bool   `mapstructure:"auth_enabled"`
	Secret  string `mapstructure:"auth_secret"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Reporting struct {
	TopSellersLimit  int `mapstructure:"reporting_top_sellers_limit"`
	RecentSalesLimit int `mapstructure:"reporting_recent_sales_limit"`
}

type SalesSnapshot struct {
	CronSchedule string `mapstructure:"sales_snapshot_cron"`
	Enabled      bool   `mapstructure:"sales_snapshot_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 5175)

	viper.SetDefault("DATABASE_DRIVER", DriverPostgres)
	viper.SetDefault("DATABASE_URL", "localhost:5432/pos?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGODB_DATABASE", "pos")
	viper.SetDefault("MONGODB_CONNECT_TIMEOUT", "10s")

	viper.SetDefault("AUTH_ENABLED", true)
	viper.SetDefault("AUTH_SECRET", "")

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5175")

	viper.SetDefault("APP_TIMEZONE", "UTC")
	viper.SetDefault("REPORTING_TOP_SELLERS_LIMIT", 10)
	viper.SetDefault("REPORTING_RECENT_SALES_LIMIT", 100)

	// Snapshot diário das vendas, cinco minutos antes da meia-noite
	viper.SetDefault("SALES_SNAPSHOT_CRON", "55 23 * * *")
	viper.SetDefault("SALES_SNAPSHOT_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.resolve(); err != nil {
		return nil, err
	}

	return config, nil
}

// resolve preenche os campos derivados e valida as combinações obrigatórias
func (c *Config) resolve() error {
	location, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return fmt.Errorf("config: fuso horário inválido %q: %w", c.App.Timezone, err)
	}
	c.App.Location = location

	switch c.Database.Driver {
	case DriverPostgres:
		c.Database.DSN = fmt.Sprintf(
			"%s://%s:%s@%s",
			c.Database.Driver,
			c.Database.User,
			c.Database.Password,
			c.Database.URL,
		)
	case DriverMongoDB:
		if c.MongoDB.URI == "" || c.MongoDB.Database == "" {
			return fmt.Errorf("config: MONGODB_URI e MONGODB_DATABASE são obrigatórios para o driver %s", DriverMongoDB)
		}
	default:
		return fmt.Errorf("config: driver de banco de dados não suportado: %q", c.Database.Driver)
	}

	if c.Auth.Enabled && c.Auth.Secret == "" {
		return fmt.Errorf("config: AUTH_SECRET é obrigatório quando AUTH_ENABLED=true")
	}

	if c.Reporting.TopSellersLimit <= 0 {
		c.Reporting.TopSellersLimit = 10
	}
	if c.Reporting.RecentSalesLimit <= 0 {
		c.Reporting.RecentSalesLimit = 100
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
