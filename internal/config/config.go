package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppPort string
	AppEnv  string

	DBDriver string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	PostgresHost    string
	PostgresPort    string
	PostgresDB      string
	PostgresUser    string
	PostgresPass    string
	PostgresSSLMode string

	SQLitePath string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	LogLevel  string
	LogFormat string
	LogOutput string

	Loan     LoanConfig
	Schedule ScheduleConfig
}

// LoanConfig holds the product rules applied at application time.
type LoanConfig struct {
	ProcessingFee      decimal.Decimal
	DefaultMonthlyRate decimal.Decimal // percent per month
}

type ScheduleConfig struct {
	BatchSize int
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", DriverMySQL)

	v.SetDefault("MYSQL_HOST", "mysql")
	v.SetDefault("MYSQL_PORT", "3306")
	v.SetDefault("MYSQL_DB", "coop")
	v.SetDefault("MYSQL_USER", "coop")
	v.SetDefault("MYSQL_PASS", "coop")

	v.SetDefault("POSTGRES_HOST", "postgres")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_DB", "coop")
	v.SetDefault("POSTGRES_USER", "coop")
	v.SetDefault("POSTGRES_PASS", "coop")
	v.SetDefault("POSTGRES_SSLMODE", "disable")

	v.SetDefault("SQLITE_PATH", "coop.db")

	v.SetDefault("REDIS_ADDR", "redis:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IDEMPOTENCY_TTL_SECONDS", 300)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_OUTPUT", "stdout")

	v.SetDefault("LOAN_PROCESSING_FEE", "300")
	v.SetDefault("LOAN_DEFAULT_MONTHLY_RATE", "1.0")
	v.SetDefault("SCHEDULE_BATCH_SIZE", 500)
	return v
}

// Load reads configuration from the environment, falling back to defaults.
// A malformed numeric env var keeps the default, matching the old getenv behaviour.
func Load() *Config {
	v := newViper()
	c := &Config{
		AppPort:  v.GetString("APP_PORT"),
		AppEnv:   v.GetString("APP_ENV"),
		DBDriver: strings.ToLower(v.GetString("DB_DRIVER")),

		MySQLHost: v.GetString("MYSQL_HOST"),
		MySQLPort: v.GetString("MYSQL_PORT"),
		MySQLDB:   v.GetString("MYSQL_DB"),
		MySQLUser: v.GetString("MYSQL_USER"),
		MySQLPass: v.GetString("MYSQL_PASS"),

		PostgresHost:    v.GetString("POSTGRES_HOST"),
		PostgresPort:    v.GetString("POSTGRES_PORT"),
		PostgresDB:      v.GetString("POSTGRES_DB"),
		PostgresUser:    v.GetString("POSTGRES_USER"),
		PostgresPass:    v.GetString("POSTGRES_PASS"),
		PostgresSSLMode: v.GetString("POSTGRES_SSLMODE"),

		SQLitePath: v.GetString("SQLITE_PATH"),

		RedisAddr:    v.GetString("REDIS_ADDR"),
		RedisDB:      v.GetInt("REDIS_DB"),
		IdempTTLSecs: v.GetInt("IDEMPOTENCY_TTL_SECONDS"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
		LogOutput: v.GetString("LOG_OUTPUT"),

		Schedule: ScheduleConfig{BatchSize: v.GetInt("SCHEDULE_BATCH_SIZE")},
	}
	if c.IdempTTLSecs <= 0 {
		c.IdempTTLSecs = 300
	}
	if c.Schedule.BatchSize <= 0 {
		c.Schedule.BatchSize = 500
	}
	c.Loan.ProcessingFee = decimalOr(v.GetString("LOAN_PROCESSING_FEE"), decimal.NewFromInt(300))
	c.Loan.DefaultMonthlyRate = decimalOr(v.GetString("LOAN_DEFAULT_MONTHLY_RATE"), decimal.NewFromInt(1))
	return c
}

func decimalOr(raw string, d decimal.Decimal) decimal.Decimal {
	if n, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil {
		return n
	}
	return d
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case DriverPostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDB == "" || c.PostgresUser == "" {
			return errors.New("missing Postgres config (POSTGRES_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.PostgresPort); err != nil {
			return fmt.Errorf("invalid POSTGRES_PORT %q: %w", c.PostgresPort, err)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.Loan.ProcessingFee.IsNegative() {
		return errors.New("LOAN_PROCESSING_FEE must not be negative")
	}
	if c.Loan.DefaultMonthlyRate.IsNegative() {
		return errors.New("LOAN_DEFAULT_MONTHLY_RATE must not be negative")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPass, c.PostgresDB, c.PostgresSSLMode)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case DriverPostgres:
		return c.PostgresDSN()
	case DriverSQLite:
		return c.SQLitePath
	default:
		return c.MySQLDSN()
	}
}
