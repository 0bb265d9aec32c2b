package config

import (
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

type LedgerConfig struct {
	Env        string `yaml:"env" env:"LEDGER_ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	GRPCServer `yaml:"grpc_server"`
	OrderDB    `yaml:"order_db"`
	LogConfig  `yaml:"log_config"`
	Ledger     `yaml:"ledger"`
	Kafka      `yaml:"kafka"`
	Sheets     `yaml:"sheets"`
	Analytics  `yaml:"analytics"`
}

type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"9090"`
}

type OrderDB struct {
	Driver         string `yaml:"driver" env:"ORDER_DB_DRIVER" env-default:"postgres"`
	Dsn            string `yaml:"dsn" env:"ORDER_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"ORDER_DB_MIGRATIONS"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type Ledger struct {
	// FeeFactor is kept as a string so that 0.744 stays exact.
	FeeFactor       string `yaml:"fee_factor" env:"LEDGER_FEE_FACTOR" env-default:"0.744"`
	Currency        string `yaml:"currency" env:"LEDGER_CURRENCY" env-default:"SAR"`
	ForeignCurrency string `yaml:"foreign_currency" env:"LEDGER_FOREIGN_CURRENCY" env-default:"USD"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"procurement-order-events"`
}

type Sheets struct {
	SpreadsheetURL  string `yaml:"spreadsheet_url" env:"SHEETS_URL"`
	CredentialsFile string `yaml:"credentials_file" env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type Analytics struct {
	HeadersPath      string   `yaml:"headers_path" env:"ANALYTICS_HEADERS_PATH" env-default:"$.invoices[*]"`
	LinesPath        string   `yaml:"lines_path" env:"ANALYTICS_LINES_PATH" env-default:"$.lines[*]"`
	PurchaseKeywords []string `yaml:"purchase_keywords" env:"ANALYTICS_PURCHASE_KEYWORDS" env-separator:"," env-default:"purchase,مشتريات,شراء"`
	ReturnKeywords   []string `yaml:"return_keywords" env:"ANALYTICS_RETURN_KEYWORDS" env-separator:"," env-default:"return,مرتجع"`
}

// FeeFactorDecimal parses the configured fee factor.
func (l Ledger) FeeFactorDecimal() (decimal.Decimal, error) {
	f, err := decimal.NewFromString(l.FeeFactor)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid fee_factor %q: %w", l.FeeFactor, err)
	}
	if f.IsNegative() {
		return decimal.Zero, fmt.Errorf("fee_factor must not be negative, got %s", l.FeeFactor)
	}
	return f, nil
}

func MustLoad() *LedgerConfig {
	// Processing env config variable and file
	configPath := os.Getenv("LEDGER_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("LEDGER_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	return cfg
}

func Load(configPath string) (*LedgerConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	// YAML to struct object
	var cfg LedgerConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := cfg.Ledger.FeeFactorDecimal(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
