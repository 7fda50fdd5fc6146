package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Totarae/ResearchAggregator/internal/fanout"
)

// Режимы хранения журнала запусков.
const (
	ModeDatabase = "database"
	ModeSQLite   = "sqlite"
	ModeFile     = "file"
	ModeMemory   = "in-memory"
)

// Режимы поставщиков данных.
const (
	ProviderLive = "live"
	ProviderMock = "mock"
)

// Config хранит конфигурацию сервиса
type Config struct {
	ServerAddress   string `json:"server_address" yaml:"server_address"`
	GRPCAddress     string `json:"grpc_address" yaml:"grpc_address"`
	EnableHTTPS     bool   `json:"enable_https" yaml:"enable_https"`
	TLSCertPath     string `json:"tls_cert_path" yaml:"tls_cert_path"`
	TLSKeyPath      string `json:"tls_key_path" yaml:"tls_key_path"`
	DatabaseDSN     string `json:"database_dsn" yaml:"database_dsn"`
	SQLitePath      string `json:"sqlite_path" yaml:"sqlite_path"`
	FileStoragePath string `json:"file_storage_path" yaml:"file_storage_path"`
	TrustedSubnet   string `json:"trusted_subnet" yaml:"trusted_subnet"`
	AuthSecret      string `json:"auth_secret" yaml:"auth_secret"`
	NATSURL         string `json:"nats_url" yaml:"nats_url"`

	ProviderMode       string        `json:"provider_mode" yaml:"provider_mode"`
	OpenWeatherAPIKey  string        `json:"openweather_api_key" yaml:"openweather_api_key"`
	NewsAPIKey         string        `json:"news_api_key" yaml:"news_api_key"`
	ExchangeRateAPIKey string        `json:"exchange_rate_api_key" yaml:"exchange_rate_api_key"`
	WeatherBaseURL     string        `json:"weather_base_url" yaml:"weather_base_url"`
	NewsBaseURL        string        `json:"news_base_url" yaml:"news_base_url"`
	ExchangeBaseURL    string        `json:"exchange_base_url" yaml:"exchange_base_url"`
	DownstreamTimeout  time.Duration `json:"-" yaml:"-"`
	MockLatency        time.Duration `json:"-" yaml:"-"`
	AggregatePolicy    string        `json:"aggregate_policy" yaml:"aggregate_policy"`
	Debug              bool          `json:"debug" yaml:"debug"`

	Mode string `json:"-" yaml:"-"`
}

// Load собирает конфигурацию из окружения, .env, файла и аргументов командной строки.
// Приоритет: флаг > переменная окружения > файл > значение по умолчанию.
func Load(args []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	// Читаем .env, если есть (не переопределяет переменные окружения)
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	fs := flag.NewFlagSet("aggregator", flag.ContinueOnError)
	serverAddress := fs.String("a", "", "HTTP server address")
	grpcAddress := fs.String("g", "", "gRPC server address")
	fileStoragePath := fs.String("f", "", "file storage path (JSON lines)")
	databaseDSN := fs.String("d", "", "PostgreSQL DSN")
	sqlitePath := fs.String("l", "", "SQLite database path")
	enableHTTPS := fs.Bool("s", false, "enable HTTPS")
	tlsCertPath := fs.String("cert", "", "path to TLS certificate")
	tlsKeyPath := fs.String("key", "", "path to TLS key")
	trustedSubnet := fs.String("t", "", "trusted subnet in CIDR format")
	providerMode := fs.String("p", "", "provider mode: live or mock")
	policy := fs.String("policy", "", "aggregate policy: best-effort or all-or-nothing")
	configPath := fs.String("c", "", "path to JSON or YAML config file")
	fs.StringVar(configPath, "config", "", "path to JSON or YAML config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configPath == "" {
		*configPath = v.GetString("CONFIG")
	}
	fileCfg := &Config{}
	if *configPath != "" {
		if err := readFile(*configPath, fileCfg); err != nil {
			log.Printf("Не удалось прочитать файл конфигурации %q: %v", *configPath, err)
		}
	}

	cfg := &Config{
		ServerAddress:      pick(v, "SERVER_ADDRESS", fileCfg.ServerAddress),
		GRPCAddress:        pick(v, "GRPC_ADDRESS", fileCfg.GRPCAddress),
		TLSCertPath:        pick(v, "TLS_CERT_PATH", fileCfg.TLSCertPath),
		TLSKeyPath:         pick(v, "TLS_KEY_PATH", fileCfg.TLSKeyPath),
		DatabaseDSN:        pick(v, "DATABASE_DSN", fileCfg.DatabaseDSN),
		SQLitePath:         pick(v, "SQLITE_PATH", fileCfg.SQLitePath),
		FileStoragePath:    pick(v, "FILE_STORAGE_PATH", fileCfg.FileStoragePath),
		TrustedSubnet:      pick(v, "TRUSTED_SUBNET", fileCfg.TrustedSubnet),
		AuthSecret:         pick(v, "AUTH_SECRET", fileCfg.AuthSecret),
		NATSURL:            pick(v, "NATS_URL", fileCfg.NATSURL),
		ProviderMode:       pick(v, "PROVIDER_MODE", fileCfg.ProviderMode),
		OpenWeatherAPIKey:  pick(v, "OPENWEATHER_API_KEY", fileCfg.OpenWeatherAPIKey),
		NewsAPIKey:         pick(v, "NEWS_API_KEY", fileCfg.NewsAPIKey),
		ExchangeRateAPIKey: pick(v, "EXCHANGE_RATE_API_KEY", fileCfg.ExchangeRateAPIKey),
		WeatherBaseURL:     pick(v, "WEATHER_BASE_URL", fileCfg.WeatherBaseURL),
		NewsBaseURL:        pick(v, "NEWS_BASE_URL", fileCfg.NewsBaseURL),
		ExchangeBaseURL:    pick(v, "EXCHANGE_BASE_URL", fileCfg.ExchangeBaseURL),
		AggregatePolicy:    pick(v, "AGGREGATE_POLICY", fileCfg.AggregatePolicy),
		DownstreamTimeout:  v.GetDuration("DOWNSTREAM_TIMEOUT"),
		MockLatency:        v.GetDuration("MOCK_LATENCY"),
		EnableHTTPS:        v.GetBool("ENABLE_HTTPS") || fileCfg.EnableHTTPS,
		Debug:              v.GetBool("DEBUG") || fileCfg.Debug,
	}

	// Если флаг передан — он имеет высший приоритет
	override := func(flagVal string, target *string) {
		if flagVal != "" {
			*target = flagVal
		}
	}
	override(*serverAddress, &cfg.ServerAddress)
	override(*grpcAddress, &cfg.GRPCAddress)
	override(*fileStoragePath, &cfg.FileStoragePath)
	override(*databaseDSN, &cfg.DatabaseDSN)
	override(*sqlitePath, &cfg.SQLitePath)
	override(*tlsCertPath, &cfg.TLSCertPath)
	override(*tlsKeyPath, &cfg.TLSKeyPath)
	override(*trustedSubnet, &cfg.TrustedSubnet)
	override(*providerMode, &cfg.ProviderMode)
	override(*policy, &cfg.AggregatePolicy)
	if *enableHTTPS {
		cfg.EnableHTTPS = true
	}

	// Определяем режим хранения журнала
	switch {
	case cfg.DatabaseDSN != "":
		cfg.Mode = ModeDatabase
	case cfg.SQLitePath != "":
		cfg.Mode = ModeSQLite
	case cfg.FileStoragePath != "":
		cfg.Mode = ModeFile
	default:
		cfg.Mode = ModeMemory
	}
	cfg.ProviderMode = strings.ToLower(cfg.ProviderMode)

	log.Printf("Инициализация конфигурации: ServerAddress=%s GRPCAddress=%s", cfg.ServerAddress, cfg.GRPCAddress)
	log.Printf("Инициализация конфигурации: Mode=%s ProviderMode=%s Policy=%s", cfg.Mode, cfg.ProviderMode, cfg.AggregatePolicy)

	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_ADDRESS", "localhost:8080")
	v.SetDefault("GRPC_ADDRESS", "localhost:3200")
	v.SetDefault("FILE_STORAGE_PATH", "runs.json")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("SQLITE_PATH", "")
	v.SetDefault("ENABLE_HTTPS", false)
	v.SetDefault("TLS_CERT_PATH", "cert.pem")
	v.SetDefault("TLS_KEY_PATH", "key.pem")
	v.SetDefault("TRUSTED_SUBNET", "")
	v.SetDefault("AUTH_SECRET", "research-secret")
	v.SetDefault("PROVIDER_MODE", ProviderMock)
	v.SetDefault("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("NEWS_BASE_URL", "https://newsapi.org/v2")
	v.SetDefault("EXCHANGE_BASE_URL", "https://v6.exchangerate-api.com/v6")
	v.SetDefault("DOWNSTREAM_TIMEOUT", 10*time.Second)
	v.SetDefault("MOCK_LATENCY", 800*time.Millisecond)
	v.SetDefault("AGGREGATE_POLICY", fanout.BestEffort.String())
	v.SetDefault("DEBUG", false)
}

// pick берёт значение из окружения; если оно совпадает с умолчанием, а в файле
// задано своё, побеждает файл.
func pick(v *viper.Viper, key, fromFile string) string {
	val := v.GetString(key)
	if fromFile == "" {
		return val
	}
	if _, set := os.LookupEnv(key); set {
		return val
	}
	if v.InConfig(key) {
		return val
	}
	return fromFile
}

func readFile(path string, dst *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, dst)
	default:
		return json.Unmarshal(data, dst)
	}
}

// Policy возвращает разобранную политику агрегации.
func (cfg *Config) Policy() fanout.Policy {
	p, _ := fanout.ParsePolicy(cfg.AggregatePolicy)
	return p
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	if cfg.ServerAddress == "" {
		return fmt.Errorf("адрес сервера не может быть пустым")
	}
	if _, err := fanout.ParsePolicy(cfg.AggregatePolicy); err != nil {
		return err
	}
	if cfg.ProviderMode != ProviderLive && cfg.ProviderMode != ProviderMock {
		return fmt.Errorf("неизвестный режим поставщиков %q", cfg.ProviderMode)
	}
	if cfg.TrustedSubnet != "" {
		if _, _, err := net.ParseCIDR(cfg.TrustedSubnet); err != nil {
			return fmt.Errorf("некорректная доверенная подсеть: %w", err)
		}
	}
	if cfg.DownstreamTimeout <= 0 {
		return fmt.Errorf("таймаут внешних запросов должен быть положительным")
	}
	if cfg.EnableHTTPS && (cfg.TLSCertPath == "" || cfg.TLSKeyPath == "") {
		return fmt.Errorf("для HTTPS нужны пути к сертификату и ключу")
	}
	return nil
}

// Configured сообщает, для каких внешних API заданы ключи.
func (cfg *Config) Configured() map[string]bool {
	return map[string]bool{
		"weather":       cfg.OpenWeatherAPIKey != "",
		"news":          cfg.NewsAPIKey != "",
		"exchange_rate": cfg.ExchangeRateAPIKey != "",
	}
}
