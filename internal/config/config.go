package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Upload UploadConfig
	Cache  CacheConfig
	Quota  QuotaConfig
	Parser ParserConfig
	Intake IntakeConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// DBConfig holds PostgreSQL connection settings for the candidate sink.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// UploadConfig holds upload limits and directory roots.
type UploadConfig struct {
	MaxFileSizeBytes  int64    `mapstructure:"max_file_size_bytes"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	UploadDir         string   `mapstructure:"upload_dir"`
	ResultsDir        string   `mapstructure:"results_dir"`
	TempDir           string   `mapstructure:"temp_dir"`
}

// CacheConfig holds scoring cache settings.
type CacheConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// SessionConfig holds vetting session retention settings.
type SessionConfig struct {
	Retention time.Duration `mapstructure:"retention"`
	Dir       string        `mapstructure:"dir"`
}

// ProviderLimits holds rate limits for one LLM provider.
type ProviderLimits struct {
	RPM int `mapstructure:"rpm"`
	RPD int `mapstructure:"rpd"`
	TPM int `mapstructure:"tpm"`
}

// QuotaConfig holds per-provider quota limits and the persistence path.
type QuotaConfig struct {
	StatePath string         `mapstructure:"state_path"`
	Gemini    ProviderLimits `mapstructure:"gemini"`
	OpenAI    ProviderLimits `mapstructure:"openai"`
}

// ParserProviderConfig holds settings for a single LLM provider client.
type ParserProviderConfig struct {
	APIKey       string  `mapstructure:"api_key"`
	DefaultModel string  `mapstructure:"default_model"`
	TimeoutSecs  int     `mapstructure:"timeout_secs"`
	InputCostPM  float64 `mapstructure:"input_cost_per_million"`
	OutputCostPM float64 `mapstructure:"output_cost_per_million"`
}

// Available reports whether credentials are configured for the provider.
func (p *ParserProviderConfig) Available() bool {
	return p.APIKey != ""
}

// ParserConfig holds LLM candidate extraction settings.
type ParserConfig struct {
	Gemini ParserProviderConfig `mapstructure:"gemini"`
	OpenAI ParserProviderConfig `mapstructure:"openai"`
}

// IntakeConfig holds orchestrator limits.
type IntakeConfig struct {
	MaxBatchFiles  int           `mapstructure:"max_batch_files"`
	Concurrency    int           `mapstructure:"concurrency"`
	ScanTimeout    time.Duration `mapstructure:"scan_timeout"`
	OCRPageTimeout time.Duration `mapstructure:"ocr_page_timeout"`
	Session        SessionConfig `mapstructure:"session"`
}

// Load reads configuration from environment variables with the TALENTVET_
// prefix. A handful of unprefixed variables (GEMINI_API_KEY, UPLOAD_DIR and
// friends) are honored as aliases for deployment compatibility.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TALENTVET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins",
		"http://localhost:3000,http://127.0.0.1:3000,http://localhost:3001,http://127.0.0.1:3001")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "talentvet")
	v.SetDefault("db.password", "talentvet_secret")
	v.SetDefault("db.name", "talentvet_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Upload defaults
	v.SetDefault("upload.max_file_size_bytes", int64(10<<20))
	v.SetDefault("upload.allowed_extensions", "pdf,docx,doc,txt")
	v.SetDefault("upload.upload_dir", "./uploads")
	v.SetDefault("upload.results_dir", "./results")
	v.SetDefault("upload.temp_dir", os.TempDir())

	// Cache defaults
	v.SetDefault("cache.ttl_minutes", 30)
	v.SetDefault("cache.max_entries", 100)

	// Quota defaults (Gemini free tier; OpenAI pay-as-you-go). The state path
	// defaults to a file under upload.results_dir when left empty.
	v.SetDefault("quota.state_path", "")
	v.SetDefault("quota.gemini.rpm", 15)
	v.SetDefault("quota.gemini.rpd", 1000)
	v.SetDefault("quota.gemini.tpm", 250000)
	v.SetDefault("quota.openai.rpm", 0)
	v.SetDefault("quota.openai.rpd", 0)
	v.SetDefault("quota.openai.tpm", 0)

	// Parser defaults
	v.SetDefault("parser.gemini.api_key", "")
	v.SetDefault("parser.gemini.default_model", "gemini-2.0-flash")
	v.SetDefault("parser.gemini.timeout_secs", 60)
	v.SetDefault("parser.openai.api_key", "")
	v.SetDefault("parser.openai.default_model", "gpt-4o-mini")
	v.SetDefault("parser.openai.timeout_secs", 60)
	v.SetDefault("parser.openai.input_cost_per_million", 0.15)
	v.SetDefault("parser.openai.output_cost_per_million", 0.60)

	// Intake defaults
	v.SetDefault("intake.max_batch_files", 50)
	v.SetDefault("intake.concurrency", 5)
	v.SetDefault("intake.scan_timeout", "120s")
	v.SetDefault("intake.ocr_page_timeout", "30s")
	v.SetDefault("intake.session.retention", "24h")
	v.SetDefault("intake.session.dir", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "TALENTVET_SERVER_PORT",
		"server.read_timeout":       "TALENTVET_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "TALENTVET_SERVER_WRITE_TIMEOUT",
		"server.environment":        "TALENTVET_SERVER_ENVIRONMENT",
		"server.allowed_origins":    "TALENTVET_SERVER_ALLOWED_ORIGINS",
		"db.host":                   "TALENTVET_DB_HOST",
		"db.port":                   "TALENTVET_DB_PORT",
		"db.user":                   "TALENTVET_DB_USER",
		"db.password":               "TALENTVET_DB_PASSWORD",
		"db.name":                   "TALENTVET_DB_NAME",
		"db.sslmode":                "TALENTVET_DB_SSLMODE",
		"db.max_open":               "TALENTVET_DB_MAX_OPEN",
		"db.max_idle":               "TALENTVET_DB_MAX_IDLE",
		"upload.max_file_size_bytes": "TALENTVET_UPLOAD_MAX_FILE_SIZE_BYTES",
		"upload.allowed_extensions":  "TALENTVET_UPLOAD_ALLOWED_EXTENSIONS",
		"upload.upload_dir":          "TALENTVET_UPLOAD_UPLOAD_DIR",
		"upload.results_dir":         "TALENTVET_UPLOAD_RESULTS_DIR",
		"upload.temp_dir":            "TALENTVET_UPLOAD_TEMP_DIR",
		"cache.ttl_minutes":          "TALENTVET_CACHE_TTL_MINUTES",
		"cache.max_entries":          "TALENTVET_CACHE_MAX_ENTRIES",
		"quota.state_path":           "TALENTVET_QUOTA_STATE_PATH",
		"quota.gemini.rpm":           "TALENTVET_QUOTA_GEMINI_RPM",
		"quota.gemini.rpd":           "TALENTVET_QUOTA_GEMINI_RPD",
		"quota.gemini.tpm":           "TALENTVET_QUOTA_GEMINI_TPM",
		"quota.openai.rpm":           "TALENTVET_QUOTA_OPENAI_RPM",
		"quota.openai.rpd":           "TALENTVET_QUOTA_OPENAI_RPD",
		"quota.openai.tpm":           "TALENTVET_QUOTA_OPENAI_TPM",
		"parser.gemini.api_key":       "TALENTVET_PARSER_GEMINI_API_KEY",
		"parser.gemini.default_model": "TALENTVET_PARSER_GEMINI_DEFAULT_MODEL",
		"parser.gemini.timeout_secs":  "TALENTVET_PARSER_GEMINI_TIMEOUT_SECS",
		"parser.openai.api_key":       "TALENTVET_PARSER_OPENAI_API_KEY",
		"parser.openai.default_model": "TALENTVET_PARSER_OPENAI_DEFAULT_MODEL",
		"parser.openai.timeout_secs":  "TALENTVET_PARSER_OPENAI_TIMEOUT_SECS",
		"intake.max_batch_files":      "TALENTVET_INTAKE_MAX_BATCH_FILES",
		"intake.concurrency":          "TALENTVET_INTAKE_CONCURRENCY",
		"intake.scan_timeout":         "TALENTVET_INTAKE_SCAN_TIMEOUT",
		"intake.ocr_page_timeout":     "TALENTVET_INTAKE_OCR_PAGE_TIMEOUT",
		"intake.session.retention":    "TALENTVET_INTAKE_SESSION_RETENTION",
		"intake.session.dir":          "TALENTVET_INTAKE_SESSION_DIR",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	// Unprefixed aliases kept for deployment compatibility.
	aliases := map[string]string{
		"parser.gemini.api_key":      "GEMINI_API_KEY",
		"parser.openai.api_key":      "OPENAI_API_KEY",
		"upload.upload_dir":          "UPLOAD_DIR",
		"upload.results_dir":         "RESULTS_DIR",
		"upload.temp_dir":            "TEMP_DIR",
		"upload.max_file_size_bytes": "MAX_FILE_SIZE_BYTES",
		"upload.allowed_extensions":  "ALLOWED_EXTENSIONS",
		"cache.ttl_minutes":          "CACHE_TTL_MINUTES",
	}
	for key, env := range aliases {
		if val := os.Getenv(env); val != "" {
			v.Set(key, val)
		}
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TALENTVET_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TALENTVET_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	var origins []string
	for _, o := range strings.Split(v.GetString("server.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	cfg.Server = ServerConfig{
		Port:           serverPort,
		ReadTimeout:    v.GetDuration("server.read_timeout"),
		WriteTimeout:   v.GetDuration("server.write_timeout"),
		Environment:    v.GetString("server.environment"),
		AllowedOrigins: origins,
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}

	var exts []string
	for _, e := range strings.Split(v.GetString("upload.allowed_extensions"), ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			exts = append(exts, e)
		}
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeBytes:  v.GetInt64("upload.max_file_size_bytes"),
		AllowedExtensions: exts,
		UploadDir:         v.GetString("upload.upload_dir"),
		ResultsDir:        v.GetString("upload.results_dir"),
		TempDir:           v.GetString("upload.temp_dir"),
	}
	cfg.Cache = CacheConfig{
		TTL:        time.Duration(v.GetInt("cache.ttl_minutes")) * time.Minute,
		MaxEntries: v.GetInt("cache.max_entries"),
	}
	// Quota state and vetting sessions live under the results root unless an
	// explicit path is configured.
	statePath := v.GetString("quota.state_path")
	if statePath == "" {
		statePath = filepath.Join(cfg.Upload.ResultsDir, "quota_state.json")
	}
	sessionDir := v.GetString("intake.session.dir")
	if sessionDir == "" {
		sessionDir = filepath.Join(cfg.Upload.ResultsDir, "sessions")
	}

	cfg.Quota = QuotaConfig{
		StatePath: statePath,
		Gemini: ProviderLimits{
			RPM: v.GetInt("quota.gemini.rpm"),
			RPD: v.GetInt("quota.gemini.rpd"),
			TPM: v.GetInt("quota.gemini.tpm"),
		},
		OpenAI: ProviderLimits{
			RPM: v.GetInt("quota.openai.rpm"),
			RPD: v.GetInt("quota.openai.rpd"),
			TPM: v.GetInt("quota.openai.tpm"),
		},
	}
	cfg.Parser = ParserConfig{
		Gemini: ParserProviderConfig{
			APIKey:       v.GetString("parser.gemini.api_key"),
			DefaultModel: v.GetString("parser.gemini.default_model"),
			TimeoutSecs:  v.GetInt("parser.gemini.timeout_secs"),
		},
		OpenAI: ParserProviderConfig{
			APIKey:       v.GetString("parser.openai.api_key"),
			DefaultModel: v.GetString("parser.openai.default_model"),
			TimeoutSecs:  v.GetInt("parser.openai.timeout_secs"),
			InputCostPM:  v.GetFloat64("parser.openai.input_cost_per_million"),
			OutputCostPM: v.GetFloat64("parser.openai.output_cost_per_million"),
		},
	}
	cfg.Intake = IntakeConfig{
		MaxBatchFiles:  v.GetInt("intake.max_batch_files"),
		Concurrency:    v.GetInt("intake.concurrency"),
		ScanTimeout:    v.GetDuration("intake.scan_timeout"),
		OCRPageTimeout: v.GetDuration("intake.ocr_page_timeout"),
		Session: SessionConfig{
			Retention: v.GetDuration("intake.session.retention"),
			Dir:       sessionDir,
		},
	}

	return cfg, nil
}
