package config

import (
	"errors"
	"time"

	"gopkg.in/yaml.v3"

	infraconfig "github.com/jonesrussell/trendboard/infrastructure/config"
	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
	"github.com/jonesrussell/trendboard/internal/classifier"
	"github.com/jonesrussell/trendboard/internal/relevance"
	"github.com/jonesrussell/trendboard/internal/scheduler"
)

// Default configuration values.
const (
	defaultServiceName     = "trendboard"
	defaultServiceVersion  = "1.0.0"
	defaultServicePort     = 8090
	defaultDocumentsSource = SourceFile
	defaultDocumentsPath   = "data.json"
	defaultWatchDebounce   = 50 * time.Millisecond
	defaultCategorySource  = SourceBuiltin
	defaultCategorySet     = classifier.SetGifts
	defaultCategoriesPath  = "categories.yml"
	defaultDBHost          = "localhost"
	defaultDBPort          = 5432
	defaultDBUser          = "postgres"
	defaultDBName          = "trendboard"
	defaultDBSSLMode       = "disable"
	defaultESURL           = "http://localhost:9200"
	defaultESIndex         = "gifting_articles"
	defaultESLoadSize      = 1000
	defaultRedisAddress    = "localhost:6379"
	defaultRedisKeyPrefix  = "trendboard:memo"
	defaultRedisTTL        = 30 * time.Minute
	defaultExportRate      = 1.0
	defaultExportBurst     = 3
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	maxTrendScore          = 100
)

// Document and category source kinds.
const (
	SourceFile          = "file"
	SourceElasticsearch = "elasticsearch"
	SourceBuiltin       = "builtin"
	SourceDatabase      = "database"
)

// Config holds all configuration for trendboard.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Documents     DocumentsConfig     `yaml:"documents"`
	Categories    CategoriesConfig    `yaml:"categories"`
	Engine        EngineConfig        `yaml:"engine"`
	Database      DatabaseConfig      `yaml:"database"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Redis         RedisConfig         `yaml:"redis"`
	Export        ExportConfig        `yaml:"export"`
	Auth          AuthConfig          `yaml:"auth"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Port        int      `env:"TRENDBOARD_PORT"        yaml:"port"`
	Debug       bool     `env:"APP_DEBUG"              yaml:"debug"`
	CORSOrigins []string `env:"TRENDBOARD_CORS_ORIGINS" yaml:"cors_origins"`
}

// DocumentsConfig selects where articles are loaded from.
type DocumentsConfig struct {
	Source   string        `env:"DOCUMENTS_SOURCE" yaml:"source"`
	Path     string        `env:"DATA_PATH"        yaml:"path"`
	Watch    bool          `env:"DOCUMENTS_WATCH"  yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
	// ReloadSchedule is a cron expression for periodic reloads. Empty disables it.
	ReloadSchedule string `env:"DOCUMENTS_RELOAD_SCHEDULE" yaml:"reload_schedule"`
}

// CategoriesConfig selects where categories are loaded from.
type CategoriesConfig struct {
	Source string `env:"CATEGORIES_SOURCE" yaml:"source"`
	Set    string `yaml:"set"`
	Path   string `env:"CATEGORIES_PATH"   yaml:"path"`
}

// EngineConfig holds scoring weights and trend constants.
type EngineConfig struct {
	Weights relevance.Weights      `yaml:"weights"`
	Trend   classifier.TrendConfig `yaml:"trend"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_USER"     yaml:"user"`
	Password string `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
}

// ElasticsearchConfig holds Elasticsearch configuration.
type ElasticsearchConfig struct {
	URL      string `env:"ELASTICSEARCH_URL"      yaml:"url"`
	Username string `env:"ELASTICSEARCH_USERNAME" yaml:"username"`
	Password string `env:"ELASTICSEARCH_PASSWORD" yaml:"password"`
	Index    string `env:"ELASTICSEARCH_INDEX"    yaml:"index"`
	LoadSize int    `yaml:"load_size"`
}

// RedisConfig holds the memo cache configuration. The cache is off unless enabled.
type RedisConfig struct {
	Enabled   bool          `env:"REDIS_ENABLED"  yaml:"enabled"`
	Address   string        `env:"REDIS_ADDRESS"  yaml:"address"`
	Password  string        `env:"REDIS_PASSWORD" yaml:"password"`
	Database  int           `yaml:"database"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// AuthConfig protects administrative routes. An empty secret leaves them open.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

// ExportConfig limits workbook downloads.
type ExportConfig struct {
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `env:"LOG_LEVEL"  yaml:"level"`
	Format      string `env:"LOG_FORMAT" yaml:"format"`
	Development bool   `yaml:"development"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return infraconfig.LoadWithDefaults[Config](path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDocumentsDefaults(&cfg.Documents)
	setCategoriesDefaults(&cfg.Categories)
	setEngineDefaults(&cfg.Engine)
	setDatabaseDefaults(&cfg.Database)
	setElasticsearchDefaults(&cfg.Elasticsearch)
	setRedisDefaults(&cfg.Redis)
	setExportDefaults(&cfg.Export)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
}

func setDocumentsDefaults(d *DocumentsConfig) {
	if d.Source == "" {
		d.Source = defaultDocumentsSource
	}
	if d.Path == "" {
		d.Path = defaultDocumentsPath
	}
	if d.Debounce == 0 {
		d.Debounce = defaultWatchDebounce
	}
}

func setCategoriesDefaults(c *CategoriesConfig) {
	if c.Source == "" {
		c.Source = defaultCategorySource
	}
	if c.Set == "" {
		c.Set = defaultCategorySet
	}
	if c.Path == "" {
		c.Path = defaultCategoriesPath
	}
}

// defaultEngine returns the stock weights and trend constants.
func defaultEngine() EngineConfig {
	return EngineConfig{Weights: relevance.DefaultWeights(), Trend: classifier.DefaultTrendConfig()}
}

// UnmarshalYAML decodes over the defaults so omitted keys keep their stock
// value while an explicit zero is preserved.
func (e *EngineConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain EngineConfig
	decoded := plain(defaultEngine())
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*e = EngineConfig(decoded)
	return nil
}

// setEngineDefaults covers a config without an engine section.
func setEngineDefaults(e *EngineConfig) {
	if *e == (EngineConfig{}) {
		*e = defaultEngine()
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
}

func setElasticsearchDefaults(e *ElasticsearchConfig) {
	if e.URL == "" {
		e.URL = defaultESURL
	}
	if e.Index == "" {
		e.Index = defaultESIndex
	}
	if e.LoadSize == 0 {
		e.LoadSize = defaultESLoadSize
	}
}

func setRedisDefaults(r *RedisConfig) {
	if r.Address == "" {
		r.Address = defaultRedisAddress
	}
	if r.KeyPrefix == "" {
		r.KeyPrefix = defaultRedisKeyPrefix
	}
	if r.TTL == 0 {
		r.TTL = defaultRedisTTL
	}
}

func setExportDefaults(e *ExportConfig) {
	if e.RatePerSecond == 0 {
		e.RatePerSecond = defaultExportRate
	}
	if e.Burst == 0 {
		e.Burst = defaultExportBurst
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	errs := []error{
		infraconfig.ValidatePort("service.port", c.Service.Port),
		infraconfig.ValidateOneOf("documents.source", c.Documents.Source, SourceFile, SourceElasticsearch),
		infraconfig.ValidateOneOf("categories.source", c.Categories.Source, SourceBuiltin, SourceFile, SourceDatabase),
		infraconfig.ValidateOneOf("categories.set", c.Categories.Set,
			classifier.SetGifts, classifier.SetTrending, classifier.SetThemes),
		infraconfig.ValidateLogLevel(c.Logging.Level),
		infraconfig.ValidateOneOf("logging.format", c.Logging.Format, infralogger.FormatJSON, infralogger.FormatConsole),
	}
	if c.Documents.Source == SourceFile {
		errs = append(errs, infraconfig.ValidateRequired("documents.path", c.Documents.Path))
	}
	if c.Documents.ReloadSchedule != "" {
		if err := scheduler.Validate(c.Documents.ReloadSchedule); err != nil {
			errs = append(errs, &infraconfig.ValidationError{Field: "documents.reload_schedule", Message: err.Error()})
		}
	}
	errs = append(errs, c.Engine.validate()...)
	return errors.Join(errs...)
}

func (e *EngineConfig) validate() []error {
	var errs []error
	nonNegative := func(field string, v float64) {
		if v < 0 {
			errs = append(errs, &infraconfig.ValidationError{Field: field, Message: "must not be negative"})
		}
	}
	nonNegative("engine.weights.title", float64(e.Weights.Title))
	nonNegative("engine.weights.summary", float64(e.Weights.Summary))
	nonNegative("engine.weights.exact_tag", float64(e.Weights.ExactTag))
	nonNegative("engine.weights.partial_tag", float64(e.Weights.PartialTag))
	nonNegative("engine.trend.floor", e.Trend.Floor)
	nonNegative("engine.trend.share_weight", e.Trend.ShareWeight)
	nonNegative("engine.trend.count_weight", e.Trend.CountWeight)
	nonNegative("engine.trend.medium_threshold", float64(e.Trend.MediumThreshold))

	t := e.Trend
	if t.Floor > t.Cap {
		errs = append(errs, &infraconfig.ValidationError{Field: "engine.trend.floor", Message: "must not exceed cap"})
	}
	if t.Cap > maxTrendScore {
		errs = append(errs, &infraconfig.ValidationError{Field: "engine.trend.cap", Message: "must not exceed 100"})
	}
	if t.MediumThreshold > t.HighThreshold {
		errs = append(errs, &infraconfig.ValidationError{
			Field:   "engine.trend.medium_threshold",
			Message: "must not exceed high_threshold",
		})
	}
	if t.HighThreshold > maxTrendScore {
		errs = append(errs, &infraconfig.ValidationError{Field: "engine.trend.high_threshold", Message: "must not exceed 100"})
	}
	if t.SampleSize < 1 {
		errs = append(errs, &infraconfig.ValidationError{Field: "engine.trend.sample_size", Message: "must be positive"})
	}
	return errs
}
