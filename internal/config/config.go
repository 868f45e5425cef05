package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/bytes"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when CONFIG_PATH is not set
const DefaultConfigPath = "configs/config.yaml"

// Store drivers
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Storage drivers
const (
	StorageLocal  = "local"
	StorageSpaces = "spaces"
)

// LogAdapterConfig describes a single logging adapter entry
type LogAdapterConfig struct {
	Name    string                 `yaml:"name"`
	Type    string                 `yaml:"type"`
	Enabled bool                   `yaml:"enabled"`
	Options map[string]interface{} `yaml:"options"`
}

// Config represents the application configuration
type Config struct {
	Server struct {
		Port            int           `yaml:"port" default:"8080"`
		Host            string        `yaml:"host" default:"0.0.0.0"`
		PublicURL       string        `yaml:"public_url"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout     time.Duration `yaml:"idle_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
		BodyLimit       string        `yaml:"body_limit" default:"1M"`
		UploadLimit     string        `yaml:"upload_limit" default:"25M"`
		RateLimit       struct {
			RequestsPerSecond float64 `yaml:"requests_per_second" default:"5"`
			Burst             int     `yaml:"burst" default:"20"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`

	Store struct {
		Driver      string `yaml:"driver" default:"memory"`
		DSN         string `yaml:"dsn"`
		SeedOnStart bool   `yaml:"seed_on_start" default:"false"`
	} `yaml:"store"`

	Storage struct {
		Driver    string        `yaml:"driver" default:"local"`
		UploadTTL time.Duration `yaml:"upload_ttl" default:"15m"`
		URLTTL    time.Duration `yaml:"url_ttl" default:"1h"`
		Local     struct {
			Dir string `yaml:"dir" default:"data/uploads"`
		} `yaml:"local"`
		Spaces struct {
			Endpoint        string `yaml:"endpoint"`
			CDNEndpoint     string `yaml:"cdn_endpoint"`
			AccessKeyID     string `yaml:"access_key_id"`
			AccessKeySecret string `yaml:"access_key_secret"`
			Region          string `yaml:"region" default:"blr1"`
			BucketName      string `yaml:"bucket_name"`
			Prefix          string `yaml:"prefix" default:"swcommons"`
		} `yaml:"spaces"`
	} `yaml:"storage"`

	Redis struct {
		Enabled  bool          `yaml:"enabled" default:"false"`
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
		Channel  string        `yaml:"channel" default:"swcommons:changes"`
	} `yaml:"redis"`

	Background struct {
		MaxWorkers      int           `yaml:"max_workers" default:"4"`
		MaxQueueSize    int           `yaml:"max_queue_size" default:"64"`
		TaskTimeout     time.Duration `yaml:"task_timeout" default:"2m"`
		CleanupInterval time.Duration `yaml:"cleanup_interval" default:"1h"`
		MaxTaskAge      time.Duration `yaml:"max_task_age" default:"24h"`
	} `yaml:"background"`

	Logging struct {
		Level    string             `yaml:"level" default:"info"`
		Format   string             `yaml:"format" default:"json"`
		Adapters []LogAdapterConfig `yaml:"adapters"`
	} `yaml:"logging"`

	Console struct {
		BaseURL        string        `yaml:"base_url" default:"http://localhost:8080"`
		StateFile      string        `yaml:"state_file"`
		RequestTimeout time.Duration `yaml:"request_timeout" default:"30s"`
	} `yaml:"console"`
}

var (
	bracedVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareVar   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	s = bracedVar.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})

	return bareVar.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[1:]); val != "" {
			return val
		}
		return match
	})
}

// Default returns a configuration populated with built-in defaults only
func Default() *Config {
	config := &Config{}

	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.ShutdownTimeout = 30 * time.Second
	config.Server.BodyLimit = "1M"
	config.Server.UploadLimit = "25M"
	config.Server.RateLimit.RequestsPerSecond = 5
	config.Server.RateLimit.Burst = 20

	config.Store.Driver = StoreMemory

	config.Storage.Driver = StorageLocal
	config.Storage.UploadTTL = 15 * time.Minute
	config.Storage.URLTTL = time.Hour
	config.Storage.Local.Dir = "data/uploads"
	config.Storage.Spaces.Region = "blr1"
	config.Storage.Spaces.Prefix = "swcommons"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.Timeout = 5 * time.Second
	config.Redis.Channel = "swcommons:changes"

	config.Background.MaxWorkers = 4
	config.Background.MaxQueueSize = 64
	config.Background.TaskTimeout = 2 * time.Minute
	config.Background.CleanupInterval = time.Hour
	config.Background.MaxTaskAge = 24 * time.Hour

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Console.BaseURL = "http://localhost:8080"
	config.Console.RequestTimeout = 30 * time.Second

	return config
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))
			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
			}
		}
	}

	config.loadFromEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// PathFromEnv returns CONFIG_PATH or the default config location
func PathFromEnv() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultConfigPath
}

// Validate checks driver names and required credentials
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLite, StorePostgres:
		if strings.TrimSpace(c.Store.DSN) == "" {
			return fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Storage.Driver {
	case StorageLocal:
		if strings.TrimSpace(c.Storage.Local.Dir) == "" {
			return fmt.Errorf("storage.local.dir is required")
		}
	case StorageSpaces:
		s := c.Storage.Spaces
		if s.AccessKeyID == "" || s.AccessKeySecret == "" || s.BucketName == "" || s.Endpoint == "" {
			return fmt.Errorf("storage.spaces requires endpoint, bucket_name, access_key_id and access_key_secret")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if _, err := bytes.Parse(c.Server.BodyLimit); err != nil {
		return fmt.Errorf("server.body_limit: %w", err)
	}
	if _, err := bytes.Parse(c.Server.UploadLimit); err != nil {
		return fmt.Errorf("server.upload_limit: %w", err)
	}
	return nil
}

// UploadLimitBytes is server.upload_limit in bytes, 0 when unset
func (c *Config) UploadLimitBytes() int64 {
	n, err := bytes.Parse(c.Server.UploadLimit)
	if err != nil {
		return 0
	}
	return n
}

// Address returns host:port for listeners
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// BaseURL is the externally reachable root used for upload and file URLs
func (c *Config) BaseURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	host := c.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Server.Port)
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if publicURL := os.Getenv("PUBLIC_URL"); publicURL != "" {
		c.Server.PublicURL = publicURL
	}

	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		c.Store.Driver = driver
	}

	if dsn := os.Getenv("STORE_DSN"); dsn != "" {
		c.Store.DSN = dsn
	}

	if seed := os.Getenv("STORE_SEED_ON_START"); seed != "" {
		if b, err := strconv.ParseBool(seed); err == nil {
			c.Store.SeedOnStart = b
		}
	}

	if driver := os.Getenv("STORAGE_DRIVER"); driver != "" {
		c.Storage.Driver = driver
	}

	if dir := os.Getenv("STORAGE_LOCAL_DIR"); dir != "" {
		c.Storage.Local.Dir = dir
	}

	if key := os.Getenv("SPACES_ACCESS_KEY_ID"); key != "" {
		c.Storage.Spaces.AccessKeyID = key
	}

	if secret := os.Getenv("SPACES_ACCESS_KEY_SECRET"); secret != "" {
		c.Storage.Spaces.AccessKeySecret = secret
	}

	if endpoint := os.Getenv("SPACES_ENDPOINT"); endpoint != "" {
		c.Storage.Spaces.Endpoint = endpoint
	}

	if bucket := os.Getenv("SPACES_BUCKET_NAME"); bucket != "" {
		c.Storage.Spaces.BucketName = bucket
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
		c.Redis.Enabled = true
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if baseURL := os.Getenv("SWCTL_BASE_URL"); baseURL != "" {
		c.Console.BaseURL = baseURL
	}

	if stateFile := os.Getenv("SWCTL_STATE_FILE"); stateFile != "" {
		c.Console.StateFile = stateFile
	}

	c.loadLoggingAdapterEnvVars()
}

// loadLoggingAdapterEnvVars loads environment variables for logging adapters
func (c *Config) loadLoggingAdapterEnvVars() {
	for i := range c.Logging.Adapters {
		adapter := &c.Logging.Adapters[i]

		switch adapter.Type {
		case "file":
			if path := os.Getenv("LOG_FILE_PATH"); path != "" {
				if adapter.Options == nil {
					adapter.Options = make(map[string]interface{})
				}
				adapter.Options["path"] = path
			}
		case "stdout":
			if colorized := os.Getenv("LOG_COLORIZED"); colorized != "" {
				if b, err := strconv.ParseBool(colorized); err == nil {
					if adapter.Options == nil {
						adapter.Options = make(map[string]interface{})
					}
					adapter.Options["colorized"] = b
				}
			}
		}
	}
}
