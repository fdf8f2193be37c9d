package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "RECALL_SCANNER_CONFIG"
	dataDirEnv       = "RECALL_SCANNER_DATA_DIR"
	chatGPTAPIKeyEnv = "CHATGPT_API_KEY"
	chatGPTModelEnv  = "CHATGPT_MODEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Data       DataConfig       `yaml:"data"`
	Feeds      FeedsConfig      `yaml:"feeds"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Classifier ClassifierConfig `yaml:"classifier"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DataConfig roots the raw, staged, and clean data directories.
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// FeedsConfig lists the upstream agency feed endpoints.
type FeedsConfig struct {
	FDARSSURL  string `yaml:"fdaRssUrl"`
	USDAAPIURL string `yaml:"usdaApiUrl"`
	USDARSSURL string `yaml:"usdaRssUrl"`
}

// FetchConfig describes how upstream documents are retrieved.
type FetchConfig struct {
	UserAgent        string `yaml:"userAgent"`
	TimeoutSeconds   int    `yaml:"timeoutSeconds"`
	PageDelaySeconds int    `yaml:"pageDelaySeconds"`
}

// Timeout resolves the per-request timeout.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// PageDelay resolves the mandatory gap between successive page fetches.
func (f FetchConfig) PageDelay() time.Duration {
	return time.Duration(f.PageDelaySeconds) * time.Second
}

// ClassifierConfig defines how to contact the classification oracle.
type ClassifierConfig struct {
	Endpoint          string `yaml:"endpoint"`
	Model             string `yaml:"model"`
	APIKey            string `yaml:"apiKey"`
	MaxAttempts       int    `yaml:"maxAttempts"`
	RetryDelaySeconds int    `yaml:"retryDelaySeconds"`
}

// RetryDelay resolves the fixed wait between classification attempts.
func (c ClassifierConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dataDirEnv); v != "" {
		c.Data.Dir = v
	}

	if v := os.Getenv(chatGPTAPIKeyEnv); v != "" {
		c.Classifier.APIKey = v
	}

	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.Classifier.Model = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Data.Dir != "" {
		base.Data.Dir = override.Data.Dir
	}

	if override.Feeds.FDARSSURL != "" {
		base.Feeds.FDARSSURL = override.Feeds.FDARSSURL
	}
	if override.Feeds.USDAAPIURL != "" {
		base.Feeds.USDAAPIURL = override.Feeds.USDAAPIURL
	}
	if override.Feeds.USDARSSURL != "" {
		base.Feeds.USDARSSURL = override.Feeds.USDARSSURL
	}

	if override.Fetch.UserAgent != "" {
		base.Fetch.UserAgent = override.Fetch.UserAgent
	}
	if override.Fetch.TimeoutSeconds > 0 {
		base.Fetch.TimeoutSeconds = override.Fetch.TimeoutSeconds
	}
	if override.Fetch.PageDelaySeconds > 0 {
		base.Fetch.PageDelaySeconds = override.Fetch.PageDelaySeconds
	}

	if override.Classifier.Endpoint != "" {
		base.Classifier.Endpoint = override.Classifier.Endpoint
	}
	if override.Classifier.Model != "" {
		base.Classifier.Model = override.Classifier.Model
	}
	if override.Classifier.APIKey != "" {
		base.Classifier.APIKey = override.Classifier.APIKey
	}
	if override.Classifier.MaxAttempts > 0 {
		base.Classifier.MaxAttempts = override.Classifier.MaxAttempts
	}
	if override.Classifier.RetryDelaySeconds > 0 {
		base.Classifier.RetryDelaySeconds = override.Classifier.RetryDelaySeconds
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Data:    DataConfig{Dir: "data"},
		Feeds: FeedsConfig{
			FDARSSURL:  "https://www.fda.gov/about-fda/contact-fda/stay-informed/rss-feeds/food-safety-recalls/rss.xml",
			USDAAPIURL: "https://www.fsis.usda.gov/fsis/api/recall/v/1",
			USDARSSURL: "https://www.fsis.usda.gov/fsis-content/rss/recalls.xml",
		},
		Fetch: FetchConfig{
			UserAgent:        "Mozilla/5.0 (X11; Linux x86_64; rv:132.0) Gecko/20100101 Firefox/132.0",
			TimeoutSeconds:   30,
			PageDelaySeconds: 1,
		},
		Classifier: ClassifierConfig{
			Endpoint:          "https://api.openai.com/v1/chat/completions",
			Model:             "gpt-4o-mini",
			APIKey:            "",
			MaxAttempts:       3,
			RetryDelaySeconds: 2,
		},
	}
}
