// package config holds the operator-supplied settings for the bot. Values are
// read once at startup from the environment (optionally seeded from a .env
// file) and stay fixed for the process lifetime.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration.
type Config struct {
	// Terror Zone rotation API.
	APIURL    string
	CachePath string

	// OCR vision endpoint (chat-completion shaped).
	OCRAPIURL string
	OCRAPIKey string
	OCRModel  string

	// Appraisal LLM endpoint (chat-completion shaped).
	AIAPIURL string
	AIAPIKey string
	AIModel  string

	// MockMode short-circuits the OCR and AI calls with canned replies.
	MockMode bool
	// TestMode treats the command's text argument as OCR output directly.
	TestMode bool

	// OneBot transport.
	GroupID        int64
	AuthToken      string
	SendMessageURL string
	OneBotAPIURL   string
	ListenAddr     string

	// AnnounceInterval is how often the rotation is posted to the group
	// unprompted. Zero disables the announcer.
	AnnounceInterval time.Duration

	LogLevel string
}

const (
	defaultAPIURL       = "https://www.d2emu.com/api/v1/tz"
	defaultCachePath    = "tz_cache.json"
	defaultOCRAPIURL    = "https://open.bigmodel.cn/api/paas/v4"
	defaultOCRModel     = "glm-4v-flash"
	defaultAIAPIURL     = "https://open.bigmodel.cn/api/paas/v4"
	defaultAIModel      = "glm-4-flash"
	defaultOneBotAPIURL = "http://127.0.0.1:5700"
	defaultListenAddr   = ":5701"
)

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables
// win over it.
func Load() (*Config, error) {
	// best effort, running without a .env file is fine
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:         envOr("D2RTZ_API_URL", defaultAPIURL),
		CachePath:      envOr("D2RTZ_CACHE_PATH", defaultCachePath),
		OCRAPIURL:      envOr("D2RTZ_OCR_API_URL", defaultOCRAPIURL),
		OCRAPIKey:      os.Getenv("D2RTZ_OCR_API_KEY"),
		OCRModel:       envOr("D2RTZ_OCR_MODEL", defaultOCRModel),
		AIAPIURL:       envOr("D2RTZ_AI_API_URL", defaultAIAPIURL),
		AIAPIKey:       os.Getenv("D2RTZ_AI_API_KEY"),
		AIModel:        envOr("D2RTZ_AI_MODEL", defaultAIModel),
		AuthToken:      os.Getenv("D2RTZ_AUTH_TOKEN"),
		SendMessageURL: os.Getenv("D2RTZ_SEND_MESSAGE_URL"),
		OneBotAPIURL:   envOr("D2RTZ_ONEBOT_API_URL", defaultOneBotAPIURL),
		ListenAddr:     envOr("D2RTZ_LISTEN_ADDR", defaultListenAddr),
		LogLevel:       envOr("D2RTZ_LOG_LEVEL", "info"),
	}

	var err error
	cfg.MockMode, err = envBool("D2RTZ_MOCK_MODE")
	if err != nil {
		return nil, err
	}
	cfg.TestMode, err = envBool("D2RTZ_TEST_MODE")
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("D2RTZ_GROUP_ID"); v != "" {
		cfg.GroupID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid D2RTZ_GROUP_ID %q: %w", v, err)
		}
	}

	cfg.AnnounceInterval = time.Hour
	if v := os.Getenv("D2RTZ_ANNOUNCE_INTERVAL"); v != "" {
		cfg.AnnounceInterval, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid D2RTZ_ANNOUNCE_INTERVAL %q: %w", v, err)
		}
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}
