package echomw

import (
	"fmt"

	"github.com/labstack/gommon/bytes"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"notes-converter/src/pkg/config"
)

// Config of the notes upload server.
type Config struct {
	// Interface and port notes-server binds to.
	Address string `json:"address,omitempty"`
	Port    int    `json:"port,omitempty"`
	// Per client IP: sustained uploads per second, and how many may arrive at once.
	MiddlewareRateLimit int `json:"middleware_rate_limit,omitempty"`
	MiddlewareBurst     int `json:"middleware_burst,omitempty"`
	// Largest accepted /api request body in echo notation ("10M", "512K").
	BodyLimit string `json:"body_limit,omitempty"`
	// Guard /api with the bearer token read from EnvBearerToken. /healthz stays open.
	RequireAuth bool `json:"require_auth,omitempty"`
}

// DefaultValueConfig listens on loopback without auth and allows a burst of
// 20 uploads per client.
func DefaultValueConfig() Config {
	return Config{
		Address:             "127.0.0.1",
		Port:                8401,
		MiddlewareRateLimit: 3,
		MiddlewareBurst:     20,
		BodyLimit:           "10M",
	}
}

// Cfg is what notes-server reads; defaults until InitializeConfig runs.
var Cfg Config = DefaultValueConfig()

/*
InitializeConfig takes the "echo-middleware" section of cfg/config.json.
Fields left out of the section keep their defaults; a nil section keeps
DefaultValueConfig as a whole.
*/
func InitializeConfig(localConfig *Config) {
	// If not provided - just use defaultConfig
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "echo-middleware", "not provided", "default echo-middleware config")
		return
	}

	defaultConfig := DefaultValueConfig() // Default values to replace some values with during config initialization

	// If local Config is provided - use it
	Cfg = *localConfig

	tl.ApplyDefaults(&Cfg, defaultConfig, func(field string, defVal any) {
		tl.Log(
			tl.Info, palette.Purple,
			"%s field is %s in %s configuration. Using default value: %v",
			field, "missing", config.GetPackageName(), tl.PrettyForStderr(defVal),
		)
	})

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "echo-middleware", "provided", "local echo-middleware config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}

// ListenAddress joins Address and Port for echo.Start.
func (c Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}

// Validate rejects a config the server cannot start with.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}
	if c.MiddlewareRateLimit < 1 || c.MiddlewareBurst < 1 {
		return fmt.Errorf("rate limit and burst must be positive, got %d/%d", c.MiddlewareRateLimit, c.MiddlewareBurst)
	}
	if _, err := bytes.Parse(c.BodyLimit); err != nil {
		return fmt.Errorf("body limit '%s': %w", c.BodyLimit, err)
	}
	return nil
}
