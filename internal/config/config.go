// Package config carga la configuración del servicio: YAML base con
// overrides por variables de entorno.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/chatgate/internal/security/secretbox"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Storage struct {
		Driver   string `yaml:"driver"` // postgres | memory
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MaxIdleConns    int    `yaml:"max_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Auth struct {
		// Secret compartido del deploy: firma sesiones y states, y
		// ofusca secrets de providers. Preferir el env AUTH_SECRET.
		Secret string `yaml:"secret"`

		// LoginURL destino de los redirects con ?error=<code>.
		LoginURL string `yaml:"login_url"`

		// SuccessURL destino del callback exitoso (recibe ?code=<one-shot>).
		SuccessURL string `yaml:"success_url"`

		// LandingURL destino final tras canjear el code por la cookie.
		LandingURL string `yaml:"landing_url"`

		// ResultCodeTTL vida del código one-shot de login.
		ResultCodeTTL time.Duration `yaml:"result_code_ttl"`
	} `yaml:"auth"`

	Providers struct {
		// CacheTTL del snapshot de providers activos.
		CacheTTL time.Duration `yaml:"cache_ttl"`

		// Static credenciales de entorno para providers builtin, usadas
		// como fallback cuando la base no responde.
		Static map[string]struct {
			ClientID     string `yaml:"client_id"`
			ClientSecret string `yaml:"client_secret"`
		} `yaml:"static"`
	} `yaml:"providers"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "chatgate"
	}
	if c.Auth.LoginURL == "" {
		c.Auth.LoginURL = "/login"
	}
	if c.Auth.SuccessURL == "" {
		c.Auth.SuccessURL = "/oauth-success"
	}
	if c.Auth.LandingURL == "" {
		c.Auth.LandingURL = "/chat"
	}
	if c.Auth.ResultCodeTTL == 0 {
		c.Auth.ResultCodeTTL = 5 * time.Minute
	}
	if c.Providers.CacheTTL == 0 {
		c.Providers.CacheTTL = 5 * time.Minute
	}

	// validate string durations
	if c.Storage.Postgres.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(c.Storage.Postgres.ConnMaxLifetime); err != nil {
			return nil, err
		}
	}

	c.applyEnvOverrides()

	// Sin secret configurado, firma y ofuscación caen a la misma clave de
	// dev. Validate lo rechaza en prod.
	if strings.TrimSpace(c.Auth.Secret) == "" {
		c.Auth.Secret = secretbox.DefaultKey
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// IsProd indica si corremos en producción.
func (c *Config) IsProd() bool { return strings.EqualFold(c.App.Env, "prod") }

// Validate chequeos duros que no tiene sentido diferir al runtime.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "pg":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("config: storage.dsn is required with driver %q", c.Storage.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Cache.Kind {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown cache kind %q", c.Cache.Kind)
	}

	// En prod el secret default (o ninguno) es inaceptable.
	if c.IsProd() {
		s := strings.TrimSpace(c.Auth.Secret)
		if s == "" || s == secretbox.DefaultKey {
			return fmt.Errorf("config: auth.secret (or AUTH_SECRET) is required in prod")
		}
	}
	return nil
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		if strings.TrimSpace(s) == "" {
			return []string{}, true
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	} else if v, ok := getEnvStr("DATABASE_URL"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_OPEN_CONNS"); ok {
		c.Storage.Postgres.MaxOpenConns = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_IDLE_CONNS"); ok {
		c.Storage.Postgres.MaxIdleConns = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("REDIS_HOST"); ok {
		c.Cache.Redis.Host = v
	}
	if v, ok := getEnvInt("REDIS_PORT"); ok {
		c.Cache.Redis.Port = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	// AUTH
	if v, ok := getEnvStr("AUTH_SECRET"); ok {
		c.Auth.Secret = v
	}
	if v, ok := getEnvStr("AUTH_LOGIN_URL"); ok {
		c.Auth.LoginURL = v
	}
	if v, ok := getEnvStr("AUTH_SUCCESS_URL"); ok {
		c.Auth.SuccessURL = v
	}
	if v, ok := getEnvStr("AUTH_LANDING_URL"); ok {
		c.Auth.LandingURL = v
	}
	if v, ok := getEnvDur("AUTH_RESULT_CODE_TTL"); ok {
		c.Auth.ResultCodeTTL = v
	}

	// PROVIDERS (fallback estático builtin: GITHUB_CLIENT_ID, etc.)
	if v, ok := getEnvDur("PROVIDERS_CACHE_TTL"); ok {
		c.Providers.CacheTTL = v
	}
	for _, name := range []string{"github", "google", "discord", "gitlab", "microsoft"} {
		prefix := strings.ToUpper(name)
		id, okID := getEnvStr(prefix + "_CLIENT_ID")
		secret, okSecret := getEnvStr(prefix + "_CLIENT_SECRET")
		if !okID && !okSecret {
			continue
		}
		if c.Providers.Static == nil {
			c.Providers.Static = map[string]struct {
				ClientID     string `yaml:"client_id"`
				ClientSecret string `yaml:"client_secret"`
			}{}
		}
		entry := c.Providers.Static[name]
		if okID {
			entry.ClientID = id
		}
		if okSecret {
			entry.ClientSecret = secret
		}
		c.Providers.Static[name] = entry
	}
}
