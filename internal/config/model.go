// internal/config/model.go
//
// Typed configuration model for Viya Kaptan.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                        – dotenv values,
//   • `conf/global.yaml`                     – primary static file,
//   • `VIYA_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Both binaries share one file.  cmd/api ignores the web-only blocks
//     and cmd/web ignores `database` and `storage`.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	WebAddr    string `koanf:"web_addr"    validate:"required,hostname_port"`
	APIAddr    string `koanf:"api_addr"    validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database holds the MySQL DSN used by cmd/api.  Keep the password out of
// YAML by writing `dsn: vault:secret/viya#dsn`.
type Database struct {
	DSN     string `koanf:"dsn"`
	MaxOpen int    `koanf:"max_open" validate:"gte=0"`
	MaxIdle int    `koanf:"max_idle" validate:"gte=0"`
	Migrate bool   `koanf:"migrate"`
}

//
// API section
//

// API describes how cmd/web reaches cmd/api and which browser origins the
// JSON API accepts.
type API struct {
	BaseURL        string   `koanf:"base_url"        validate:"required,url"`
	AllowedOrigins []string `koanf:"allowed_origins"`
}

//
// Cache section
//

// Cache selects the collection cache used by the query layer.
type Cache struct {
	Driver   string        `koanf:"driver"    validate:"oneof=memory redis"`
	RedisURL string        `koanf:"redis_url" validate:"required_if=Driver redis"`
	TTL      time.Duration `koanf:"ttl"`
	Capacity int           `koanf:"capacity"  validate:"gte=0"`
}

//
// Storage section
//

// S3 mirrors the usual bucket options.  Endpoint is optional and switches
// the client to path-style addressing (MinIO, R2).
type S3 struct {
	Bucket          string `koanf:"bucket"`
	Region          string `koanf:"region"`
	Endpoint        string `koanf:"endpoint"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	PublicBaseURL   string `koanf:"public_base_url"`
}

// Storage selects where uploaded media bytes live.
type Storage struct {
	Driver        string `koanf:"driver"          validate:"oneof=disk s3"`
	Dir           string `koanf:"dir"             validate:"required_if=Driver disk"`
	PublicBaseURL string `koanf:"public_base_url"`
	S3            S3     `koanf:"s3"`
}

//
// Auth section
//

// Auth carries session signing and the external login portal settings.
type Auth struct {
	JWTSecret    string        `koanf:"jwt_secret"    validate:"required,min=16"`
	SessionTTL   time.Duration `koanf:"session_ttl"`
	PortalURL    string        `koanf:"portal_url"`
	AppID        string        `koanf:"app_id"`
	ClientSecret string        `koanf:"client_secret"`
	APIBase      string        `koanf:"api_base"`
	AdminEmails  []string      `koanf:"admin_emails"`
	DevLogin     bool          `koanf:"dev_login"`
}

//
// Misc sections
//

type CSRF struct {
	Key string `koanf:"key"`
}

type Fallback struct {
	Force bool `koanf:"force"`
}

type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // VIYA_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	API      API      `koanf:"api"`
	Cache    Cache    `koanf:"cache"`
	Storage  Storage  `koanf:"storage"`
	Auth     Auth     `koanf:"auth"`
	CSRF     CSRF     `koanf:"csrf"`
	Fallback Fallback `koanf:"fallback"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Log      Log      `koanf:"log"`
	Paths    Paths    `koanf:"-"`
}

// applyDefaults fills zero values that have a sensible default.
func (c *Config) applyDefaults() {
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Cache.Capacity == 0 {
		c.Cache.Capacity = 512
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "disk"
	}
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = 14 * 24 * time.Hour
	}
	if c.Database.MaxOpen == 0 {
		c.Database.MaxOpen = 15
	}
	if c.Database.MaxIdle == 0 {
		c.Database.MaxIdle = 5
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
