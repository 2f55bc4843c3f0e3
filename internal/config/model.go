// internal/config/model.go
//
// Typed configuration model for the survey service.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from four layers:
//
//   • built-in defaults                        – see defaults in loader.go,
//   • optional `.env`                          – dotenv values,
//   • `conf/global.yaml`                       – primary static file,
//   • `SURVEY_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • Durations accept Go syntax (“1500ms”, “30m”).
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import (
	"time"
	_ "time/tzdata" // timezone validation must not depend on the host zoneinfo
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

//
// Survey section
//

// Survey tunes the wizard itself.
//
// The delays stand in for network round-trips; FailureRate is the share of
// simulated calls that fail.  Definition optionally points at a YAML file
// replacing the embedded survey.
type Survey struct {
	Definition   string        `koanf:"definition"    validate:"omitempty,file"`
	LoginDelay   time.Duration `koanf:"login_delay"   validate:"gte=0"`
	SubmitDelay  time.Duration `koanf:"submit_delay"  validate:"gte=0"`
	DemoDelay    time.Duration `koanf:"demo_delay"    validate:"gte=0"`
	FailureRate  float64       `koanf:"failure_rate"  validate:"gte=0,lte=1"`
	Timezone     string        `koanf:"timezone"      validate:"required,timezone"`
	ShareBase    string        `koanf:"share_base"    validate:"omitempty,url"`
	ShareContact string        `koanf:"share_contact" validate:"omitempty,numeric"`
	Debug        bool          `koanf:"debug"`
}

//
// Session section
//

// Session bounds the in-memory session store.
type Session struct {
	IdleTTL       time.Duration `koanf:"idle_ttl"       validate:"gt=0"`
	MaxEntries    int           `koanf:"max_entries"    validate:"gte=1"`
	EvictInterval time.Duration `koanf:"evict_interval" validate:"gt=0"`
}

//
// Security section
//

// Security holds signing secrets.
//
// CSRFKey is base64url without padding, at least 32 bytes decoded.  It is
// normally a `vault:` reference.  Empty means a random per-process key.
type Security struct {
	CSRFKey string `koanf:"csrf_key" validate:"csrfkey"`
}

//
// Request info section
//

// RequestInfo configures client enrichment.  An empty GeoIPPath disables
// geolocation.
type RequestInfo struct {
	GeoIPPath    string `koanf:"geoip_path"     validate:"omitempty,file"`
	GeoCacheSize int    `koanf:"geo_cache_size" validate:"gte=1"`
}

//
// Log section
//

// Log selects verbosity and console mirroring.
type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	Tee   bool   `koanf:"tee"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // SURVEY_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP        HTTP        `koanf:"http"`
	Survey      Survey      `koanf:"survey"`
	Session     Session     `koanf:"session"`
	Security    Security    `koanf:"security"`
	RequestInfo RequestInfo `koanf:"requestinfo"`
	Log         Log         `koanf:"log"`
	Paths       Paths       `koanf:"-"` // not loaded from config files
}

// Location loads the configured display zone.
func (s Survey) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}
