// internal/config/model.go
//
// Typed configuration model for the eTAS portal.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                        – dotenv values,
//   • `conf/global.yaml`                     – primary static file,
//   • `ETAS_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database holds the applicant-store DSN.  The *template* (`DSN`) is kept
// in YAML so operators can tweak host, port, or flags without touching
// Vault.  The *secret* portion (`Password`) may be stored in Vault and
// injected at runtime via a `vault:` URI, keeping credentials out of flat
// files and git history.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password"`
}

//
// Storage section
//

// Storage configures the blob store that holds applicant photos.  MediaDir
// is the on-disk bucket root.  PublicBase is an optional origin (CDN or
// proxy host) prefixed onto the /media URLs; empty keeps them
// site-relative.
type Storage struct {
	MediaDir   string `koanf:"media_dir" validate:"required"`
	PublicBase string `koanf:"public_base"`
}

//
// Document section
//

// Document controls the rendering and packaging pipeline.
//
// VerificationBase is the absolute origin embedded in the QR payload.
// PathStyleVerify selects `/verify/etas/<n>` over `/verify?etas=<n>`; both
// routes are always served, the flag only decides which one documents
// encode.  RasterScale is the fixed multiplier over the 96-dpi A4 base
// canvas; 4 keeps the micro-text legible after PDF embedding.  Protect
// chooses the password-protected export variant for the verification flow.
type Document struct {
	VerificationBase string `koanf:"verification_base" validate:"required,url"`
	PathStyleVerify  bool   `koanf:"path_style_verify"`
	InstitutionCode  string `koanf:"institution_code" validate:"required"`
	RasterScale      int    `koanf:"raster_scale"     validate:"gte=1,lte=8"`
	ExportTimeoutSec int    `koanf:"export_timeout_sec" validate:"gte=1"`
	Protect          bool   `koanf:"protect"`
}

//
// GeoIP section
//

// GeoIP points at an optional MaxMind database used by the request-info
// middleware.  Empty path disables geo lookups; the middleware degrades
// to UA-only metadata.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or ETAS_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // ETAS_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Storage  Storage  `koanf:"storage"`
	Document Document `koanf:"document"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
