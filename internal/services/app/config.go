package app

import (
	"time"

	"xfriends/internal/adapters/ledger"
	"xfriends/internal/adapters/neynar"
	"xfriends/internal/adapters/notify"
	"xfriends/internal/adapters/twitter"
	"xfriends/internal/platform/config"
	"xfriends/internal/platform/ratelimit"
	"xfriends/internal/platform/store"
	"xfriends/internal/platform/upstream"
)

// DefaultOrigins are always allowed on mutating routes next to PUBLIC_URL
var DefaultOrigins = []string{"http://localhost:3000", "https://farcaster.xyz"}

// LedgerConfig points at the query counter contract
type LedgerConfig struct {
	RPCURL   string
	Contract string
}

// ManifestConfig feeds /.well-known/farcaster.json
type ManifestConfig struct {
	File string
	Name string
	// account association, all three or none
	Header    string
	Payload   string
	Signature string
}

// Config is everything the graph needs, read once at boot
type Config struct {
	PublicURL       string
	Manifest        ManifestConfig
	AllowedOrigins  []string
	CORSOrigins     []string
	RateLimitMax    int
	RateLimitWindow time.Duration
	PaymentEnabled  bool
	SessionSecret   string

	CacheBackend string
	CacheSweep   time.Duration
	EventsFlush  time.Duration

	Twitter  twitter.Options
	Neynar   neynar.Options
	Resolver neynar.ResolverOptions
	Ledger   LedgerConfig
	Notify   notify.Options
}

// FromConfig reads the CORE_API_, CACHE_, TWITTER_, NEYNAR_, LEDGER_, NOTIFY_ and SESSION_ groups
func FromConfig(root config.Conf) Config {
	api := root.Prefix("CORE_API_")
	public := api.MayString("PUBLIC_URL", "")

	origins := api.MayCSV("ALLOWED_ORIGINS", nil)
	if len(origins) == 0 {
		origins = append(origins, DefaultOrigins...)
		if public != "" {
			origins = append([]string{public}, origins...)
		}
	}

	tw := root.Prefix("TWITTER_")
	ny := root.Prefix("NEYNAR_")
	lg := root.Prefix("LEDGER_")
	nt := root.Prefix("NOTIFY_")

	return Config{
		PublicURL:       public,
		Manifest: ManifestConfig{
			File:      api.MayString("MANIFEST_FILE", ""),
			Name:      api.MayString("APP_NAME", "Find X Friends"),
			Header:    api.MayString("MANIFEST_HEADER", ""),
			Payload:   api.MayString("MANIFEST_PAYLOAD", ""),
			Signature: api.MayString("MANIFEST_SIGNATURE", ""),
		},
		AllowedOrigins:  origins,
		CORSOrigins:     api.MayCSV("CORS_ORIGINS", nil),
		RateLimitMax:    api.MayInt("RATE_LIMIT_MAX", ratelimit.DefaultMax),
		RateLimitWindow: api.MayDuration("RATE_LIMIT_WINDOW", ratelimit.DefaultWindow),
		PaymentEnabled:  api.MayBool("PAYMENT_ENABLED", false),
		SessionSecret:   root.Prefix("SESSION_").MayString("SECRET", ""),

		CacheBackend: root.Prefix("CACHE_").MayEnum("BACKEND", "", "redis", "pg", "postgres", "memory"),
		CacheSweep:   root.Prefix("CACHE_").MayDuration("SWEEP", time.Minute),
		EventsFlush:  root.Prefix("SERVICE_CLICKHOUSE_").MayDuration("FLUSH", 5*time.Second),

		Twitter: twitter.Options{
			Provider: tw.MayEnum("PROVIDER", twitter.Twitter241, twitter.IDs()...),
			Credentials: twitter.Credentials{
				APIKey:      tw.MayString("RAPIDAPI_KEY", ""),
				Host:        tw.MayString("RAPIDAPI_HOST", ""),
				BearerToken: tw.MayString("BEARER_TOKEN", ""),
			},
			BaseURL:    tw.MayString("BASE_URL", ""),
			Timeout:    tw.MayDuration("TIMEOUT", 15*time.Second),
			MaxRetries: upstream.Retries(tw.MayInt("MAX_RETRIES", 3)),
			RPS:        tw.MayFloat64("RPS", 0),
		},
		Neynar: neynar.Options{
			APIKey:     ny.MayString("API_KEY", ""),
			BaseURL:    ny.MayString("BASE_URL", ""),
			Timeout:    ny.MayDuration("TIMEOUT", 10*time.Second),
			MaxRetries: upstream.Retries(ny.MayInt("MAX_RETRIES", 3)),
			RPS:        ny.MayFloat64("RPS", 0),
		},
		Resolver: neynar.ResolverOptions{
			BatchSize:  ny.MayInt("BATCH_SIZE", neynar.DefaultBatchSize),
			BatchDelay: ny.MayDuration("BATCH_DELAY", neynar.DefaultBatchDelay),
			Strict:     ny.MayBool("STRICT", false),
		},
		Ledger: LedgerConfig{
			RPCURL:   lg.MayString("RPC_URL", ledger.DefaultRPCURL),
			Contract: lg.MayString("CONTRACT_ADDRESS", ""),
		},
		Notify: notify.Options{
			TargetURL: nt.MayString("TARGET_URL", public),
			Timeout:   nt.MayDuration("TIMEOUT", notify.DefaultTimeout),
		},
	}
}

// StoreConfig reads the SERVICE_PGSQL_, SERVICE_CLICKHOUSE_ and SERVICE_REDIS_ groups
// every backend is optional; a disabled one stays nil on the store
func StoreConfig(root config.Conf) store.Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	rd := root.Prefix("SERVICE_REDIS_")

	c := store.Config{AppName: "xfriends"}

	if pg.MayBool("ENABLED", false) {
		c.PG = store.PGConfig{
			Enabled:     true,
			URL:         pg.MustString("DBURL"),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		}
	}
	if ch.MayBool("ENABLED", false) {
		c.CH = store.CHConfig{Enabled: true, URL: ch.MustString("DBURL")}
	}
	if rd.MayBool("ENABLED", false) {
		c.RDS = store.RedisConfig{
			Enabled:      true,
			Addr:         rd.MayString("ADDR", "127.0.0.1:6379"),
			Username:     rd.MayString("USERNAME", ""),
			Password:     rd.MayString("PASSWORD", ""),
			DB:           rd.MayInt("DB", 0),
			DisableCache: rd.MayBool("DISABLE_CLIENT_CACHE", false),
		}
	}
	return c
}
