package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/seqdiagram/internal/server"
	"github.com/matzehuels/seqdiagram/pkg/cache"
	errs "github.com/matzehuels/seqdiagram/pkg/errors"
	"github.com/matzehuels/seqdiagram/pkg/pipeline"
)

// Cache backends selectable with serve --cache.
const (
	cacheNone  = "none"
	cacheFile  = "file"
	cacheRedis = "redis"
	cacheMongo = "mongo"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr      string
	cache     string
	cacheDir  string
	redisURL  string
	mongoURI  string
	mongoDB   string
	keyPrefix string
	timeout   time.Duration
	metrics   bool
}

// serveCommand creates the serve command. Every flag can also be set through
// a SEQDIAGRAM_* environment variable; an explicit flag wins.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web form and render API",
		Long: `Serve the localized diagram form on / and the render API on
/api/v1/diagrams. Rendered layouts and artifacts are memoized in the chosen
cache backend.

Environment:
  SEQDIAGRAM_ADDR, SEQDIAGRAM_CACHE, SEQDIAGRAM_CACHE_DIR,
  SEQDIAGRAM_REDIS_URL, SEQDIAGRAM_MONGO_URI, SEQDIAGRAM_MONGO_DB,
  SEQDIAGRAM_KEY_PREFIX, SEQDIAGRAM_TIMEOUT, SEQDIAGRAM_METRICS`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadServeOpts(cmd)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.String("addr", server.DefaultAddr, "listen address")
	f.String("cache", cacheFile, "cache backend: none, file, redis, mongo")
	f.String("cache-dir", "", "file cache directory (default $XDG_CACHE_HOME/seqdiagram)")
	f.String("redis-url", "redis://localhost:6379/0", "Redis URL for --cache redis")
	f.String("mongo-uri", "mongodb://localhost:27017", "MongoDB URI for --cache mongo")
	f.String("mongo-db", cache.DefaultMongoDatabase, "MongoDB database for --cache mongo")
	f.String("key-prefix", "", "prefix for cache keys shared between deployments")
	f.Duration("timeout", server.DefaultRequestTimeout, "per-request timeout")
	f.Bool("metrics", true, "expose Prometheus metrics on /metrics")

	return cmd
}

// serveConfig layers SEQDIAGRAM_* variables under the flags of cmd. Dashes
// in flag names become underscores: --cache-dir reads SEQDIAGRAM_CACHE_DIR.
func serveConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "bind serve flags")
	}
	return v, nil
}

// loadServeOpts resolves the serve options from flags and environment.
// Malformed booleans and durations are rejected rather than defaulted.
func loadServeOpts(cmd *cobra.Command) (serveOpts, error) {
	v, err := serveConfig(cmd)
	if err != nil {
		return serveOpts{}, err
	}

	opts := serveOpts{
		addr:      v.GetString("addr"),
		cache:     v.GetString("cache"),
		cacheDir:  v.GetString("cache-dir"),
		redisURL:  v.GetString("redis-url"),
		mongoURI:  v.GetString("mongo-uri"),
		mongoDB:   v.GetString("mongo-db"),
		keyPrefix: v.GetString("key-prefix"),
	}
	if opts.timeout, err = cast.ToDurationE(v.Get("timeout")); err != nil || opts.timeout <= 0 {
		return serveOpts{}, errs.New(errs.ErrCodeInvalidInput,
			"invalid timeout %q (%s_TIMEOUT or --timeout): must be a positive duration such as 30s", v.GetString("timeout"), envPrefix)
	}
	if opts.metrics, err = cast.ToBoolE(v.Get("metrics")); err != nil {
		return serveOpts{}, errs.New(errs.ErrCodeInvalidInput,
			"invalid metrics setting %q (%s_METRICS or --metrics): must be true or false", v.GetString("metrics"), envPrefix)
	}
	return opts, nil
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, "Connecting to "+opts.cache+" cache...")
	spinner.Start()
	backend, err := openCache(ctx, opts)
	if err != nil {
		spinner.StopWithError("No " + opts.cache + " cache")
		return err
	}
	spinner.StopWithSuccess("Using " + opts.cache + " cache")

	var keyer cache.Keyer
	if opts.keyPrefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), opts.keyPrefix)
	}
	runner := pipeline.NewRunner(backend, keyer, logger)
	defer runner.Close()

	cfg := server.Config{
		Addr:           opts.addr,
		Runner:         runner,
		Logger:         logger,
		RequestTimeout: opts.timeout,
	}
	if opts.metrics {
		cfg.Metrics = server.NewMetrics()
		cfg.Metrics.Install()
	}

	printSuccess("Serving on %s", StyleLink.Render("http://"+displayAddr(opts.addr)))
	printKeyValue("timeout", opts.timeout.String())
	if opts.keyPrefix != "" {
		printKeyValue("key prefix", opts.keyPrefix)
	}

	return server.New(cfg).ListenAndServe(ctx)
}

// openCache connects the backend selected by opts.cache.
func openCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	switch opts.cache {
	case cacheNone:
		return cache.NewNullCache(), nil
	case cacheFile:
		dir := opts.cacheDir
		if dir == "" {
			var err error
			if dir, err = cache.DefaultDir(); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "resolve cache directory")
			}
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "open file cache at %s", dir)
		}
		return fc, nil
	case cacheRedis:
		rc, err := cache.NewRedisCache(ctx, opts.redisURL)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "open redis cache")
		}
		return rc, nil
	case cacheMongo:
		mc, err := cache.NewMongoCache(ctx, opts.mongoURI, opts.mongoDB)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "open mongodb cache")
		}
		return mc, nil
	}
	return nil, errs.New(errs.ErrCodeInvalidInput, "invalid cache backend: %q (must be none, file, redis or mongo)", opts.cache)
}

// displayAddr turns ":8080" into "localhost:8080" for printing.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
