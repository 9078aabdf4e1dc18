package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/seqdiagram/internal/server"
	"github.com/matzehuels/seqdiagram/pkg/cache"
	errs "github.com/matzehuels/seqdiagram/pkg/errors"
)

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := newCache(true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("newCache(noCache) = %T, want *cache.NullCache", c)
	}

	c, err = newCache(false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("newCache() = %T, want *cache.FileCache", c)
	}
}

func TestCacheClearCommand(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	dir := filepath.Join(xdg, appName)

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"layout:a", "artifact:b", "artifact:c"} {
		if err := fc.Set(ctx, key, []byte("x"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	if got := countFiles(dir); got != 3 {
		t.Fatalf("countFiles() = %d, want 3", got)
	}

	ui := captureUI(t)
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(ui.String(), "Cleared 3 cached entries") {
		t.Errorf("clear output = %q", ui.String())
	}

	if got := countFiles(dir); got != 0 {
		t.Errorf("%d files left after clear", got)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache directory removed: %v", err)
	}
}

func TestCachePathCommand(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "path"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), filepath.Join(xdg, appName)+"\n"; got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCountFilesMissingDir(t *testing.T) {
	if got := countFiles(filepath.Join(t.TempDir(), "missing")); got != 0 {
		t.Errorf("countFiles(missing) = %d", got)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	c, err := openCache(ctx, serveOpts{cache: cacheNone})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("none = %T", c)
	}

	dir := filepath.Join(t.TempDir(), "c")
	c, err = openCache(ctx, serveOpts{cache: cacheFile, cacheDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if fc, ok := c.(*cache.FileCache); !ok || fc.Dir() != dir {
		t.Errorf("file = %T at %v", c, dir)
	}

	_, err = openCache(ctx, serveOpts{cache: "memcached"})
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("unknown backend error = %v", err)
	}
}

func TestLoadServeOptsDefaults(t *testing.T) {
	cmd := New(io.Discard, LogInfo).serveCommand()
	opts, err := loadServeOpts(cmd)
	if err != nil {
		t.Fatal(err)
	}
	want := serveOpts{
		addr:     server.DefaultAddr,
		cache:    cacheFile,
		redisURL: "redis://localhost:6379/0",
		mongoURI: "mongodb://localhost:27017",
		mongoDB:  cache.DefaultMongoDatabase,
		timeout:  server.DefaultRequestTimeout,
		metrics:  true,
	}
	if opts != want {
		t.Errorf("loadServeOpts() = %+v, want %+v", opts, want)
	}
}

func TestLoadServeOptsEnvironment(t *testing.T) {
	t.Setenv("SEQDIAGRAM_ADDR", ":9090")
	t.Setenv("SEQDIAGRAM_CACHE", "redis")
	t.Setenv("SEQDIAGRAM_CACHE_DIR", "/var/cache/seq")
	t.Setenv("SEQDIAGRAM_KEY_PREFIX", "staging:")
	t.Setenv("SEQDIAGRAM_TIMEOUT", "5s")
	t.Setenv("SEQDIAGRAM_METRICS", "false")
	t.Setenv("SEQDIAGRAM_MONGO_DB", "")

	cmd := New(io.Discard, LogInfo).serveCommand()
	opts, err := loadServeOpts(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if opts.addr != ":9090" || opts.cache != "redis" || opts.cacheDir != "/var/cache/seq" {
		t.Errorf("addr/cache/cacheDir = %q/%q/%q", opts.addr, opts.cache, opts.cacheDir)
	}
	if opts.keyPrefix != "staging:" {
		t.Errorf("keyPrefix = %q", opts.keyPrefix)
	}
	if opts.timeout != 5*time.Second || opts.metrics {
		t.Errorf("timeout/metrics = %v/%v", opts.timeout, opts.metrics)
	}
	if opts.mongoDB != cache.DefaultMongoDatabase {
		t.Errorf("empty variable should keep the default, got %q", opts.mongoDB)
	}
}

func TestLoadServeOptsFlagWins(t *testing.T) {
	t.Setenv("SEQDIAGRAM_CACHE", "redis")
	t.Setenv("SEQDIAGRAM_TIMEOUT", "5s")

	cmd := New(io.Discard, LogInfo).serveCommand()
	if err := cmd.Flags().Parse([]string{"--cache", "none", "--timeout", "2m"}); err != nil {
		t.Fatal(err)
	}
	opts, err := loadServeOpts(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if opts.cache != cacheNone || opts.timeout != 2*time.Minute {
		t.Errorf("cache/timeout = %q/%v, want none/2m", opts.cache, opts.timeout)
	}
}

func TestLoadServeOptsMalformed(t *testing.T) {
	tests := []struct {
		name, value string
	}{
		{"SEQDIAGRAM_METRICS", "yess"},
		{"SEQDIAGRAM_TIMEOUT", "soon"},
		{"SEQDIAGRAM_TIMEOUT", "-5s"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.name, tt.value)
			_, err := loadServeOpts(New(io.Discard, LogInfo).serveCommand())
			if !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Fatalf("err = %v, want INVALID_INPUT", err)
			}
			if !strings.Contains(errs.UserMessage(err), tt.value) {
				t.Errorf("message %q does not quote %q", errs.UserMessage(err), tt.value)
			}
		})
	}
}

func TestDisplayAddr(t *testing.T) {
	if got := displayAddr(":8080"); got != "localhost:8080" {
		t.Errorf("displayAddr(:8080) = %q", got)
	}
	if got := displayAddr("0.0.0.0:80"); got != "0.0.0.0:80" {
		t.Errorf("displayAddr(0.0.0.0:80) = %q", got)
	}
}
