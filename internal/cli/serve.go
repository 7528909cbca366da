package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/famtree/internal/config"
	"github.com/matzehuels/famtree/internal/server"
	"github.com/matzehuels/famtree/pkg/buildinfo"
	"github.com/matzehuels/famtree/pkg/cache"
	"github.com/matzehuels/famtree/pkg/observability"
	"github.com/matzehuels/famtree/pkg/pipeline"
)

// apiKeyPrefix scopes service cache entries in a shared backend.
const apiKeyPrefix = "api:"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Serve starts the HTTP render service. It is configured from the environment:

  FAMTREE_HTTP_ADDR       listen address (default :8080)
  FAMTREE_REDIS_URL       Redis cache, e.g. redis://localhost:6379/0
  FAMTREE_CACHE_DIR       file cache directory when Redis is not set
  FAMTREE_CACHE_TTL       artifact lifetime (default 24h)
  FAMTREE_PRESET          default style preset
  FAMTREE_AVATAR_BASE     prefix for relative avatar URLs
  FAMTREE_LINK_BASE       prefix for card profile links
  FAMTREE_MAX_BODY_BYTES  request body limit (default 1 MiB)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			ctx := cmd.Context()
			cc, err := server.NewCache(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}

			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, apiKeyPrefix), c.Logger)
			runner.TTL = cfg.CacheTTL
			defer runner.Close()

			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetServerHooks(hooks)
			defer observability.Reset()

			printSuccess("famtree %s", buildinfo.Short())
			printKeyValue("Address", StyleLink.Render(cfg.HTTPAddr))
			printKeyValue("Cache", cacheBackend(cfg))
			printKeyValue("Preset", cfg.Preset)
			printNewline()

			return server.New(runner, cfg, c.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides FAMTREE_HTTP_ADDR)")
	return cmd
}

// cacheBackend names the cache [server.NewCache] picks for cfg.
func cacheBackend(cfg *config.Config) string {
	switch {
	case cfg.RedisURL != "":
		return "redis"
	case cfg.CacheDir != "":
		return "file " + cfg.CacheDir
	}
	return "none"
}
