package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gondola/backend/config"
	"github.com/gondola/backend/internal/domain"
	"github.com/gondola/backend/internal/infrastructure/cache"
	"github.com/gondola/backend/internal/logger"
	"github.com/gondola/backend/internal/usecase"
)

// app carries what every subcommand needs once PersistentPreRunE has run
type app struct {
	verbose bool
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "gondola",
		Short: "Group supermarket listings of the same product",
		Long: `gondola clusters retail product listings into categories of the same
underlying product. Titles are normalized (case, accents, hyphens, spacing)
and reduced to a base-brand-type-size signature; listings sharing a
signature form one category labelled with the first title seen.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			level := cfg.Log.Level
			if a.verbose {
				level = "debug"
			}
			l, err := logger.New(level, cfg.Server.Environment)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newCategorizeCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newSignatureCmd(a))

	return rootCmd
}

// newService wires the categorization service from configuration. The
// returned cache is nil when caching is disabled; callers must Close it.
func (a *app) newService() (*usecase.CategorizationService, *cache.MemoryCache) {
	vocab := usecase.Vocabulary{
		BaseProducts: a.cfg.Vocabulary.BaseProducts,
		Brands:       a.cfg.Vocabulary.Brands,
		Types:        a.cfg.Vocabulary.Types,
	}

	// repo stays a nil interface when caching is off; a typed nil
	// *MemoryCache would look like a configured cache
	var memoryCache *cache.MemoryCache
	var repo domain.CacheRepository
	if a.cfg.Cache.Enabled {
		memoryCache = cache.NewMemoryCache(a.cfg.Cache.CleanupInterval)
		repo = memoryCache
	}

	service := usecase.NewCategorizationService(
		usecase.NewSignatureExtractor(vocab),
		repo,
		a.logger,
		usecase.CategorizationServiceConfig{
			Workers:  a.cfg.Categorize.Workers,
			CacheTTL: a.cfg.Cache.TTL,
		},
	)

	a.logger.Debug("categorization service ready",
		zap.Int("workers", a.cfg.Categorize.Workers),
		zap.Bool("cache", a.cfg.Cache.Enabled),
		zap.Strings("brands", vocab.Brands),
	)

	return service, memoryCache
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
