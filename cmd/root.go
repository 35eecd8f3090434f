package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/tvdbarr/auth"
	"github.com/s0up4200/tvdbarr/config"
	"github.com/s0up4200/tvdbarr/filter"
	applog "github.com/s0up4200/tvdbarr/logger"
	"github.com/s0up4200/tvdbarr/output"
	"github.com/s0up4200/tvdbarr/tvdb"
)

var (
	version   = "dev"
	buildTime = "unknown"

	cfgFile    string
	apiKeyFlag string
	outputFlag string

	cfg          *config.Config
	appLogger    *applog.Logger
	logger       zerolog.Logger
	tvdbClient   *tvdb.Client
	filters      *filter.Manager
	outputFormat output.Format
	formatter    = output.NewConsoleFormatter()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tvdbarr",
	Short: "Look up series and episodes on TheTVDB",
	Long: `tvdbarr is a CLI for TheTVDB XML API. It searches series by title,
fetches series and episode records, exports them to disk, serves them
over a small JSON gateway and cross-checks a Sonarr library.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
}

// SetVersion records build information injected by main.
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "TheTVDB API key (overrides config and keyring)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "tree", "output format: tree, json or yaml")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(episodeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(sonarrCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error

	outputFormat, err = output.ParseFormat(outputFlag)
	if err != nil {
		return err
	}

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLogger = applog.New(cfg.Logging)
	logger = appLogger.Logger

	apiKey := apiKeyFlag
	if apiKey == "" {
		var fromKeyring bool
		apiKey, fromKeyring = auth.ResolveAPIKey(cfg.TVDB.APIKey)
		if fromKeyring {
			logger.Debug().Msg("Using TheTVDB API key from system keyring")
		}
	}

	tvdbClient, err = tvdb.NewClient(apiKey, logger,
		tvdb.WithBaseURL(cfg.TVDB.BaseURL),
		tvdb.WithImageBaseURL(cfg.TVDB.ImageBaseURL),
		tvdb.WithTimeout(cfg.TVDB.Timeout),
		tvdb.WithUserAgent(cfg.TVDB.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("failed to create TheTVDB client: %w", err)
	}

	filters = filter.NewManager()
	presets := make(map[string]string, len(cfg.Filter.Presets))
	for name, preset := range cfg.Filter.Presets {
		presets[name] = preset.Expression
	}
	if err := filters.RegisterFilters(presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	return nil
}

func closeApp(cmd *cobra.Command, args []string) error {
	if appLogger == nil {
		return nil
	}
	return appLogger.Close()
}

// render writes v as json/yaml, or the tree text for the default format
func render(cmd *cobra.Command, v any, tree func() string) error {
	if outputFormat == output.FormatTree {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), tree())
		return err
	}
	return output.Encode(cmd.OutOrStdout(), outputFormat, v)
}

// resolveFilter picks the command line filter, a preset or the configured default
func resolveFilter(expression, preset string) (filter.CompiledFilter, error) {
	f, err := filters.Resolve(expression, preset, cfg.Filter.DefaultExpression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	if f != nil {
		logger.Debug().Str("filter", f.Expression()).Msg("Applying filter")
	}
	return f, nil
}
