package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/maleeper/cyberscope/internal/adapters/analytics"
	"github.com/maleeper/cyberscope/internal/adapters/input"
	"github.com/maleeper/cyberscope/internal/adapters/output"
	"github.com/maleeper/cyberscope/internal/app"
	"github.com/maleeper/cyberscope/internal/deck"
	"github.com/maleeper/cyberscope/internal/tui"
)

var (
	cfgFile     string
	datasetFile string
	exportFmt   string

	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "cyberscope",
	Short: "Interactive intrusion dataset explorer",
	Long: `CyberScope is an exploratory analysis dashboard for network
intrusion session data. It loads a CSV dataset into memory and offers
an interactive terminal interface with filterable attack-rate charts.

Capabilities:
  - Overview, Data and EDA tabs over the loaded sessions
  - Binary target selection, threshold and set/range filters
  - Filtered CSV and JSON summary export
  - Presentation deck and dataset profile generation`,
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Start the interactive dashboard",
	Long: `Load the configured dataset and open the terminal dashboard.
The dataset file is watched for changes and reloaded automatically.

Examples:
  cyberscope dashboard --dataset ./data/cybersecurity_intrusion_data.csv
  cyberscope dashboard --config ./configs/config.yaml`,
	RunE: runDashboard,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered dataset without the dashboard",
	Long: `Load the dataset, apply the default filter state and write the
matching records to the configured export path.

Examples:
  cyberscope export --dataset ./data/cybersecurity_intrusion_data.csv
  cyberscope export --format json`,
	RunE: runExport,
}

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Regenerate the presentation deck",
	Long: `Build the presentation deck from the slide template and styling
configuration. The output file name is fixed by the configuration so the
deck can be regenerated in place.`,
	RunE: runDeck,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Generate an HTML profile of the dataset",
	RunE:  runProfile,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("CyberScope %s\n", Version)
		fmt.Printf("Commit:  %s\n", Commit)
		fmt.Printf("Built:   %s\n", BuildTime)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&datasetFile, "dataset", "d", "", "dataset CSV file")
	exportCmd.Flags().StringVar(&exportFmt, "format", "csv", "export format: csv or json")

	viper.BindPFlag("dataset.path", rootCmd.PersistentFlags().Lookup("dataset"))

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/cyberscope")
	}

	viper.SetDefault("dataset.path", "./testdata/intrusion_sample.csv")
	viper.SetDefault("eda.dimensions", []string{"protocol_type", "encryption_used", "unusual_time_access"})
	viper.SetDefault("eda.heatmap.x", "network_packet_size")
	viper.SetDefault("eda.heatmap.y", "login_attempts")
	viper.SetDefault("eda.heatmap.bins", 5)
	viper.SetDefault("eda.class_column", "session_duration")
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.addr", ":9090")
	viper.SetDefault("export.csv_path", "./reports/filtered_sessions.csv")
	viper.SetDefault("export.summary_path", "./reports/view_summary.json")
	viper.SetDefault("deck.template", "./configs/deck.yaml")
	viper.SetDefault("deck.style", "./configs/deck_style.yaml")
	viper.SetDefault("deck.output", "./reports/Cybersecurity_Insights_Deck.md")
	viper.SetDefault("profile.output", "./reports/cybersecurity_profile.html")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn().Err(err).Msg("Error reading config file")
		}
	}

	viper.SetEnvPrefix("CYBERSCOPE")
	viper.AutomaticEnv()
}

func setupLogging(console bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	switch viper.GetString("logging.level") {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if console {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

func openSession(ctx context.Context, config app.Config) (*app.Session, error) {
	loader := input.NewCSVLoader(config.DatasetPath, input.CSVOptions{})
	session := app.NewSession(loader, config.AnalyticsOptions())
	if err := session.Open(ctx); err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", config.DatasetPath, err)
	}
	return session, nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	setupLogging(false)

	config := app.FromViper()
	if err := config.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := openSession(ctx, config)
	if err != nil {
		return err
	}
	log.Info().
		Str("dataset", config.DatasetPath).
		Int("rows", session.Table().NumRows()).
		Msg("CyberScope started")

	if config.MetricsEnabled {
		promMetrics := output.NewPrometheusMetrics("cyberscope", session.Metrics())
		session.AddCollector(promMetrics)
		metricsConfig := output.MetricsConfig{Addr: config.MetricsAddr, Path: "/metrics"}
		if err := promMetrics.StartServer(metricsConfig); err != nil {
			log.Warn().Err(err).Msg("Failed to start metrics server")
		} else {
			log.Debug().Str("addr", config.MetricsAddr).Msg("Metrics server started")
		}
		defer promMetrics.StopServer()
	}

	exporter := output.NewCSVExporter(config.ExportPath)
	tuiApp := tui.NewApp(session, exporter)

	watcher := app.NewDatasetWatcher(session, config.DatasetPath, app.DatasetWatcherOptions{
		OnReload: tuiApp.NotifyReload,
	})
	if err := watcher.Start(ctx); err != nil {
		log.Warn().Err(err).Msg("Dataset watch unavailable")
	}
	defer watcher.Stop()

	var tuiErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("TUI panic recovered")
				tuiErr = fmt.Errorf("TUI panic: %v", r)
			}
		}()
		tuiErr = tuiApp.Run()
	}()

	cancel()
	log.Info().Msg("Shutting down...")
	return tuiErr
}

func runExport(cmd *cobra.Command, args []string) error {
	setupLogging(true)

	config := app.FromViper()
	if err := config.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	session, err := openSession(ctx, config)
	if err != nil {
		return err
	}

	switch exportFmt {
	case "csv":
		exporter := output.NewCSVExporter(config.ExportPath)
		if err := session.Export(ctx, exporter); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		log.Info().Str("path", exporter.Path()).Msg("Filtered dataset exported")
	case "json":
		writer, err := output.NewJSONSummaryWriter(output.JSONSummaryConfig{
			FilePath: config.SummaryPath,
			Pretty:   true,
		})
		if err != nil {
			return fmt.Errorf("export json: %w", err)
		}
		defer writer.Close()
		if err := session.Export(ctx, writer); err != nil {
			return fmt.Errorf("export json: %w", err)
		}
		log.Info().Str("path", config.SummaryPath).Msg("View summary exported")
	default:
		return fmt.Errorf("unknown export format %q: use csv or json", exportFmt)
	}
	return nil
}

func runDeck(cmd *cobra.Command, args []string) error {
	setupLogging(true)

	config := app.FromViper()
	if err := deck.Build(config.DeckTemplate, config.DeckStyle, config.DeckOutput); err != nil {
		return fmt.Errorf("build deck: %w", err)
	}
	log.Info().Str("path", config.DeckOutput).Msg("Presentation deck written")
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	setupLogging(true)

	config := app.FromViper()
	if err := config.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	session, err := openSession(ctx, config)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(config.ProfileOutput); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create profile output dir: %w", err)
		}
	}
	f, err := os.Create(config.ProfileOutput)
	if err != nil {
		return fmt.Errorf("create profile output: %w", err)
	}
	defer f.Close()

	title := fmt.Sprintf("Cybersecurity Intrusion Dataset Profile (%s)", session.SourceName())
	if err := analytics.WriteReport(f, title, session.Table()); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	log.Info().Str("path", config.ProfileOutput).Msg("Dataset profile written")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
