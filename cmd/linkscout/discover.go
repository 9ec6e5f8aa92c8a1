package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/linkscout/internal/batch"
	"github.com/nao1215/linkscout/internal/config"
	"github.com/nao1215/linkscout/internal/database"
	"github.com/nao1215/linkscout/internal/discover"
	"github.com/nao1215/linkscout/internal/model"
	"github.com/nao1215/linkscout/internal/report"
	"github.com/nao1215/linkscout/internal/transport"
	"github.com/spf13/cobra"
)

// errDiscoveryFailed is returned when at least one seed failed. The report
// describes the individual failures.
var errDiscoveryFailed = errors.New("discovery failed")

// NewDiscoverCmd creates the discover command.
func NewDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover [seed-url...]",
		Short: "Discover the pages linked from seed pages",
		Long: `Discover fetches each seed once and lists the pages it links to.

Only links rooted at "/" are followed. The result of a seed starts with the
seed itself and holds at most limit further URLs, in document order and
without duplicates. Linked pages are not fetched.

Examples:
  # Discover up to 10 links from one page
  linkscout discover https://example.com/docs/

  # Several seeds, 20 links each, 8 at a time
  linkscout discover -l 20 -b 8 https://a.example/ https://b.example/

  # Through a SOCKS5 proxy, or an embedded Tor daemon for .onion seeds
  linkscout discover --proxy 127.0.0.1:9050 https://example.com/
  linkscout discover --tor http://<56 chars>.onion/

  # Seeds from the config file, JSON report to a file
  linkscout discover -c .linkscout --json -o out/links.json

Configuration file (.linkscout) example:
  vars:
    lang: en
  seeds:
    - url: https://example.com/{lang}/docs/
      limit: 25
      query:
        tags: [go, http]
  sites:
    example.com:
      cookie: "session=abc123"
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runDiscoverCmd,
	}

	cmd.Flags().IntP("limit", "l", config.DefaultLimit,
		"Maximum number of links per seed (overrides the config file)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Deadline for each seed, including reading the body")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of seeds discovered concurrently")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkscout in current or home directory)")

	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (e.g., 127.0.0.1:9050)")
	cmd.Flags().Bool("tor", false,
		"Start an embedded Tor daemon and discover through it")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")

	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with each request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum number of bytes read from a seed page")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	cmd.Flags().Bool("no-save", false,
		"Do not record results in the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runDiscoverCmd executes the discover command.
func runDiscoverCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)

	return runDiscover(cmd.Context(), cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// buildConfig creates a Config from cobra command flags and the config file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error

	if cfg.Limit, err = flags.GetInt("limit"); err != nil {
		return nil, err
	}
	cfg.LimitExplicit = flags.Changed("limit")

	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	noSave, err := flags.GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.Verbose = getVerboseFlag(cmd)

	// An explicit config file must exist. Otherwise a missing file just
	// means there are no config-file seeds or site settings.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	for _, arg := range args {
		cfg.Seeds = append(cfg.Seeds, config.Seed{URL: arg})
	}

	fileSeeds, err := cfg.SiteConfigs.ExpandSeeds()
	if err != nil {
		return nil, fmt.Errorf("failed to expand seeds from %s: %w", configPath, err)
	}
	cfg.Seeds = append(cfg.Seeds, fileSeeds...)

	return cfg, nil
}

// runDiscover discovers every seed, records the results and writes the
// report to stdout or the report file. Progress messages go to stderr.
func runDiscover(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	logger.Info("starting discovery",
		"seeds", len(cfg.Seeds),
		"batchSize", cfg.BatchSize,
		"proxy", cfg.ProxyAddress,
		"tor", cfg.UseTor,
		"saveToDB", cfg.SaveToDB,
	)

	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
	}

	client, cleanup, err := newTransportClient(ctx, cfg, logger, stderr)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, seed := range cfg.Seeds {
		if err := transport.CheckSeed(seed.URL, client.Proxied()); err != nil {
			return fmt.Errorf("invalid seed %q: %w", seed.URL, err)
		}
	}

	runner := batch.NewRunner(
		batch.WithConcurrency(cfg.BatchSize),
		batch.WithTimeout(cfg.Timeout),
		batch.WithLogger(logger),
	)

	discoveries, runErr := runner.Run(ctx, buildJobs(cfg, client, logger))

	// Completed discoveries are kept even when the run was interrupted.
	if err := saveDiscoveries(context.WithoutCancel(ctx), db, discoveries, logger); err != nil {
		return err
	}
	if err := outputReport(cfg, discoveries, stdout); err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("discovery interrupted: %w", runErr)
	}
	if summary := report.Summarize(discoveries); summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d seeds", errDiscoveryFailed, summary.Failed, summary.Seeds)
	}
	return nil
}

// newTransportClient returns the dialer for the configured network path
// and a function releasing it.
func newTransportClient(ctx context.Context, cfg *config.Config, logger *slog.Logger, stderr io.Writer) (*transport.Client, func(), error) {
	if cfg.UseTor {
		return startEmbeddedTor(ctx, cfg, logger, stderr)
	}

	client, err := transport.NewClient(cfg.ProxyAddress, cfg.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	if client.Proxied() {
		if status := client.CheckConnection(ctx); status != transport.ProxyStatusOK {
			return nil, nil, fmt.Errorf("proxy check failed: %w (make sure a SOCKS5 proxy is running at %s)",
				status.Err(), cfg.ProxyAddress)
		}
		logger.Info("proxy connection verified", "address", cfg.ProxyAddress)
	}

	return client, func() {}, nil
}

// startEmbeddedTor starts an embedded Tor daemon and returns a client
// dialing through it.
func startEmbeddedTor(ctx context.Context, cfg *config.Config, logger *slog.Logger, stderr io.Writer) (*transport.Client, func(), error) {
	fmt.Fprintln(stderr, "Starting embedded Tor daemon...")
	fmt.Fprintf(stderr, "This may take 1-3 minutes while Tor bootstraps and connects to the network.\n\n")

	embeddedTor := transport.NewEmbeddedTor(
		transport.WithStartupTimeout(cfg.TorStartupTimeout),
	)
	if err := embeddedTor.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}

	stop := func() {
		logger.Info("stopping embedded Tor daemon")
		if err := embeddedTor.Stop(); err != nil {
			logger.Error("failed to stop embedded Tor", "error", err)
		}
	}

	logger.Info("embedded Tor daemon started", "socksAddr", embeddedTor.SocksAddr())

	client, err := embeddedTor.NewClient(cfg.Timeout)
	if err != nil {
		stop()
		return nil, nil, fmt.Errorf("failed to create Tor client: %w", err)
	}

	if status := client.CheckConnection(ctx); status != transport.ProxyStatusOK {
		stop()
		return nil, nil, fmt.Errorf("embedded Tor proxy check failed: %w", status.Err())
	}

	return client, stop, nil
}

// buildJobs creates one batch job per seed. Each job gets an HTTP client
// carrying the cookie and headers configured for the seed's host.
func buildJobs(cfg *config.Config, client *transport.Client, logger *slog.Logger) []batch.Job {
	observer := discover.NewLogObserver(logger)

	jobs := make([]batch.Job, 0, len(cfg.Seeds))
	for _, seed := range cfg.Seeds {
		site := cfg.SiteFor(seed)
		httpClient := client.HTTPClientWithConfig(site.Cookie, site.Headers)

		jobs = append(jobs, batch.Job{
			Seed:  seed.URL,
			Limit: cfg.LimitFor(seed),
			Discoverer: discover.New(httpClient,
				discover.WithUserAgent(cfg.UserAgent),
				discover.WithMaxBodySize(cfg.MaxBodySize),
				discover.WithObserver(observer),
			),
		})
	}
	return jobs
}

// saveDiscoveries records discoveries in the history database. A nil db
// means saving is disabled.
func saveDiscoveries(ctx context.Context, db *database.HistoryDB, discoveries []*model.Discovery, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	for _, d := range discoveries {
		if _, err := db.SaveDiscovery(ctx, d); err != nil {
			return fmt.Errorf("failed to save discovery of %s: %w", d.Seed, err)
		}
		logger.Debug("discovery saved", "url", d.Seed, "id", d.ID)
	}
	return nil
}

// outputReport writes discoveries in the requested format to the report
// file, or to stdout when no file is configured.
func outputReport(cfg *config.Config, discoveries []*model.Discovery, stdout io.Writer) error {
	if cfg.ReportFile == "" {
		return writeReport(stdout, cfg, discoveries)
	}

	f, err := createReportFile(cfg.ReportFile)
	if err != nil {
		return err
	}
	return writeAndClose(f, cfg, discoveries)
}

// writeAndClose writes the report to wc and closes it. A failed close is
// reported because buffered data may not have reached the file.
func writeAndClose(wc io.WriteCloser, cfg *config.Config, discoveries []*model.Discovery) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", cerr)
		}
	}()
	return writeReport(wc, cfg, discoveries)
}

// writeReport writes discoveries to output in the configured format.
func writeReport(output io.Writer, cfg *config.Config, discoveries []*model.Discovery) error {
	_, err := newReportWriter(output, cfg.JSONReport, cfg.MarkdownReport, cfg.Verbose).WriteDiscoveries(discoveries)
	return err
}

// newReportWriter picks the report format.
func newReportWriter(output io.Writer, jsonReport, markdownReport, verbose bool) report.Writer {
	switch {
	case jsonReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case markdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithShowEmpty(true), report.WithVerbose(verbose))
	}
}

// createReportFile creates path and its parent directories. Reports may
// name private URLs, so the file is only readable by the owner.
func createReportFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // user-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
