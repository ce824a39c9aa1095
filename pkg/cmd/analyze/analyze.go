package analyze

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/racegap-go/log"
	"github.com/mpapenbr/racegap-go/pkg/cmd/cmdutil"
	"github.com/mpapenbr/racegap-go/pkg/config"
	"github.com/mpapenbr/racegap-go/pkg/processing"
	"github.com/mpapenbr/racegap-go/pkg/provider/ergast"
	"github.com/mpapenbr/racegap-go/pkg/provider/fetch"
	"github.com/mpapenbr/racegap-go/pkg/provider/openf1"
	"github.com/mpapenbr/racegap-go/pkg/render"
	"github.com/mpapenbr/racegap-go/pkg/storage"
	"github.com/mpapenbr/racegap-go/pkg/utils"
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "fetches, processes and renders the gaps of a race",
		Example: `  racegap analyze --season 2018 --round 11
  racegap analyze --season 2023 --round 5 --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyze(cmd)
		},
	}

	cmd.Flags().IntVar(&config.Season, "season", 0, "season of the race")
	cmd.Flags().IntVar(&config.Round, "round", 0, "round of the race")
	cmd.Flags().StringVar(&config.ErgastURL,
		"ergast-url",
		ergast.DefaultBaseURL,
		"base URL of the Ergast compatible API")
	cmd.Flags().StringVar(&config.OpenF1URL,
		"openf1-url",
		openf1.DefaultBaseURL,
		"base URL of the OpenF1 API")
	cmd.Flags().Float64Var(&config.RequestsPerSecond,
		"requests-per-second",
		4,
		"max number of requests per second sent to a provider")
	cmd.Flags().IntVar(&config.PageLimit,
		"page-limit",
		ergast.DefaultPageLimit,
		"page size for paginated requests")
	cmd.Flags().StringVar(&config.WaitForProviders,
		"wait-for-providers",
		"0s",
		"duration to wait for the providers to be reachable (0 skips the check)")
	_ = cmd.MarkFlagRequired("season")
	_ = cmd.MarkFlagRequired("round")
	return cmd
}

func analyze(cmd *cobra.Command) error {
	logger := cmdutil.SetupLogger()
	defer func() { _ = logger.Sync() }()

	format, err := checkConfig()
	if err != nil {
		return err
	}
	ctx := log.AddToContext(cmd.Context(), logger)
	if err := waitForProviders(ctx); err != nil {
		logger.Error("Providers not reachable", log.ErrorField(err))
		return err
	}

	newFetcher := func(name string) *fetch.Fetcher {
		return fetch.NewFetcher(
			fetch.WithCacheDir(config.CacheDir),
			fetch.WithRateLimit(config.RequestsPerSecond, 1),
			fetch.WithLogger(logger.Named(name)))
	}
	proc := processing.NewProcessor(
		processing.WithRaceSource(ergast.NewClient(newFetcher("ergast"),
			ergast.WithBaseURL(config.ErgastURL),
			ergast.WithPageLimit(config.PageLimit),
			ergast.WithLogger(logger.Named("ergast")))),
		processing.WithSectorSource(openf1.NewClient(newFetcher("openf1"),
			openf1.WithBaseURL(config.OpenF1URL),
			openf1.WithLogger(logger.Named("openf1")))),
		processing.WithSectorEraStart(config.SectorEraStart),
	)

	logger.Info("Analyzing race",
		log.Int("season", config.Season),
		log.Int("round", config.Round))
	t, err := proc.Process(ctx, config.Season, config.Round)
	if err != nil {
		logger.Error("Could not process race", log.ErrorField(err))
		return err
	}

	base := cmdutil.BaseName(config.Season, config.Round)
	if err := storage.Save(t, cmdutil.OutPath(base), format); err != nil {
		logger.Error("Could not save table", log.ErrorField(err))
		return err
	}

	r := render.New(
		render.WithOutDir(config.OutDir),
		render.WithOutput(cmd.OutOrStdout()),
		render.WithLogger(logger.Named("render")))
	cmdutil.RenderGaps(r, t, base)
	return r.Show()
}

// checkConfig validates the analyze options and returns the storage format
func checkConfig() (storage.Format, error) {
	format, err := storage.ParseFormat(config.Format)
	if err != nil {
		return "", err
	}
	if config.PageLimit < 1 {
		return "", fmt.Errorf("page-limit must be at least 1, got %d", config.PageLimit)
	}
	return format, nil
}

func waitForProviders(ctx context.Context) error {
	timeout, err := time.ParseDuration(config.WaitForProviders)
	if err != nil {
		log.Warn("Invalid duration value, skipping provider check", log.ErrorField(err))
		return nil
	}
	if timeout <= 0 {
		return nil
	}
	urls := []string{config.ErgastURL}
	if config.Season >= config.SectorEraStart {
		urls = append(urls, config.OpenF1URL)
	}
	for _, u := range urls {
		if err := utils.WaitForTCP(ctx, utils.ExtractFromHTTPURL(u), timeout); err != nil {
			return err
		}
	}
	return nil
}
