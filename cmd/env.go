package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/analyzer"
	"github.com/scrapex/outreach-engine/internal/caller"
	"github.com/scrapex/outreach-engine/internal/model"
	"github.com/scrapex/outreach-engine/internal/pipeline"
	"github.com/scrapex/outreach-engine/internal/resilience"
	"github.com/scrapex/outreach-engine/internal/scraper"
	"github.com/scrapex/outreach-engine/internal/store"
	anthropicpkg "github.com/scrapex/outreach-engine/pkg/anthropic"
	"github.com/scrapex/outreach-engine/pkg/notion"
	"github.com/scrapex/outreach-engine/pkg/twilio"
)

// engineEnv holds the initialized store, clients, and pipeline needed by
// the scrape/analyze/batch/serve commands.
type engineEnv struct {
	Store    store.Store
	Analyzer *analyzer.Analyzer
	Pipeline *pipeline.Pipeline
	Notion   notion.Client // nil unless configured
}

// Close releases resources held by the engine environment.
func (e *engineEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEngine sets up the store, scraper, and analyzer, and builds the
// pipeline. Callers should defer env.Close().
func initEngine(ctx context.Context) (*engineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	// Anthropic client is optional — without it the analyzer degrades to
	// deterministic baseline scoring.
	var anthropicClient anthropicpkg.Client
	if cfg.Anthropic.Key != "" {
		anthropicClient = anthropicpkg.NewClient(cfg.Anthropic.Key)
	} else {
		zap.L().Warn("OUTREACH_ANTHROPIC_KEY not set, lead analysis uses baseline scoring")
	}
	an := analyzer.NewAnalyzer(anthropicClient, cfg.Anthropic)

	var notionClient notion.Client
	if cfg.Notion.Token != "" {
		notionClient = notion.NewClient(cfg.Notion.Token)
	}

	p := pipeline.New(buildScraper(), an, st, cfg.Batch)

	return &engineEnv{
		Store:    st,
		Analyzer: an,
		Pipeline: p,
		Notion:   notionClient,
	}, nil
}

// buildScraper selects the HTTP scraper or the offline stub per config.
func buildScraper() scraper.Scraper {
	if cfg.Scrape.Stub {
		zap.L().Info("using stub scraper (scrape.stub enabled)")
		return scraper.StubScraper{}
	}

	opts := []scraper.Option{
		scraper.WithRetryConfig(resilience.FromRetryConfig(cfg.Scrape.Retries+1, 0, 0, 0, -1)),
	}
	if cfg.Scrape.TimeoutSecs > 0 {
		opts = append(opts, scraper.WithTimeout(time.Duration(cfg.Scrape.TimeoutSecs)*time.Second))
	}
	if cfg.Scrape.UserAgent != "" {
		opts = append(opts, scraper.WithUserAgent(cfg.Scrape.UserAgent))
	}
	return scraper.NewHTTPScraper(opts...)
}

// initCaller wires the compliance gate, call history, and dialer into a
// call manager. Appends archive through the store when one is provided.
func initCaller(st store.Store) (*caller.Manager, error) {
	numbers, err := caller.LoadDNC(cfg.Compliance.DNCFile)
	if err != nil {
		return nil, err
	}
	if len(numbers) > 0 {
		zap.L().Info("do-not-call list loaded",
			zap.Int("numbers", len(numbers)),
			zap.String("file", cfg.Compliance.DNCFile),
		)
	}
	gate := caller.NewGate(numbers, cfg.Compliance)

	var history caller.History = caller.NewMemoryHistory()
	if st != nil {
		history = caller.NewArchivingHistory(history, func(rec model.CallRecord) error {
			return st.SaveCall(context.Background(), rec)
		})
	}

	var dialer caller.Dialer
	if !cfg.Twilio.Simulate && cfg.Twilio.Configured() {
		client := twilio.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken)
		dialer = caller.NewTwilioDialer(client, cfg.Twilio)
		zap.L().Info("using twilio dialer", zap.String("from", cfg.Twilio.FromNumber))
	} else {
		dialer = caller.NewSimulator(nil)
		zap.L().Info("using simulated dialer")
	}

	return caller.NewManager(dialer, history, gate), nil
}
