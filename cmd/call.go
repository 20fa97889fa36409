package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/analyzer"
	"github.com/scrapex/outreach-engine/internal/model"
	"github.com/scrapex/outreach-engine/internal/pipeline"
	anthropicpkg "github.com/scrapex/outreach-engine/pkg/anthropic"
)

var (
	callURL    string
	callScript string
)

var callCmd = &cobra.Command{
	Use:   "call <facility-name> <phone-number>",
	Short: "Trigger a compliance-gated outbound call",
	Long: `Runs the pre-call compliance gate (do-not-call list, number format,
business hours) and, when the number is callable, places the call through
Twilio or the deterministic simulator. The call record lands in the
archive either way; non-compliant numbers leave no trace.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		facility, phone := args[0], args[1]

		if err := cfg.Validate("call"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		mgr, err := initCaller(st)
		if err != nil {
			return err
		}

		// A stored analysis personalizes the script and justifies the call.
		var analysis *model.LeadAnalysis
		if callURL != "" {
			analysis, err = st.GetAnalysis(ctx, pipeline.NormalizeURL(callURL))
			if err != nil {
				return eris.Wrap(err, "load stored analysis")
			}
			if analysis == nil {
				zap.L().Warn("no stored analysis for url, using generic script", zap.String("url", callURL))
			}
		}

		script := callScript
		if script == "" {
			var anthropicClient anthropicpkg.Client
			if cfg.Anthropic.Key != "" {
				anthropicClient = anthropicpkg.NewClient(cfg.Anthropic.Key)
			}
			an := analyzer.NewAnalyzer(anthropicClient, cfg.Anthropic)
			script = an.GenerateScript(ctx, analysis)
		}

		resp := mgr.Trigger(ctx, facility, phone, analysis, script)
		return printJSON(resp)
	},
}

func init() {
	callCmd.Flags().StringVar(&callURL, "url", "", "facility URL whose stored analysis should justify the call")
	callCmd.Flags().StringVar(&callScript, "script", "", "call script text (skips AI script generation)")
	rootCmd.AddCommand(callCmd)
}
