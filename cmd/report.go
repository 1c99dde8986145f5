package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/careerfit/internal/answerstore"
	"github.com/spigell/careerfit/internal/diag"
	"github.com/spigell/careerfit/internal/engine"
	"github.com/spigell/careerfit/internal/logger"
	"github.com/spigell/careerfit/internal/narrative"
	"github.com/spigell/careerfit/internal/report"
	"github.com/spigell/careerfit/internal/scoring"
)

const (
	PromptSummary    = "Summary"
	PromptMotivators = "Motivators"
	PromptClusters   = "Career clusters"
	PromptMatches    = "Occupation matches"
	PromptArchetype  = "Team role"
	PromptStages     = "Pipeline stages"
	PromptDump       = "Dump report to file"
	PromptExit       = "Exit"

	recentSessions = 20
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Show",
	Items: []string{PromptSummary, PromptMotivators, PromptClusters, PromptMatches, PromptArchetype, PromptStages, PromptDump, PromptExit},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Score a session and browse the resulting report",
	Run: func(cmd *cobra.Command, _ []string) {
		runReport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringP("session", "s", "", "session id to score (sqlite store: pick from recent sessions when empty)")
	reportCmd.Flags().BoolP("yes", "y", false, "do not open the interactive menu")
	reportCmd.Flags().StringP("output", "o", "", "write the report JSON to this file")

	viper.BindPFlag("report.output", reportCmd.Flags().Lookup("output"))
}

func runReport(cmd *cobra.Command) {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}
	if config == nil || config.Report == nil {
		zlog.Fatal("config is required")
	}

	zlog.Info("starting the careerfit", zap.String("version", version))

	pretty, _ := json.MarshalIndent(config, "", "  ")
	zlog.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	ref, err := loadReference(config)
	if err != nil {
		zlog.Fatal("loading reference data", zap.Error(err))
	}

	store, closeStore, err := openStore(config.Store, zlog)
	if err != nil {
		zlog.Fatal("opening answer store", zap.Error(err),
			zap.String("hint", "check the store section; the http store needs CAREERFIT_STORE_TOKEN_FILE or store.token-file"),
		)
	}
	defer func() {
		if err := closeStore(); err != nil {
			zlog.Warn("closing answer store", zap.Error(err))
		}
	}()

	yes := cmd.Flag("yes").Value.String() == "true"
	session := cmd.Flag("session").Value.String()
	if session == "" {
		session, err = pickSession(ctx, store, yes)
		if err != nil {
			zlog.Fatal("choosing a session", zap.Error(err), zap.String("hint", "pass --session"))
		}
	}

	required, err := requiredSections(config.Report.Required)
	if err != nil {
		zlog.Fatal("reading report.required", zap.Error(err))
	}

	bundle, err := newGatherer(store, ref, required, zlog).Gather(ctx, session)
	if err != nil {
		fields := []zap.Field{zap.String("session", session), zap.Error(err)}
		var insufficient *scoring.InsufficientDataError
		if errors.As(err, &insufficient) {
			fields = append(fields, zap.String("hint", "the session has no answered items for "+insufficient.Instrument))
		}
		zlog.Fatal("gathering answers", fields...)
	}

	rep := report.New(bundle)
	zlog = logger.WithFields(zlog, logger.SessionFields(rep.Session, rep.ID)...)

	writer, err := newNarrativeWriter(ctx, config.Narrative, zlog)
	if err != nil {
		zlog.Warn("narrative model unavailable, using template", zap.Error(err))
		writer, _ = narrative.NewWriter(nil, zlog, 0, 0, 0)
	}

	stages, err := prepareStages(config.Report.DisabledStages)
	if err != nil {
		zlog.Fatal("preparing pipeline", zap.Error(err))
	}

	deps := engine.Deps{Logger: zlog, Reference: ref, Narrative: writer}
	engineCfg := &engine.Config{Matches: config.Report.Matches, Motivators: config.Report.Motivators}
	if err := engine.Run(ctx, engineCfg, deps, stages, rep); err != nil {
		zlog.Fatal("running pipeline", zap.Error(err))
	}

	zlog.Info("report ready",
		zap.Int("warnings", len(rep.Warnings)),
		zap.Int("partial_dimensions", diag.Count(rep.Warnings, diag.PartialCoverage)),
	)

	if output := viper.GetString("report.output"); output != "" {
		if err := rep.Save(ctx, output); err != nil {
			zlog.Fatal("saving report", zap.String("path", output), zap.Error(err))
		}
		zlog.Info("report saved", zap.String("path", output))
	}

	if yes {
		if err := rep.WriteSummary(os.Stdout); err != nil {
			zlog.Fatal("printing summary", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			zlog.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, zlog, rep, stages); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			zlog.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, zlog *zap.Logger, rep *report.Report, stages []engine.Stage) error {
	out := os.Stdout
	switch action {
	case PromptSummary:
		return rep.WriteSummary(out)
	case PromptMotivators:
		return rep.WriteMotivators(out)
	case PromptClusters:
		return rep.WriteClusters(out)
	case PromptMatches:
		return rep.WriteMatches(out)
	case PromptArchetype:
		return rep.WriteArchetype(out)
	case PromptStages:
		pretty, _ := json.MarshalIndent(engine.Describe(stages), "", "  ")
		zlog.Info(string(pretty), zap.Int("stages", len(stages)))
		return nil
	case PromptDump:
		filename, err := rep.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		zlog.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		zlog.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// pickSession offers the most recent SQLite sessions. Other stores cannot
// list sessions, so the id must be passed explicitly.
func pickSession(ctx context.Context, store answerstore.Store, nonInteractive bool) (string, error) {
	lister, ok := store.(interface {
		Sessions(ctx context.Context, limit int) ([]string, error)
	})
	if !ok || nonInteractive {
		return "", errors.New("session id is required")
	}

	ids, err := lister.Sessions(ctx, recentSessions)
	if err != nil {
		return "", fmt.Errorf("listing sessions: %w", err)
	}
	if len(ids) == 0 {
		return "", errors.New("the store holds no sessions")
	}

	sessionPrompt := promptui.Select{
		Label: "Choose a session and press ENTER",
		Items: ids,
	}
	_, selected, err := sessionPrompt.Run()
	return selected, err
}
