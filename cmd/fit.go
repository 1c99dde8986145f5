package cmd

import (
	"encoding/json"
	"errors"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/careerfit/internal/fit"
	"github.com/spigell/careerfit/internal/logger"
	"github.com/spigell/careerfit/internal/trait"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Score a trait vector against a target profile and conflict thresholds",
	Example: `  careerfit fit --user R=2,I=5,A=3 --target I=4,A=3 --conflict R=3.5
  careerfit fit --shape personality --user O=4,N=4.4 --target O=3.5 --conflict N=3.5 --linear`,
	Run: func(cmd *cobra.Command, _ []string) {
		runFit(cmd)
	},
}

func init() {
	rootCmd.AddCommand(fitCmd)

	fitCmd.Flags().String("user", "", "candidate vector, KEY=VALUE pairs separated by commas")
	fitCmd.Flags().String("target", "", "target profile, KEY=VALUE pairs")
	fitCmd.Flags().String("conflict", "", "conflict thresholds, KEY=VALUE pairs")
	fitCmd.Flags().String("shape", "", "trait shape used for labels and ordering (interest or personality)")
	fitCmd.Flags().Bool("lenient", false, "skip dimensions missing from the user vector")
	fitCmd.Flags().Bool("linear", false, "penalize conflicts linearly instead of quadratically")

	fitCmd.MarkFlagRequired("user")

	viper.BindPFlag("fit.lenient", fitCmd.Flags().Lookup("lenient"))
	viper.BindPFlag("fit.conflict-linear", fitCmd.Flags().Lookup("linear"))
}

func runFit(cmd *cobra.Command) {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	vectors := map[string]trait.Vector{}
	for _, name := range []string{"user", "target", "conflict"} {
		v, err := trait.Parse(cmd.Flag(name).Value.String())
		if err != nil {
			zlog.Fatal("parsing vector", zap.String("flag", name), zap.Error(err),
				zap.String("hint", "use KEY=VALUE pairs such as R=2,I=5"),
			)
		}
		vectors[name] = v
	}

	opts := fitOptions(config.Fit)
	if name := cmd.Flag("shape").Value.String(); name != "" {
		shape, err := trait.ShapeByName(name)
		if err != nil {
			zlog.Fatal("reading --shape", zap.Error(err))
		}
		opts.TraitOrder = shape.Keys
		opts.Labels = shape.Labels
	}

	res, err := fit.Compute(vectors["user"], vectors["target"], vectors["conflict"], opts)
	if err != nil {
		var missing *fit.MissingTraitError
		if errors.As(err, &missing) {
			zlog.Fatal("computing fit", zap.Error(err), zap.String("hint", "add "+missing.Dimension+" to --user or pass --lenient"))
		}
		zlog.Fatal("computing fit", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		zlog.Fatal("printing result", zap.Error(err))
	}
}
