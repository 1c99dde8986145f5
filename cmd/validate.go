package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/careerfit/internal/instrument"
	"github.com/spigell/careerfit/internal/logger"
	"github.com/spigell/careerfit/internal/reference"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the reference data and check its integrity",
	Run: func(_ *cobra.Command, _ []string) {
		runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate() {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	ref, err := loadReference(config)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		var integrity *instrument.IntegrityError
		if errors.As(err, &integrity) {
			fields = append(fields,
				zap.String("instrument", integrity.Instrument),
				zap.String("item", integrity.ItemID),
			)
		}
		zlog.Fatal("reference data is invalid", fields...)
	}

	for _, name := range []string{reference.PersonalityBank, reference.InterestBank} {
		bank, _ := ref.Bank(name)
		zlog.Info("item bank", zap.String("instrument", name), zap.Int("items", bank.Len()))
	}
	zlog.Info("catalog", zap.String("version", ref.Catalog.Version()), zap.Int("records", ref.Catalog.Len()))
	zlog.Info("cluster taxonomy", zap.String("version", ref.Clusters.Version), zap.Int("categories", ref.Clusters.Len()))
	zlog.Info("reference data is valid")
}
