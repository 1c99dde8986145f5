package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/careerfit/internal/answerstore"
	"github.com/spigell/careerfit/internal/logger"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy a session from an answers directory into the SQLite store",
	Run: func(cmd *cobra.Command, _ []string) {
		runImport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("session", "s", "", "session id to import")
	importCmd.Flags().String("from", "", "answers directory laid out as <dir>/<session>/<section>.json (default store.dir)")

	importCmd.MarkFlagRequired("session")
}

func runImport(cmd *cobra.Command) {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	from := cmd.Flag("from").Value.String()
	if from == "" {
		from = config.Store.Dir
	}
	session := cmd.Flag("session").Value.String()

	dst, err := answerstore.OpenSQLite(config.Store.SQLitePath)
	if err != nil {
		zlog.Fatal("opening sqlite store", zap.Error(err), zap.String("hint", "set store.sqlite-path"))
	}
	defer dst.Close()

	copied, err := answerstore.Copy(ctx, answerstore.NewFileStore(from), dst, session)
	if err != nil {
		zlog.Fatal("importing session", zap.String("session", session), zap.Error(err))
	}
	if copied == 0 {
		zlog.Warn("nothing imported", zap.String("session", session), zap.String("from", from))
		return
	}

	zlog.Info("session imported",
		zap.String("session", session),
		zap.Int("sections", copied),
		zap.String("database", dst.Path()),
	)
}
