package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/careerfit/internal/reference"
)

const (
	app = "careerfit"
)

type Config struct {
	Reference reference.Paths  `mapstructure:"reference"`
	Store     *StoreConfig     `mapstructure:"store"`
	Report    *ReportConfig    `mapstructure:"report"`
	Narrative *NarrativeConfig `mapstructure:"narrative"`
	Fit       *FitConfig       `mapstructure:"fit"`
}

type StoreConfig struct {
	Kind       string `mapstructure:"kind"`
	Dir        string `mapstructure:"dir"`
	URL        string `mapstructure:"url"`
	TokenFile  string `mapstructure:"token-file"`
	UserAgent  string `mapstructure:"user-agent"`
	MaxRetries int    `mapstructure:"max-retries"`
	SQLitePath string `mapstructure:"sqlite-path"`
}

type ReportConfig struct {
	Matches        int      `mapstructure:"matches"`
	Motivators     int      `mapstructure:"motivators"`
	Required       []string `mapstructure:"required"`
	Output         string   `mapstructure:"output"`
	DisabledStages []string `mapstructure:"disabled-stages"`
}

type NarrativeConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Provider  string        `mapstructure:"provider"`
	Timeout   string        `mapstructure:"timeout"`
	CacheSize int           `mapstructure:"cache-size"`
	Gemini    *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type FitConfig struct {
	NoiseBand      float64 `mapstructure:"noise-band"`
	DeficitFactor  float64 `mapstructure:"deficit-factor"`
	ConflictFactor float64 `mapstructure:"conflict-factor"`
	ConflictLinear bool    `mapstructure:"conflict-linear"`
	Lenient        bool    `mapstructure:"lenient"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "careerfit scores questionnaire answers into career recommendations",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("store.token-file", "CAREERFIT_STORE_TOKEN_FILE"); err != nil {
		log.Fatalf("binding CAREERFIT_STORE_TOKEN_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("narrative.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	setDefaults()
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is careerfit.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("store.kind", "file")
	viper.SetDefault("store.dir", "./answers")
	viper.SetDefault("store.max-retries", 2)
	viper.SetDefault("store.sqlite-path", "./careerfit.db")
	viper.SetDefault("report.matches", 10)
	viper.SetDefault("report.motivators", 5)
	viper.SetDefault("report.required", []string{"interest"})
	viper.SetDefault("narrative.provider", "gemini")
	viper.SetDefault("narrative.timeout", "20s")
	viper.SetDefault("narrative.cache-size", 128)
	viper.SetDefault("fit.noise-band", 0.5)
	viper.SetDefault("fit.deficit-factor", 3.0)
	viper.SetDefault("fit.conflict-factor", 10.0)
}

// initConfig reads careerfit.yaml when present. The embedded reference data
// and defaults are enough to run, so only an explicit --config must exist.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
