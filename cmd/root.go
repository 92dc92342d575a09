package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"kdscan/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	appCfg  config.Config
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:          "kdscan",
	Short:        "KarmaDecay reverse image search from the command line",
	Long:         "Query KarmaDecay for reposts of an image and print the matches as JSON or YAML.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
}

func initConfig() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := loadConfig(viper.GetViper(), cfgFile, ".", "$HOME/.config/kdscan", "configs")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	appCfg = cfg

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: appCfg.App.SlogLevel()})))
	if used := viper.ConfigFileUsed(); used != "" {
		slog.Debug("using config file", "path", used)
	}
}

// loadConfig reads file, or config.yaml from the first of paths that has
// one, then applies KDSCAN_* environment overrides. A missing config file
// is not an error.
func loadConfig(v *viper.Viper, file string, paths ...string) (config.Config, error) {
	var cfg config.Config

	v.SetEnvPrefix("kdscan")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about; registering every key
	// lets env vars apply without a config file.
	registerDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return cfg, fmt.Errorf("error reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.FillDefaults()
	return cfg, nil
}

func registerDefaults(v *viper.Viper) {
	var d config.Config
	d.FillDefaults()

	v.SetDefault("app.log_level", d.App.LogLevel)
	v.SetDefault("kd.base_url", d.KD.BaseURL)
	v.SetDefault("kd.user_agent", d.KD.UserAgent)
	v.SetDefault("kd.timeout", d.KD.Timeout)
	v.SetDefault("kd.fallback", d.KD.Fallback)
	v.SetDefault("kd.cache_size", d.KD.CacheSize)
	v.SetDefault("rate_limit.interval", d.RateLimit.Interval)
	v.SetDefault("rate_limit.redis", d.RateLimit.Redis)
	v.SetDefault("rate_limit.key", d.RateLimit.Key)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.username", d.Redis.Username)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
}

// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() config.Config {
	return appCfg
}
