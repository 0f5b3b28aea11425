package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sarchlab/queuesim/shop"
)

const envPrefix = "QUEUESIM"

// shopFlags maps flag names to configuration keys.
var shopFlags = map[string]string{
	"horizon":           "horizon",
	"working-duration":  "working_duration",
	"mean-interarrival": "mean_interarrival",
	"min-service":       "min_service",
	"max-service":       "max_service",
	"capacity":          "capacity",
	"sample-interval":   "sample_interval",
	"poll-interval":     "poll_interval",
}

func addShopFlags(c *cobra.Command) {
	def := shop.DefaultConfig()
	flags := c.PersistentFlags()

	flags.Float64("horizon", def.Horizon, "hard cutoff of the run, in minutes")
	flags.Float64("working-duration", def.WorkingDuration,
		"minutes the shop stays open")
	flags.Float64("mean-interarrival", def.MeanInterarrival,
		"mean minutes between arrivals")
	flags.Float64("min-service", def.MinService, "shortest service, in minutes")
	flags.Float64("max-service", def.MaxService, "longest service, in minutes")
	flags.Int("capacity", def.Capacity, "customers served at the same time")
	flags.Float64("sample-interval", def.SampleInterval,
		"minutes between queue samples")
	flags.Float64("poll-interval", def.PollInterval,
		"minutes between drain checks after closing")
}

// loadConfig layers, from lowest to highest priority, the defaults, the
// config file, the env file, the environment and the flags that were set.
func loadConfig(flags *pflag.FlagSet) (shop.Config, error) {
	cfg := shop.Config{}
	v := viper.New()

	def := shop.DefaultConfig()
	v.SetDefault("horizon", def.Horizon)
	v.SetDefault("working_duration", def.WorkingDuration)
	v.SetDefault("mean_interarrival", def.MeanInterarrival)
	v.SetDefault("min_service", def.MinService)
	v.SetDefault("max_service", def.MaxService)
	v.SetDefault("capacity", def.Capacity)
	v.SetDefault("sample_interval", def.SampleInterval)
	v.SetDefault("poll_interval", def.PollInterval)

	envFile, _ := flags.GetString("env-file")
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	configFile, _ := flags.GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	for name, key := range shopFlags {
		flag := flags.Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}

		if err := v.BindPFlag(key, flag); err != nil {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, cfg.Validate()
}
