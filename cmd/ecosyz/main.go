// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ecosyz CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/ecosyz/internal/provider"
	"github.com/pdiddy/ecosyz/internal/secrets"
	"github.com/pdiddy/ecosyz/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Process-wide state set up by the root command before any subcommand runs.
var (
	loadedSecrets map[string]string
	logger        = zap.NewNop()
)

// rootCmd is the base command for the ecosyz CLI.
var rootCmd = &cobra.Command{
	Use:   "ecosyz",
	Short: "Federated search across research ecosystems",
	Long: `ecosyz sends one free-text query to many catalogs (papers, datasets, code,
models, hardware, videos), merges records that describe the same item,
ranks what remains, and returns a paginated result envelope.

Use search for a one-shot query, serve to expose the JSON query interface,
and catalog to manage the local curated catalog.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = l

		dir, _ := cmd.Flags().GetString("secrets")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ecosyz.yaml or ~/.config/ecosyz/config.yaml)")
	rootCmd.PersistentFlags().String("secrets", ".secrets/", "directory of credential files")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "development logging at debug level")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ecosyz")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ecosyz"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("ECOSYZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers the default value of every configuration key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", provider.DefaultTimeout)
	v.SetDefault("http.user_agent", "ecosyz/"+version)
	v.SetDefault("search.providers", append(append([]string(nil), provider.BuiltinNames...), "catalog"))
	v.SetDefault("search.per_provider", provider.DefaultLimit)
	v.SetDefault("search.default_limit", 30)
	v.SetDefault("breaker.max_failures", 5)
	v.SetDefault("breaker.open_timeout", 30*time.Second)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.max_entries", 100)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("catalog.path", "")
}

// loadConfig decodes the merged viper configuration.
func loadConfig(v *viper.Viper) (types.EngineConfig, error) {
	var cfg types.EngineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
