package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/releasetrain/internal/config"
	"github.com/zjrosen/releasetrain/internal/log"
)

var (
	appVersion = "dev"
	cfgFile    string
	cfg        config.Config

	closeLog func()
)

var rootCmd = &cobra.Command{
	Use:   "releasetrain",
	Short: "Release a cargo workspace whose packages share one version",
	Long: `releasetrain coordinates the release of a multi-package cargo workspace
where every package carries the same version: it bumps the version across
manifests and docs, validates the workspace, and publishes the packages to
crates.io one at a time in dependency order.

A failed publish halts the train. Re-running publish skips what the registry
already has, or use --start-from to resume at the package that failed.`,
	Version:           appVersion,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	PersistentPostRun: func(*cobra.Command, []string) {
		if closeLog != nil {
			closeLog()
			closeLog = nil
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .releasetrain/config.yaml, then ~/.config/releasetrain/config.yaml)")
	rootCmd.PersistentFlags().StringP("root", "C", "",
		"workspace root (default: current directory)")
	rootCmd.PersistentFlags().Bool("debug", false,
		"write a debug log to .releasetrain/debug.log")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"log progress to stderr")

	bindFlags()

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})
}

// bindFlags binds persistent flags to their config keys.
func bindFlags() {
	_ = viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	cfg = config.Config{}
	configErr = nil
	defaults := config.Defaults()
	viper.SetDefault("packages", defaults.Packages)
	viper.SetDefault("plan", defaults.Plan)
	viper.SetDefault("bump.doc_files", defaults.Bump.DocFiles)
	viper.SetDefault("registry.lookup", defaults.Registry.Lookup)
	viper.SetDefault("registry.index_url", defaults.Registry.IndexURL)
	viper.SetDefault("registry.cargo", defaults.Registry.Cargo)
	viper.SetDefault("registry.wait_seconds", defaults.Registry.WaitSeconds)
	viper.SetDefault("registry.no_verify", defaults.Registry.NoVerify)
	viper.SetDefault("registry.cache_ttl_seconds", defaults.Registry.CacheTTLSeconds)
	viper.SetDefault("registry.timeout_seconds", defaults.Registry.TimeoutSeconds)
	viper.SetDefault("checks.artifact_path", defaults.Checks.ArtifactPath)
	viper.SetDefault("checks.min_artifact_bytes", defaults.Checks.MinArtifactBytes)
	viper.SetDefault("checks.offline_env", defaults.Checks.OfflineEnv)
	viper.SetDefault("checks.doc_scope", defaults.Checks.DocScope)
	viper.SetDefault("bindings.command", defaults.Bindings.Command)
	viper.SetDefault("bindings.profile", defaults.Bindings.Profile)
	viper.SetDefault("bindings.submodules", defaults.Bindings.Submodules)
	viper.SetDefault("history.enabled", defaults.History.Enabled)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	viper.SetEnvPrefix("RELEASETRAIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .releasetrain/config.yaml (--root, or the current directory)
		// 2. ~/.config/releasetrain/config.yaml (user config)
		local := filepath.Join(viper.GetString("root"), config.DirName, config.FileName)
		if _, err := os.Stat(local); err == nil {
			viper.SetConfigFile(local)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "releasetrain"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// A missing config file is fine: the defaults describe a complete workspace.
	// Other read errors surface when a command loads its environment.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			configErr = fmt.Errorf("reading config: %w", err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil && configErr == nil {
		configErr = fmt.Errorf("decoding config: %w", err)
	}
}

// configErr holds a config read failure until a command needs the config.
var configErr error

func setupLogging(cmd *cobra.Command, _ []string) error {
	if cfg.Debug {
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		path := filepath.Join(root, config.DirName, config.LogFile)
		cleanup, err := log.Init(path)
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		closeLog = cleanup
		log.Info(log.CatConfig, "Debug logging enabled", "version", appVersion, "config", viper.ConfigFileUsed())
		return nil
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.InitWriter(cmd.ErrOrStderr(), log.LevelInfo)
	}
	return nil
}

// workspaceRoot returns the configured root or the current directory.
func workspaceRoot() (string, error) {
	if cfg.Root != "" {
		return filepath.Abs(cfg.Root)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return wd, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}
