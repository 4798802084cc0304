package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/fingerspell/internal/server"
)

// Configuration keys shared by flags, environment and config file.
const (
	keyAddr       = "addr"
	keyDB         = "db"
	keyWebDir     = "web_dir"
	keySessionTTL = "session_ttl"
	keyMaxFPS     = "max_fps"
)

// Config is the runtime configuration of the fingerspell binary.
type Config struct {
	Addr       string        `yaml:"addr"`
	DB         string        `yaml:"db"`
	WebDir     string        `yaml:"web_dir"`
	SessionTTL time.Duration `yaml:"-"`
	MaxFPS     float64       `yaml:"max_fps"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Addr:       ":8080",
		DB:         filepath.Join(dataDir(), "fingerspell.db"),
		SessionTTL: server.DefaultSessionTTL,
		MaxFPS:     15,
	}
}

// dataDir returns ~/.fingerspell, or the working directory when there is no home.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".fingerspell")
}

func setDefaults(v *viper.Viper) {
	cfg := DefaultConfig()
	v.SetDefault(keyAddr, cfg.Addr)
	v.SetDefault(keyDB, cfg.DB)
	v.SetDefault(keyWebDir, cfg.WebDir)
	v.SetDefault(keySessionTTL, cfg.SessionTTL)
	v.SetDefault(keyMaxFPS, cfg.MaxFPS)
}

// loadConfig resolves the configuration from flags, environment, config file
// and defaults, in that order.
func loadConfig() Config {
	return Config{
		Addr:       viper.GetString(keyAddr),
		DB:         viper.GetString(keyDB),
		WebDir:     viper.GetString(keyWebDir),
		SessionTTL: viper.GetDuration(keySessionTTL),
		MaxFPS:     viper.GetFloat64(keyMaxFPS),
	}
}

// marshalConfig renders a configuration as YAML with a readable TTL.
func marshalConfig(cfg Config) ([]byte, error) {
	doc := struct {
		Config     `yaml:",inline"`
		SessionTTL string `yaml:"session_ttl"`
	}{cfg, cfg.SessionTTL.String()}
	return yaml.Marshal(doc)
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fingerspell configuration",
	Long: `Manage fingerspell configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (FINGERSPELL_*)
3. Config file (~/.fingerspell/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", file)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "No configuration file found (using defaults)\n\n")
		}

		data, err := marshalConfig(loadConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.fingerspell/config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := filepath.Join(dataDir(), "config.yaml")
		if cfgFile != "" {
			configPath = cfgFile
		}

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s", configPath)
		}

		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		data, err := marshalConfig(DefaultConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		header := "# fingerspell configuration\n# Environment variables FINGERSPELL_* and CLI flags override these values.\n"
		if err := os.WriteFile(configPath, append([]byte(header), data...), 0644); err != nil {
			return fmt.Errorf("error writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
