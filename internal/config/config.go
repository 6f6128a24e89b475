// Package config loads CLI settings from serialctl.yaml, SERIALCTL_*
// environment variables and command-line flags, in rising precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/allbin/go-serialctl"
	"github.com/allbin/go-serialctl/internal/logger"
)

// EnvPrefix prefixes every environment override, e.g. SERIALCTL_BAUD
const EnvPrefix = "SERIALCTL"

// Config is the merged CLI configuration
type Config struct {
	Device      string        `mapstructure:"device"`
	Baud        int           `mapstructure:"baud"`
	FlowControl string        `mapstructure:"flow_control"`
	Mode        string        `mapstructure:"mode"`
	AutoFlush   bool          `mapstructure:"auto_flush"`
	SendDelay   time.Duration `mapstructure:"send_delay"`
	FlushPolicy string        `mapstructure:"flush_policy"`
	Log         logger.Config `mapstructure:"log"`
}

// flagKeys maps flag names to configuration keys
var flagKeys = map[string]string{
	"device":       "device",
	"baud":         "baud",
	"flow-control": "flow_control",
	"mode":         "mode",
	"auto-flush":   "auto_flush",
	"send-delay":   "send_delay",
	"flush-policy": "flush_policy",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"log-file":     "log.file",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("device", "")
	v.SetDefault("baud", 115200)
	v.SetDefault("flow_control", "none")
	v.SetDefault("mode", string(serialctl.DefaultMode))
	v.SetDefault("auto_flush", true)
	v.SetDefault("send_delay", "100ms")
	v.SetDefault("flush_policy", "drop")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", false)
}

// Load reads configuration. With an empty path serialctl.yaml is looked up
// in the working directory and the user config directory, and may be absent.
// Flags in flags that were set on the command line win over everything else.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("serialctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "serialctl"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the Port would otherwise reject late
func (c *Config) Validate() error {
	if !serialctl.ValidBaudRate(c.Baud) {
		return fmt.Errorf("baud %d is not supported", c.Baud)
	}
	if _, err := serialctl.ParseFlowControl(c.FlowControl); err != nil {
		return err
	}
	if _, err := serialctl.ParseFlushPolicy(c.FlushPolicy); err != nil {
		return err
	}
	if c.Mode != "" && !serialctl.Mode(c.Mode).Valid() {
		return fmt.Errorf("mode %q is not valid", c.Mode)
	}
	if c.SendDelay < 0 {
		return fmt.Errorf("send_delay must not be negative")
	}
	return nil
}

// Flow returns the parsed flow control setting
func (c *Config) Flow() serialctl.FlowControl {
	fc, _ := serialctl.ParseFlowControl(c.FlowControl)
	return fc
}

// PortOptions converts the configuration into Port options
func (c *Config) PortOptions(log *zap.Logger) []serialctl.Option {
	policy, _ := serialctl.ParseFlushPolicy(c.FlushPolicy)
	return []serialctl.Option{
		serialctl.WithAutoFlush(c.AutoFlush),
		serialctl.WithFlushPolicy(policy),
		serialctl.WithSendDelay(c.SendDelay),
		serialctl.WithLogger(log),
	}
}
