package config

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigMinimaxDepth        = "minimax-depth"
	ConfigMCTSIterations      = "mcts-iterations"
	ConfigMCTSExploration     = "mcts-exploration"
	ConfigMCTSRolloutsPerLeaf = "mcts-rollouts-per-leaf"
	ConfigSeed                = "seed"
	ConfigDebug               = "debug"
	ConfigPlayer0             = "player0"
	ConfigPlayer1             = "player1"
	ConfigAutoplayGames       = "autoplay-games"
	ConfigAutoplayThreads     = "autoplay-threads"
	ConfigAutoplayOutput      = "autoplay-output"
	ConfigFile                = "config-file"
	ConfigCPUProfile          = "cpu-profile"
)

// Config wraps a viper instance holding every tunable of the engines and
// the programs around them. Values come, in order of precedence, from
// flags, REVERSI_* environment variables, the YAML config file, and the
// defaults below.
type Config struct {
	v    *viper.Viper
	args []string
}

func defaultConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".reversi", "config.yaml")
	}
	return filepath.Join(home, ".reversi", "config.yaml")
}

// DefaultConfig returns a config with only the built-in defaults and
// environment overrides applied.
func DefaultConfig() *Config {
	v := viper.New()
	v.SetDefault(ConfigMinimaxDepth, 8)
	v.SetDefault(ConfigMCTSIterations, 10000)
	v.SetDefault(ConfigMCTSExploration, 1/math.Sqrt2)
	v.SetDefault(ConfigMCTSRolloutsPerLeaf, 10)
	v.SetDefault(ConfigSeed, 0)
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigPlayer0, "minimax")
	v.SetDefault(ConfigPlayer1, "mcts")
	v.SetDefault(ConfigAutoplayGames, 100)
	v.SetDefault(ConfigAutoplayThreads, runtime.NumCPU())
	v.SetDefault(ConfigAutoplayOutput, filepath.Join(os.TempDir(), "reversi-autoplay.csv"))
	v.SetDefault(ConfigFile, defaultConfigFile())
	v.SetDefault(ConfigCPUProfile, "")

	v.SetEnvPrefix("REVERSI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &Config{v: v}
}

// Load parses command-line flags and then reads the config file, if one
// exists. Positional arguments are kept and can be read with Args.
func (c *Config) Load(args []string) error {
	flags := pflag.NewFlagSet("reversi", pflag.ContinueOnError)
	flags.Int(ConfigMinimaxDepth, c.v.GetInt(ConfigMinimaxDepth), "minimax search depth in plies")
	flags.Int(ConfigMCTSIterations, c.v.GetInt(ConfigMCTSIterations), "MCTS iterations per move")
	flags.Float64(ConfigMCTSExploration, c.v.GetFloat64(ConfigMCTSExploration), "UCB1 exploration constant")
	flags.Int(ConfigMCTSRolloutsPerLeaf, c.v.GetInt(ConfigMCTSRolloutsPerLeaf), "random games averaged per expanded node")
	flags.Uint64(ConfigSeed, c.v.GetUint64(ConfigSeed), "random seed; 0 picks one from system entropy")
	flags.Bool(ConfigDebug, c.v.GetBool(ConfigDebug), "debug logging")
	flags.String(ConfigPlayer0, c.v.GetString(ConfigPlayer0), "player x: human, random, minimax[:depth] or mcts[:iterations]")
	flags.String(ConfigPlayer1, c.v.GetString(ConfigPlayer1), "player o: human, random, minimax[:depth] or mcts[:iterations]")
	flags.Int(ConfigAutoplayGames, c.v.GetInt(ConfigAutoplayGames), "number of games for autoplay")
	flags.Int(ConfigAutoplayThreads, c.v.GetInt(ConfigAutoplayThreads), "number of autoplay workers")
	flags.String(ConfigAutoplayOutput, c.v.GetString(ConfigAutoplayOutput), "autoplay CSV log file")
	flags.String(ConfigFile, c.v.GetString(ConfigFile), "YAML config file")
	flags.String(ConfigCPUProfile, c.v.GetString(ConfigCPUProfile), "write a CPU profile to this file")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := c.v.BindPFlags(flags); err != nil {
		return err
	}
	c.args = flags.Args()

	c.v.SetConfigFile(c.v.GetString(ConfigFile))
	c.v.SetConfigType("yaml")
	err := c.v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Args returns the positional arguments left over after Load.
func (c *Config) Args() []string {
	return c.args
}

func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *Config) GetUint64(key string) uint64 {
	return c.v.GetUint64(key)
}

func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// Keys returns the names of all settings, sorted.
func (c *Config) Keys() []string {
	keys := c.v.AllKeys()
	sort.Strings(keys)
	return keys
}

// IsKnown returns true if key is one of the settings above.
func (c *Config) IsKnown(key string) bool {
	for _, k := range c.v.AllKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// Write saves the current settings to the config file.
func (c *Config) Write() error {
	path := c.v.GetString(ConfigFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return c.v.WriteConfigAs(path)
}

// ToDisplayText lists every setting, one per line.
func (c *Config) ToDisplayText() string {
	var sb strings.Builder
	for _, k := range c.Keys() {
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(c.v.GetString(k))
		sb.WriteString("\n")
	}
	return sb.String()
}
