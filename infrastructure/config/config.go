package config

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/embercoin/emberd/domain/chainparams"
	"github.com/embercoin/emberd/infrastructure/logger"
)

const (
	defaultLogLevel = "info"
)

// Flags holds the command-line flags relevant to the protocol engine.
type Flags struct {
	LogLevel                string `short:"d" long:"loglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	MaxHashesPerRequest     uint64 `long:"maxhashesask" description:"Maximum number of block hashes requested from a peer in a single retrieval round"`
	DisableTransactionRelay bool   `long:"notxrelay" description:"Do not forward inbound transactions to the transaction pool"`
	NetworkFlags
}

// Config defines the configuration options for the protocol engine.
type Config struct {
	*Flags
}

func defaultFlags() *Flags {
	return &Flags{
		LogLevel: defaultLogLevel,
	}
}

// DefaultConfig returns the default configuration, set to mainnet.
func DefaultConfig() *Config {
	config := &Config{Flags: defaultFlags()}
	config.ActiveNetParams = &chainparams.MainnetParams
	if config.MaxHashesPerRequest == 0 {
		config.MaxHashesPerRequest = config.ActiveNetParams.DefaultMaxHashesPerRequest
	}
	return config
}

// LoadConfig parses command line arguments, resolves the selected network
// and applies the log level.
func LoadConfig() (*Config, error) {
	cfgFlags := defaultFlags()
	parser := flags.NewParser(cfgFlags, flags.HelpFlag)
	_, err := parser.ParseArgs(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	config := &Config{Flags: cfgFlags}
	err = config.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	if config.MaxHashesPerRequest == 0 {
		config.MaxHashesPerRequest = config.ActiveNetParams.DefaultMaxHashesPerRequest
	}

	err = logger.SetLogLevels(config.LogLevel)
	if err != nil {
		return nil, err
	}

	return config, nil
}
