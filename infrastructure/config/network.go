package config

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/embercoin/emberd/domain/chainparams"
)

// NetworkFlags holds the network configuration, that is which network is
// selected.
type NetworkFlags struct {
	Testnet bool `long:"testnet" description:"Use the test network"`
	Simnet  bool `long:"simnet" description:"Use the simulation test network"`

	ActiveNetParams *chainparams.Params
}

// ResolveNetwork parses the network command line argument and sets
// ActiveNetParams accordingly. It returns an error if more than one network
// was selected, nil otherwise.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	// Default value is mainnet.
	networkFlags.ActiveNetParams = &chainparams.MainnetParams

	// Multiple networks can't be selected simultaneously.
	numNets := 0
	if networkFlags.Testnet {
		numNets++
		networkFlags.ActiveNetParams = &chainparams.TestnetParams
	}
	if networkFlags.Simnet {
		numNets++
		networkFlags.ActiveNetParams = &chainparams.SimnetParams
	}
	if numNets > 1 {
		message := "multiple networks parameters (testnet, simnet) cannot be used together"
		err := errors.Errorf("Error parsing commandline arguments: %s", message)
		if parser != nil {
			parser.WriteHelp(os.Stderr)
		}
		return err
	}

	return nil
}

// NetParams returns the currently active network params
func (networkFlags *NetworkFlags) NetParams() *chainparams.Params {
	return networkFlags.ActiveNetParams
}
