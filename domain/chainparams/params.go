package chainparams

import (
	"github.com/embercoin/emberd/util/chainhash"
)

// Params defines an ember network by its parameters. These parameters may be
// used by applications to differentiate networks as well as addresses and
// keys for one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// NetworkID identifies the network inside the wire sub-protocol
	// handshake. Peers announcing a different network ID are disconnected.
	NetworkID uint32

	// ProtocolVersion is the version of the wire sub-protocol this network
	// currently speaks.
	ProtocolVersion uint32

	// GenesisHash is the hash of the network's genesis block. Peers built
	// on a different genesis are protocol-incompatible.
	GenesisHash *chainhash.Hash

	// DefaultMaxHashesPerRequest is the default amount of block hashes
	// requested from a peer in a single hash retrieval round.
	DefaultMaxHashesPerRequest uint64
}

// MainnetParams defines the network parameters for the main ember network.
var MainnetParams = Params{
	Name:            "ember-mainnet",
	NetworkID:       1,
	ProtocolVersion: 61,
	GenesisHash: &chainhash.Hash{
		0xdc, 0x5f, 0x5b, 0x5b, 0x1d, 0xc2, 0xa7, 0x25,
		0x49, 0xd5, 0x1d, 0x4d, 0xee, 0xd7, 0xa4, 0x8b,
		0xaf, 0xd3, 0x14, 0x4b, 0x56, 0x78, 0x98, 0xb1,
		0x8c, 0xfd, 0x9f, 0x69, 0xdd, 0xcf, 0xbb, 0x63,
	},
	DefaultMaxHashesPerRequest: 512,
}

// TestnetParams defines the network parameters for the test ember network.
var TestnetParams = Params{
	Name:            "ember-testnet",
	NetworkID:       3,
	ProtocolVersion: 61,
	GenesisHash: &chainhash.Hash{
		0x41, 0x94, 0x10, 0x55, 0xe9, 0x1b, 0x6e, 0xc4,
		0x7e, 0x29, 0x48, 0x8d, 0xe5, 0xfc, 0x84, 0x05,
		0x9c, 0xd8, 0x07, 0xab, 0xd5, 0xc4, 0x1c, 0x3a,
		0x72, 0xa2, 0xd6, 0x27, 0x5b, 0xee, 0xc2, 0x39,
	},
	DefaultMaxHashesPerRequest: 512,
}

// SimnetParams defines the network parameters for the simulation test
// network. This network is similar to the normal test network except it is
// intended for private use within a group of individuals doing simulation
// testing.
var SimnetParams = Params{
	Name:            "ember-simnet",
	NetworkID:       100,
	ProtocolVersion: 61,
	GenesisHash: &chainhash.Hash{
		0x9d, 0x89, 0xb0, 0x6e, 0xb3, 0x4b, 0x59, 0xd0,
		0x1c, 0x7f, 0x5e, 0x0e, 0x30, 0xe1, 0x5d, 0x7a,
		0xd5, 0x62, 0x99, 0x13, 0x38, 0x41, 0x60, 0xc8,
		0x32, 0x8f, 0x6a, 0xbe, 0x7c, 0x32, 0x54, 0xeb,
	},
	DefaultMaxHashesPerRequest: 64,
}
