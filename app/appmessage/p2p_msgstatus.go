package appmessage

import (
	"math/big"

	"github.com/embercoin/emberd/util/chainhash"
)

// MsgStatus implements the Message interface and announces a peer's chain
// state as part of the sub-protocol handshake. It is both the first message
// a peer sends after activation and the message it expects from the remote
// side before any sync activity starts.
type MsgStatus struct {
	// ProtocolVersion is the sub-protocol version the peer speaks.
	ProtocolVersion uint32

	// NetworkID identifies which ember network the peer is on.
	NetworkID uint32

	// TotalDifficulty is the cumulative proof-of-work of the peer's best
	// chain.
	TotalDifficulty *big.Int

	// BestHash is the hash of the peer's best known block.
	BestHash *chainhash.Hash

	// GenesisHash is the hash of the peer's genesis block.
	GenesisHash *chainhash.Hash
}

// Command returns the protocol command string for the message
func (msg *MsgStatus) Command() MessageCommand {
	return CmdStatus
}

// NewMsgStatus returns a new ember status message
func NewMsgStatus(protocolVersion uint32, networkID uint32, totalDifficulty *big.Int,
	bestHash *chainhash.Hash, genesisHash *chainhash.Hash) *MsgStatus {

	return &MsgStatus{
		ProtocolVersion: protocolVersion,
		NetworkID:       networkID,
		TotalDifficulty: totalDifficulty,
		BestHash:        bestHash,
		GenesisHash:     genesisHash,
	}
}
