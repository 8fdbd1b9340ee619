package appmessage

import (
	"github.com/embercoin/emberd/util/chainhash"
)

// MsgGetBlockHashes implements the Message interface and requests a batch of
// known block hashes walking backwards from the given block hash.
type MsgGetBlockHashes struct {
	// FromHash is the hash of the block to start walking from.
	FromHash *chainhash.Hash

	// MaxHashes limits the amount of hashes in the response.
	MaxHashes uint64
}

// Command returns the protocol command string for the message
func (msg *MsgGetBlockHashes) Command() MessageCommand {
	return CmdGetBlockHashes
}

// NewMsgGetBlockHashes returns a new ember get-block-hashes message
func NewMsgGetBlockHashes(fromHash *chainhash.Hash, maxHashes uint64) *MsgGetBlockHashes {
	return &MsgGetBlockHashes{
		FromHash:  fromHash,
		MaxHashes: maxHashes,
	}
}
