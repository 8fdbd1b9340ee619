package appmessage

import (
	"github.com/embercoin/emberd/util/chainhash"
)

// MsgBlockHashes implements the Message interface and carries a batch of
// known block hashes in response to MsgGetBlockHashes or
// MsgGetBlockHashesByNumber.
type MsgBlockHashes struct {
	Hashes []*chainhash.Hash
}

// Command returns the protocol command string for the message
func (msg *MsgBlockHashes) Command() MessageCommand {
	return CmdBlockHashes
}

// NewMsgBlockHashes returns a new ember block-hashes message
func NewMsgBlockHashes(hashes []*chainhash.Hash) *MsgBlockHashes {
	return &MsgBlockHashes{
		Hashes: hashes,
	}
}
