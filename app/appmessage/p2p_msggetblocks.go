package appmessage

import (
	"github.com/embercoin/emberd/util/chainhash"
)

// MsgGetBlocks implements the Message interface and requests the full bodies
// of the blocks with the given hashes.
type MsgGetBlocks struct {
	Hashes []*chainhash.Hash
}

// Command returns the protocol command string for the message
func (msg *MsgGetBlocks) Command() MessageCommand {
	return CmdGetBlocks
}

// NewMsgGetBlocks returns a new ember get-blocks message
func NewMsgGetBlocks(hashes []*chainhash.Hash) *MsgGetBlocks {
	return &MsgGetBlocks{
		Hashes: hashes,
	}
}
