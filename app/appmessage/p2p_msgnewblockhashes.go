package appmessage

import (
	"github.com/embercoin/emberd/util/chainhash"
)

// MsgNewBlockHashes implements the Message interface and announces the
// hashes of newly appeared blocks without their bodies.
type MsgNewBlockHashes struct {
	Hashes []*chainhash.Hash
}

// Command returns the protocol command string for the message
func (msg *MsgNewBlockHashes) Command() MessageCommand {
	return CmdNewBlockHashes
}

// NewMsgNewBlockHashes returns a new ember new-block-hashes message
func NewMsgNewBlockHashes(hashes []*chainhash.Hash) *MsgNewBlockHashes {
	return &MsgNewBlockHashes{
		Hashes: hashes,
	}
}
