package appmessage

// MsgGetBlockHashesByNumber implements the Message interface and requests a
// batch of known block hashes starting at the given block number. Only legal
// for peers that negotiated protocol version 61 or above.
type MsgGetBlockHashesByNumber struct {
	// StartNumber is the number of the first block whose hash is requested.
	StartNumber uint64

	// MaxHashes limits the amount of hashes in the response.
	MaxHashes uint64
}

// Command returns the protocol command string for the message
func (msg *MsgGetBlockHashesByNumber) Command() MessageCommand {
	return CmdGetBlockHashesByNumber
}

// NewMsgGetBlockHashesByNumber returns a new ember get-block-hashes-by-number message
func NewMsgGetBlockHashesByNumber(startNumber uint64, maxHashes uint64) *MsgGetBlockHashesByNumber {
	return &MsgGetBlockHashesByNumber{
		StartNumber: startNumber,
		MaxHashes:   maxHashes,
	}
}
