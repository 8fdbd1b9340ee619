package appmessage

import (
	"math/big"
)

// MsgNewBlock implements the Message interface and announces a newly mined
// block along with the announcing chain's cumulative difficulty including
// that block.
type MsgNewBlock struct {
	Block           *MsgBlock
	TotalDifficulty *big.Int
}

// Command returns the protocol command string for the message
func (msg *MsgNewBlock) Command() MessageCommand {
	return CmdNewBlock
}

// NewMsgNewBlock returns a new ember new-block message
func NewMsgNewBlock(block *MsgBlock, totalDifficulty *big.Int) *MsgNewBlock {
	return &MsgNewBlock{
		Block:           block,
		TotalDifficulty: totalDifficulty,
	}
}
