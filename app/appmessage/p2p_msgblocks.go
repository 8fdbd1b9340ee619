package appmessage

// MsgBlocks implements the Message interface and carries full block bodies
// in response to MsgGetBlocks.
type MsgBlocks struct {
	Blocks []*MsgBlock
}

// Command returns the protocol command string for the message
func (msg *MsgBlocks) Command() MessageCommand {
	return CmdBlocks
}

// NewMsgBlocks returns a new ember blocks message
func NewMsgBlocks(blocks []*MsgBlock) *MsgBlocks {
	return &MsgBlocks{
		Blocks: blocks,
	}
}
