package appmessage

// MsgTransactions implements the Message interface and carries a set of
// pending transactions being relayed between peers.
type MsgTransactions struct {
	Transactions []*MsgTx
}

// Command returns the protocol command string for the message
func (msg *MsgTransactions) Command() MessageCommand {
	return CmdTransactions
}

// NewMsgTransactions returns a new ember transactions message
func NewMsgTransactions(transactions []*MsgTx) *MsgTransactions {
	return &MsgTransactions{
		Transactions: transactions,
	}
}
