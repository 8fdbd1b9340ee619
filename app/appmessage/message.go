package appmessage

import (
	"fmt"
)

// MessageCommand is a number in the header of a message that represents its
// type.
type MessageCommand uint32

func (cmd MessageCommand) String() string {
	cmdString, ok := ProtocolMessageCommandToString[cmd]
	if !ok {
		cmdString = "unknown command"
	}
	return fmt.Sprintf("%s [code %d]", cmdString, uint8(cmd))
}

// Commands used in ember message headers which describe the type of message.
const (
	CmdStatus MessageCommand = iota
	CmdNewBlockHashes
	CmdTransactions
	CmdGetBlockHashes
	CmdBlockHashes
	CmdGetBlocks
	CmdBlocks
	CmdNewBlock
	CmdGetBlockHashesByNumber
)

// ProtocolMessageCommandToString maps all MessageCommands to their string
// representation.
var ProtocolMessageCommandToString = map[MessageCommand]string{
	CmdStatus:                 "Status",
	CmdNewBlockHashes:         "NewBlockHashes",
	CmdTransactions:           "Transactions",
	CmdGetBlockHashes:         "GetBlockHashes",
	CmdBlockHashes:            "BlockHashes",
	CmdGetBlocks:              "GetBlocks",
	CmdBlocks:                 "Blocks",
	CmdNewBlock:               "NewBlock",
	CmdGetBlockHashesByNumber: "GetBlockHashesByNumber",
}

// Protocol versions peers may negotiate. Version 61 extends version 60 with
// hash retrieval by block number.
const (
	ProtocolVersion60 uint32 = 60
	ProtocolVersion61 uint32 = 61
)

// IsInRangeFor returns whether the command is legal for peers speaking the
// given negotiated protocol version.
func (cmd MessageCommand) IsInRangeFor(protocolVersion uint32) bool {
	maxCommand := CmdNewBlock
	if protocolVersion >= ProtocolVersion61 {
		maxCommand = CmdGetBlockHashesByNumber
	}
	return cmd <= maxCommand
}

// Message is an interface that describes an ember message. Messages arrive
// from the transport layer already decoded into one of the Msg* types in
// this package.
type Message interface {
	Command() MessageCommand
}
