package appmessage

import (
	"bytes"
	"time"

	"github.com/embercoin/emberd/util/binaryserializer"
	"github.com/embercoin/emberd/util/chainhash"
	"github.com/embercoin/emberd/util/mstime"
)

// blockHeaderPayload is the number of bytes a serialized block header takes:
// Version 4 bytes + ParentHash 32 bytes + Number 8 bytes + Difficulty 8
// bytes + Timestamp 8 bytes + Nonce 8 bytes.
const blockHeaderPayload = 4 + chainhash.HashSize + 8 + 8 + 8 + 8

// MsgBlockHeader defines information about a block. Blocks are decoded by
// the transport layer; this core only identifies them and routes them to the
// import queue.
type MsgBlockHeader struct {
	// Version of the block.
	Version uint32

	// ParentHash is the hash of the previous block in the chain.
	ParentHash *chainhash.Hash

	// Number is the distance of the block from genesis.
	Number uint64

	// Difficulty is the proof-of-work difficulty target of this block.
	Difficulty uint64

	// Timestamp is the time the block was created.
	Timestamp time.Time

	// Nonce is the proof-of-work nonce.
	Nonce uint64
}

// BlockHash computes the block identifier hash for the given header.
func (h *MsgBlockHeader) BlockHash() *chainhash.Hash {
	// BlockHash serializes into a buffer and then hashes the result.
	// Write errors are ignored since writing into a bytes.Buffer cannot
	// fail.
	buf := bytes.NewBuffer(make([]byte, 0, blockHeaderPayload))
	_ = binaryserializer.PutUint32(buf, h.Version)
	parentHash := h.ParentHash
	if parentHash == nil {
		parentHash = &chainhash.Hash{}
	}
	buf.Write(parentHash[:])
	_ = binaryserializer.PutUint64(buf, h.Number)
	_ = binaryserializer.PutUint64(buf, h.Difficulty)
	_ = binaryserializer.PutUint64(buf, uint64(mstime.TimeToUnixMilli(h.Timestamp)))
	_ = binaryserializer.PutUint64(buf, h.Nonce)

	hash := chainhash.HashH(buf.Bytes())
	return &hash
}

// MsgBlock represents an ember block carried inside Blocks and NewBlock
// messages.
type MsgBlock struct {
	Header       MsgBlockHeader
	Transactions []*MsgTx
}

// BlockHash computes the block identifier hash for this block.
func (msg *MsgBlock) BlockHash() *chainhash.Hash {
	return msg.Header.BlockHash()
}

// AddTransaction adds a transaction to the block.
func (msg *MsgBlock) AddTransaction(tx *MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// NewMsgBlock returns a new ember block based on the provided block header.
func NewMsgBlock(blockHeader *MsgBlockHeader) *MsgBlock {
	return &MsgBlock{
		Header:       *blockHeader,
		Transactions: make([]*MsgTx, 0),
	}
}
