package appmessage

import (
	"bytes"

	"github.com/embercoin/emberd/util/binaryserializer"
	"github.com/embercoin/emberd/util/chainhash"
)

// MsgTx represents a single ember transaction. Transactions are decoded by
// the transport layer; this core only forwards them to the transaction pool
// and notifies the wallet observer.
type MsgTx struct {
	// Version of the transaction.
	Version uint32

	// Nonce is the per-sender sequence number of the transaction.
	Nonce uint64

	// Fee is the fee the sender attached, in the smallest currency unit.
	Fee uint64

	// Payload is the opaque transaction body.
	Payload []byte
}

// TxHash computes the transaction identifier hash for this transaction.
func (msg *MsgTx) TxHash() *chainhash.Hash {
	// Write errors are ignored since writing into a bytes.Buffer cannot
	// fail.
	buf := bytes.NewBuffer(make([]byte, 0, 4+8+8+len(msg.Payload)))
	_ = binaryserializer.PutUint32(buf, msg.Version)
	_ = binaryserializer.PutUint64(buf, msg.Nonce)
	_ = binaryserializer.PutUint64(buf, msg.Fee)
	buf.Write(msg.Payload)

	hash := chainhash.HashH(buf.Bytes())
	return &hash
}

// NewMsgTx returns a new ember transaction with the given fields.
func NewMsgTx(version uint32, nonce uint64, fee uint64, payload []byte) *MsgTx {
	return &MsgTx{
		Version: version,
		Nonce:   nonce,
		Fee:     fee,
		Payload: payload,
	}
}
