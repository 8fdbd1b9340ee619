package netadapter

import (
	"github.com/embercoin/emberd/app/appmessage"
	"github.com/embercoin/emberd/infrastructure/network/netadapter/id"
)

// Connection is the transport-layer view this protocol core gets of a single
// peer connection. The transport owns connection framing, encryption and the
// outbound queue; the protocol core only hands it already-built messages and
// teardown requests.
//
// Implementations must be safe for use from multiple goroutines: the owning
// session sends from its own handling goroutine while broadcasts arrive from
// others.
type Connection interface {
	// SendMessage hands an outbound protocol message to the transport
	// layer. It may block until the message is queued but not until it is
	// written to the wire.
	SendMessage(message appmessage.Message) error

	// Disconnect asks the transport to disconnect the peer with the given
	// reason. It may wait for the connection teardown to complete.
	Disconnect(reason appmessage.ReasonCode) error

	// Close tears the underlying connection down entirely, even if other
	// sub-protocols are still attached to it.
	Close() error

	// RemoveHandler detaches this sub-protocol's handler from the
	// connection, leaving the connection itself available to other
	// sub-protocols. Returns ErrHandlerAlreadyRemoved if the handler was
	// already detached.
	RemoveHandler() error

	// ID returns the identifier the transport assigned this connection.
	ID() *id.ID

	String() string
}
