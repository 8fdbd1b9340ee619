package common

import (
	"github.com/pkg/errors"

	"github.com/embercoin/emberd/app/appmessage"
)

// ErrPeerWithSameIDExists signifies that a peer with the same ID already exists.
var ErrPeerWithSameIDExists = errors.New("a peer with the same ID already exists")

// MessageSender is the outbound-message primitive handed to the flows. The
// owning session implements it so that every send also updates the peer's
// outbound statistics.
type MessageSender interface {
	SendMessage(message appmessage.Message) error
}
