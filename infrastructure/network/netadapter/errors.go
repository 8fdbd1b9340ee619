package netadapter

import "github.com/pkg/errors"

// ErrHandlerAlreadyRemoved is returned by Connection.RemoveHandler and
// Connection.Disconnect when the sub-protocol handler was already detached
// from the connection, usually because teardown raced the caller.
var ErrHandlerAlreadyRemoved = errors.New("handler has already been removed from the connection")
