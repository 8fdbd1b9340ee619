package appmessage

// ReasonCode is the reason sent to a peer when locally disconnecting it.
type ReasonCode byte

// Disconnect reason codes and their wire values.
const (
	ReasonRequested            ReasonCode = 0x00
	ReasonTCPError             ReasonCode = 0x01
	ReasonBadProtocol          ReasonCode = 0x02
	ReasonUselessPeer          ReasonCode = 0x03
	ReasonTooManyPeers         ReasonCode = 0x04
	ReasonDuplicatePeer        ReasonCode = 0x05
	ReasonIncompatibleProtocol ReasonCode = 0x06
	ReasonNullIdentity         ReasonCode = 0x07
	ReasonPeerQuitting         ReasonCode = 0x08
	ReasonUnexpectedIdentity   ReasonCode = 0x09
	ReasonLocalIdentity        ReasonCode = 0x0a
	ReasonPingTimeout          ReasonCode = 0x0b
	ReasonUserReason           ReasonCode = 0x10
	ReasonUnknown              ReasonCode = 0xff
)

var reasonCodeToString = map[ReasonCode]string{
	ReasonRequested:            "requested",
	ReasonTCPError:             "tcp error",
	ReasonBadProtocol:          "bad protocol",
	ReasonUselessPeer:          "useless peer",
	ReasonTooManyPeers:         "too many peers",
	ReasonDuplicatePeer:        "duplicate peer",
	ReasonIncompatibleProtocol: "incompatible protocol",
	ReasonNullIdentity:         "null identity",
	ReasonPeerQuitting:         "peer quitting",
	ReasonUnexpectedIdentity:   "unexpected identity",
	ReasonLocalIdentity:        "local identity",
	ReasonPingTimeout:          "ping timeout",
	ReasonUserReason:           "user reason",
	ReasonUnknown:              "unknown",
}

func (code ReasonCode) String() string {
	str, ok := reasonCodeToString[code]
	if !ok {
		return "unknown"
	}
	return str
}
