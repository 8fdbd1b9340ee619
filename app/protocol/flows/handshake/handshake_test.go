package handshake

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embercoin/emberd/app/appmessage"
	peerpkg "github.com/embercoin/emberd/app/protocol/peer"
	"github.com/embercoin/emberd/domain/chainparams"
	"github.com/embercoin/emberd/infrastructure/config"
	"github.com/embercoin/emberd/infrastructure/network/netadapter"
	"github.com/embercoin/emberd/infrastructure/network/netadapter/id"
	"github.com/embercoin/emberd/util/chainhash"
)

type handleStatusContextMock struct {
	cfg *config.Config
}

func (m *handleStatusContextMock) Config() *config.Config {
	return m.cfg
}

type connectionMock struct {
	sentMessages      []appmessage.Message
	disconnectReasons []appmessage.ReasonCode
	closed            bool
	handlerRemoved    bool
	removeHandlerErr  error
}

func (c *connectionMock) SendMessage(message appmessage.Message) error {
	c.sentMessages = append(c.sentMessages, message)
	return nil
}

func (c *connectionMock) Disconnect(reason appmessage.ReasonCode) error {
	c.disconnectReasons = append(c.disconnectReasons, reason)
	return nil
}

func (c *connectionMock) Close() error {
	c.closed = true
	return nil
}

func (c *connectionMock) RemoveHandler() error {
	if c.removeHandlerErr != nil {
		return c.removeHandlerErr
	}
	c.handlerRemoved = true
	return nil
}

func (c *connectionMock) ID() *id.ID {
	return nil
}

func (c *connectionMock) String() string {
	return "connectionMock"
}

func newTestStatus(params *chainparams.Params) *appmessage.MsgStatus {
	bestHash, _ := chainhash.NewHashFromStr(
		"9d1b2fbbd5a5bbe4d9e5b6a2e3c4a5b6d7e8f90a1b2c3d4e5f60718293a4b5c6")
	return appmessage.NewMsgStatus(params.ProtocolVersion, params.NetworkID,
		big.NewInt(1000), bestHash, params.GenesisHash)
}

func newHandshakePeer(params *chainparams.Params, discoveryOnly bool) *peerpkg.Peer {
	peerID, err := id.GenerateID()
	if err != nil {
		panic(err)
	}
	return peerpkg.New(peerID, params.ProtocolVersion, params.DefaultMaxHashesPerRequest,
		discoveryOnly)
}

func TestHandleStatusSuccess(t *testing.T) {
	cfg := config.DefaultConfig()
	context := &handleStatusContextMock{cfg: cfg}
	connection := &connectionMock{}
	peer := newHandshakePeer(cfg.ActiveNetParams, false)
	msg := newTestStatus(cfg.ActiveNetParams)

	outcome, err := HandleStatus(context, connection, peer, msg)
	require.NoError(t, err)
	require.Equal(t, OutcomeSuccess, outcome)

	require.True(t, peer.HasStatusSucceeded())
	require.True(t, msg.BestHash.IsEqual(peer.BestKnownHash()))
	require.Equal(t, msg, peer.PeerStats().LastInboundStatus())
	require.Equal(t, 0, msg.TotalDifficulty.Cmp(peer.PeerStats().TotalDifficulty()))
	require.Empty(t, connection.disconnectReasons)
	require.False(t, connection.closed)
}

func TestHandleStatusGenesisMismatch(t *testing.T) {
	cfg := config.DefaultConfig()
	context := &handleStatusContextMock{cfg: cfg}
	connection := &connectionMock{}
	peer := newHandshakePeer(cfg.ActiveNetParams, false)

	msg := newTestStatus(cfg.ActiveNetParams)
	otherGenesis, _ := chainhash.NewHashFromStr(
		"00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")
	msg.GenesisHash = otherGenesis

	outcome, err := HandleStatus(context, connection, peer, msg)
	require.NoError(t, err)
	require.Equal(t, OutcomeIncompatible, outcome)

	require.True(t, peer.HasStatusPassed())
	require.False(t, peer.HasStatusSucceeded())
	require.Equal(t, []appmessage.ReasonCode{appmessage.ReasonIncompatibleProtocol},
		connection.disconnectReasons)
	require.True(t, connection.handlerRemoved)

	reason, local := peer.PeerStats().LastDisconnectReason()
	require.True(t, local)
	require.Equal(t, appmessage.ReasonIncompatibleProtocol, reason)
}

func TestHandleStatusProtocolVersionMismatch(t *testing.T) {
	cfg := config.DefaultConfig()
	context := &handleStatusContextMock{cfg: cfg}
	connection := &connectionMock{}
	peer := newHandshakePeer(cfg.ActiveNetParams, false)

	msg := newTestStatus(cfg.ActiveNetParams)
	msg.ProtocolVersion = appmessage.ProtocolVersion60

	outcome, err := HandleStatus(context, connection, peer, msg)
	require.NoError(t, err)
	require.Equal(t, OutcomeIncompatible, outcome)
	require.Equal(t, []appmessage.ReasonCode{appmessage.ReasonIncompatibleProtocol},
		connection.disconnectReasons)
}

func TestHandleStatusWrongNetwork(t *testing.T) {
	cfg := config.DefaultConfig()
	context := &handleStatusContextMock{cfg: cfg}
	connection := &connectionMock{}
	peer := newHandshakePeer(cfg.ActiveNetParams, false)

	msg := newTestStatus(cfg.ActiveNetParams)
	msg.NetworkID = 99

	outcome, err := HandleStatus(context, connection, peer, msg)
	require.NoError(t, err)
	require.Equal(t, OutcomeWrongNetwork, outcome)

	require.True(t, peer.HasStatusPassed())
	require.False(t, peer.HasStatusSucceeded())
	require.Equal(t, []appmessage.ReasonCode{appmessage.ReasonNullIdentity},
		connection.disconnectReasons)
	require.False(t, connection.handlerRemoved)
}

func TestHandleStatusDiscoveryOnly(t *testing.T) {
	cfg := config.DefaultConfig()
	context := &handleStatusContextMock{cfg: cfg}
	connection := &connectionMock{}
	peer := newHandshakePeer(cfg.ActiveNetParams, true)
	msg := newTestStatus(cfg.ActiveNetParams)

	outcome, err := HandleStatus(context, connection, peer, msg)
	require.NoError(t, err)
	require.Equal(t, OutcomeDiscoveryComplete, outcome)

	// A discovery session never completes the handshake.
	require.False(t, peer.HasStatusPassed())
	require.Equal(t, []appmessage.ReasonCode{appmessage.ReasonRequested},
		connection.disconnectReasons)
	require.True(t, connection.closed)
}

func TestHandleStatusStaleSession(t *testing.T) {
	cfg := config.DefaultConfig()
	context := &handleStatusContextMock{cfg: cfg}
	connection := &connectionMock{}
	peer := newHandshakePeer(cfg.ActiveNetParams, false)
	peer.Shutdown()

	outcome, err := HandleStatus(context, connection, peer, newTestStatus(cfg.ActiveNetParams))
	require.NoError(t, err)
	require.Equal(t, OutcomeStaleSession, outcome)

	require.False(t, peer.HasStatusPassed())
	require.Nil(t, peer.PeerStats().LastInboundStatus())
	require.Empty(t, connection.disconnectReasons)
}

func TestHandleStatusHandlerAlreadyRemoved(t *testing.T) {
	cfg := config.DefaultConfig()
	context := &handleStatusContextMock{cfg: cfg}
	connection := &connectionMock{removeHandlerErr: netadapter.ErrHandlerAlreadyRemoved}
	peer := newHandshakePeer(cfg.ActiveNetParams, false)

	msg := newTestStatus(cfg.ActiveNetParams)
	msg.NetworkID = cfg.ActiveNetParams.NetworkID
	otherGenesis, _ := chainhash.NewHashFromStr(
		"00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")
	msg.GenesisHash = otherGenesis

	outcome, err := HandleStatus(context, connection, peer, msg)
	require.NoError(t, err)
	require.Equal(t, OutcomeStaleSession, outcome)
}

type sendStatusContextMock struct {
	cfg             *config.Config
	bestBlockHash   *chainhash.Hash
	totalDifficulty *big.Int
}

func (m *sendStatusContextMock) Config() *config.Config {
	return m.cfg
}

func (m *sendStatusContextMock) BestBlockHash() *chainhash.Hash {
	return m.bestBlockHash
}

func (m *sendStatusContextMock) TotalDifficulty() *big.Int {
	return m.totalDifficulty
}

func TestSendStatus(t *testing.T) {
	cfg := config.DefaultConfig()
	bestHash, _ := chainhash.NewHashFromStr(
		"9d1b2fbbd5a5bbe4d9e5b6a2e3c4a5b6d7e8f90a1b2c3d4e5f60718293a4b5c6")
	context := &sendStatusContextMock{
		cfg:             cfg,
		bestBlockHash:   bestHash,
		totalDifficulty: big.NewInt(42),
	}
	connection := &connectionMock{}
	peer := newHandshakePeer(cfg.ActiveNetParams, false)

	err := SendStatus(context, connection, peer)
	require.NoError(t, err)
	require.Len(t, connection.sentMessages, 1)

	status, ok := connection.sentMessages[0].(*appmessage.MsgStatus)
	require.True(t, ok)
	require.Equal(t, cfg.ActiveNetParams.ProtocolVersion, status.ProtocolVersion)
	require.Equal(t, cfg.ActiveNetParams.NetworkID, status.NetworkID)
	require.True(t, cfg.ActiveNetParams.GenesisHash.IsEqual(status.GenesisHash))
	require.True(t, bestHash.IsEqual(status.BestHash))
	require.Equal(t, int64(42), status.TotalDifficulty.Int64())
}
