package transactionrelay

import (
	"github.com/embercoin/emberd/app/appmessage"
	"github.com/embercoin/emberd/app/protocol/common"
	"github.com/embercoin/emberd/app/protocol/flowcontext"
	peerpkg "github.com/embercoin/emberd/app/protocol/peer"
)

// HandleTransactionsContext is the interface for the context needed for the
// HandleTransactions flow.
type HandleTransactionsContext interface {
	TxPool() flowcontext.TransactionPool
	WalletObserver() flowcontext.WalletObserver
}

// HandleTransactions forwards a relayed transaction set to the pool and
// notifies the wallet observer once per transaction. When relay is disabled
// for the peer the set is dropped silently.
func HandleTransactions(context HandleTransactionsContext, peer *peerpkg.Peer,
	msg *appmessage.MsgTransactions) error {

	if !peer.IsTransactionRelayEnabled() {
		log.Tracef("Transaction relay is disabled for %s, dropping %d transactions",
			peer, len(msg.Transactions))
		return nil
	}

	context.TxPool().AddPending(msg.Transactions)
	for _, transaction := range msg.Transactions {
		context.WalletObserver().OnTransaction(transaction)
	}
	return nil
}

// SendTransaction relays a single transaction to the peer.
func SendTransaction(sender common.MessageSender, transaction *appmessage.MsgTx) error {
	return sender.SendMessage(appmessage.NewMsgTransactions([]*appmessage.MsgTx{transaction}))
}
