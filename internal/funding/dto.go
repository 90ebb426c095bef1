package funding

import (
	"time"

	"github.com/coinharbor/coinharbor/internal/transaction"
)

// DepositRequest announces an incoming transfer to an owner's account.
type DepositRequest struct {
	Currency    string `json:"currency"`
	Amount      string `json:"amount"`
	FromAddress string `json:"from_address"`
}

// WithdrawalRequest asks to send funds to an external address.
type WithdrawalRequest struct {
	Currency  string `json:"currency"`
	Amount    string `json:"amount"`
	ToAddress string `json:"to_address"`
}

// ExchangeRequest records a conversion settled by the trading desk.
type ExchangeRequest struct {
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
	Amount       string `json:"amount"`
	Rate         string `json:"rate"`
}

// TransactionResponse is the API shape of a transaction record.
type TransactionResponse struct {
	ID                int64     `json:"id"`
	OwnerID           string    `json:"owner_id"`
	Kind              string    `json:"kind"`
	Currency          string    `json:"currency"`
	Amount            string    `json:"amount"`
	Status            string    `json:"status"`
	ExternalReference string    `json:"external_reference,omitempty"`
	CounterpartyTo    string    `json:"counterparty_to,omitempty"`
	CounterpartyFrom  string    `json:"counterparty_from,omitempty"`
	Network           string    `json:"network,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// BalanceResponse is the API shape of one balance record.
type BalanceResponse struct {
	Currency      string `json:"currency"`
	Available     string `json:"available"`
	Locked        string `json:"locked"`
	LinkedAddress string `json:"linked_address,omitempty"`
}

// ToTransactionResponse converts a domain transaction to its API shape.
func ToTransactionResponse(txn transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                txn.ID,
		OwnerID:           txn.OwnerID,
		Kind:              string(txn.Kind),
		Currency:          txn.Currency,
		Amount:            txn.Amount.String(),
		Status:            string(txn.Status),
		ExternalReference: txn.ExternalReference,
		CounterpartyTo:    txn.CounterpartyTo,
		CounterpartyFrom:  txn.CounterpartyFrom,
		Network:           txn.Network,
		CreatedAt:         txn.CreatedAt,
	}
}
