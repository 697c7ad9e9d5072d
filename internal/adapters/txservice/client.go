package txservice

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/rmeissner/simple-safe/internal/adapters/httpjson"
	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/domain/models"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// maxPages bounds how many result pages are followed for one listing
const maxPages = 20

// Client talks to the Safe transaction history service
type Client struct {
	http *httpjson.Client
	log  *slog.Logger
}

// NewClient creates a history service client for cfg.TransactionServiceURL
func NewClient(cfg *config.RuntimeConfig, log *slog.Logger) *Client {
	return &Client{
		http: httpjson.NewClient("transaction_service", cfg.TransactionServiceURL, cfg.Timeout, log),
		log:  log.With("component", "transaction_service"),
	}
}

var _ usecase.TransactionService = (*Client)(nil)

// TransactionRequest is a confirmation or execution notice as posted
type TransactionRequest struct {
	To               common.Address `json:"to"`
	Value            string         `json:"value"`
	Data             string         `json:"data"`
	Operation        int            `json:"operation"`
	GasToken         common.Address `json:"gasToken"`
	SafeTxGas        string         `json:"safeTxGas"`
	BaseGas          string         `json:"baseGas"`
	GasPrice         string         `json:"gasPrice"`
	RefundReceiver   common.Address `json:"refundReceiver"`
	Nonce            string         `json:"nonce"`
	SafeTxHash       common.Hash    `json:"safeTxHash"`
	Sender           common.Address `json:"sender"`
	ConfirmationType string         `json:"confirmationType"`
	Signature        *string        `json:"signature,omitempty"`
	TransactionHash  *common.Hash   `json:"transactionHash,omitempty"`
}

// Transaction is one entry of the transaction listing
type Transaction struct {
	SafeTxHash     common.Hash              `json:"safeTxHash"`
	To             common.Address           `json:"to"`
	Value          httpjson.OptionalDecimal `json:"value"`
	Data           *string                  `json:"data"`
	Operation      int                      `json:"operation"`
	Nonce          httpjson.OptionalDecimal `json:"nonce"`
	BaseGas        httpjson.OptionalDecimal `json:"baseGas"`
	SafeTxGas      httpjson.OptionalDecimal `json:"safeTxGas"`
	GasPrice       httpjson.OptionalDecimal `json:"gasPrice"`
	GasToken       common.Address           `json:"gasToken"`
	RefundReceiver common.Address           `json:"refundReceiver"`
	IsExecuted     bool                     `json:"isExecuted"`
	Confirmations  []Confirmation           `json:"confirmations"`
}

// Confirmation is an owner approval. Signature is null for on-chain approvals.
type Confirmation struct {
	Owner     common.Address `json:"owner"`
	Signature *string        `json:"signature"`
}

type page struct {
	Next    *string       `json:"next"`
	Results []Transaction `json:"results"`
}

// ListTransactions returns all transactions of the Safe, following pagination
func (c *Client) ListTransactions(ctx context.Context, safe common.Address) ([]models.ServiceTransaction, error) {
	var resp page
	if err := c.http.Do(ctx, http.MethodGet, transactionsPath(safe), nil, &resp); err != nil {
		return nil, err
	}
	results := resp.Results

	for pages := 1; resp.Next != nil && *resp.Next != "" && pages < maxPages; pages++ {
		next := *resp.Next
		resp = page{}
		if err := c.http.DoURL(ctx, http.MethodGet, next, nil, &resp); err != nil {
			return nil, err
		}
		results = append(results, resp.Results...)
	}

	return lo.Map(results, func(tx Transaction, _ int) models.ServiceTransaction {
		return c.toModel(tx)
	}), nil
}

// PostTransaction publishes a confirmation or execution notice
func (c *Client) PostTransaction(ctx context.Context, safe common.Address, record models.HistoryRecord) error {
	return c.http.Do(ctx, http.MethodPost, transactionsPath(safe), ToRequest(record), nil)
}

// ToRequest maps a history record onto the posted wire format
func ToRequest(record models.HistoryRecord) TransactionRequest {
	req := TransactionRequest{
		To:               record.Tx.To,
		Value:            decimal(record.Tx.Value),
		Data:             record.Tx.DataHex(),
		Operation:        int(record.Tx.Operation),
		GasToken:         record.ExecInfo.GasToken,
		SafeTxGas:        decimal(record.ExecInfo.TxGas),
		BaseGas:          decimal(record.ExecInfo.BaseGas),
		GasPrice:         decimal(record.ExecInfo.GasPrice),
		RefundReceiver:   record.ExecInfo.RefundReceiver,
		Nonce:            decimal(record.ExecInfo.Nonce),
		SafeTxHash:       record.SafeTxHash,
		Sender:           record.Sender,
		ConfirmationType: string(record.Type),
		TransactionHash:  record.TransactionHash,
	}
	if record.Signature != nil {
		req.Signature = lo.ToPtr(record.Signature.String())
	}
	return req
}

func (c *Client) toModel(tx Transaction) models.ServiceTransaction {
	data := "0x"
	if tx.Data != nil && *tx.Data != "" {
		data = *tx.Data
	}

	confirmations := make([]models.Confirmation, 0, len(tx.Confirmations))
	for _, confirmation := range tx.Confirmations {
		item := models.Confirmation{Owner: confirmation.Owner}
		if confirmation.Signature != nil {
			signature, err := models.ParseSignature(*confirmation.Signature)
			if err != nil {
				c.log.Debug("ignoring malformed signature", "safeTxHash", tx.SafeTxHash.Hex(), "owner", confirmation.Owner.Hex(), "error", err)
			} else {
				item.Signature = &signature
			}
		}
		confirmations = append(confirmations, item)
	}

	return models.ServiceTransaction{
		SafeTxHash:     tx.SafeTxHash,
		To:             tx.To,
		Value:          tx.Value.Value,
		Data:           data,
		OperationCode:  tx.Operation,
		SafeTxGas:      tx.SafeTxGas.Value,
		BaseGas:        tx.BaseGas.Value,
		GasPrice:       tx.GasPrice.Value,
		GasToken:       tx.GasToken,
		RefundReceiver: tx.RefundReceiver,
		Nonce:          tx.Nonce.Value,
		IsExecuted:     tx.IsExecuted,
		Confirmations:  confirmations,
	}
}

func transactionsPath(safe common.Address) string {
	return fmt.Sprintf("v1/safes/%s/transactions/", safe.Hex())
}

func decimal(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
