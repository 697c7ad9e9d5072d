package relay

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

// Client talks to the Safe relay service
type Client struct {
	http *httpjson.Client
}

// NewClient creates a relay client for cfg.RelayURL
func NewClient(cfg *config.RuntimeConfig, log *slog.Logger) *Client {
	return &Client{http: httpjson.NewClient("relay", cfg.RelayURL, cfg.Timeout, log)}
}

var _ usecase.RelayService = (*Client)(nil)

type creationRequest struct {
	Owners       []common.Address `json:"owners"`
	Threshold    int64            `json:"threshold"`
	SaltNonce    int64            `json:"saltNonce"`
	PaymentToken common.Address   `json:"paymentToken"`
}

type creationResponse struct {
	Safe            common.Address   `json:"safe"`
	MasterCopy      common.Address   `json:"masterCopy"`
	ProxyFactory    common.Address   `json:"proxyFactory"`
	SetupData       string           `json:"setupData"`
	Payment         httpjson.Decimal `json:"payment"`
	PaymentToken    common.Address   `json:"paymentToken"`
	PaymentReceiver common.Address   `json:"paymentReceiver"`
}

type fundStatusResponse struct {
	BlockNumber *uint64      `json:"blockNumber"`
	TxHash      *common.Hash `json:"txHash"`
}

type estimateRequest struct {
	To        common.Address `json:"to"`
	Value     string         `json:"value"`
	Data      string         `json:"data"`
	Operation int            `json:"operation"`
	Threshold int64          `json:"threshold"`
	GasToken  common.Address `json:"gasToken"`
}

type estimateResponse struct {
	SafeTxGas      httpjson.Decimal        `json:"safeTxGas"`
	DataGas        httpjson.Decimal        `json:"dataGas"`
	OperationalGas httpjson.OptionalDecimal `json:"operationalGas"`
	GasPrice       httpjson.Decimal        `json:"gasPrice"`
	GasToken       common.Address          `json:"gasToken"`
	LastUsedNonce  httpjson.OptionalDecimal `json:"lastUsedNonce"`
}

type signatureParams struct {
	V int    `json:"v"`
	R string `json:"r"`
	S string `json:"s"`
}

type executeRequest struct {
	To         common.Address    `json:"to"`
	Value      string            `json:"value"`
	Data       string            `json:"data"`
	Operation  int               `json:"operation"`
	Signatures []signatureParams `json:"signatures"`
	SafeTxGas  string            `json:"safeTxGas"`
	DataGas    string            `json:"dataGas"`
	GasPrice   string            `json:"gasPrice"`
	GasToken   common.Address    `json:"gasToken"`
	Nonce      *big.Int          `json:"nonce"`
}

type executeResponse struct {
	TransactionHash common.Hash `json:"transactionHash"`
}

// CreateSafe requests a counterfactual Safe deployment
func (c *Client) CreateSafe(ctx context.Context, req models.SafeCreationRequest) (*models.SafeCreation, error) {
	var resp creationResponse
	err := c.http.Do(ctx, http.MethodPost, "v2/safes/", creationRequest{
		Owners:       req.Owners,
		Threshold:    req.Threshold,
		SaltNonce:    req.SaltNonce,
		PaymentToken: req.PaymentToken,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &models.SafeCreation{
		Safe:            resp.Safe,
		MasterCopy:      resp.MasterCopy,
		ProxyFactory:    resp.ProxyFactory,
		SetupData:       resp.SetupData,
		Payment:         resp.Payment.Big(),
		PaymentToken:    resp.PaymentToken,
		PaymentReceiver: resp.PaymentReceiver,
	}, nil
}

// NotifySafeFunded tells the relay to deploy the Safe
func (c *Client) NotifySafeFunded(ctx context.Context, safe common.Address) error {
	return c.http.Do(ctx, http.MethodPut, fundedPath(safe), nil, nil)
}

// SafeFundStatus returns the deployment state known to the relay
func (c *Client) SafeFundStatus(ctx context.Context, safe common.Address) (*models.FundStatus, error) {
	var resp fundStatusResponse
	if err := c.http.Do(ctx, http.MethodGet, fundedPath(safe), nil, &resp); err != nil {
		return nil, err
	}
	return &models.FundStatus{BlockNumber: resp.BlockNumber, TxHash: resp.TxHash}, nil
}

// Estimate prices a transaction
func (c *Client) Estimate(ctx context.Context, safe common.Address, req models.EstimateRequest) (*models.Estimate, error) {
	var resp estimateResponse
	err := c.http.Do(ctx, http.MethodPost, fmt.Sprintf("v1/safes/%s/transactions/estimate/", safe.Hex()), estimateRequest{
		To:        req.Tx.To,
		Value:     decimal(req.Tx.Value),
		Data:      req.Tx.DataHex(),
		Operation: int(req.Tx.Operation),
		Threshold: req.Threshold,
		GasToken:  req.GasToken,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &models.Estimate{
		SafeTxGas:     resp.SafeTxGas.Big(),
		DataGas:       resp.DataGas.Big(),
		GasPrice:      resp.GasPrice.Big(),
		GasToken:      resp.GasToken,
		LastUsedNonce: resp.LastUsedNonce.Value,
	}, nil
}

// Execute relays a signed transaction and returns its Ethereum hash
func (c *Client) Execute(ctx context.Context, safe common.Address, req models.ExecuteRequest) (common.Hash, error) {
	var resp executeResponse
	err := c.http.Do(ctx, http.MethodPost, fmt.Sprintf("v1/safes/%s/transactions/", safe.Hex()), executeRequest{
		To:        req.Tx.To,
		Value:     decimal(req.Tx.Value),
		Data:      req.Tx.DataHex(),
		Operation: int(req.Tx.Operation),
		Signatures: lo.Map(req.Signatures, func(sig models.Signature, _ int) signatureParams {
			return signatureParams{V: int(sig.V), R: decimal(sig.R), S: decimal(sig.S)}
		}),
		SafeTxGas: decimal(req.ExecInfo.TxGas),
		DataGas:   decimal(req.ExecInfo.BaseGas),
		GasPrice:  decimal(req.ExecInfo.GasPrice),
		GasToken:  req.ExecInfo.GasToken,
		Nonce:     req.ExecInfo.Nonce,
	}, &resp)
	if err != nil {
		return common.Hash{}, err
	}
	return resp.TransactionHash, nil
}

func fundedPath(safe common.Address) string {
	return fmt.Sprintf("v2/safes/%s/funded/", safe.Hex())
}

func decimal(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
