package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/rmeissner/simple-safe/internal/domain"
	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/domain/models"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// Client reads Safe state over Ethereum JSON-RPC. The connection is
// opened on first use.
type Client struct {
	url string
	log *slog.Logger

	mu  sync.Mutex
	rpc *rpc.Client
}

// NewClient creates a chain client for cfg.RPCURL
func NewClient(cfg *config.RuntimeConfig, log *slog.Logger) *Client {
	return &Client{url: cfg.RPCURL, log: log.With("component", "chain")}
}

// NewClientWithRPC wraps an existing connection
func NewClientWithRPC(client *rpc.Client, log *slog.Logger) *Client {
	return &Client{rpc: client, log: log.With("component", "chain")}
}

var _ usecase.ChainReader = (*Client)(nil)

func (c *Client) conn(ctx context.Context) (*rpc.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rpc != nil {
		return c.rpc, nil
	}
	if c.url == "" {
		return nil, fmt.Errorf("rpc_url is not configured")
	}
	client, err := rpc.DialContext(ctx, c.url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	c.rpc = client
	return client, nil
}

// Close releases the connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rpc != nil {
		c.rpc.Close()
		c.rpc = nil
	}
}

type callArgs struct {
	To   common.Address `json:"to"`
	Data hexutil.Bytes  `json:"data"`
}

func callElem(to common.Address, data []byte, result *hexutil.Bytes) rpc.BatchElem {
	return rpc.BatchElem{
		Method: "eth_call",
		Args:   []any{callArgs{To: to, Data: data}, "latest"},
		Result: result,
	}
}

func storageElem(account common.Address, result *common.Hash) rpc.BatchElem {
	return rpc.BatchElem{
		Method: "eth_getStorageAt",
		Args:   []any{account, "0x0", "latest"},
		Result: result,
	}
}

// call runs eth_call for method and unpacks its single return value
func (c *Client) call(ctx context.Context, to common.Address, method string, out any, args ...any) error {
	data, err := parsedABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", method, err)
	}
	client, err := c.conn(ctx)
	if err != nil {
		return err
	}

	var result hexutil.Bytes
	if err := client.CallContext(ctx, &result, "eth_call", callArgs{To: to, Data: data}, "latest"); err != nil {
		return mapError(err)
	}
	return unpack(method, result, out)
}

func unpack(method string, data []byte, out any) error {
	if err := parsedABI.UnpackIntoInterface(out, method, data); err != nil {
		return fmt.Errorf("failed to decode %s: %w", method, err)
	}
	return nil
}

// SafeNonce returns the current nonce of the Safe
func (c *Client) SafeNonce(ctx context.Context, safe common.Address) (*big.Int, error) {
	var nonce *big.Int
	if err := c.call(ctx, safe, "nonce", &nonce); err != nil {
		return nil, err
	}
	return nonce, nil
}

// SafeInfo reads master copy, owners and threshold in one batch
func (c *Client) SafeInfo(ctx context.Context, safe common.Address) (*models.SafeInfo, error) {
	ownersData, err := parsedABI.Pack("getOwners")
	if err != nil {
		return nil, err
	}
	thresholdData, err := parsedABI.Pack("getThreshold")
	if err != nil {
		return nil, err
	}
	client, err := c.conn(ctx)
	if err != nil {
		return nil, err
	}

	var (
		masterCopy      common.Hash
		ownersResult    hexutil.Bytes
		thresholdResult hexutil.Bytes
	)
	batch := []rpc.BatchElem{
		storageElem(safe, &masterCopy),
		callElem(safe, ownersData, &ownersResult),
		callElem(safe, thresholdData, &thresholdResult),
	}
	if err := client.BatchCallContext(ctx, batch); err != nil {
		return nil, mapError(err)
	}
	for _, elem := range batch {
		if elem.Error != nil {
			return nil, fmt.Errorf("%s: %w", elem.Method, mapError(elem.Error))
		}
	}

	var owners []common.Address
	if err := unpack("getOwners", ownersResult, &owners); err != nil {
		return nil, err
	}
	var threshold *big.Int
	if err := unpack("getThreshold", thresholdResult, &threshold); err != nil {
		return nil, err
	}

	return &models.SafeInfo{
		Address:    safe,
		MasterCopy: common.BytesToAddress(masterCopy.Bytes()),
		Owners:     owners,
		Threshold:  threshold.Int64(),
	}, nil
}

// SafeModules lists the enabled modules with their master copies. Modules
// whose storage read fails are skipped.
func (c *Client) SafeModules(ctx context.Context, safe common.Address) ([]models.SafeModule, error) {
	var modules []common.Address
	if err := c.call(ctx, safe, "getModules", &modules); err != nil {
		return nil, err
	}
	if len(modules) == 0 {
		return nil, nil
	}

	client, err := c.conn(ctx)
	if err != nil {
		return nil, err
	}
	masterCopies := make([]common.Hash, len(modules))
	batch := make([]rpc.BatchElem, len(modules))
	for i, module := range modules {
		batch[i] = storageElem(module, &masterCopies[i])
	}
	if err := client.BatchCallContext(ctx, batch); err != nil {
		return nil, mapError(err)
	}

	result := make([]models.SafeModule, 0, len(modules))
	for i, module := range modules {
		if batch[i].Error != nil {
			c.log.Debug("skipping module", "module", module.Hex(), "error", batch[i].Error)
			continue
		}
		result = append(result, models.SafeModule{
			Address:    module,
			MasterCopy: common.BytesToAddress(masterCopies[i].Bytes()),
		})
	}
	return result, nil
}

// TokenBalance returns the balance of owner. The zero token is ether.
func (c *Client) TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	if token == (common.Address{}) {
		client, err := c.conn(ctx)
		if err != nil {
			return nil, err
		}
		var balance hexutil.Big
		if err := client.CallContext(ctx, &balance, "eth_getBalance", owner, "latest"); err != nil {
			return nil, mapError(err)
		}
		return balance.ToInt(), nil
	}

	var balance *big.Int
	if err := c.call(ctx, token, "balanceOf", &balance, owner); err != nil {
		return nil, err
	}
	return balance, nil
}

type receiptLog struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
}

type receipt struct {
	Status *hexutil.Uint64 `json:"status"`
	Logs   []receiptLog    `json:"logs"`
}

// TransactionReceipt returns nil while the transaction is not mined
func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*models.Receipt, error) {
	client, err := c.conn(ctx)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := client.CallContext(ctx, &raw, "eth_getTransactionReceipt", hash); err != nil {
		return nil, mapError(err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var r receipt
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("failed to decode receipt: %w", err)
	}

	// Pre-Byzantium receipts carry a state root instead of a status
	status := uint64(1)
	if r.Status != nil {
		status = uint64(*r.Status)
	}

	logs := make([]models.ReceiptLog, 0, len(r.Logs))
	for _, l := range r.Logs {
		logs = append(logs, models.ReceiptLog{Address: l.Address, Topics: l.Topics})
	}
	return &models.Receipt{Status: status, Logs: logs}, nil
}

// mapError converts JSON-RPC error objects into domain.RPCError
func mapError(err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return &domain.RPCError{Code: rpcErr.ErrorCode(), Message: rpcErr.Error()}
	}
	return err
}
