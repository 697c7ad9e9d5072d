package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrEncryptionSetupFailed is returned when the secret store cannot be prepared
	ErrEncryptionSetupFailed = errors.New("encryption setup failed")

	// ErrInvalidMnemonic is returned when a mnemonic phrase fails validation
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidSignatureFormat is returned when a signature string is not 130 hex chars
	ErrInvalidSignatureFormat = errors.New("invalid signature format")

	// ErrUnsupportedOperation is returned for operation codes other than CALL and DELEGATECALL
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrPendingActionExists is returned when a submitted transaction is still unresolved
	ErrPendingActionExists = errors.New("please wait until all actions are completed")

	// ErrNotInitialized is returned when no mnemonic has been set up yet
	ErrNotInitialized = errors.New("account not initialized")

	// ErrNoSafe is returned when no Safe address has been persisted
	ErrNoSafe = errors.New("no safe configured")

	// ErrSafeNotDeployed is returned when joining a Safe the relay has no deployment for
	ErrSafeNotDeployed = errors.New("safe not deployed")

	// ErrStaleNonce is returned when exec info carries no nonce or one the Safe already used
	ErrStaleNonce = errors.New("stale safe nonce")
)

// RPCError is a JSON-RPC error object returned by a node
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// HTTPError is a non-2xx answer from the relay or the transaction service
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.StatusCode, e.Body)
}
