package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// Connection is the subset of Solana RPC the wallet layer depends on
type Connection interface {
	// Endpoint returns the RPC URL, used for logging
	Endpoint() string
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendRawTransaction(ctx context.Context, raw []byte, opts SendOptions) (solana.Signature, error)
	// GetSignatureStatus returns nil, nil while the cluster does not know the signature yet
	GetSignatureStatus(ctx context.Context, sig solana.Signature) (*SignatureStatus, error)
	GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error)
}

// SendOptions controls broadcast of a raw transaction
type SendOptions struct {
	SkipPreflight       bool
	PreflightCommitment rpc.CommitmentType
	MaxRetries          uint
}

// SignatureStatus is the cluster's view of a sent transaction
type SignatureStatus struct {
	Slot               uint64
	Confirmations      *uint64
	ConfirmationStatus rpc.ConfirmationStatusType
	Err                any
}

// Confirmed reports whether the transaction reached confirmed or finalized commitment
func (s *SignatureStatus) Confirmed() bool {
	if s == nil {
		return false
	}
	return s.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
		s.ConfirmationStatus == rpc.ConfirmationStatusFinalized
}

// ConnectionError means the RPC endpoint could not be reached or did not answer.
// Errors returned by the node itself (JSON-RPC errors) are never ConnectionError.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("rpc connection to %s failed: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConnectionError checks if err (or anything it wraps) is a ConnectionError
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

// SolanaClient is a Connection backed by Solana JSON-RPC
type SolanaClient struct {
	rpcClient *rpc.Client
	rpcURL    string
}

// NewSolanaClient creates a new Solana client for the given RPC endpoint
func NewSolanaClient(rpcURL string) *SolanaClient {
	return &SolanaClient{
		rpcClient: rpc.New(rpcURL),
		rpcURL:    rpcURL,
	}
}

// Endpoint returns the RPC URL
func (c *SolanaClient) Endpoint() string {
	return c.rpcURL
}

// GetLatestBlockhash gets the latest finalized blockhash
func (c *SolanaClient) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, c.wrap(fmt.Errorf("failed to get recent blockhash: %w", err))
	}
	return recent.Value.Blockhash, nil
}

// SendRawTransaction broadcasts a signed wire transaction
func (c *SolanaClient) SendRawTransaction(ctx context.Context, raw []byte, opts SendOptions) (solana.Signature, error) {
	txOpts := rpc.TransactionOpts{
		SkipPreflight:       opts.SkipPreflight,
		PreflightCommitment: opts.PreflightCommitment,
	}
	if opts.MaxRetries > 0 {
		maxRetries := opts.MaxRetries
		txOpts.MaxRetries = &maxRetries
	}

	sig, err := c.rpcClient.SendRawTransactionWithOpts(ctx, raw, txOpts)
	if err != nil {
		return solana.Signature{}, c.wrap(fmt.Errorf("failed to send transaction: %w", err))
	}
	return sig, nil
}

// GetSignatureStatus gets the status of one signature, searching transaction history
func (c *SolanaClient) GetSignatureStatus(ctx context.Context, sig solana.Signature) (*SignatureStatus, error) {
	res, err := c.rpcClient.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return nil, c.wrap(fmt.Errorf("failed to get signature status: %w", err))
	}
	if res == nil || len(res.Value) == 0 || res.Value[0] == nil {
		return nil, nil
	}

	st := res.Value[0]
	return &SignatureStatus{
		Slot:               st.Slot,
		Confirmations:      st.Confirmations,
		ConfirmationStatus: st.ConfirmationStatus,
		Err:                st.Err,
	}, nil
}

// GetBalance gets SOL balance in lamports
func (c *SolanaClient) GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	balance, err := c.rpcClient.GetBalance(ctx, owner, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, c.wrap(fmt.Errorf("failed to get SOL balance: %w", err))
	}
	return balance.Value, nil
}

// wrap marks transport failures as ConnectionError and leaves node errors alone
func (c *SolanaClient) wrap(err error) error {
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &ConnectionError{Endpoint: c.rpcURL, Err: err}
}
