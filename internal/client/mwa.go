package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// MWAIdentity identifies this app to the external wallet
type MWAIdentity struct {
	Name string `json:"name"`
	URI  string `json:"uri,omitempty"`
	Icon string `json:"icon,omitempty"`
}

// MWAAuthorization is the result of an authorize round trip
type MWAAuthorization struct {
	AuthToken string
	Address   string // base58
	WalletURI string
}

// MWAError is an error answered by the wallet app (e.g. the user declined)
type MWAError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *MWAError) Error() string {
	return fmt.Sprintf("wallet app error %d: %s", e.Code, e.Message)
}

type mwaRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type mwaResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *MWAError       `json:"error"`
}

type mwaAuthorizeParams struct {
	Identity  MWAIdentity `json:"identity"`
	Chain     string      `json:"chain"`
	AuthToken string      `json:"auth_token,omitempty"`
}

type mwaAuthorizeResult struct {
	AuthToken string `json:"auth_token"`
	Accounts  []struct {
		Address string `json:"address"` // base64 public key
		Label   string `json:"label,omitempty"`
	} `json:"accounts"`
	WalletURIBase string `json:"wallet_uri_base,omitempty"`
}

type mwaSignAndSendParams struct {
	Payloads []string `json:"payloads"`
	Options  struct {
		MinContextSlot *uint64 `json:"min_context_slot,omitempty"`
	} `json:"options"`
}

type mwaSignAndSendResult struct {
	Signatures []string `json:"signatures"` // base64
}

// MWABridgeClient talks the Mobile Wallet Adapter JSON-RPC methods to the
// wallet app over a websocket association. Each call opens its own session.
type MWABridgeClient struct {
	url     string
	chain   string
	dialer  *websocket.Dialer
	timeout time.Duration
}

// NewMWABridgeClient creates a client for the wallet association endpoint
func NewMWABridgeClient(url, chain string) *MWABridgeClient {
	if chain == "" {
		chain = "solana:mainnet"
	}
	return &MWABridgeClient{
		url:   url,
		chain: chain,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		// user approval happens in the wallet app, so allow for a slow human
		timeout: 2 * time.Minute,
	}
}

// Authorize asks the wallet app for an account. authToken may be empty for a first authorization.
func (c *MWABridgeClient) Authorize(ctx context.Context, identity MWAIdentity, authToken string) (*MWAAuthorization, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return c.authorize(ctx, conn, identity, authToken)
}

// Deauthorize revokes an auth token in the wallet app
func (c *MWABridgeClient) Deauthorize(ctx context.Context, authToken string) error {
	conn, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return c.call(ctx, conn, "deauthorize", map[string]string{"auth_token": authToken}, nil)
}

// SignAndSendTransactions reauthorizes and hands the serialized transactions
// to the wallet app, which signs and submits them after user approval.
// The refreshed authorization is returned alongside the signatures.
func (c *MWABridgeClient) SignAndSendTransactions(ctx context.Context, identity MWAIdentity, authToken string, payloads [][]byte) ([]solana.Signature, *MWAAuthorization, error) {
	if len(payloads) == 0 {
		return nil, nil, errors.New("no transactions to sign")
	}

	conn, err := c.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer conn.Close()

	auth, err := c.authorize(ctx, conn, identity, authToken)
	if err != nil {
		return nil, nil, err
	}

	params := mwaSignAndSendParams{Payloads: make([]string, 0, len(payloads))}
	for _, p := range payloads {
		params.Payloads = append(params.Payloads, base64.StdEncoding.EncodeToString(p))
	}

	var result mwaSignAndSendResult
	if err := c.call(ctx, conn, "sign_and_send_transactions", params, &result); err != nil {
		return nil, nil, err
	}
	if len(result.Signatures) != len(payloads) {
		return nil, nil, fmt.Errorf("wallet app returned %d signatures for %d transactions", len(result.Signatures), len(payloads))
	}

	sigs := make([]solana.Signature, 0, len(result.Signatures))
	for _, s := range result.Signatures {
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode signature: %w", err)
		}
		if len(raw) != len(solana.Signature{}) {
			return nil, nil, fmt.Errorf("invalid signature length %d", len(raw))
		}
		sigs = append(sigs, solana.SignatureFromBytes(raw))
	}
	return sigs, auth, nil
}

func (c *MWABridgeClient) authorize(ctx context.Context, conn *websocket.Conn, identity MWAIdentity, authToken string) (*MWAAuthorization, error) {
	params := mwaAuthorizeParams{
		Identity:  identity,
		Chain:     c.chain,
		AuthToken: authToken,
	}

	var result mwaAuthorizeResult
	if err := c.call(ctx, conn, "authorize", params, &result); err != nil {
		return nil, err
	}
	if len(result.Accounts) == 0 {
		return nil, errors.New("wallet app authorized no accounts")
	}

	raw, err := base64.StdEncoding.DecodeString(result.Accounts[0].Address)
	if err != nil {
		return nil, fmt.Errorf("failed to decode account address: %w", err)
	}
	if len(raw) != solana.PublicKeyLength {
		return nil, fmt.Errorf("invalid account address length %d", len(raw))
	}

	return &MWAAuthorization{
		AuthToken: result.AuthToken,
		Address:   solana.PublicKeyFromBytes(raw).String(),
		WalletURI: result.WalletURIBase,
	}, nil
}

func (c *MWABridgeClient) open(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to reach wallet app: %w", err)
	}
	return conn, nil
}

func (c *MWABridgeClient) call(ctx context.Context, conn *websocket.Conn, method string, params, out any) error {
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return err
	}

	req := mwaRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	}
	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("failed to send %s: %w", method, err)
	}

	var resp mwaResponse
	if err := conn.ReadJSON(&resp); err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}
	if resp.ID != req.ID {
		return fmt.Errorf("%s: response id %q does not match request", method, resp.ID)
	}
	if resp.Error != nil {
		return resp.Error
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}
