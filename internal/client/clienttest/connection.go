// Package clienttest provides an in-memory client.Connection for tests.
package clienttest

import (
	"context"
	"sync"

	"github.com/AlexZinkM/multi-wallet/internal/client"

	"github.com/gagliardetto/solana-go"
)

// Connection is a scriptable client.Connection. Zero value works: sends
// return a deterministic signature and status lookups return nil.
type Connection struct {
	URL       string
	Blockhash solana.Hash
	Balance   uint64

	// SendFunc overrides SendRawTransaction; call counts from 1
	SendFunc func(call int, raw []byte) (solana.Signature, error)
	// StatusFunc overrides GetSignatureStatus; call counts from 1
	StatusFunc func(call int, sig solana.Signature) (*client.SignatureStatus, error)

	mu          sync.Mutex
	sent        [][]byte
	sendCalls   int
	statusCalls int
}

// Endpoint returns URL
func (c *Connection) Endpoint() string {
	if c.URL == "" {
		return "memory://connection"
	}
	return c.URL
}

// GetLatestBlockhash returns Blockhash
func (c *Connection) GetLatestBlockhash(context.Context) (solana.Hash, error) {
	return c.Blockhash, nil
}

// SendRawTransaction records raw and answers through SendFunc
func (c *Connection) SendRawTransaction(_ context.Context, raw []byte, _ client.SendOptions) (solana.Signature, error) {
	c.mu.Lock()
	c.sendCalls++
	call := c.sendCalls
	c.sent = append(c.sent, raw)
	c.mu.Unlock()

	if c.SendFunc != nil {
		return c.SendFunc(call, raw)
	}
	var sig solana.Signature
	sig[0] = byte(call)
	return sig, nil
}

// GetSignatureStatus answers through StatusFunc
func (c *Connection) GetSignatureStatus(_ context.Context, sig solana.Signature) (*client.SignatureStatus, error) {
	c.mu.Lock()
	c.statusCalls++
	call := c.statusCalls
	c.mu.Unlock()

	if c.StatusFunc != nil {
		return c.StatusFunc(call, sig)
	}
	return nil, nil
}

// GetBalance returns Balance
func (c *Connection) GetBalance(context.Context, solana.PublicKey) (uint64, error) {
	return c.Balance, nil
}

// SendCalls returns how many times SendRawTransaction ran
func (c *Connection) SendCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendCalls
}

// StatusCalls returns how many times GetSignatureStatus ran
func (c *Connection) StatusCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusCalls
}

// Sent returns the raw transactions passed to SendRawTransaction
func (c *Connection) Sent() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.sent))
	copy(out, c.sent)
	return out
}
