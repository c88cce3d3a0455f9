package solana

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZinkM/multi-wallet/internal/client"
	"github.com/AlexZinkM/multi-wallet/internal/common"
	"github.com/AlexZinkM/multi-wallet/internal/model"
	"github.com/AlexZinkM/multi-wallet/internal/wallet"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
)

const (
	solFeeLamports = 5000 // Fee in lamports (0.000005 SOL)
)

// ErrInvalidAddress is returned for destination or owner addresses that are not base58 public keys
var ErrInvalidAddress = errors.New("invalid Solana address")

// CooldownError means a transfer was attempted too soon after the previous one
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active, please wait %v", e.Remaining.Round(time.Second))
}

// IsCooldownError checks if error is CooldownError
func IsCooldownError(err error) bool {
	var cd *CooldownError
	return errors.As(err, &cd)
}

var (
	lastPayTime time.Time
	payMutex    sync.Mutex
)

// TransferSOL sends amount SOL from the current wallet to toAddress.
// Transfers are serialized and at most one succeeds per cooldown window.
func TransferSOL(ctx context.Context, w *Wallet, toAddress, amount string, cooldownMinutes int, opts SendOptions) (*model.SendResponse, error) {
	to, err := solana.PublicKeyFromBase58(toAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, toAddress)
	}

	payMutex.Lock()
	defer payMutex.Unlock()

	if !lastPayTime.IsZero() {
		cooldownDuration := time.Duration(cooldownMinutes) * time.Minute
		if elapsed := time.Since(lastPayTime); elapsed < cooldownDuration {
			return nil, &CooldownError{Remaining: cooldownDuration - elapsed}
		}
	}

	r := w.Resolve(ctx)
	if r.Wallet == nil {
		return nil, wallet.ErrNoWallet
	}
	if r.PublicKey == nil {
		return nil, fmt.Errorf("invalid wallet address %q", r.Address)
	}
	from := *r.PublicKey

	lamports, err := common.SOLToLamports(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	if lamports == 0 {
		return nil, errors.New("amount must be greater than zero")
	}

	conn := opts.Connection
	if conn == nil {
		conn = w.txs.Connection()
	}
	balance, _, err := WithFallbackConnection(ctx, conn, w.txs.fallback, func(ctx context.Context, c client.Connection) (uint64, error) {
		return c.GetBalance(ctx, from)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check balance: %w", err)
	}

	// Check SOL sufficiency (amount + fee)
	if balance < solFeeLamports || balance-solFeeLamports < lamports {
		var maxLamports uint64
		if balance > solFeeLamports {
			maxLamports = balance - solFeeLamports
		}
		return nil, fmt.Errorf("insufficient SOL balance. Transaction fee: %s SOL. Max you can send: %s SOL",
			common.LamportsToSOL(solFeeLamports), common.LamportsToSOL(maxLamports))
	}

	var messages []string
	userStatus := opts.StatusCallback
	opts.StatusCallback = func(msg string) {
		messages = append(messages, msg)
		userStatus.emit(msg)
	}

	transfer := system.NewTransferInstruction(lamports, from, to).Build()
	txID, err := w.txs.Send(ctx, model.InstructionSet{
		Instructions: []solana.Instruction{transfer},
		FeePayer:     from,
	}, r.Wallet, opts)
	if err != nil {
		if txID == "" {
			return nil, fmt.Errorf("failed to send transaction: %w", err)
		}
		// landed: the cooldown applies even though it failed on chain
		lastPayTime = time.Now()
		return &model.SendResponse{TxID: txID, Status: messages}, err
	}

	lastPayTime = time.Now()

	return &model.SendResponse{
		TxID:   txID,
		Status: messages,
	}, nil
}
