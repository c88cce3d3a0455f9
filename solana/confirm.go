package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlexZinkM/multi-wallet/internal/client"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// TransactionFailedError means the transaction landed but failed on chain
type TransactionFailedError struct {
	Signature solana.Signature
	Err       any
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Signature, e.Err)
}

// IsTransactionFailedError checks if error is TransactionFailedError
func IsTransactionFailedError(err error) bool {
	var failed *TransactionFailedError
	return errors.As(err, &failed)
}

// Confirmation is the outcome of waiting for a signature
type Confirmation int

const (
	ConfirmationUnknown Confirmation = iota
	Confirmed
)

// confirm polls the signature status up to maxRetries times, interval apart.
// Lookup errors count as an unanswered poll. Running out of polls is not an
// error: the transaction may still land, so the result is ConfirmationUnknown.
func (s *TransactionService) confirm(ctx context.Context, conn client.Connection, sig solana.Signature, maxRetries int, status StatusFunc) (Confirmation, error) {
	if maxRetries <= 0 {
		maxRetries = s.maxRetries
	}

	status.emit("Confirming transaction...")
	for attempt := 1; attempt <= maxRetries; attempt++ {
		st, err := conn.GetSignatureStatus(ctx, sig)
		switch {
		case err != nil:
			s.logger.Debug("signature status lookup failed",
				zap.Stringer("signature", sig), zap.Int("attempt", attempt), zap.Error(err))
		case st != nil && st.Err != nil:
			status.emit("Transaction failed")
			return ConfirmationUnknown, &TransactionFailedError{Signature: sig, Err: st.Err}
		case st.Confirmed():
			status.emit("Transaction confirmed")
			return Confirmed, nil
		}

		if attempt == maxRetries {
			break
		}
		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ConfirmationUnknown, ctx.Err()
		case <-timer.C:
		}
	}

	s.logger.Warn("confirmation unknown", zap.Stringer("signature", sig), zap.Int("attempts", maxRetries))
	status.emit("Transaction sent, confirmation unknown")
	return ConfirmationUnknown, nil
}
