package solana

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/multi-wallet/internal/client"
	"github.com/AlexZinkM/multi-wallet/internal/common"
	"github.com/AlexZinkM/multi-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateSource gives the SOL/USD rate as a decimal string
type RateSource interface {
	GetSOLtoUSDrate(ctx context.Context) (string, error)
}

// GetBalance gets the SOL balance of address. The USD value is best effort:
// a failed rate lookup is logged and leaves Rate and USD empty.
func GetBalance(ctx context.Context, conn client.Connection, fallback ConnectionFactory, rates RateSource, address string, logger *zap.Logger) (*model.BalanceResponse, error) {
	owner, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	lamports, _, err := WithFallbackConnection(ctx, conn, fallback, func(ctx context.Context, c client.Connection) (uint64, error) {
		return c.GetBalance(ctx, owner)
	})
	if err != nil {
		return nil, err
	}

	resp := &model.BalanceResponse{
		Address: address,
		SOL:     common.LamportsToSOL(lamports),
	}
	if rates == nil {
		return resp, nil
	}

	rate, err := rates.GetSOLtoUSDrate(ctx)
	if err != nil {
		logger.Warn("failed to get rate", zap.Error(err))
		return resp, nil
	}
	resp.Rate = rate
	resp.USD = usdValue(resp.SOL, rate)
	return resp, nil
}

// usdValue multiplies two decimal strings and rounds to cents
func usdValue(sol, rate string) string {
	s, err := decimal.NewFromString(sol)
	if err != nil {
		return ""
	}
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return ""
	}
	return s.Mul(r).StringFixed(2)
}
