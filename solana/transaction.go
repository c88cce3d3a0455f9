package solana

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/AlexZinkM/multi-wallet/internal/client"
	"github.com/AlexZinkM/multi-wallet/internal/model"
	"github.com/AlexZinkM/multi-wallet/internal/provider"
	"github.com/AlexZinkM/multi-wallet/internal/wallet"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

const (
	defaultConfirmRetries  = 5
	defaultConfirmInterval = 2 * time.Second
)

// ErrInvalidTransaction is returned for payloads that do not decode to a transaction
var ErrInvalidTransaction = errors.New("invalid transaction")

// StatusFunc receives user-facing progress messages
type StatusFunc func(msg string)

func (f StatusFunc) emit(msg string) {
	if f != nil {
		f(msg)
	}
}

// SendOptions controls one send
type SendOptions struct {
	// Connection overrides the service's primary connection
	Connection         client.Connection
	ConfirmTransaction bool
	// MaxRetries is the number of confirmation polls; zero uses the service default
	MaxRetries     int
	StatusCallback StatusFunc
}

// ServiceOptions configures a TransactionService
type ServiceOptions struct {
	Fallback          ConnectionFactory
	External          provider.ExternalSender
	ConfirmInterval   time.Duration
	ConfirmMaxRetries int
}

// TransactionService turns any TransactionFormat into a sent transaction
// for any provider's wallet
type TransactionService struct {
	conn       client.Connection
	fallback   ConnectionFactory
	external   provider.ExternalSender
	interval   time.Duration
	maxRetries int
	logger     *zap.Logger
}

// NewTransactionService creates a service sending through conn
func NewTransactionService(conn client.Connection, opts ServiceOptions, logger *zap.Logger) *TransactionService {
	s := &TransactionService{
		conn:       conn,
		fallback:   opts.Fallback,
		external:   opts.External,
		interval:   opts.ConfirmInterval,
		maxRetries: opts.ConfirmMaxRetries,
		logger:     logger.Named("tx"),
	}
	if s.interval <= 0 {
		s.interval = defaultConfirmInterval
	}
	if s.maxRetries <= 0 {
		s.maxRetries = defaultConfirmRetries
	}
	return s
}

// Connection returns the primary connection
func (s *TransactionService) Connection() client.Connection {
	return s.conn
}

// Fallback returns the fallback connection factory, nil when none is configured
func (s *TransactionService) Fallback() ConnectionFactory {
	return s.fallback
}

// Send signs and broadcasts format with w and returns the base58 signature.
// When the transaction landed but failed on chain the signature is returned
// together with a *TransactionFailedError.
func (s *TransactionService) Send(ctx context.Context, format model.TransactionFormat, w *wallet.StandardWallet, opts SendOptions) (string, error) {
	if w == nil {
		return "", wallet.ErrNoWallet
	}
	conn := opts.Connection
	if conn == nil {
		conn = s.conn
	}
	status := opts.StatusCallback

	tx, err := s.buildTransaction(ctx, format, w, conn)
	if err != nil {
		return "", err
	}

	status.emit("Sending transaction...")
	res, err := wallet.Visit[sent](w.Provider(), &sendVisitor{
		s:      s,
		ctx:    ctx,
		tx:     tx,
		w:      w,
		conn:   conn,
		status: status,
	})
	if err != nil {
		s.logger.Error("send failed",
			zap.String("provider", string(w.Provider())),
			zap.String("format", model.FormatType(format)),
			zap.Error(err))
		status.emit("Transaction failed")
		return "", err
	}

	sig := res.sig.String()
	s.logger.Info("transaction sent",
		zap.String("provider", string(w.Provider())),
		zap.String("signature", sig),
		zap.String("endpoint", res.conn.Endpoint()))
	status.emit("Transaction sent: " + sig)

	if !opts.ConfirmTransaction {
		return sig, nil
	}
	if _, err := s.confirm(ctx, res.conn, res.sig, opts.MaxRetries, status); err != nil {
		return sig, err
	}
	return sig, nil
}

func (s *TransactionService) buildTransaction(ctx context.Context, format model.TransactionFormat, w *wallet.StandardWallet, conn client.Connection) (*solana.Transaction, error) {
	switch f := format.(type) {
	case model.RawTransaction:
		if f.Transaction == nil {
			return nil, errors.New("transaction is nil")
		}
		return f.Transaction, nil
	case model.Base64Transaction:
		return DecodeBase64Transaction(f.Data)
	case model.InstructionSet:
		return s.assemble(ctx, f, w, conn)
	case nil:
		return nil, errors.New("transaction format is nil")
	}
	return nil, fmt.Errorf("unsupported transaction format %T", format)
}

// assemble builds a transaction from instructions with a fresh blockhash.
// Extra signers sign right away; the wallet signature is added on send.
func (s *TransactionService) assemble(ctx context.Context, set model.InstructionSet, w *wallet.StandardWallet, conn client.Connection) (*solana.Transaction, error) {
	if len(set.Instructions) == 0 {
		return nil, errors.New("no instructions to send")
	}

	payer := set.FeePayer
	if payer == (solana.PublicKey{}) {
		pk, err := solana.PublicKeyFromBase58(w.Address())
		if err != nil {
			return nil, fmt.Errorf("invalid wallet address: %w", err)
		}
		payer = pk
	}

	blockhash, _, err := WithFallbackConnection(ctx, conn, s.fallback, func(ctx context.Context, c client.Connection) (solana.Hash, error) {
		return c.GetLatestBlockhash(ctx)
	})
	if err != nil {
		return nil, err
	}

	tx, err := solana.NewTransaction(set.Instructions, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	if len(set.Signers) > 0 {
		if err := wallet.SignWithKeys(tx, set.Signers...); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

// DecodeBase64Transaction parses a base64 wire transaction
func DecodeBase64Transaction(data string) (*solana.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64: %v", ErrInvalidTransaction, err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	return tx, nil
}

// serialize produces the wire bytes handed to an external wallet. Missing
// signatures are left as zero slots for the wallet app to fill.
func serialize(ctx context.Context, tx *solana.Transaction, conn client.Connection) ([]byte, error) {
	if err := wallet.PrepareTransaction(ctx, tx, conn); err != nil {
		return nil, err
	}
	required := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Signatures) < required {
		sigs := make([]solana.Signature, required)
		copy(sigs, tx.Signatures)
		tx.Signatures = sigs
	}
	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return raw, nil
}

type sent struct {
	sig  solana.Signature
	conn client.Connection
}

// sendVisitor picks the signing path per provider
type sendVisitor struct {
	s      *TransactionService
	ctx    context.Context
	tx     *solana.Transaction
	w      *wallet.StandardWallet
	conn   client.Connection
	status StatusFunc
}

func (v *sendVisitor) Privy() (sent, error) { return v.viaSigner() }
func (v *sendVisitor) Dynamic() (sent, error) { return v.viaSigner() }
func (v *sendVisitor) Turnkey() (sent, error) { return v.viaSigner() }
func (v *sendVisitor) MWA() (sent, error) { return v.viaExternal() }

func (v *sendVisitor) viaSigner() (sent, error) {
	signer, err := v.w.SigningProvider(v.ctx)
	if err != nil {
		return sent{}, err
	}

	attempt := 0
	sig, used, err := WithFallbackConnection(v.ctx, v.conn, v.s.fallback, func(ctx context.Context, c client.Connection) (solana.Signature, error) {
		attempt++
		if attempt > 1 {
			v.s.logger.Warn("retrying on fallback connection",
				zap.String("primary", v.conn.Endpoint()), zap.String("fallback", c.Endpoint()))
			v.status.emit("Retrying with fallback connection...")
		}
		return signer.SignAndSendTransaction(ctx, v.tx, c)
	})
	if err != nil {
		return sent{}, err
	}
	return sent{sig: sig, conn: used}, nil
}

func (v *sendVisitor) viaExternal() (sent, error) {
	if v.s.external == nil {
		return sent{}, wallet.ErrExternalSigning
	}

	raw, used, err := WithFallbackConnection(v.ctx, v.conn, v.s.fallback, func(ctx context.Context, c client.Connection) ([]byte, error) {
		return serialize(ctx, v.tx, c)
	})
	if err != nil {
		return sent{}, err
	}

	v.status.emit("Waiting for approval in wallet app...")
	sigs, err := v.s.external.SignAndSendExternal(v.ctx, [][]byte{raw})
	if err != nil {
		return sent{}, err
	}
	if len(sigs) == 0 {
		return sent{}, errors.New("wallet app returned no signature")
	}
	return sent{sig: sigs[0], conn: used}, nil
}
