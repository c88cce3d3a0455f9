package model

import (
	"github.com/gagliardetto/solana-go"
)

// TransactionFormat is one of the payload shapes accepted by a send call.
// Values live for one send only and are never persisted.
type TransactionFormat interface {
	formatType() string
}

// RawTransaction carries an already built transaction
type RawTransaction struct {
	Transaction *solana.Transaction
}

// Base64Transaction carries a wire-encoded transaction as base64
type Base64Transaction struct {
	Data string
}

// InstructionSet carries instructions to be assembled into a transaction.
// Signers are extra keys that must sign besides the wallet (e.g. new accounts).
type InstructionSet struct {
	Instructions []solana.Instruction
	FeePayer     solana.PublicKey
	Signers      []solana.PrivateKey
}

func (RawTransaction) formatType() string { return "transaction" }
func (Base64Transaction) formatType() string { return "base64" }
func (InstructionSet) formatType() string { return "instructions" }

// FormatType returns the tag of a transaction format
func FormatType(f TransactionFormat) string {
	if f == nil {
		return ""
	}
	return f.formatType()
}
