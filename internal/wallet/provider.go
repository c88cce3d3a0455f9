package wallet

import (
	"fmt"
	"strings"
)

// Provider identifies the wallet backend a StandardWallet belongs to
type Provider string

const (
	ProviderPrivy   Provider = "privy"
	ProviderDynamic Provider = "dynamic"
	ProviderTurnkey Provider = "turnkey"
	ProviderMWA     Provider = "mwa"
)

// Providers lists every supported provider tag
var Providers = []Provider{ProviderPrivy, ProviderDynamic, ProviderTurnkey, ProviderMWA}

// ParseProvider converts a configuration value into a Provider tag
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
}

func (p Provider) String() string {
	return string(p)
}

// Visitor handles each provider kind. Adding a provider adds a method here,
// so every implementation stops compiling until it handles the new kind.
type Visitor[T any] interface {
	Privy() (T, error)
	Dynamic() (T, error)
	Turnkey() (T, error)
	MWA() (T, error)
}

// Visit dispatches to the Visitor method matching p
func Visit[T any](p Provider, v Visitor[T]) (T, error) {
	switch p {
	case ProviderPrivy:
		return v.Privy()
	case ProviderDynamic:
		return v.Dynamic()
	case ProviderTurnkey:
		return v.Turnkey()
	case ProviderMWA:
		return v.MWA()
	}
	var zero T
	return zero, fmt.Errorf("%w: %q", ErrUnknownProvider, string(p))
}
