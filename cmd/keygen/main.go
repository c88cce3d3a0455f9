// Command keygen creates the local .cwt vault used by the embedded providers,
// or re-encrypts an existing one under a new password.
// Usage:
//
//	go run ./cmd/keygen -file wallet.cwt
//	go run ./cmd/keygen -file wallet.cwt -rekey
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/AlexZinkM/multi-wallet/internal/config"
	"github.com/AlexZinkM/multi-wallet/internal/embedded"
)

func main() {
	file := flag.String("file", "wallet.cwt", "vault file path (.cwt)")
	rekey := flag.Bool("rekey", false, "re-encrypt an existing vault with a new password")
	flag.Parse()

	var err error
	if *rekey {
		err = runRekey(*file)
	} else {
		err = runGenerate(*file)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGenerate(file string) error {
	password, err := newPassword("Vault password: ")
	if err != nil {
		return err
	}
	defer clear(password)

	address, err := embedded.Generate(file, password)
	if err != nil {
		return err
	}
	fmt.Println(address)
	return nil
}

func runRekey(file string) error {
	old, err := config.ReadPassword("Current password: ")
	if err != nil {
		return err
	}
	defer clear(old)

	password, err := newPassword("New password: ")
	if err != nil {
		return err
	}
	defer clear(password)

	return embedded.Rekey(file, old, password)
}

// newPassword reads a password twice and checks both entries match
func newPassword(prompt string) ([]byte, error) {
	first, err := config.ReadPassword(prompt)
	if err != nil {
		return nil, err
	}
	second, err := config.ReadPassword("Repeat password: ")
	if err != nil {
		clear(first)
		return nil, err
	}
	defer clear(second)

	if !bytes.Equal(first, second) {
		clear(first)
		return nil, errors.New("passwords do not match")
	}
	return first, nil
}
