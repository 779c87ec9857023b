// Command keygen generates an ed25519 wallet keypair and prints the hex
// encoded public key, private key, and derived wallet address.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/identity"
)

func main() {
	pub, priv, err := identity.Generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate key: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("public key:  %s\n", pub)
	fmt.Printf("private key: %s\n", hex.EncodeToString(priv))
	fmt.Printf("wallet:      %s\n", addr.Wallet(pub))
}
