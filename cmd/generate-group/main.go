// Command generate-group outputs fresh group parameters and signing keys for
// an accumulator deployment.
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"flag"
	"fmt"
	"log"

	"github.com/ecrombie/accrete/crypto/group/rsagroup"
)

var (
	bits = flag.Int("bits", 2048, "Size of the group modulus in bits.")
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	flag.Parse()

	// This is a trusted setup: whoever runs it could keep the factors of
	// the modulus, so run it on a machine you control and discard the
	// process state afterwards.
	grp, err := rsagroup.Setup(*bits)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Group Modulus:       %x\n", grp.Modulus().Bytes())

	sigKey := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(sigKey); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Signing Private Key: %x\n", sigKey)

	sigPublic := ed25519.NewKeyFromSeed(sigKey).Public().(ed25519.PublicKey)
	fmt.Printf("Signing Public Key:  %x\n", sigPublic)
}
