// Package poe implements non-interactive proofs of exponentiation in groups
// of unknown order, along with a batching protocol that compresses many
// exponentiation claims into a single short proof.
//
// The Fiat-Shamir challenge for every proof is a prime derived by hashing the
// complete public statement, so a verifier recomputes it independently and
// any change to the statement after proving invalidates the proof.
package poe

import (
	"encoding/binary"
	"math/big"

	"github.com/ecrombie/accrete/crypto/group"
	"github.com/ecrombie/accrete/crypto/primes"
	"golang.org/x/crypto/blake2b"
)

// Proof is a succinct proof of one or more exponentiation relations: a single
// quotient commitment plus the challenge-sized remainder of the exponent.
type Proof struct {
	Q group.Element
	R *big.Int
}

// transcript accumulates length-prefixed public values for challenge
// derivation.
type transcript struct {
	buf []byte
}

func (t *transcript) append(parts ...[]byte) {
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		t.buf = append(t.buf, n[:]...)
		t.buf = append(t.buf, p...)
	}
}

func (t *transcript) appendRelation(base group.Element, exp *big.Int, result group.Element) {
	t.append(base.Bytes(), exp.Bytes(), result.Bytes())
}

// challenge derives the challenge prime for the transcript. Deriving a prime
// (rather than any odd integer) is what the soundness argument in the
// unknown-order setting requires.
func (t *transcript) challenge() (*big.Int, error) {
	return primes.MapToPrime(append([]byte("poe-challenge"), t.buf...))
}

// coefficient derives the i-th per-relation Fiat-Shamir coefficient for an
// aggregated proof. Coefficients are bound to the same transcript as the
// challenge, so they are fixed only once every relation is.
func (t *transcript) coefficient(i int) *big.Int {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(i))
	h, _ := blake2b.New256([]byte("poe-coefficient"))
	h.Write(t.buf)
	h.Write(n[:])
	c := new(big.Int).SetBytes(h.Sum(nil)[:primes.PrimeBytes])
	if c.Sign() == 0 {
		c.SetInt64(1)
	}
	return c
}

// Prove returns a proof that base^exp = result. The relation is assumed to
// hold; Prove does not check it.
func Prove(grp group.Group, base group.Element, exp *big.Int, result group.Element) (*Proof, error) {
	tr := new(transcript)
	tr.appendRelation(base, exp, result)
	l, err := tr.challenge()
	if err != nil {
		return nil, err
	}

	q, r := new(big.Int), new(big.Int)
	q.DivMod(exp, l, r)
	return &Proof{Q: grp.Pow(base, q), R: r}, nil
}

// Verify checks a proof that base^exp = result. The full-size exponentiation
// is replaced by two with challenge-sized exponents.
func Verify(grp group.Group, base group.Element, exp *big.Int, result group.Element, proof *Proof) bool {
	if proof == nil || proof.Q == nil || proof.R == nil {
		return false
	}
	if !grp.Contains(proof.Q) {
		return false
	}

	tr := new(transcript)
	tr.appendRelation(base, exp, result)
	l, err := tr.challenge()
	if err != nil {
		return false
	}

	r := new(big.Int)
	new(big.Int).DivMod(exp, l, r)
	if r.Cmp(proof.R) != 0 {
		return false
	}

	lhs := grp.Op(grp.Pow(proof.Q, l), grp.Pow(base, r))
	return grp.Equal(lhs, result)
}
