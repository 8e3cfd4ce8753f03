// Package primes deterministically maps byte strings to prime integers.
//
// Accumulated members are represented in the group by primes, so the mapping
// has to be a pure function of the member bytes: any verifier recomputes the
// same prime with no knowledge of the accumulator that produced it.
package primes

import (
	"encoding/binary"
	"errors"
	"math/big"

	"golang.org/x/crypto/blake2b"
)

const (
	// PrimeBytes is the size of the candidate primes. 128-bit primes keep
	// exponentiations cheap while leaving collisions out of reach.
	PrimeBytes = 16

	// mrRounds is the number of Miller-Rabin rounds applied to candidates.
	mrRounds = 20

	// maxScan bounds the deterministic counter scan. The prime number
	// theorem puts the expected number of candidates near ln(2^128) / 2,
	// so hitting the bound means the hash is broken or the input was
	// crafted to break it.
	maxScan = 1 << 16
)

// ErrSearchExhausted is returned when no prime is found within the scan
// bound. Callers must treat it as fatal rather than retry.
var ErrSearchExhausted = errors.New("primes: candidate scan exhausted without finding a prime")

// MapToPrime returns the first probable prime derived from member by hashing
// (member, counter) for counter = 0, 1, 2, ... in order. The same member
// always yields the same prime.
func MapToPrime(member []byte) (*big.Int, error) {
	var ctr [4]byte
	for i := uint32(0); i < maxScan; i++ {
		binary.BigEndian.PutUint32(ctr[:], i)

		h, err := blake2b.New256(nil)
		if err != nil {
			return nil, err
		}
		h.Write(member)
		h.Write(ctr[:])
		digest := h.Sum(nil)

		cand := new(big.Int).SetBytes(digest[:PrimeBytes])
		// Force the top and bottom bits so every candidate is an odd
		// integer of exactly PrimeBytes*8 bits.
		cand.SetBit(cand, PrimeBytes*8-1, 1)
		cand.SetBit(cand, 0, 1)

		if cand.ProbablyPrime(mrRounds) {
			return cand, nil
		}
	}
	return nil, ErrSearchExhausted
}
