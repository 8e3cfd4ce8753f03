package accumulator

import (
	"fmt"
	"math/big"

	"github.com/ecrombie/accrete/crypto/group"
	"github.com/ecrombie/accrete/crypto/poe"
	"github.com/ecrombie/accrete/crypto/primes"
)

// MembershipProof is an aggregated membership proof for a list of members: a
// single combined witness plus a proof of exponentiation that replaces the
// per-member verification exponentiations.
type MembershipProof struct {
	Witness group.Element
	Proof   *poe.Proof
}

// NonMembershipProof is an aggregatable non-membership proof. It hides the
// Bezout coefficients behind a proof of knowledge, so unlike
// NonMembershipWitness its size does not grow with the set product.
type NonMembershipProof struct {
	D group.Element // g^a
	V group.Element // value^b

	PiV *poe.KnowledgeProof // knowledge of b in value^b = V
	PiG *poe.Proof          // d^x = g * v^-1
}

// ProveMembershipBatched returns one proof covering the membership of every
// listed member against the current value.
func (a *Accumulator) ProveMembershipBatched(members [][]byte) (*MembershipProof, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("accumulator: no members to prove")
	}
	prod := big.NewInt(1)
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		p, ok := a.members[string(m)]
		if !ok {
			return nil, ErrNotAMember
		}
		if !seen[string(m)] {
			seen[string(m)] = true
			prod.Mul(prod, p)
		}
	}

	witness := a.grp.Pow(a.g, a.productExcluding(seen))
	proof, err := poe.Prove(a.grp, witness, prod, a.value)
	if err != nil {
		return nil, err
	}
	return &MembershipProof{Witness: witness, Proof: proof}, nil
}

func (a *Accumulator) productExcluding(skip map[string]bool) *big.Int {
	prod := big.NewInt(1)
	for k, p := range a.members {
		if !skip[k] {
			prod.Mul(prod, p)
		}
	}
	return prod
}

// AggregateWitnesses folds individual membership witnesses, valid against the
// same value, into a single MembershipProof. This is the non-holder path: it
// needs only the witnesses and the members, not the accumulated set.
func AggregateWitnesses(grp group.Group, value group.Element, members [][]byte, witnesses []group.Element) (*MembershipProof, error) {
	if len(members) == 0 || len(members) != len(witnesses) {
		return nil, fmt.Errorf("accumulator: need one witness per member, got %v members and %v witnesses", len(members), len(witnesses))
	}

	combined := witnesses[0]
	prod, err := primes.MapToPrime(members[0])
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(members); i++ {
		p, err := primes.MapToPrime(members[i])
		if err != nil {
			return nil, err
		}
		w, ok := shamirTrick(grp, combined, witnesses[i], prod, p)
		if !ok {
			return nil, fmt.Errorf("accumulator: member primes are not coprime, cannot aggregate")
		}
		combined = w
		prod.Mul(prod, p)
	}

	proof, err := poe.Prove(grp, combined, prod, value)
	if err != nil {
		return nil, err
	}
	return &MembershipProof{Witness: combined, Proof: proof}, nil
}

// ProveNonMembershipBatched returns a succinct non-membership proof for a
// member outside the accumulated set, built from the Bezout identity but with
// both coefficients hidden behind proofs.
func (a *Accumulator) ProveNonMembershipBatched(member []byte) (*NonMembershipProof, error) {
	if a.Has(member) {
		return nil, ErrAlreadyAMember
	}
	x, err := primes.MapToPrime(member)
	if err != nil {
		return nil, err
	}

	P := a.product("", false)
	gcd, bezoutA, bezoutB := new(big.Int), new(big.Int), new(big.Int)
	gcd.GCD(bezoutA, bezoutB, x, P)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		return nil, ErrAlreadyAMember
	}

	d := a.grp.Pow(a.g, bezoutA)
	v := a.grp.Pow(a.value, bezoutB)

	piV, err := poe.ProveKnowledge(a.grp, a.g, a.value, bezoutB, v)
	if err != nil {
		return nil, err
	}

	// d^x = g^(a*x) = g^(1 - b*P) = g * v^-1.
	k := a.grp.Op(a.g, a.grp.Inv(v))
	piG, err := poe.Prove(a.grp, d, x, k)
	if err != nil {
		return nil, err
	}

	return &NonMembershipProof{D: d, V: v, PiV: piV, PiG: piG}, nil
}
