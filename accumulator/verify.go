package accumulator

import (
	"math/big"

	"github.com/ecrombie/accrete/crypto/group"
	"github.com/ecrombie/accrete/crypto/poe"
	"github.com/ecrombie/accrete/crypto/primes"
)

// The verifier functions are pure: they never mutate any accumulator state.
// A proof that simply does not hold is the routine outcome and is reported as
// (false, nil); errors are reserved for malformed inputs, such as group
// elements that fail the validity predicate.

// VerifyMembership reports whether witness proves that member is accumulated
// in value: witness^prime(member) must equal value.
func VerifyMembership(grp group.Group, value group.Element, member []byte, witness group.Element) (bool, error) {
	if witness == nil || value == nil || !grp.Contains(witness) || !grp.Contains(value) {
		return false, group.ErrInvalidElement
	}
	x, err := primes.MapToPrime(member)
	if err != nil {
		return false, err
	}
	return grp.Equal(grp.Pow(witness, x), value), nil
}

// VerifyNonMembership reports whether w proves that member is absent from
// value, against the generator g the accumulator was created at:
// U^prime(member) * value^B must reconstruct g.
func VerifyNonMembership(grp group.Group, g, value group.Element, member []byte, w *NonMembershipWitness) (bool, error) {
	if w == nil || w.U == nil || w.B == nil {
		return false, group.ErrInvalidElement
	}
	if !grp.Contains(w.U) || !grp.Contains(g) || !grp.Contains(value) {
		return false, group.ErrInvalidElement
	}
	x, err := primes.MapToPrime(member)
	if err != nil {
		return false, err
	}
	lhs := grp.Op(grp.Pow(w.U, x), grp.Pow(value, w.B))
	return grp.Equal(lhs, g), nil
}

// VerifyBatchAdd reports whether proof shows that adding the listed members
// to prev produced next. The verifier recomputes the members' primes, so the
// proof is bound to exactly this member list.
func VerifyBatchAdd(grp group.Group, prev, next group.Element, members [][]byte, proof *poe.Proof) (bool, error) {
	if prev == nil || next == nil || !grp.Contains(prev) || !grp.Contains(next) {
		return false, group.ErrInvalidElement
	}
	prod, err := membersProduct(members)
	if err != nil {
		return false, err
	}
	return poe.Verify(grp, prev, prod, next, proof), nil
}

// VerifyBatchDelete reports whether proof shows that deleting the listed
// members from prev produced next.
func VerifyBatchDelete(grp group.Group, prev, next group.Element, members [][]byte, proof *poe.Proof) (bool, error) {
	if prev == nil || next == nil || !grp.Contains(prev) || !grp.Contains(next) {
		return false, group.ErrInvalidElement
	}
	prod, err := membersProduct(members)
	if err != nil {
		return false, err
	}
	return poe.Verify(grp, next, prod, prev, proof), nil
}

// VerifyMembershipBatched reports whether proof covers the membership of all
// listed members in value.
func VerifyMembershipBatched(grp group.Group, value group.Element, members [][]byte, proof *MembershipProof) (bool, error) {
	if proof == nil || proof.Witness == nil {
		return false, group.ErrInvalidElement
	}
	if !grp.Contains(proof.Witness) || !grp.Contains(value) {
		return false, group.ErrInvalidElement
	}
	if len(members) == 0 {
		return false, nil
	}
	prod, err := membersProduct(members)
	if err != nil {
		return false, err
	}
	return poe.Verify(grp, proof.Witness, prod, value, proof.Proof), nil
}

// VerifyNonMembershipBatched reports whether proof shows that member is
// absent from value, against the generator g.
func VerifyNonMembershipBatched(grp group.Group, g, value group.Element, member []byte, proof *NonMembershipProof) (bool, error) {
	if proof == nil || proof.D == nil || proof.V == nil {
		return false, group.ErrInvalidElement
	}
	if !grp.Contains(proof.D) || !grp.Contains(proof.V) || !grp.Contains(g) || !grp.Contains(value) {
		return false, group.ErrInvalidElement
	}
	x, err := primes.MapToPrime(member)
	if err != nil {
		return false, err
	}

	if !poe.VerifyKnowledge(grp, g, value, proof.V, proof.PiV) {
		return false, nil
	}
	k := grp.Op(g, grp.Inv(proof.V))
	return poe.Verify(grp, proof.D, x, k, proof.PiG), nil
}

// membersProduct maps each distinct member to its prime and returns the
// product.
func membersProduct(members [][]byte) (*big.Int, error) {
	prod := big.NewInt(1)
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if seen[string(m)] {
			continue
		}
		seen[string(m)] = true
		p, err := primes.MapToPrime(m)
		if err != nil {
			return nil, err
		}
		prod.Mul(prod, p)
	}
	return prod, nil
}
