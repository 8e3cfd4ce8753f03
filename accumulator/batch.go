package accumulator

import (
	"math/big"

	"github.com/ecrombie/accrete/crypto/group"
	"github.com/ecrombie/accrete/crypto/poe"
	"github.com/ecrombie/accrete/crypto/primes"
)

// BatchUpdate describes one completed batch transition. The proof lets anyone
// who trusted PrevValue accept NewValue without redoing the full-size
// exponentiation: for additions it proves PrevValue^prod = NewValue, for
// deletions NewValue^prod = PrevValue, where prod is the product of the
// affected members' primes.
type BatchUpdate struct {
	PrevValue group.Element
	NewValue  group.Element

	// Witnesses holds the membership witness for each added member, in the
	// order the members were given. Empty for deletions.
	Witnesses []group.Element

	Proof *poe.Proof
}

// AddBatch accumulates many members with a single full-size exponentiation,
// deriving each member's witness from partial products instead of one
// product per member. The whole batch is rejected if any member is already
// accumulated or appears twice.
func (a *Accumulator) AddBatch(members [][]byte) (*BatchUpdate, error) {
	ps := make([]*big.Int, len(members))
	seen := make(map[string]bool, len(members))
	for i, m := range members {
		if a.Has(m) || seen[string(m)] {
			return nil, ErrAlreadyAMember
		}
		seen[string(m)] = true
		p, err := primes.MapToPrime(m)
		if err != nil {
			return nil, err
		}
		ps[i] = p
	}

	prod := big.NewInt(1)
	for _, p := range ps {
		prod.Mul(prod, p)
	}

	prev := a.value
	next := a.grp.Pow(prev, prod)
	proof, err := poe.Prove(a.grp, prev, prod, next)
	if err != nil {
		return nil, err
	}

	// Witness for member i is prev raised to the product of every other new
	// prime; old members' primes are already folded into prev.
	var witnesses []group.Element
	if len(ps) > 0 {
		witnesses = rootFactor(a.grp, prev, ps)
	}

	for i, m := range members {
		a.members[string(m)] = ps[i]
		a.order = append(a.order, string(m))
	}
	a.value = next

	return &BatchUpdate{PrevValue: prev, NewValue: next, Witnesses: witnesses, Proof: proof}, nil
}

// DeleteBatch removes many members with a single full-size exponentiation by
// the remaining set's product, plus a transition proof for verifiers tracking
// the published value.
func (a *Accumulator) DeleteBatch(members [][]byte) (*BatchUpdate, error) {
	deleted := big.NewInt(1)
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		p, ok := a.members[string(m)]
		if !ok || seen[string(m)] {
			return nil, ErrNotAMember
		}
		seen[string(m)] = true
		deleted.Mul(deleted, p)
	}

	remaining := big.NewInt(1)
	for k, p := range a.members {
		if !seen[k] {
			remaining.Mul(remaining, p)
		}
	}

	prev := a.value
	next := a.grp.Pow(a.g, remaining)
	proof, err := poe.Prove(a.grp, next, deleted, prev)
	if err != nil {
		return nil, err
	}

	for _, m := range members {
		a.removeMember(string(m))
	}
	a.value = next

	return &BatchUpdate{PrevValue: prev, NewValue: next, Proof: proof}, nil
}

// rootFactor computes base^(prod(ps)/ps[i]) for every i with O(n log n)
// exponentiations, by recursively splitting the prime list and pushing the
// other half's product into the base.
func rootFactor(grp group.Group, base group.Element, ps []*big.Int) []group.Element {
	if len(ps) == 1 {
		return []group.Element{base}
	}
	half := len(ps) / 2
	left, right := ps[:half], ps[half:]

	leftProd, rightProd := big.NewInt(1), big.NewInt(1)
	for _, p := range left {
		leftProd.Mul(leftProd, p)
	}
	for _, p := range right {
		rightProd.Mul(rightProd, p)
	}

	out := rootFactor(grp, grp.Pow(base, rightProd), left)
	return append(out, rootFactor(grp, grp.Pow(base, leftProd), right)...)
}
