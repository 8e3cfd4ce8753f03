package accumulator

import (
	"math/big"

	"github.com/ecrombie/accrete/crypto/group"
	"github.com/ecrombie/accrete/crypto/primes"
)

// NonMembershipWitness proves a member is absent from the accumulated set.
// With x the member's prime and P the product of all accumulated primes, the
// Bezout identity a*x + b*P = 1 exists exactly when x is not in the set; the
// witness is U = g^a together with b, which may be negative.
type NonMembershipWitness struct {
	U group.Element
	B *big.Int
}

// ProveMembership returns the witness for an accumulated member: the
// generator raised to the product of every other member's prime.
func (a *Accumulator) ProveMembership(member []byte) (group.Element, error) {
	if !a.Has(member) {
		return nil, ErrNotAMember
	}
	return a.grp.Pow(a.g, a.product(string(member), true)), nil
}

// AllMembershipWitnesses returns a witness for every accumulated member,
// ordered to match Members(). Root-factor splitting makes this O(n log n)
// exponentiations instead of the O(n^2) of calling ProveMembership n times.
func (a *Accumulator) AllMembershipWitnesses() []group.Element {
	if len(a.order) == 0 {
		return nil
	}
	ps := make([]*big.Int, len(a.order))
	for i, k := range a.order {
		ps[i] = a.members[k]
	}
	return rootFactor(a.grp, a.g, ps)
}

// ProveNonMembership returns a non-membership witness for a member outside
// the accumulated set. Requesting one for an accumulated member is a caller
// logic error and fails with ErrAlreadyAMember: the required Bezout identity
// cannot exist when the member's prime divides the set product.
func (a *Accumulator) ProveNonMembership(member []byte) (*NonMembershipWitness, error) {
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
		// A distinct member mapped to the same prime; indistinguishable
		// from already being accumulated.
		return nil, ErrAlreadyAMember
	}

	return &NonMembershipWitness{U: a.grp.Pow(a.g, bezoutA), B: bezoutB}, nil
}

// UpdateWitnessAdd refreshes a membership witness after another member with
// prime p was added: the witness tracks the value by gaining the same
// exponent.
func UpdateWitnessAdd(grp group.Group, witness group.Element, p *big.Int) group.Element {
	return grp.Pow(witness, p)
}

// UpdateWitnessDelete refreshes a membership witness for the member with
// prime x after the member with prime d was deleted, given the post-delete
// value. With a*x + b*d = 1, the new witness is witness^b * newValue^a.
func UpdateWitnessDelete(grp group.Group, newValue, witness group.Element, x, d *big.Int) group.Element {
	bezoutA, bezoutB := new(big.Int), new(big.Int)
	new(big.Int).GCD(bezoutA, bezoutB, x, d)
	return grp.Op(grp.Pow(witness, bezoutB), grp.Pow(newValue, bezoutA))
}

// shamirTrick combines witnesses w1^x = v and w2^y = v into a single w with
// w^(x*y) = v. It requires x and y to be coprime, which holds for distinct
// primes.
func shamirTrick(grp group.Group, w1, w2 group.Element, x, y *big.Int) (group.Element, bool) {
	gcd, bezoutA, bezoutB := new(big.Int), new(big.Int), new(big.Int)
	gcd.GCD(bezoutA, bezoutB, x, y)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		return nil, false
	}
	// (w1^b * w2^a)^(x*y) = v^(b*y) * v^(a*x) = v.
	return grp.Op(grp.Pow(w1, bezoutB), grp.Pow(w2, bezoutA)), true
}
