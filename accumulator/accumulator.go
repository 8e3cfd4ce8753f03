// Package accumulator implements a dynamic cryptographic accumulator over a
// group of unknown order, with batched updates and succinct membership and
// non-membership proofs.
//
// An accumulator compresses a set of byte-string members into a single group
// element. Each member is deterministically mapped to a prime, and the
// accumulator value is the generator raised to the product of all member
// primes. The holder keeps the member set so it can issue witnesses and
// delete members; verifiers only ever need the published value.
//
// State transitions are strictly sequential: the Accumulator does no locking
// of its own, and concurrent writers must be serialized by the caller, since
// every witness is tied to the exact snapshot it was computed against.
package accumulator

import (
	"errors"
	"math/big"

	"github.com/ecrombie/accrete/crypto/group"
	"github.com/ecrombie/accrete/crypto/primes"
)

var (
	// ErrAlreadyAMember is returned when an operation requires a member to
	// be absent but its prime already divides the accumulated product.
	ErrAlreadyAMember = errors.New("accumulator: member is already accumulated")

	// ErrNotAMember is returned when an operation requires a member to be
	// present in the accumulated set.
	ErrNotAMember = errors.New("accumulator: member is not accumulated")

	// ErrInvalidWitness is returned by DeleteWithWitness when the supplied
	// witness does not verify against the current value.
	ErrInvalidWitness = errors.New("accumulator: witness does not verify against the current value")
)

// Accumulator is the holder-side state: the published group element plus the
// full member bookkeeping needed to compute witnesses and deletions.
type Accumulator struct {
	grp   group.Group
	g     group.Element
	value group.Element

	members map[string]*big.Int // member bytes -> derived prime
	order   []string            // members in insertion order
}

// New returns an empty accumulator with a freshly sampled generator. The
// initial value is the generator itself.
func New(grp group.Group) *Accumulator {
	g := grp.RandomGenerator()
	return &Accumulator{
		grp:     grp,
		g:       g,
		value:   g,
		members: make(map[string]*big.Int),
	}
}

// Restore rebuilds a holder from a persisted generator and member set. The
// value is recomputed from scratch, costing one exponentiation by the full
// product of member primes.
func Restore(grp group.Group, g group.Element, members [][]byte) (*Accumulator, error) {
	if !grp.Contains(g) {
		return nil, group.ErrInvalidElement
	}
	a := &Accumulator{
		grp:     grp,
		g:       g,
		value:   g,
		members: make(map[string]*big.Int),
	}
	prod := big.NewInt(1)
	for _, m := range members {
		if _, ok := a.members[string(m)]; ok {
			return nil, ErrAlreadyAMember
		}
		p, err := primes.MapToPrime(m)
		if err != nil {
			return nil, err
		}
		a.members[string(m)] = p
		a.order = append(a.order, string(m))
		prod.Mul(prod, p)
	}
	a.value = grp.Pow(g, prod)
	return a, nil
}

// Value returns the current published accumulator value.
func (a *Accumulator) Value() group.Element { return a.value }

// Generator returns the fixed base the accumulator was created at.
func (a *Accumulator) Generator() group.Element { return a.g }

// Len returns the number of accumulated members.
func (a *Accumulator) Len() int { return len(a.order) }

// Has reports whether member is currently accumulated.
func (a *Accumulator) Has(member []byte) bool {
	_, ok := a.members[string(member)]
	return ok
}

// Members returns the accumulated members in insertion order.
func (a *Accumulator) Members() [][]byte {
	out := make([][]byte, len(a.order))
	for i, k := range a.order {
		out[i] = []byte(k)
	}
	return out
}

// product returns the product of the primes of every accumulated member,
// optionally skipping one member. The empty set has product 1.
func (a *Accumulator) product(skip string, useSkip bool) *big.Int {
	prod := big.NewInt(1)
	for k, p := range a.members {
		if useSkip && k == skip {
			continue
		}
		prod.Mul(prod, p)
	}
	return prod
}

// Add accumulates a new member and returns its membership witness, which is
// simply the pre-add value. Costs one exponentiation. Adding a member twice
// is rejected: a silent double-add would corrupt every outstanding witness.
func (a *Accumulator) Add(member []byte) (group.Element, error) {
	if a.Has(member) {
		return nil, ErrAlreadyAMember
	}
	p, err := primes.MapToPrime(member)
	if err != nil {
		return nil, err
	}

	witness := a.value
	next := a.grp.Pow(a.value, p)

	a.members[string(member)] = p
	a.order = append(a.order, string(member))
	a.value = next
	return witness, nil
}

// Delete removes a member, recomputing the value from the remaining set.
// The holder's knowledge of the full member set is the trapdoor here; there
// is no way to delete from the published value alone.
func (a *Accumulator) Delete(member []byte) error {
	if !a.Has(member) {
		return ErrNotAMember
	}
	next := a.grp.Pow(a.g, a.product(string(member), true))

	a.removeMember(string(member))
	a.value = next
	return nil
}

// DeleteWithWitness removes a member whose membership witness is already
// known, avoiding the full recomputation: the witness is the accumulator
// without that member, so after verifying it, it becomes the new value.
func (a *Accumulator) DeleteWithWitness(member []byte, witness group.Element) error {
	if !a.grp.Contains(witness) {
		return group.ErrInvalidElement
	}
	p, ok := a.members[string(member)]
	if !ok {
		return ErrNotAMember
	}
	if !a.grp.Equal(a.grp.Pow(witness, p), a.value) {
		return ErrInvalidWitness
	}

	a.removeMember(string(member))
	a.value = witness
	return nil
}

func (a *Accumulator) removeMember(key string) {
	delete(a.members, key)
	for i, k := range a.order {
		if k == key {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}
