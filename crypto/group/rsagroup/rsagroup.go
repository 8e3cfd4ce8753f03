// Package rsagroup implements the group capability over Z_N* for an RSA-type
// modulus N of unknown factorization.
//
// The order of Z_N* is phi(N), which is infeasible to compute without the
// factors of N. Setup generates the modulus and discards the factors; this is
// a trusted setup, since whoever ran it could have kept them.
package rsagroup

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/ecrombie/accrete/crypto/group"
)

var one = big.NewInt(1)

// Element is a residue modulo the group's N.
type Element struct {
	v *big.Int
}

// Bytes returns the big-endian encoding of the residue.
func (e *Element) Bytes() []byte { return e.v.Bytes() }

// Group is a multiplicative group modulo an RSA-type modulus.
type Group struct {
	n *big.Int
}

// New returns the group Z_N* for the given modulus. The modulus is expected
// to come from Setup or an equivalent ceremony.
func New(n *big.Int) (*Group, error) {
	if n == nil || n.Sign() <= 0 || n.Bit(0) == 0 {
		return nil, fmt.Errorf("rsagroup: modulus must be a positive odd integer")
	}
	return &Group{n: new(big.Int).Set(n)}, nil
}

// Setup generates a fresh modulus N = p*q with the requested total bit size
// and returns the group over it. The factors are discarded immediately.
func Setup(bits int) (*Group, error) {
	if bits < 32 {
		return nil, fmt.Errorf("rsagroup: modulus size too small: %v bits", bits)
	}
	p, err := rand.Prime(rand.Reader, bits/2)
	if err != nil {
		return nil, err
	}
	q, err := rand.Prime(rand.Reader, bits-bits/2)
	if err != nil {
		return nil, err
	}
	n := new(big.Int).Mul(p, q)
	p.SetInt64(0)
	q.SetInt64(0)
	return &Group{n: n}, nil
}

// Modulus returns a copy of the group's modulus, for publication in config.
func (g *Group) Modulus() *big.Int { return new(big.Int).Set(g.n) }

func (g *Group) Identity() group.Element {
	return &Element{v: big.NewInt(1)}
}

func (g *Group) RandomGenerator() group.Element {
	for {
		r, err := rand.Int(rand.Reader, g.n)
		if err != nil {
			panic(err)
		}
		// Squaring lands in the quadratic residues, avoiding the trivial
		// order-2 subgroup generated by -1.
		r.Mul(r, r).Mod(r, g.n)
		if r.Cmp(one) > 0 && new(big.Int).GCD(nil, nil, r, g.n).Cmp(one) == 0 {
			return &Element{v: r}
		}
	}
}

func (g *Group) Op(a, b group.Element) group.Element {
	x, y := a.(*Element).v, b.(*Element).v
	out := new(big.Int).Mul(x, y)
	return &Element{v: out.Mod(out, g.n)}
}

func (g *Group) Inv(a group.Element) group.Element {
	out := new(big.Int).ModInverse(a.(*Element).v, g.n)
	if out == nil {
		panic("rsagroup: element has no inverse")
	}
	return &Element{v: out}
}

func (g *Group) Pow(a group.Element, e *big.Int) group.Element {
	base := a.(*Element).v
	if e.Sign() < 0 {
		base = new(big.Int).ModInverse(base, g.n)
		if base == nil {
			panic("rsagroup: element has no inverse")
		}
		e = new(big.Int).Neg(e)
	}
	return &Element{v: new(big.Int).Exp(base, e, g.n)}
}

func (g *Group) Equal(a, b group.Element) bool {
	return a.(*Element).v.Cmp(b.(*Element).v) == 0
}

func (g *Group) Contains(e group.Element) bool {
	el, ok := e.(*Element)
	if !ok || el.v == nil {
		return false
	}
	if el.v.Sign() <= 0 || el.v.Cmp(g.n) >= 0 {
		return false
	}
	return new(big.Int).GCD(nil, nil, el.v, g.n).Cmp(one) == 0
}

func (g *Group) NewElement(raw []byte) (group.Element, error) {
	el := &Element{v: new(big.Int).SetBytes(raw)}
	if !g.Contains(el) {
		return nil, group.ErrInvalidElement
	}
	return el, nil
}
