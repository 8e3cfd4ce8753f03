// Package modp implements the group capability over the multiplicative group
// of integers modulo a prime.
//
// The order of this group is public, so it offers no hiding at all. It exists
// to exercise the accumulator logic in unit tests without the cost of a
// full-size RSA modulus; production deployments use a genuinely hidden-order
// backend such as rsagroup.
package modp

import (
	"crypto/rand"
	"math/big"

	"github.com/ecrombie/accrete/crypto/group"
)

// Element is a residue modulo the group's prime.
type Element struct {
	v *big.Int
}

func (e *Element) Bytes() []byte { return e.v.Bytes() }

// Group is the multiplicative group modulo a prime p.
type Group struct {
	p *big.Int
}

// New returns the group of integers modulo the given prime.
func New(p *big.Int) *Group {
	return &Group{p: new(big.Int).Set(p)}
}

func (g *Group) Identity() group.Element {
	return &Element{v: big.NewInt(1)}
}

func (g *Group) RandomGenerator() group.Element {
	max := new(big.Int).Sub(g.p, big.NewInt(2))
	for {
		r, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		r.Add(r, big.NewInt(2)) // in [2, p-1]
		r.Mul(r, r).Mod(r, g.p)
		if r.Cmp(big.NewInt(1)) > 0 {
			return &Element{v: r}
		}
	}
}

func (g *Group) Op(a, b group.Element) group.Element {
	out := new(big.Int).Mul(a.(*Element).v, b.(*Element).v)
	return &Element{v: out.Mod(out, g.p)}
}

func (g *Group) Inv(a group.Element) group.Element {
	return &Element{v: new(big.Int).ModInverse(a.(*Element).v, g.p)}
}

func (g *Group) Pow(a group.Element, e *big.Int) group.Element {
	base := a.(*Element).v
	if e.Sign() < 0 {
		base = new(big.Int).ModInverse(base, g.p)
		e = new(big.Int).Neg(e)
	}
	return &Element{v: new(big.Int).Exp(base, e, g.p)}
}

func (g *Group) Equal(a, b group.Element) bool {
	return a.(*Element).v.Cmp(b.(*Element).v) == 0
}

func (g *Group) Contains(e group.Element) bool {
	el, ok := e.(*Element)
	if !ok || el.v == nil {
		return false
	}
	return el.v.Sign() > 0 && el.v.Cmp(g.p) < 0
}

func (g *Group) NewElement(raw []byte) (group.Element, error) {
	el := &Element{v: new(big.Int).SetBytes(raw)}
	if !g.Contains(el) {
		return nil, group.ErrInvalidElement
	}
	return el, nil
}
