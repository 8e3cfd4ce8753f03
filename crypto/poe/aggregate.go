package poe

import (
	"fmt"
	"math/big"

	"github.com/ecrombie/accrete/crypto/group"
)

// Relation is one exponentiation claim: Base^Exponent = Result.
type Relation struct {
	Base     group.Element
	Exponent *big.Int
	Result   group.Element
}

// Aggregate compresses proofs for a list of relations into a single Proof
// whose size is independent of the number of relations.
//
// One challenge prime l is derived from every relation, then each relation i
// receives a coefficient a_i from the same transcript. With t_i = a_i *
// exponent_i split as q_i*l + r_i, the identity
//
//	prod_i base_i^t_i  =  (prod_i base_i^q_i)^l * prod_i base_i^r_i
//
// lets the prover publish only Q = prod_i base_i^q_i. The proof's remainder
// field carries sum(r_i) mod l, which the verifier recomputes from the public
// relations before doing any group arithmetic.
func Aggregate(grp group.Group, rels []Relation) (*Proof, error) {
	if len(rels) == 0 {
		return nil, fmt.Errorf("poe: no relations to aggregate")
	}

	tr := new(transcript)
	for _, rel := range rels {
		tr.appendRelation(rel.Base, rel.Exponent, rel.Result)
	}
	l, err := tr.challenge()
	if err != nil {
		return nil, err
	}

	sumR := new(big.Int)
	result := grp.Identity()
	for i, rel := range rels {
		t := new(big.Int).Mul(tr.coefficient(i), rel.Exponent)
		q, r := new(big.Int), new(big.Int)
		q.DivMod(t, l, r)

		result = grp.Op(result, grp.Pow(rel.Base, q))
		sumR.Add(sumR, r)
	}
	return &Proof{Q: result, R: sumR.Mod(sumR, l)}, nil
}

// VerifyAggregated checks an aggregated proof against the claimed relations.
// The challenge and coefficients are recomputed from the relations, so a
// proof built over a different relation list always fails. Verification
// costs one challenge-sized exponentiation of Q plus, per relation, two
// cheap modular products and two challenge-sized exponentiations.
func VerifyAggregated(grp group.Group, rels []Relation, proof *Proof) bool {
	if len(rels) == 0 || proof == nil || proof.Q == nil || proof.R == nil {
		return false
	}
	if !grp.Contains(proof.Q) {
		return false
	}

	tr := new(transcript)
	for _, rel := range rels {
		if rel.Base == nil || rel.Exponent == nil || rel.Result == nil {
			return false
		}
		if !grp.Contains(rel.Base) || !grp.Contains(rel.Result) {
			return false
		}
		tr.appendRelation(rel.Base, rel.Exponent, rel.Result)
	}
	l, err := tr.challenge()
	if err != nil {
		return false
	}

	// Cheap integer pass first: the remainder digest must match before any
	// group arithmetic happens.
	sumR := new(big.Int)
	remainders := make([]*big.Int, len(rels))
	for i, rel := range rels {
		t := new(big.Int).Mul(tr.coefficient(i), rel.Exponent)
		r := new(big.Int).Mod(t, l)
		remainders[i] = r
		sumR.Add(sumR, r)
	}
	if sumR.Mod(sumR, l).Cmp(proof.R) != 0 {
		return false
	}

	lhs := grp.Pow(proof.Q, l)
	rhs := grp.Identity()
	for i, rel := range rels {
		lhs = grp.Op(lhs, grp.Pow(rel.Base, remainders[i]))
		rhs = grp.Op(rhs, grp.Pow(rel.Result, tr.coefficient(i)))
	}
	return grp.Equal(lhs, rhs)
}
