package poe

import (
	"math/big"

	"github.com/ecrombie/accrete/crypto/group"
)

// KnowledgeProof is a non-interactive proof of knowledge of the exponent x in
// a relation base^x = result, without revealing x. Unlike Proof, it stays
// sound when the prover chose the base, which is what the aggregated
// non-membership protocol needs.
type KnowledgeProof struct {
	Z group.Element
	Q group.Element
	R *big.Int
}

func poke2Transcript(base, result, z group.Element) *transcript {
	tr := new(transcript)
	tr.append([]byte("poke2"))
	tr.append(base.Bytes(), result.Bytes(), z.Bytes())
	return tr
}

// ProveKnowledge returns a proof of knowledge of x such that base^x = result.
// The exponent may be negative. g is the group generator the proof is
// anchored to; prover and verifier must agree on it.
func ProveKnowledge(grp group.Group, g, base group.Element, x *big.Int, result group.Element) (*KnowledgeProof, error) {
	z := grp.Pow(g, x)
	tr := poke2Transcript(base, result, z)
	l, err := tr.challenge()
	if err != nil {
		return nil, err
	}
	alpha := tr.coefficient(0)

	q, r := new(big.Int), new(big.Int)
	q.DivMod(x, l, r)

	shifted := grp.Op(base, grp.Pow(g, alpha))
	return &KnowledgeProof{Z: z, Q: grp.Pow(shifted, q), R: r}, nil
}

// VerifyKnowledge checks a proof of knowledge of the exponent in
// base^x = result.
func VerifyKnowledge(grp group.Group, g, base, result group.Element, proof *KnowledgeProof) bool {
	if proof == nil || proof.Z == nil || proof.Q == nil || proof.R == nil {
		return false
	}
	if !grp.Contains(proof.Z) || !grp.Contains(proof.Q) {
		return false
	}

	tr := poke2Transcript(base, result, proof.Z)
	l, err := tr.challenge()
	if err != nil {
		return false
	}
	alpha := tr.coefficient(0)
	if proof.R.Sign() < 0 || proof.R.Cmp(l) >= 0 {
		return false
	}

	shifted := grp.Op(base, grp.Pow(g, alpha))
	lhs := grp.Op(grp.Pow(proof.Q, l), grp.Pow(shifted, proof.R))
	rhs := grp.Op(result, grp.Pow(proof.Z, alpha))
	return grp.Equal(lhs, rhs)
}
