package poe

import (
	"math/big"
	"testing"

	"github.com/ecrombie/accrete/crypto/group"
	"github.com/ecrombie/accrete/crypto/group/modp"
	"github.com/ecrombie/accrete/crypto/primes"
)

// testGroup returns the multiplicative group mod 2^255 - 19. The order is
// public, which is fine for exercising the proof arithmetic.
func testGroup() group.Group {
	p := new(big.Int).Lsh(big.NewInt(1), 255)
	p.Sub(p, big.NewInt(19))
	return modp.New(p)
}

func memberPrime(t *testing.T, member string) *big.Int {
	t.Helper()
	p, err := primes.MapToPrime([]byte(member))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestProveVerify(t *testing.T) {
	grp := testGroup()
	base := grp.RandomGenerator()

	exp := memberPrime(t, "alice")
	exp.Mul(exp, memberPrime(t, "bob"))
	exp.Mul(exp, memberPrime(t, "carol"))
	result := grp.Pow(base, exp)

	proof, err := Prove(grp, base, exp, result)
	if err != nil {
		t.Fatal(err)
	}
	if !Verify(grp, base, exp, result, proof) {
		t.Error("valid proof rejected")
	}

	// Any change to the claimed relation must invalidate the proof.
	other := grp.Op(result, base)
	if Verify(grp, base, exp, other, proof) {
		t.Error("proof accepted for wrong result")
	}
	wrongExp := new(big.Int).Add(exp, big.NewInt(2))
	if Verify(grp, base, wrongExp, result, proof) {
		t.Error("proof accepted for wrong exponent")
	}
	if Verify(grp, base, exp, result, &Proof{Q: proof.Q, R: new(big.Int).Add(proof.R, big.NewInt(1))}) {
		t.Error("proof accepted with mutated remainder")
	}
	if Verify(grp, base, exp, result, nil) {
		t.Error("nil proof accepted")
	}
}

func TestAggregate(t *testing.T) {
	grp := testGroup()

	rels := make([]Relation, 0, 4)
	for _, member := range []string{"alice", "bob", "carol", "dave"} {
		base := grp.RandomGenerator()
		exp := memberPrime(t, member)
		rels = append(rels, Relation{Base: base, Exponent: exp, Result: grp.Pow(base, exp)})
	}

	proof, err := Aggregate(grp, rels)
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyAggregated(grp, rels, proof) {
		t.Error("valid aggregated proof rejected")
	}

	// Mutating any single relation after the challenge is fixed must make
	// verification fail.
	for i := range rels {
		mutated := make([]Relation, len(rels))
		copy(mutated, rels)
		mutated[i].Result = grp.Op(mutated[i].Result, mutated[i].Base)
		if VerifyAggregated(grp, mutated, proof) {
			t.Errorf("proof accepted after mutating relation %v's result", i)
		}

		mutated = make([]Relation, len(rels))
		copy(mutated, rels)
		mutated[i].Exponent = new(big.Int).Add(mutated[i].Exponent, big.NewInt(2))
		if VerifyAggregated(grp, mutated, proof) {
			t.Errorf("proof accepted after mutating relation %v's exponent", i)
		}
	}

	// Dropping a relation changes the challenge too.
	if VerifyAggregated(grp, rels[:len(rels)-1], proof) {
		t.Error("proof accepted for a subset of its relations")
	}
	if VerifyAggregated(grp, nil, proof) {
		t.Error("proof accepted for empty relation list")
	}
}

func TestAggregateSingle(t *testing.T) {
	grp := testGroup()
	base := grp.RandomGenerator()
	exp := memberPrime(t, "alice")
	rels := []Relation{{Base: base, Exponent: exp, Result: grp.Pow(base, exp)}}

	proof, err := Aggregate(grp, rels)
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyAggregated(grp, rels, proof) {
		t.Error("valid single-relation aggregate rejected")
	}
}

func TestProveKnowledge(t *testing.T) {
	grp := testGroup()
	g := grp.RandomGenerator()
	base := grp.RandomGenerator()

	negative := new(big.Int).Neg(memberPrime(t, "bob"))
	for _, x := range []*big.Int{
		memberPrime(t, "alice"),
		negative,
		big.NewInt(1),
	} {
		result := grp.Pow(base, x)
		proof, err := ProveKnowledge(grp, g, base, x, result)
		if err != nil {
			t.Fatal(err)
		}
		if !VerifyKnowledge(grp, g, base, result, proof) {
			t.Errorf("valid knowledge proof rejected for exponent %v", x)
		}

		other := grp.Op(result, base)
		if VerifyKnowledge(grp, g, base, other, proof) {
			t.Errorf("knowledge proof accepted for wrong result with exponent %v", x)
		}
		if VerifyKnowledge(grp, g, base, result, &KnowledgeProof{Z: proof.Z, Q: proof.Q, R: new(big.Int).Add(proof.R, big.NewInt(1))}) {
			t.Errorf("knowledge proof accepted with mutated remainder for exponent %v", x)
		}
	}
}
