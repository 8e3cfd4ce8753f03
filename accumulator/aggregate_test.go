package accumulator

import (
	"testing"

	"github.com/ecrombie/accrete/crypto/group"
)

func TestProveMembershipBatched(t *testing.T) {
	grp := testGroup()
	acc := accumulate(t, grp, "alice", "bob", "carol", "dave")

	subset := members("bob", "dave")
	proof, err := acc.ProveMembershipBatched(subset)
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := VerifyMembershipBatched(grp, acc.Value(), subset, proof); err != nil || !ok {
		t.Errorf("batched membership proof rejected: ok=%v err=%v", ok, err)
	}

	// The proof is bound to the exact member list.
	if ok, _ := VerifyMembershipBatched(grp, acc.Value(), members("bob"), proof); ok {
		t.Error("proof accepted for a strict subset of the members")
	}
	if ok, _ := VerifyMembershipBatched(grp, acc.Value(), members("bob", "mallory"), proof); ok {
		t.Error("proof accepted for a list with a non-member")
	}

	if _, err := acc.ProveMembershipBatched(members("bob", "mallory")); err != ErrNotAMember {
		t.Errorf("proving with a non-member: %v, want ErrNotAMember", err)
	}
	if _, err := acc.ProveMembershipBatched(nil); err == nil {
		t.Error("proving with no members succeeded")
	}
}

func TestProveMembershipBatchedAll(t *testing.T) {
	grp := testGroup()
	acc := accumulate(t, grp, "alice", "bob")

	// Covering every member makes the witness the generator itself.
	proof, err := acc.ProveMembershipBatched(acc.Members())
	if err != nil {
		t.Fatal(err)
	}
	if !grp.Equal(proof.Witness, acc.Generator()) {
		t.Error("full-set witness is not the generator")
	}
	if ok, err := VerifyMembershipBatched(grp, acc.Value(), acc.Members(), proof); err != nil || !ok {
		t.Errorf("full-set proof rejected: ok=%v err=%v", ok, err)
	}
}

func TestAggregateWitnesses(t *testing.T) {
	grp := testGroup()
	acc := accumulate(t, grp, "alice", "bob", "carol", "dave")

	// A holder of individual witnesses can aggregate them without access to
	// the accumulated set.
	subset := members("alice", "carol", "dave")
	witnesses := make([]group.Element, len(subset))
	for i, m := range subset {
		w, err := acc.ProveMembership(m)
		if err != nil {
			t.Fatal(err)
		}
		witnesses[i] = w
	}

	proof, err := AggregateWitnesses(grp, acc.Value(), subset, witnesses)
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := VerifyMembershipBatched(grp, acc.Value(), subset, proof); err != nil || !ok {
		t.Errorf("aggregated proof rejected: ok=%v err=%v", ok, err)
	}

	// The aggregated witness must agree with the one the holder computes
	// directly.
	direct, err := acc.ProveMembershipBatched(subset)
	if err != nil {
		t.Fatal(err)
	}
	if !grp.Equal(proof.Witness, direct.Witness) {
		t.Error("aggregated witness differs from holder-computed witness")
	}

	if _, err := AggregateWitnesses(grp, acc.Value(), subset, witnesses[:2]); err == nil {
		t.Error("mismatched member and witness counts accepted")
	}
	if _, err := AggregateWitnesses(grp, acc.Value(), nil, nil); err == nil {
		t.Error("empty aggregation accepted")
	}
}

func TestNonMembershipBatched(t *testing.T) {
	grp := testGroup()
	acc := accumulate(t, grp, "alice", "bob", "carol")

	proof, err := acc.ProveNonMembershipBatched([]byte("dave"))
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := VerifyNonMembershipBatched(grp, acc.Generator(), acc.Value(), []byte("dave"), proof); err != nil || !ok {
		t.Errorf("batched non-membership proof rejected: ok=%v err=%v", ok, err)
	}
	if ok, _ := VerifyNonMembershipBatched(grp, acc.Generator(), acc.Value(), []byte("erin"), proof); ok {
		t.Error("proof for dave accepted for erin")
	}

	// Adding dave invalidates the proof against the new value.
	if _, err := acc.Add([]byte("dave")); err != nil {
		t.Fatal(err)
	}
	if ok, _ := VerifyNonMembershipBatched(grp, acc.Generator(), acc.Value(), []byte("dave"), proof); ok {
		t.Error("stale batched non-membership proof accepted")
	}
}
