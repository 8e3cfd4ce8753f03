package memory

import (
	"testing"

	"github.com/ecrombie/accrete/db"
)

func TestAccumulatorStore(t *testing.T) {
	store := NewAccumulatorStore()

	if head, err := store.GetHead(); err != nil || head != nil {
		t.Fatalf("fresh store head = %+v, err = %v", head, err)
	}

	if err := store.PutMember([]byte("alice")); err != nil {
		t.Fatal(err)
	}
	if err := store.SetHead(&db.Head{Value: []byte{1}, Size: 1}); err != nil {
		t.Fatal(err)
	}
	if members, err := store.Members(); err != nil || len(members) != 1 {
		t.Fatalf("staged members = %q, err = %v", members, err)
	}

	clone := store.Clone()
	if members, err := clone.Members(); err != nil || len(members) != 0 {
		t.Fatalf("clone saw uncommitted members: %q, err = %v", members, err)
	}
	if err := clone.PutMember([]byte("mallory")); err == nil {
		t.Fatal("write to readonly clone succeeded")
	}

	if err := store.Commit(); err != nil {
		t.Fatal(err)
	}
	if members, err := store.Members(); err != nil || len(members) != 1 {
		t.Fatalf("committed members = %q, err = %v", members, err)
	}
	if head, err := store.GetHead(); err != nil || head == nil || head.Size != 1 {
		t.Fatalf("committed head = %+v, err = %v", head, err)
	}

	// A staged delete masks the committed member until the next commit makes
	// it permanent.
	if err := store.DeleteMember([]byte("alice")); err != nil {
		t.Fatal(err)
	}
	if members, err := store.Members(); err != nil || len(members) != 0 {
		t.Fatalf("members with staged delete = %q, err = %v", members, err)
	}
	if err := store.Commit(); err != nil {
		t.Fatal(err)
	}
	if members, err := store.Members(); err != nil || len(members) != 0 {
		t.Fatalf("members after committed delete = %q, err = %v", members, err)
	}
}
