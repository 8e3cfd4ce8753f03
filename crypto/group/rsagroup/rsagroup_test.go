package rsagroup

import (
	"math/big"
	"testing"

	"github.com/ecrombie/accrete/crypto/group"
)

// 256-bit moduli are insecure, but keep the tests fast.
const testBits = 256

func testGroup(t *testing.T) *Group {
	t.Helper()
	grp, err := Setup(testBits)
	if err != nil {
		t.Fatal(err)
	}
	return grp
}

func TestGroupLaws(t *testing.T) {
	grp := testGroup(t)

	a := grp.RandomGenerator()
	b := grp.RandomGenerator()
	id := grp.Identity()

	if !grp.Equal(grp.Op(a, id), a) {
		t.Error("a * 1 != a")
	}
	if !grp.Equal(grp.Op(a, b), grp.Op(b, a)) {
		t.Error("a * b != b * a")
	}
	if !grp.Equal(grp.Op(a, grp.Inv(a)), id) {
		t.Error("a * a^-1 != 1")
	}
}

func TestPow(t *testing.T) {
	grp := testGroup(t)
	a := grp.RandomGenerator()

	square := grp.Op(a, a)
	if !grp.Equal(grp.Pow(a, big.NewInt(2)), square) {
		t.Error("a^2 != a * a")
	}
	if !grp.Equal(grp.Pow(a, big.NewInt(0)), grp.Identity()) {
		t.Error("a^0 != 1")
	}
	if !grp.Equal(grp.Pow(a, big.NewInt(-1)), grp.Inv(a)) {
		t.Error("a^-1 != Inv(a)")
	}
	if !grp.Equal(grp.Pow(grp.Pow(a, big.NewInt(-3)), big.NewInt(-1)), grp.Pow(a, big.NewInt(3))) {
		t.Error("(a^-3)^-1 != a^3")
	}
}

func TestElementEncoding(t *testing.T) {
	grp := testGroup(t)
	a := grp.RandomGenerator()

	decoded, err := grp.NewElement(a.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !grp.Equal(a, decoded) {
		t.Error("decoded element does not match original")
	}
}

func TestContains(t *testing.T) {
	grp := testGroup(t)

	if !grp.Contains(grp.RandomGenerator()) {
		t.Error("random generator not contained in group")
	}
	if grp.Contains(&Element{v: big.NewInt(0)}) {
		t.Error("zero accepted as a group element")
	}
	if grp.Contains(&Element{v: grp.Modulus()}) {
		t.Error("modulus accepted as a group element")
	}
	if _, err := grp.NewElement(grp.Modulus().Bytes()); err != group.ErrInvalidElement {
		t.Errorf("NewElement(modulus): %v, want ErrInvalidElement", err)
	}
}
