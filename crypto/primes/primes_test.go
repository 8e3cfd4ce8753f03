package primes

import (
	"testing"
)

func TestMapToPrimeDeterministic(t *testing.T) {
	for _, member := range []string{"", "alice", "bob", "a slightly longer member value"} {
		first, err := MapToPrime([]byte(member))
		if err != nil {
			t.Fatalf("MapToPrime(%q): %v", member, err)
		}
		second, err := MapToPrime([]byte(member))
		if err != nil {
			t.Fatalf("MapToPrime(%q): %v", member, err)
		}
		if first.Cmp(second) != 0 {
			t.Errorf("MapToPrime(%q) is not deterministic: %v != %v", member, first, second)
		}
	}
}

func TestMapToPrimeOutput(t *testing.T) {
	seen := make(map[string]string)

	for _, member := range []string{"alice", "bob", "carol", "dave", "x", "y", "z"} {
		p, err := MapToPrime([]byte(member))
		if err != nil {
			t.Fatalf("MapToPrime(%q): %v", member, err)
		}
		if !p.ProbablyPrime(64) {
			t.Errorf("MapToPrime(%q) = %v, not prime", member, p)
		}
		if got, want := p.BitLen(), PrimeBytes*8; got != want {
			t.Errorf("MapToPrime(%q) has %v bits, want %v", member, got, want)
		}
		if prev, ok := seen[p.String()]; ok {
			t.Errorf("MapToPrime collision between %q and %q", member, prev)
		}
		seen[p.String()] = member
	}
}
