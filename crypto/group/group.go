// Package group defines the interface to a group of unknown order.
//
// The accumulator logic is parametric over this interface: the default
// backend is a multiplicative RSA-type group, but any group whose order is
// infeasible to compute (such as the class group of an imaginary quadratic
// order) can be plugged in without touching the callers.
package group

import (
	"errors"
	"math/big"
)

// ErrInvalidElement is returned when a caller-supplied element fails the
// group's validity predicate. It is never recovered from; operations that
// receive an invalid element fail immediately.
var ErrInvalidElement = errors.New("group: element is not a member of the group")

// Element is an opaque element of a hidden-order group. Values are immutable
// once created: group operations always return fresh elements.
type Element interface {
	// Bytes returns a canonical encoding of the element, suitable for
	// hashing into a Fiat-Shamir transcript and for storage.
	Bytes() []byte
}

// Group is the abstract capability the accumulator consumes. Arithmetic
// methods assume their inputs are valid elements of the group; validity of
// untrusted input is checked separately with Contains.
type Group interface {
	// Identity returns the group's identity element.
	Identity() Element

	// RandomGenerator samples a fresh generator-like element, used as the
	// base point of a new accumulator.
	RandomGenerator() Element

	// Op returns a*b.
	Op(a, b Element) Element

	// Inv returns the inverse of a.
	Inv(a Element) Element

	// Pow returns a^e. The exponent is an arbitrary-precision integer and
	// may be negative, in which case the result is Inv(a)^|e|.
	Pow(a Element, e *big.Int) Element

	// Equal reports whether a and b are the same group element.
	Equal(a, b Element) bool

	// Contains reports whether e is a valid element of the group. This is
	// the predicate backing ErrInvalidElement at trust boundaries.
	Contains(e Element) bool

	// NewElement decodes an element from the encoding produced by
	// Element.Bytes, returning ErrInvalidElement if the bytes do not
	// describe a valid element.
	NewElement(raw []byte) (Element, error)
}
