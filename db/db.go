// Package db implements database wrappers that match a common interface.
package db

// Head is the published form of an accumulator state: the value, the
// generator it was built on, bookkeeping about the set size, and the holder's
// signature over all of it.
type Head struct {
	Value     []byte `json:"value"`
	Generator []byte `json:"gen"`
	Size      uint64 `json:"n"`
	Timestamp int64  `json:"ts"`
	Signature []byte `json:"sig"`
}

// AccumulatorStore is the interface the accumulator holder uses to persist
// its published head and the member set it needs for witness generation and
// deletion.
type AccumulatorStore interface {
	// Clone returns a read-only clone of the current store, suitable for
	// distributing to child goroutines.
	Clone() AccumulatorStore

	// GetHead returns the most recent head, or nil if no head has been
	// published yet.
	GetHead() (*Head, error)
	// SetHead stages the input value as the most recent head.
	SetHead(*Head) error

	// Members returns every persisted member, including staged changes.
	Members() ([][]byte, error)
	// PutMember stages a member as part of the accumulated set.
	PutMember(member []byte) error
	// DeleteMember stages removal of a member from the accumulated set.
	DeleteMember(member []byte) error

	// Commit atomically writes all staged changes. Nothing staged is
	// visible to other connections until Commit returns.
	Commit() error
}
