// Package memory provides in-memory implementations of the database
// interfaces, for tests and ephemeral deployments.
package memory

import (
	"errors"

	"github.com/ecrombie/accrete/db"
)

func dup(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// AccumulatorStore keeps the head and member set in process memory. Staged
// changes live beside the committed state and replace it on Commit.
type AccumulatorStore struct {
	Head    *db.Head
	Set     map[string]bool
	pending map[string]bool // true = put, false = delete
	newHead *db.Head

	ReadOnly bool
}

func NewAccumulatorStore() *AccumulatorStore {
	return &AccumulatorStore{
		Set:     make(map[string]bool),
		pending: make(map[string]bool),
	}
}

func (s *AccumulatorStore) Clone() db.AccumulatorStore {
	return &AccumulatorStore{
		Head:     s.Head,
		Set:      s.Set,
		pending:  make(map[string]bool),
		ReadOnly: true,
	}
}

func (s *AccumulatorStore) GetHead() (*db.Head, error) {
	if s.newHead != nil {
		return s.newHead, nil
	}
	return s.Head, nil
}

func (s *AccumulatorStore) SetHead(head *db.Head) error {
	if s.ReadOnly {
		return errors.New("store is readonly")
	}
	s.newHead = &db.Head{
		Value:     dup(head.Value),
		Generator: dup(head.Generator),
		Size:      head.Size,
		Timestamp: head.Timestamp,
		Signature: dup(head.Signature),
	}
	return nil
}

func (s *AccumulatorStore) Members() ([][]byte, error) {
	out := make([][]byte, 0, len(s.Set))
	for member := range s.Set {
		if staged, ok := s.pending[member]; ok && !staged {
			continue
		}
		out = append(out, []byte(member))
	}
	for member, staged := range s.pending {
		if staged && !s.Set[member] {
			out = append(out, []byte(member))
		}
	}
	return out, nil
}

func (s *AccumulatorStore) PutMember(member []byte) error {
	if s.ReadOnly {
		return errors.New("store is readonly")
	}
	s.pending[string(member)] = true
	return nil
}

func (s *AccumulatorStore) DeleteMember(member []byte) error {
	if s.ReadOnly {
		return errors.New("store is readonly")
	}
	s.pending[string(member)] = false
	return nil
}

func (s *AccumulatorStore) Commit() error {
	if s.ReadOnly {
		return errors.New("store is readonly")
	}
	for member, staged := range s.pending {
		if staged {
			s.Set[member] = true
		} else {
			delete(s.Set, member)
		}
	}
	s.pending = make(map[string]bool)
	if s.newHead != nil {
		s.Head = s.newHead
		s.newHead = nil
	}
	return nil
}
