package main

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ecrombie/accrete/accumulator"
	"github.com/ecrombie/accrete/crypto/group"
	"github.com/ecrombie/accrete/db"
)

type opKind int

const (
	opAdd opKind = iota
	opDelete
	opMembership
	opNonMembership
	opAggregate
)

func (op opKind) String() string {
	switch op {
	case opAdd:
		return "add"
	case opDelete:
		return "delete"
	case opMembership:
		return "membership"
	case opNonMembership:
		return "non-membership"
	case opAggregate:
		return "aggregate"
	default:
		return "unknown"
	}
}

type accRequest struct {
	op      opKind
	members [][]byte
	resp    chan<- accResponse
}

type accResponse struct {
	head *db.Head

	witnesses []group.Element
	nonMem    *accumulator.NonMembershipWitness
	aggregate *accumulator.MembershipProof

	err error
}

// holder owns the accumulator state and is its only writer. Requests are
// processed strictly in order so every response is computed against a
// consistent snapshot, and no new state is published until it is fully
// computed and committed.
type holder struct {
	acc  *accumulator.Accumulator
	tx   db.AccumulatorStore
	key  ed25519.PrivateKey
	head *db.Head
}

// run is a goroutine that receives accumulator requests over `ch` and
// responds with new heads, witnesses, or proofs.
func (h *holder) run(ch chan accRequest) {
	for req := range ch {
		start := time.Now()
		res := h.handle(req)
		updateOps.WithLabelValues(req.op.String(), fmt.Sprint(res.err == nil)).Inc()
		updateDur.Observe(float64(time.Since(start).Microseconds()))

		select {
		case req.resp <- res:
		default:
		}
	}
}

func (h *holder) handle(req accRequest) accResponse {
	switch req.op {
	case opAdd:
		update, err := h.acc.AddBatch(req.members)
		if err != nil {
			return accResponse{err: err}
		}
		for _, m := range req.members {
			if err := h.tx.PutMember(m); err != nil {
				return accResponse{err: err}
			}
		}
		head, err := h.publishHead()
		if err != nil {
			return accResponse{err: err}
		}
		return accResponse{head: head, witnesses: update.Witnesses}

	case opDelete:
		if _, err := h.acc.DeleteBatch(req.members); err != nil {
			return accResponse{err: err}
		}
		for _, m := range req.members {
			if err := h.tx.DeleteMember(m); err != nil {
				return accResponse{err: err}
			}
		}
		head, err := h.publishHead()
		if err != nil {
			return accResponse{err: err}
		}
		return accResponse{head: head}

	case opMembership:
		w, err := h.acc.ProveMembership(req.members[0])
		if err != nil {
			return accResponse{err: err}
		}
		return accResponse{head: h.head, witnesses: []group.Element{w}}

	case opNonMembership:
		w, err := h.acc.ProveNonMembership(req.members[0])
		if err != nil {
			return accResponse{err: err}
		}
		return accResponse{head: h.head, nonMem: w}

	case opAggregate:
		proof, err := h.acc.ProveMembershipBatched(req.members)
		if err != nil {
			return accResponse{err: err}
		}
		return accResponse{head: h.head, aggregate: proof}

	default:
		return accResponse{err: fmt.Errorf("unknown operation")}
	}
}

// publishHead signs the current accumulator state, stages it with the member
// changes already in the batch, and commits everything atomically.
func (h *holder) publishHead() (*db.Head, error) {
	head := &db.Head{
		Value:     h.acc.Value().Bytes(),
		Generator: h.acc.Generator().Bytes(),
		Size:      uint64(h.acc.Len()),
		Timestamp: time.Now().UnixMilli(),
	}
	head.Signature = ed25519.Sign(h.key, headSigningMessage(head))

	if err := h.tx.SetHead(head); err != nil {
		return nil, err
	}
	if err := h.tx.Commit(); err != nil {
		return nil, err
	}
	h.head = head
	return head, nil
}

// headSigningMessage builds the canonical byte string covered by a head's
// signature.
func headSigningMessage(head *db.Head) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("accrete/head/v1")

	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(head.Value)))
	buf.Write(n[:])
	buf.Write(head.Value)
	binary.BigEndian.PutUint64(n[:], uint64(len(head.Generator)))
	buf.Write(n[:])
	buf.Write(head.Generator)
	binary.BigEndian.PutUint64(n[:], head.Size)
	buf.Write(n[:])
	binary.BigEndian.PutUint64(n[:], uint64(head.Timestamp))
	buf.Write(n[:])

	return buf.Bytes()
}
