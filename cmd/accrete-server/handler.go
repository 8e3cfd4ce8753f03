package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/ecrombie/accrete/db"
	"github.com/gorilla/mux"
)

type Handler struct {
	config   *APIConfig
	groupCfg *GroupConfig
	tx       db.AccumulatorStore
	ch       chan accRequest
}

type apiFunc func(req *http.Request) (interface{}, error)

// HandleAPI wraps an API endpoint with uniform JSON encoding, error
// reporting, and request metrics.
func HandleAPI(path string, fn apiFunc) http.HandlerFunc {
	return func(rw http.ResponseWriter, req *http.Request) {
		res, err := fn(req)
		if err != nil {
			requestCtr.WithLabelValues(path, "error").Inc()
			rw.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(rw).Encode(map[string]string{"error": err.Error()})
			return
		}
		requestCtr.WithLabelValues(path, "ok").Inc()
		if err := json.NewEncoder(rw).Encode(res); err != nil {
			log.Println(err)
		}
	}
}

// Home redirects requests to a pre-configured URL, like the API documentation.
func (h *Handler) Home(rw http.ResponseWriter, req *http.Request) {
	http.Redirect(rw, req, h.config.HomeRedirect, http.StatusSeeOther)
}

type MetaResponse struct {
	GroupAlgorithm string `json:"group_algorithm"`
	GroupModulus   string `json:"group_modulus"`
	HashAlgorithm  string `json:"hash_algorithm"`
	SigningKey     string `json:"signing_key"`
}

func (h *Handler) Meta(req *http.Request) (interface{}, error) {
	return &MetaResponse{
		GroupAlgorithm: "rsa",
		GroupModulus:   h.groupCfg.Modulus,
		HashAlgorithm:  "blake2b-256",
		SigningKey:     hex.EncodeToString(h.config.signingKey.Public().(ed25519.PublicKey)),
	}, nil
}

type HeadResponse struct {
	Value     string `json:"value"`
	Generator string `json:"generator"`
	Size      uint64 `json:"size"`
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
}

func headResponse(head *db.Head) *HeadResponse {
	return &HeadResponse{
		Value:     hex.EncodeToString(head.Value),
		Generator: hex.EncodeToString(head.Generator),
		Size:      head.Size,
		Timestamp: head.Timestamp,
		Signature: hex.EncodeToString(head.Signature),
	}
}

// Head returns the most recently published accumulator head.
func (h *Handler) Head(req *http.Request) (interface{}, error) {
	head, err := h.tx.GetHead()
	if err != nil {
		return nil, err
	} else if head == nil {
		return nil, fmt.Errorf("no head has been published yet")
	}
	return headResponse(head), nil
}

func (h *Handler) send(op opKind, members [][]byte) (accResponse, error) {
	resp := make(chan accResponse, 1)
	h.ch <- accRequest{op: op, members: members, resp: resp}
	res := <-resp
	return res, res.err
}

func memberFromRequest(req *http.Request) ([]byte, error) {
	raw, err := hex.DecodeString(mux.Vars(req)["member"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse member: %v", err)
	} else if len(raw) == 0 {
		return nil, fmt.Errorf("member may not be empty")
	}
	return raw, nil
}

type WitnessResponse struct {
	Member  string        `json:"member"`
	Witness string        `json:"witness"`
	Head    *HeadResponse `json:"head"`
}

// AddMember accumulates a new member and returns its membership witness
// along with the new signed head.
func (h *Handler) AddMember(req *http.Request) (interface{}, error) {
	member, err := memberFromRequest(req)
	if err != nil {
		return nil, err
	}
	res, err := h.send(opAdd, [][]byte{member})
	if err != nil {
		return nil, err
	}
	return &WitnessResponse{
		Member:  hex.EncodeToString(member),
		Witness: hex.EncodeToString(res.witnesses[0].Bytes()),
		Head:    headResponse(res.head),
	}, nil
}

// RemoveMember deletes a member and returns the new signed head.
func (h *Handler) RemoveMember(req *http.Request) (interface{}, error) {
	member, err := memberFromRequest(req)
	if err != nil {
		return nil, err
	}
	res, err := h.send(opDelete, [][]byte{member})
	if err != nil {
		return nil, err
	}
	return headResponse(res.head), nil
}

// Witness returns a membership witness for an accumulated member, computed
// against the current head.
func (h *Handler) Witness(req *http.Request) (interface{}, error) {
	member, err := memberFromRequest(req)
	if err != nil {
		return nil, err
	}
	res, err := h.send(opMembership, [][]byte{member})
	if err != nil {
		return nil, err
	}
	return &WitnessResponse{
		Member:  hex.EncodeToString(member),
		Witness: hex.EncodeToString(res.witnesses[0].Bytes()),
		Head:    headResponse(res.head),
	}, nil
}

type AbsenceResponse struct {
	Member string        `json:"member"`
	U      string        `json:"u"`
	B      string        `json:"b"` // decimal, possibly negative
	Head   *HeadResponse `json:"head"`
}

// Absence returns a non-membership witness for a member outside the
// accumulated set.
func (h *Handler) Absence(req *http.Request) (interface{}, error) {
	member, err := memberFromRequest(req)
	if err != nil {
		return nil, err
	}
	res, err := h.send(opNonMembership, [][]byte{member})
	if err != nil {
		return nil, err
	}
	return &AbsenceResponse{
		Member: hex.EncodeToString(member),
		U:      hex.EncodeToString(res.nonMem.U.Bytes()),
		B:      res.nonMem.B.String(),
		Head:   headResponse(res.head),
	}, nil
}

type AggregateResponse struct {
	Members []string      `json:"members"`
	Witness string        `json:"witness"`
	ProofQ  string        `json:"proof_q"`
	ProofR  string        `json:"proof_r"`
	Head    *HeadResponse `json:"head"`
}

// Aggregate returns one combined membership proof for a comma-separated list
// of hex-encoded members.
func (h *Handler) Aggregate(req *http.Request) (interface{}, error) {
	parts := strings.Split(req.URL.Query().Get("members"), ",")
	members := make([][]byte, 0, len(parts))
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		raw, err := hex.DecodeString(part)
		if err != nil {
			return nil, fmt.Errorf("failed to parse member: %v", err)
		} else if len(raw) == 0 {
			return nil, fmt.Errorf("member may not be empty")
		}
		members = append(members, raw)
		names = append(names, part)
	}

	res, err := h.send(opAggregate, members)
	if err != nil {
		return nil, err
	}
	return &AggregateResponse{
		Members: names,
		Witness: hex.EncodeToString(res.aggregate.Witness.Bytes()),
		ProofQ:  hex.EncodeToString(res.aggregate.Proof.Q.Bytes()),
		ProofR:  res.aggregate.Proof.R.String(),
		Head:    headResponse(res.head),
	}, nil
}
