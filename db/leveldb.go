package db

import (
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	leveldbHeadKey      = "head"
	leveldbMemberPrefix = "m"
)

func dup(in []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

// ldbConn is a wrapper around a base LevelDB database that handles batching
// writes between commits transparently. A nil value in the batch marks a
// staged deletion.
type ldbConn struct {
	conn     *leveldb.DB
	readonly bool
	batch    map[string][]byte
}

func newLDBConn(conn *leveldb.DB, readonly bool) *ldbConn {
	return &ldbConn{conn, readonly, make(map[string][]byte)}
}

func (c *ldbConn) Get(key string) ([]byte, error) {
	if value, ok := c.batch[key]; ok {
		if value == nil {
			return nil, leveldb.ErrNotFound
		}
		return dup(value), nil
	}
	return c.conn.Get([]byte(key), nil)
}

func (c *ldbConn) Put(key string, value []byte) {
	if c.readonly {
		panic("connection is readonly")
	}
	c.batch[key] = dup(value)
}

func (c *ldbConn) Delete(key string) {
	if c.readonly {
		panic("connection is readonly")
	}
	c.batch[key] = nil
}

// Scan returns every key with the given prefix, merging staged changes over
// the committed state.
func (c *ldbConn) Scan(prefix string) (map[string][]byte, error) {
	out := make(map[string][]byte)

	iter := c.conn.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	for iter.Next() {
		out[string(iter.Key())] = dup(iter.Value())
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return nil, err
	}

	for key, value := range c.batch {
		if len(key) < len(prefix) || key[:len(prefix)] != prefix {
			continue
		}
		if value == nil {
			delete(out, key)
		} else {
			out[key] = dup(value)
		}
	}
	return out, nil
}

func (c *ldbConn) Commit() error {
	if c.readonly {
		panic("connection is readonly")
	}

	b := new(leveldb.Batch)
	for key, value := range c.batch {
		if value == nil {
			b.Delete([]byte(key))
		} else {
			b.Put([]byte(key), value)
		}
	}
	if err := c.conn.Write(b, nil); err != nil {
		return err
	}

	c.batch = make(map[string][]byte)
	return nil
}

// ldbAccumulatorStore implements the AccumulatorStore interface over a
// LevelDB database.
type ldbAccumulatorStore struct {
	conn *ldbConn
}

func NewLDBAccumulatorStore(file string) (AccumulatorStore, error) {
	conn, err := leveldb.OpenFile(file, nil)
	if errors.IsCorrupted(err) {
		conn, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, err
	}
	return &ldbAccumulatorStore{newLDBConn(conn, false)}, nil
}

func (ldb *ldbAccumulatorStore) Clone() AccumulatorStore {
	return &ldbAccumulatorStore{newLDBConn(ldb.conn.conn, true)}
}

func (ldb *ldbAccumulatorStore) GetHead() (*Head, error) {
	raw, err := ldb.conn.Get(leveldbHeadKey)
	if err == leveldb.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	head := new(Head)
	if err := json.Unmarshal(raw, head); err != nil {
		return nil, fmt.Errorf("failed to parse stored head: %v", err)
	}
	return head, nil
}

func (ldb *ldbAccumulatorStore) SetHead(head *Head) error {
	raw, err := json.Marshal(head)
	if err != nil {
		return err
	}
	ldb.conn.Put(leveldbHeadKey, raw)
	return nil
}

func (ldb *ldbAccumulatorStore) Members() ([][]byte, error) {
	rows, err := ldb.conn.Scan(leveldbMemberPrefix)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, len(rows))
	for key := range rows {
		out = append(out, []byte(key[len(leveldbMemberPrefix):]))
	}
	return out, nil
}

func (ldb *ldbAccumulatorStore) PutMember(member []byte) error {
	ldb.conn.Put(leveldbMemberPrefix+string(member), []byte{1})
	return nil
}

func (ldb *ldbAccumulatorStore) DeleteMember(member []byte) error {
	ldb.conn.Delete(leveldbMemberPrefix + string(member))
	return nil
}

func (ldb *ldbAccumulatorStore) Commit() error {
	return ldb.conn.Commit()
}
