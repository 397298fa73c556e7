package storage

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/MixinNetwork/aspect/common"
	"github.com/MixinNetwork/aspect/config"
	"github.com/dgraph-io/badger/v3"
	"github.com/gofrs/uuid"
)

const (
	queriesPrefixTimestamp = "QUERYTS"
	queriesPrefixId        = "QUERYID"
)

func (s *BadgerStore) WriteQuery(q *common.Query) error {
	if q.Aspect == nil {
		return fmt.Errorf("query %s without aspect", q.Id)
	}
	return s.queriesDB.Update(func(txn *badger.Txn) error {
		key := queryTimestampKey(q.Timestamp, q.Id)
		err := txn.Set(key, common.CompressMsgpackMarshalPanic(q))
		if err != nil {
			return err
		}
		return txn.Set(queryIdKey(q.Id), key)
	})
}

func (s *BadgerStore) ReadQuery(id uuid.UUID) (*common.Query, error) {
	txn := s.queriesDB.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get(queryIdKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	key, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	item, err = txn.Get(key)
	if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var q common.Query
	err = common.DecompressMsgpackUnmarshal(val, &q)
	return &q, err
}

// ListQueries returns at most limit queries recorded strictly before the
// offset timestamp, newest first. A zero offset starts from the newest.
func (s *BadgerStore) ListQueries(offset uint64, limit int) ([]*common.Query, error) {
	if limit <= 0 || limit > config.QueryListLimit {
		limit = config.QueryListLimit
	}
	if offset == 0 {
		offset = math.MaxUint64
	}

	txn := s.queriesDB.NewTransaction(false)
	defer txn.Discard()

	prefix := []byte(queriesPrefixTimestamp)
	opts := badger.DefaultIteratorOptions
	opts.Reverse = true
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := queryTimestampKey(offset-1, uuid.UUID{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	})
	queries := make([]*common.Query, 0)
	for it.Seek(seek); it.ValidForPrefix(prefix) && len(queries) < limit; it.Next() {
		val, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		var q common.Query
		err = common.DecompressMsgpackUnmarshal(val, &q)
		if err != nil {
			return nil, err
		}
		queries = append(queries, &q)
	}
	return queries, nil
}

func (s *BadgerStore) CountQueries() (uint64, error) {
	txn := s.queriesDB.NewTransaction(false)
	defer txn.Discard()

	prefix := []byte(queriesPrefixId)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var count uint64
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		count++
	}
	return count, nil
}

func queryTimestampKey(ts uint64, id uuid.UUID) []byte {
	key := make([]byte, len(queriesPrefixTimestamp)+8+len(id))
	copy(key, queriesPrefixTimestamp)
	binary.BigEndian.PutUint64(key[len(queriesPrefixTimestamp):], ts)
	copy(key[len(queriesPrefixTimestamp)+8:], id.Bytes())
	return key
}

func queryIdKey(id uuid.UUID) []byte {
	return append([]byte(queriesPrefixId), id.Bytes()...)
}
