package storage

import (
	"github.com/MixinNetwork/aspect/common"
	"github.com/dgraph-io/badger/v3"
)

const queriesPrefixState = "STATE"

func (s *BadgerStore) StateGet(key string, val interface{}) (bool, error) {
	txn := s.queriesDB.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get([]byte(queriesPrefixState + key))
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return true, err
	}
	ival, err := item.ValueCopy(nil)
	if err != nil {
		return true, err
	}
	return true, common.MsgpackUnmarshal(ival, val)
}

func (s *BadgerStore) StateSet(key string, val interface{}) error {
	return s.queriesDB.Update(func(txn *badger.Txn) error {
		ival := common.MsgpackMarshalPanic(val)
		return txn.Set([]byte(queriesPrefixState+key), ival)
	})
}
