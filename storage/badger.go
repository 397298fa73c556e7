package storage

import (
	"time"

	"github.com/MixinNetwork/aspect/config"
	"github.com/MixinNetwork/aspect/logger"
	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
)

type BadgerStore struct {
	custom    *config.Custom
	queriesDB *badger.DB
	closing   bool
}

func NewBadgerStore(custom *config.Custom, dir string) (*BadgerStore, error) {
	queriesDB, err := openDB(dir+"/queries", true, custom)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{
		custom:    custom,
		queriesDB: queriesDB,
		closing:   false,
	}, nil
}

func (store *BadgerStore) Close() error {
	if store.closing {
		return nil
	}
	store.closing = true
	return store.queriesDB.Close()
}

func openDB(dir string, sync bool, custom *config.Custom) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	opts = opts.WithSyncWrites(sync)
	opts = opts.WithCompression(options.None)
	opts = opts.WithBlockCacheSize(0)
	opts = opts.WithIndexCacheSize(0)
	opts = opts.WithLoggingLevel(badger.WARNING)
	if custom != nil && custom.Storage.MaxCompactionLevels > 0 {
		opts = opts.WithMaxLevels(custom.Storage.MaxCompactionLevels)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	if custom != nil && custom.Storage.ValueLogGC {
		go func() {
			for !db.IsClosed() {
				lsm, vlog := db.Size()
				logger.Verbosef("Badger LSM %d VLOG %d\n", lsm, vlog)
				if lsm > 1024*1024*8 || vlog > 1024*1024*32 {
					err := db.RunValueLogGC(0.5)
					logger.Verbosef("Badger RunValueLogGC %v\n", err)
				}
				time.Sleep(5 * time.Minute)
			}
		}()
	}

	return db, nil
}
