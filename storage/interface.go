package storage

import (
	"github.com/MixinNetwork/aspect/common"
	"github.com/gofrs/uuid"
)

type Store interface {
	Close() error

	StateGet(key string, val interface{}) (bool, error)
	StateSet(key string, val interface{}) error

	WriteQuery(q *common.Query) error
	ReadQuery(id uuid.UUID) (*common.Query, error)
	ListQueries(offset uint64, limit int) ([]*common.Query, error)
	CountQueries() (uint64, error)
}
