package common

import (
	"time"

	"github.com/gofrs/uuid"
)

// Query is a recorded Describe call.
type Query struct {
	Id        uuid.UUID `json:"id" msgpack:"I"`
	Aspect    *Aspect   `json:"aspect" msgpack:"A"`
	Source    string    `json:"source,omitempty" msgpack:"S,omitempty"`
	Timestamp uint64    `json:"timestamp" msgpack:"T"`
}

func NewQuery(aspect *Aspect, source string) *Query {
	return &Query{
		Id:        uuid.Must(uuid.NewV4()),
		Aspect:    aspect,
		Source:    source,
		Timestamp: uint64(time.Now().UnixNano()),
	}
}
