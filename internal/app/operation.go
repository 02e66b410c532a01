package app

import (
	"strings"

	"github.com/google/uuid"
)

// IDGenerator hands out operation IDs.
type IDGenerator interface {
	New() string
}

type uuidGenerator struct{}

func (uuidGenerator) New() string { return uuid.NewString() }

// Operation identifies one CLI invocation. Its ID tags every log line the
// invocation writes; import runs are additionally recorded in the database
// by the catalog service.
type Operation struct {
	ID         string
	Name       string
	Parameters string
}

// NewOperation creates an operation with a fresh ID from ids.
func NewOperation(ids IDGenerator, name string, parameters ...string) *Operation {
	return &Operation{
		ID:         ids.New(),
		Name:       name,
		Parameters: strings.Join(parameters, " "),
	}
}
