package request

import (
	"strconv"

	"github.com/amoylab/npipe-admin/internal/proto"
)

// Key identifies one logical operation. At most one slot exists per key.
// Row operations carry the row id so edits of different rows do not collide.
type Key struct {
	Op proto.Operation
	ID string
}

// For returns the key of an operation that is not bound to a row
func For(op proto.Operation) Key {
	return Key{Op: op}
}

// ForRow returns the per-row key of an operation
func ForRow(op proto.Operation, id uint32) Key {
	return Key{Op: op, ID: strconv.FormatUint(uint64(id), 10)}
}

// Path is the endpoint path the key is submitted to
func (k Key) Path() string {
	return k.Op.Path()
}

func (k Key) String() string {
	if k.ID == "" {
		return k.Op.Path()
	}
	return k.Op.Path() + ":" + k.ID
}
