package models

import (
	"fmt"
	"time"
)

// OperationType represents the kind of change recorded in the history log
type OperationType string

const (
	OperationPush   OperationType = "push"
	OperationRemove OperationType = "remove"
	OperationModify OperationType = "modify"
)

// Operation records a single state transition of an annotation set.
// Push and remove carry only Item. Modify carries the previous value in Item
// and the new value in Item2. Index is unused for push.
type Operation struct {
	Type      OperationType
	Index     int
	Item      Item
	Item2     Item
	Timestamp time.Time
}

// Description returns a one-line summary of the operation.
func (op Operation) Description() string {
	switch op.Type {
	case OperationPush:
		return fmt.Sprintf("add %s %s", op.Item.Kind(), op.Item.Identity())
	case OperationRemove:
		return fmt.Sprintf("remove [%d] %s", op.Index, op.Item.Identity())
	case OperationModify:
		before, after := op.Item.Identity(), op.Item2.Identity()
		if before != after {
			return fmt.Sprintf("modify [%d] %s -> %s", op.Index, before, after)
		}
		return fmt.Sprintf("modify [%d] %s", op.Index, after)
	default:
		return string(op.Type)
	}
}

// Items returns every item referenced by the operation.
func (op Operation) Items() []Item {
	if op.Item2 != nil {
		return []Item{op.Item, op.Item2}
	}
	return []Item{op.Item}
}
