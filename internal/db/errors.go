package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrNotFound  = errors.New("db: document not found")
	ErrInvalidID = errors.New("db: invalid document id")
	ErrLockHeld  = errors.New("db: lock held by another owner")
)

// Op constants map to store command names for error context.
const (
	OpFind          = "find"
	OpFindOne       = "findOne"
	OpInsertMany    = "insertMany"
	OpUpdateOne     = "updateOne"
	OpDeleteOne     = "deleteOne"
	OpAggregate     = "aggregate"
	OpDistinct      = "distinct"
	OpDrop          = "drop"
	OpCreateIndexes = "createIndexes"
	OpDecode        = "decode"
	OpGet           = "GET"
	OpSet           = "SET"
	OpDel           = "DEL"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
