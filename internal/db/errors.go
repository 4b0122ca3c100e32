package db

// Op names for error context. Redis ops use command names.
const (
	OpPing    = "PING"
	OpDel     = "DEL"
	OpHGetAll = "HGETALL"
	OpHSet    = "HSET"
	OpHSetNX  = "HSETNX"

	OpMigrate = "MIGRATE"
	OpUpsert  = "UPSERT"
	OpSelect  = "SELECT"
	OpDelete  = "DELETE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
