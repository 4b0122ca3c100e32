package health

import "context"

// DBPinger checks restaurant cache store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}
