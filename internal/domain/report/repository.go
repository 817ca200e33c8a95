package report

import "context"

// Repository persists submitted reports. Reports are append-only.
type Repository interface {
	Append(ctx context.Context, r *Report) error
}
