package core

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LocationRules validates storage locations against the configured ranges
// in the location_rules table. It replaces hardcoded shelf-range constants
// in the stockroom service.
type LocationRules interface {
	// Validate returns nil if location names an active range label
	// ("8000-8999") or is a bin number inside an active range; otherwise
	// a *ValidationError.
	Validate(ctx context.Context, location string) error
}

type locationRules struct {
	pool *pgxpool.Pool
}

// NewLocationRules constructs a LocationRules backed by the location_rules table.
func NewLocationRules(pool *pgxpool.Pool) LocationRules {
	return &locationRules{pool: pool}
}

func (r *locationRules) Validate(ctx context.Context, location string) error {
	if location == "" {
		return &ValidationError{Field: "location", Reason: "must not be empty"}
	}

	var count int
	if bin, err := strconv.Atoi(location); err == nil {
		err = r.pool.QueryRow(ctx, `
			SELECT count(*)
			FROM location_rules
			WHERE active AND $1 BETWEEN range_start AND range_end
		`, bin).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check location ranges: %w", err)
		}
	} else {
		err = r.pool.QueryRow(ctx, `
			SELECT count(*)
			FROM location_rules
			WHERE active AND label = $1
		`, location).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check location labels: %w", err)
		}
	}

	if count == 0 {
		return &ValidationError{Field: "location", Reason: fmt.Sprintf("%q does not match a configured range", location)}
	}
	return nil
}
