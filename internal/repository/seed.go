package repository

import (
	"context"
	"fmt"

	"fieldhelptext.io/fieldhelptext/internal/domain"
)

// Seed inserts every record that the store does not already hold and
// returns how many were inserted. Records edited through the forms are
// left untouched.
func Seed(ctx context.Context, store FieldConfigStore, records []domain.FieldInstanceConfig) (int, error) {
	inserted := 0
	for i := range records {
		ok, err := store.InsertIfAbsent(ctx, &records[i])
		if err != nil {
			return inserted, fmt.Errorf("seed %s.%s.%s: %w",
				records[i].EntityType, records[i].Bundle, records[i].FieldName, err)
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}
