package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// WarehouseTables lists the tables reported by TableCounts, in dependency order.
var WarehouseTables = []string{"people", "vehicles", "person_vehicles"}

// TableCounts returns the number of rows in each warehouse table.
func TableCounts(ctx context.Context, db *sql.DB) (map[string]int64, error) {
	counts := make(map[string]int64, len(WarehouseTables))
	for _, table := range WarehouseTables {
		sqlStr, args, err := psql.Select("COUNT(*)").From(table).ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build count SQL for %s: %w", table, err)
		}
		var n int64
		if err := db.QueryRowContext(ctx, sqlStr, args...).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count rows in %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// CountOwnedVehicles returns how many vehicles are currently linked to the
// given person.
func CountOwnedVehicles(ctx context.Context, db *sql.DB, personID uint) (int64, error) {
	sqlStr, args, err := psql.Select("COUNT(*)").
		From("person_vehicles").
		Where(sq.Eq{"person_id": personID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL for CountOwnedVehicles: %w", err)
	}
	var n int64
	if err := db.QueryRowContext(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count vehicles for person %d: %w", personID, err)
	}
	return n, nil
}
