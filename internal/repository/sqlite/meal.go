package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/xid"

	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

var _ repository.MealLogRepository = (*MealDB)(nil)

// MealDB is the append-only meal log backed by the meal_logs table.
type MealDB struct {
	conn *sql.DB
}

// Append inserts a record. Items are stored as a JSON array in a TEXT
// column; they are not checked against the foods table.
func (m *MealDB) Append(ctx context.Context, record *model.MealLogRecord) error {
	if record.ID == "" {
		record.ID = xid.New().String()
	}
	if record.Items == nil {
		record.Items = []string{}
	}

	items, err := json.Marshal(record.Items)
	if err != nil {
		return fmt.Errorf("sqlite: encoding items for meal %s: %w", record.ID, err)
	}

	_, err = m.conn.ExecContext(ctx,
		`INSERT INTO meal_logs (id, user_email, meal, items, logged_at)
		 VALUES (?, ?, ?, ?, ?)`,
		record.ID,
		record.User,
		record.Meal,
		string(items),
		record.LoggedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: appending meal %s: %w", record.ID, err)
	}
	return nil
}

// List returns every record in insertion order.
func (m *MealDB) List(ctx context.Context) ([]model.MealLogRecord, error) {
	rows, err := m.conn.QueryContext(ctx,
		`SELECT id, user_email, meal, items, logged_at FROM meal_logs ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing meals: %w", err)
	}
	defer rows.Close()

	records := []model.MealLogRecord{}
	for rows.Next() {
		var (
			r     model.MealLogRecord
			items string
		)
		if err := rows.Scan(&r.ID, &r.User, &r.Meal, &items, &r.LoggedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning meal row: %w", err)
		}
		if err := json.Unmarshal([]byte(items), &r.Items); err != nil {
			return nil, fmt.Errorf("sqlite: decoding items of meal %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating meals: %w", err)
	}
	return records, nil
}
