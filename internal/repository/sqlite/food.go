package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

var _ repository.FoodCatalog = (*FoodDB)(nil)

// FoodDB reads the foods table. The tracker never writes to it; the table
// is seeded outside the application.
type FoodDB struct {
	conn *sql.DB
}

// Load reads the whole table on every call.
func (f *FoodDB) Load(ctx context.Context) (model.Catalog, error) {
	rows, err := f.conn.QueryContext(ctx,
		`SELECT name, calories, protein, carbs, fiber FROM foods`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading food catalog: %w", err)
	}
	defer rows.Close()

	catalog := model.Catalog{}
	for rows.Next() {
		var (
			name string
			n    model.NutrientVector
		)
		if err := rows.Scan(&name, &n.Calories, &n.Protein, &n.Carbs, &n.Fiber); err != nil {
			return nil, fmt.Errorf("sqlite: scanning food row: %w", err)
		}
		catalog[name] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating foods: %w", err)
	}
	return catalog, nil
}
