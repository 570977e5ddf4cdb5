package jsonfile

import (
	"context"

	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

var _ repository.FoodCatalog = (*FoodCatalog)(nil)

// foodDoc decodes each item into the four tracked nutrients. Any other keys
// in an item (fat, sodium, serving size, ...) are dropped by the decoder.
type foodDoc = map[string]model.NutrientVector

// FoodCatalog reads food_db.json. The file is re-read on every Load and
// never written.
type FoodCatalog struct {
	doc *document[foodDoc]
}

func NewFoodCatalog(path string) *FoodCatalog {
	return &FoodCatalog{doc: &document[foodDoc]{
		path:  path,
		empty: func() foodDoc { return foodDoc{} },
	}}
}

// Load returns the current catalog. A missing file is an empty catalog.
func (c *FoodCatalog) Load(_ context.Context) (model.Catalog, error) {
	foods, err := c.doc.read()
	if err != nil {
		return nil, err
	}
	return model.Catalog(foods), nil
}
