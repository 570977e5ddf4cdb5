package model

import "sort"

// NutrientVector is the per-serving (or aggregated) tuple of tracked nutrients.
// The zero value is the zero vector.
type NutrientVector struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
}

// Add returns the field-wise sum of v and o.
func (v NutrientVector) Add(o NutrientVector) NutrientVector {
	return NutrientVector{
		Calories: v.Calories + o.Calories,
		Protein:  v.Protein + o.Protein,
		Carbs:    v.Carbs + o.Carbs,
		Fiber:    v.Fiber + o.Fiber,
	}
}

// FoodItem is one catalog entry.
type FoodItem struct {
	Name      string         `json:"name"`
	Nutrients NutrientVector `json:"nutrients"`
}

// Catalog maps item names to their nutrient vectors. It is read-only from
// the core's point of view.
type Catalog map[string]NutrientVector

// Lookup returns the nutrients for key, or the zero vector when the key is
// unknown. It never fails.
func (c Catalog) Lookup(key string) NutrientVector {
	return c[key]
}

// Items returns the catalog as a slice sorted by name.
func (c Catalog) Items() []FoodItem {
	items := make([]FoodItem, 0, len(c))
	for name, n := range c {
		items = append(items, FoodItem{Name: name, Nutrients: n})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}
