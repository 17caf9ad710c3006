package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/pageza/recipebox/backend/internal/types"
)

// JSONStringArray stores a string slice as a JSON document in a text column
type JSONStringArray []string

// Value implements the driver.Valuer interface
func (a JSONStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported ingredients column type %T", value)
	}

	return json.Unmarshal(bytes, a)
}

// Recipe is the row shape used by the SQL-backed store. Seq records
// insertion order so listings stay stable.
type Recipe struct {
	Seq         uint            `gorm:"primaryKey;autoIncrement"`
	ID          uuid.UUID       `gorm:"type:text;uniqueIndex;not null"`
	Name        string          `gorm:"size:255;not null"`
	Ingredients JSONStringArray `gorm:"type:text;not null"`
}

// FromType builds a row from a wire recipe
func FromType(r types.Recipe) (Recipe, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return Recipe{}, fmt.Errorf("invalid recipe id %q: %w", r.ID, err)
	}
	ingredients := JSONStringArray{}
	ingredients = append(ingredients, r.Ingredients...)
	return Recipe{
		ID:          id,
		Name:        r.Name,
		Ingredients: ingredients,
	}, nil
}

// ToType converts the row to the shape returned to clients
func (r Recipe) ToType() types.Recipe {
	ingredients := make([]string, 0, len(r.Ingredients))
	ingredients = append(ingredients, r.Ingredients...)
	return types.Recipe{
		ID:          r.ID.String(),
		Name:        r.Name,
		Ingredients: ingredients,
	}
}
