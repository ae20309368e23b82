package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

// JSONBStringArray is an ordered list of strings stored as a JSON array
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
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
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONBStringArray", value)
	}

	return json.Unmarshal(bytes, a)
}

// GormDBDataType picks the column type per dialect
func (JSONBStringArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

// Recipe is a row of the recipes table
type Recipe struct {
	ID              int64            `gorm:"primaryKey;autoIncrement"`
	Title           string           `gorm:"type:text;not null"`
	Ingredients     JSONBStringArray `gorm:"not null"`
	Instructions    JSONBStringArray `gorm:"not null"`
	PreparationTime int              `gorm:"not null"`
	Servings        int              `gorm:"not null"`
	IsFavorite      bool             `gorm:"not null;default:false"`
	CreatedAt       time.Time        `gorm:"not null;index"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// NewRecipe builds a row from a validated creation payload. ID and CreatedAt
// are left for the database to assign.
func NewRecipe(in types.InsertRecipe) Recipe {
	row := Recipe{
		Title:        in.Title,
		Ingredients:  JSONBStringArray(append([]string{}, in.Ingredients...)),
		Instructions: JSONBStringArray(append([]string{}, in.Instructions...)),
	}
	if in.PreparationTime != nil {
		row.PreparationTime = *in.PreparationTime
	}
	if in.Servings != nil {
		row.Servings = *in.Servings
	}
	return row
}

// ToType converts the row to its wire representation
func (r Recipe) ToType() types.Recipe {
	return types.Recipe{
		ID:              r.ID,
		Title:           r.Title,
		Ingredients:     append([]string{}, r.Ingredients...),
		Instructions:    append([]string{}, r.Instructions...),
		PreparationTime: r.PreparationTime,
		Servings:        r.Servings,
		IsFavorite:      r.IsFavorite,
		CreatedAt:       r.CreatedAt,
	}
}
