package types

import (
	"encoding/json"
	"reflect"
	"time"
)

// MealTypes lists the accepted values of GenerateRecipeRequest.MealType.
var MealTypes = []string{"breakfast", "lunch", "dinner", "snack", "dessert"}

// Recipe represents a recipe saved to the menu
type Recipe struct {
	ID              int64     `json:"id" validate:"required,gt=0"`
	Title           string    `json:"title" validate:"required"`
	Ingredients     []string  `json:"ingredients" validate:"required"`
	Instructions    []string  `json:"instructions" validate:"required"`
	PreparationTime int       `json:"preparationTime"`
	Servings        int       `json:"servings"`
	IsFavorite      bool      `json:"isFavorite"`
	CreatedAt       time.Time `json:"createdAt" validate:"required"`
}

// InsertRecipe is the creation payload for a recipe. The server assigns id,
// createdAt and isFavorite, so they are not part of it.
type InsertRecipe struct {
	Title           string   `json:"title" validate:"required"`
	Ingredients     []string `json:"ingredients" validate:"required"`
	Instructions    []string `json:"instructions" validate:"required"`
	PreparationTime *int     `json:"preparationTime" validate:"required"`
	Servings        *int     `json:"servings" validate:"required"`
}

// GenerateRecipeRequest asks the AI service for a recipe built from pantry ingredients
type GenerateRecipeRequest struct {
	Ingredients         []string `json:"ingredients" validate:"required,min=1"`
	MealType            *string  `json:"mealType,omitempty" validate:"omitempty,oneof=breakfast lunch dinner snack dessert"`
	DietaryRestrictions []string `json:"dietaryRestrictions,omitempty"`
}

// UnmarshalJSON rejects an explicit null meal type. An absent mealType means
// no preference; null is not one of the accepted values.
func (r *GenerateRecipeRequest) UnmarshalJSON(data []byte) error {
	var fields struct {
		MealType json.RawMessage `json:"mealType"`
	}
	if err := json.Unmarshal(data, &fields); err == nil && string(fields.MealType) == "null" {
		return &json.UnmarshalTypeError{Value: "null", Type: reflect.TypeOf(""), Field: "mealType"}
	}

	type plain GenerateRecipeRequest
	return json.Unmarshal(data, (*plain)(r))
}

// GeneratedRecipe is an unsaved recipe proposed by the AI service
type GeneratedRecipe struct {
	Title           string   `json:"title"`
	Ingredients     []string `json:"ingredients" validate:"required"`
	Instructions    []string `json:"instructions" validate:"required"`
	PreparationTime int      `json:"preparationTime"`
	Servings        int      `json:"servings"`
	Summary         string   `json:"summary"`
}

// ToggleFavoriteRequest is the body of the favorite toggle
type ToggleFavoriteRequest struct {
	IsFavorite *bool `json:"isFavorite" validate:"required"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Message string `json:"message" validate:"required"`
}

// ToInsert converts a generated recipe into a creation payload, dropping the summary.
func (g GeneratedRecipe) ToInsert() InsertRecipe {
	prep, servings := g.PreparationTime, g.Servings
	return InsertRecipe{
		Title:           g.Title,
		Ingredients:     g.Ingredients,
		Instructions:    g.Instructions,
		PreparationTime: &prep,
		Servings:        &servings,
	}
}
