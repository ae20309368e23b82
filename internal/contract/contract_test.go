package contract

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

func TestBuildURL(t *testing.T) {
	url, err := BuildURL(ToggleFavorite.Path, map[string]any{"id": 42})
	require.NoError(t, err)
	assert.Equal(t, "/api/recipes/42/favorite", url)

	url, err = BuildURL(List.Path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/api/recipes", url)

	_, err = BuildURL(Delete.Path, map[string]any{"recipeId": 1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), ":id")
}

func TestSaveDecodeInput(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		var in types.InsertRecipe
		err := Save.DecodeInput([]byte(`{"title":"Toast","ingredients":["bread"],"instructions":["toast it"],"preparationTime":0,"servings":1,"isFavorite":true}`), &in)
		require.NoError(t, err)
		assert.Equal(t, "Toast", in.Title)
		assert.Equal(t, 0, *in.PreparationTime)
		assert.Equal(t, 1, *in.Servings)
	})

	t.Run("empty title", func(t *testing.T) {
		var in types.InsertRecipe
		err := Save.DecodeInput([]byte(`{"title":"","ingredients":["a"],"instructions":["b"],"preparationTime":10,"servings":2}`), &in)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "title", vErr.Field)
		assert.Contains(t, vErr.Message, "title")
	})

	t.Run("missing servings", func(t *testing.T) {
		var in types.InsertRecipe
		err := Save.DecodeInput([]byte(`{"title":"x","ingredients":[],"instructions":[],"preparationTime":10}`), &in)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "servings", vErr.Field)
	})

	t.Run("wrong type", func(t *testing.T) {
		var in types.InsertRecipe
		err := Save.DecodeInput([]byte(`{"title":"x","ingredients":[],"instructions":[],"preparationTime":"ten","servings":2}`), &in)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "preparationTime must be an integer", vErr.Message)
	})

	t.Run("malformed json", func(t *testing.T) {
		var in types.InsertRecipe
		err := Save.DecodeInput([]byte(`{"title":`), &in)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("wrong destination", func(t *testing.T) {
		var in types.GenerateRecipeRequest
		err := Save.DecodeInput([]byte(`{}`), &in)
		require.Error(t, err)
		var vErr *ValidationError
		assert.False(t, errors.As(err, &vErr))
	})
}

func TestGenerateDecodeInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"ingredients only", `{"ingredients":["egg","flour"]}`, false},
		{"with meal type", `{"ingredients":["egg"],"mealType":"breakfast","dietaryRestrictions":["vegetarian"]}`, false},
		{"empty ingredients", `{"ingredients":[]}`, true},
		{"missing ingredients", `{"mealType":"lunch"}`, true},
		{"unknown meal type", `{"ingredients":["egg"],"mealType":"brunch"}`, true},
		{"empty meal type", `{"ingredients":["egg"],"mealType":""}`, true},
		{"null meal type", `{"ingredients":["egg"],"mealType":null}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in types.GenerateRecipeRequest
			err := Generate.DecodeInput([]byte(tt.body), &in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerateDecodeInputKeepsMealType(t *testing.T) {
	var in types.GenerateRecipeRequest
	require.NoError(t, Generate.DecodeInput([]byte(`{"ingredients":["egg"],"mealType":"snack"}`), &in))
	require.NotNil(t, in.MealType)
	assert.Equal(t, "snack", *in.MealType)
	assert.Equal(t, []string{"egg"}, in.Ingredients)

	var bare types.GenerateRecipeRequest
	require.NoError(t, Generate.DecodeInput([]byte(`{"ingredients":["egg"]}`), &bare))
	assert.Nil(t, bare.MealType)

	var vErr *ValidationError
	err := Generate.DecodeInput([]byte(`{"ingredients":["egg"],"mealType":null}`), &bare)
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "mealType", vErr.Field)
}

func TestToggleFavoriteDecodeInput(t *testing.T) {
	var in types.ToggleFavoriteRequest
	require.NoError(t, ToggleFavorite.DecodeInput([]byte(`{"isFavorite":false}`), &in))
	require.NotNil(t, in.IsFavorite)
	assert.False(t, *in.IsFavorite)

	var missing types.ToggleFavoriteRequest
	assert.Error(t, ToggleFavorite.DecodeInput([]byte(`{}`), &missing))

	var wrong types.ToggleFavoriteRequest
	assert.Error(t, ToggleFavorite.DecodeInput([]byte(`{"isFavorite":"yes"}`), &wrong))
}

func TestCheckResponse(t *testing.T) {
	recipe := types.Recipe{
		ID:           1,
		Title:        "Toast",
		Ingredients:  []string{"bread"},
		Instructions: []string{"toast it"},
		CreatedAt:    time.Now(),
	}

	assert.NoError(t, Save.CheckResponse(http.StatusCreated, &recipe))
	assert.NoError(t, List.CheckResponse(http.StatusOK, []types.Recipe{recipe}))
	assert.NoError(t, List.CheckResponse(http.StatusOK, []types.Recipe{}))
	assert.NoError(t, Delete.CheckResponse(http.StatusNoContent, nil))
	assert.NoError(t, ToggleFavorite.CheckResponse(http.StatusNotFound, types.ErrorResponse{Message: "Recipe not found"}))

	assert.Error(t, Save.CheckResponse(http.StatusOK, &recipe), "undeclared status")
	assert.Error(t, Save.CheckResponse(http.StatusCreated, types.ErrorResponse{Message: "x"}), "wrong shape")
	assert.Error(t, Save.CheckResponse(http.StatusCreated, &types.Recipe{Title: "no id"}), "missing id")
	assert.Error(t, List.CheckResponse(http.StatusOK, []types.Recipe(nil)), "null list")
	assert.Error(t, Delete.CheckResponse(http.StatusNoContent, map[string]string{"message": "x"}), "body on 204")
}

func TestDecodeResponse(t *testing.T) {
	out, err := Generate.DecodeResponse(http.StatusOK, []byte(`{"title":"Omelette","ingredients":["2 eggs"],"instructions":["Whisk","Cook"],"preparationTime":10,"servings":1,"summary":"Quick."}`))
	require.NoError(t, err)
	generated := out.(*types.GeneratedRecipe)
	assert.Equal(t, "Omelette", generated.Title)
	assert.Equal(t, []string{"Whisk", "Cook"}, generated.Instructions)

	out, err = Delete.DecodeResponse(http.StatusNoContent, nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = List.DecodeResponse(http.StatusOK, []byte(`null`))
	assert.Error(t, err)

	_, err = List.DecodeResponse(http.StatusTeapot, []byte(`[]`))
	assert.Error(t, err)
}
