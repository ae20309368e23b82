// Package contract is the request/response contract shared by the HTTP
// handlers and the API client. Each Route names the method, the path, the
// input shape and the response shape for every status the route may return.
package contract

import (
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

// Schema returns a new, empty value of the shape a payload must decode into.
// A nil Schema means the payload is empty.
type Schema func() any

// Route describes one operation of the recipe API
type Route struct {
	Name      string
	Method    string
	Path      string
	Input     Schema
	Responses map[int]Schema
}

func errorBody() any { return &types.ErrorResponse{} }

var (
	Generate = Route{
		Name:   "generate",
		Method: http.MethodPost,
		Path:   "/api/recipes/generate",
		Input:  func() any { return &types.GenerateRecipeRequest{} },
		Responses: map[int]Schema{
			http.StatusOK:                  func() any { return &types.GeneratedRecipe{} },
			http.StatusInternalServerError: errorBody,
		},
	}

	List = Route{
		Name:   "list",
		Method: http.MethodGet,
		Path:   "/api/recipes",
		Responses: map[int]Schema{
			http.StatusOK: func() any { return &[]types.Recipe{} },
		},
	}

	Save = Route{
		Name:   "save",
		Method: http.MethodPost,
		Path:   "/api/recipes",
		Input:  func() any { return &types.InsertRecipe{} },
		Responses: map[int]Schema{
			http.StatusCreated:    func() any { return &types.Recipe{} },
			http.StatusBadRequest: errorBody,
		},
	}

	Delete = Route{
		Name:   "delete",
		Method: http.MethodDelete,
		Path:   "/api/recipes/:id",
		Responses: map[int]Schema{
			http.StatusNoContent: nil,
			http.StatusNotFound:  errorBody,
		},
	}

	ToggleFavorite = Route{
		Name:   "toggleFavorite",
		Method: http.MethodPatch,
		Path:   "/api/recipes/:id/favorite",
		Input:  func() any { return &types.ToggleFavoriteRequest{} },
		Responses: map[int]Schema{
			http.StatusOK:         func() any { return &types.Recipe{} },
			http.StatusNotFound:   errorBody,
			http.StatusBadRequest: errorBody,
		},
	}
)

// Routes returns every registered route.
func Routes() []Route {
	return []Route{Generate, List, Save, Delete, ToggleFavorite}
}

// DecodeInput unmarshals a request body into dst and validates it against the
// route's input shape.
func (r Route) DecodeInput(data []byte, dst any) error {
	if r.Input == nil {
		return fmt.Errorf("contract: route %s takes no input", r.Name)
	}
	if want := reflect.TypeOf(r.Input()); reflect.TypeOf(dst) != want {
		return fmt.Errorf("contract: route %s decodes into %s, got %T", r.Name, want, dst)
	}
	if err := decodeJSON(data, dst); err != nil {
		return err
	}
	return Validate(dst)
}

// CheckResponse reports whether body conforms to the shape declared for status.
func (r Route) CheckResponse(status int, body any) error {
	schema, ok := r.Responses[status]
	if !ok {
		return fmt.Errorf("contract: route %s does not declare status %d", r.Name, status)
	}
	if schema == nil {
		if body != nil {
			return fmt.Errorf("contract: route %s status %d has an empty body", r.Name, status)
		}
		return nil
	}

	want := reflect.TypeOf(schema()).Elem()
	got := reflect.TypeOf(body)
	for got != nil && got.Kind() == reflect.Ptr {
		got = got.Elem()
	}
	if got != want {
		return fmt.Errorf("contract: route %s status %d expects %s, got %T", r.Name, status, want, body)
	}
	return Validate(body)
}

// DecodeResponse unmarshals and validates a response body received with status.
// It returns nil for statuses declared with an empty body.
func (r Route) DecodeResponse(status int, data []byte) (any, error) {
	schema, ok := r.Responses[status]
	if !ok {
		return nil, fmt.Errorf("contract: route %s does not declare status %d", r.Name, status)
	}
	if schema == nil {
		return nil, nil
	}
	out := schema()
	if err := decodeJSON(data, out); err != nil {
		return nil, err
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

var placeholder = regexp.MustCompile(`:[A-Za-z_][A-Za-z0-9_]*`)

// BuildURL substitutes named parameters into a route path. Every placeholder
// in path must have a value in params.
func BuildURL(path string, params map[string]any) (string, error) {
	var missing []string
	url := placeholder.ReplaceAllStringFunc(path, func(token string) string {
		value, ok := params[token[1:]]
		if !ok {
			missing = append(missing, token)
			return token
		}
		return fmt.Sprint(value)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("contract: missing value for %s in %s", strings.Join(missing, ", "), path)
	}
	return url, nil
}
