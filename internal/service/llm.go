package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-menu/backend/internal/contract"
	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

// ErrGeneration wraps every failure to produce a recipe from the AI service
var ErrGeneration = errors.New("recipe generation failed")

const systemPrompt = "You are a helpful culinary assistant. You generate creative and delicious recipes based on available ingredients. You must output valid JSON only."

// LLMConfig configures the chat-completions client
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService generates recipes through an OpenAI compatible chat-completions API
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	logger *zap.Logger
}

// NewLLMService creates a new LLMService instance
func NewLLMService(cfg LLMConfig, logger *zap.Logger) *LLMService {
	return &LLMService{
		apiKey: cfg.APIKey,
		apiURL: strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		model:  cfg.Model,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a chat-completions request
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
}

// BuildPrompt renders the user prompt for a generation request. Meal type and
// dietary restrictions are only mentioned when given.
func BuildPrompt(req types.GenerateRecipeRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a recipe using the following ingredients: %s.\n", strings.Join(req.Ingredients, ", "))
	if req.MealType != nil {
		fmt.Fprintf(&b, "Meal type: %s.\n", *req.MealType)
	}
	if len(req.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, "Dietary restrictions: %s.\n", strings.Join(req.DietaryRestrictions, ", "))
	}
	b.WriteString(`
Return the recipe in the following JSON format:
{
  "title": "Recipe Title",
  "ingredients": ["1 cup flour", "2 eggs"],
  "instructions": ["Step 1...", "Step 2..."],
  "preparationTime": 30,
  "servings": 4,
  "summary": "A brief description of the dish."
}
Do not include markdown formatting or code blocks in the response, just the raw JSON object.`)
	return b.String()
}

// GenerateRecipe asks the AI service for one recipe. The result is not persisted.
// Every failure wraps ErrGeneration.
func (s *LLMService) GenerateRecipe(ctx context.Context, req types.GenerateRecipeRequest) (*types.GeneratedRecipe, error) {
	reqBody := Request{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(req)},
		},
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrGeneration, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrGeneration, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %v", ErrGeneration, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrGeneration, err)
	}
	s.logger.Debug("AI completion received",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.Int("bytes", len(body)))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: API request failed with status %d: %s", ErrGeneration, resp.StatusCode, truncate(string(body), 200))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrGeneration, err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("%w: no response from API", ErrGeneration)
	}

	return ParseGeneratedRecipe(result.Choices[0].Message.Content)
}

// ParseGeneratedRecipe decodes the model's JSON output. All six fields must be
// present with the right types; extra fields are ignored.
func ParseGeneratedRecipe(content string) (*types.GeneratedRecipe, error) {
	content = stripCodeFence(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrGeneration)
	}

	var raw struct {
		Title           *string   `json:"title"`
		Ingredients     *[]string `json:"ingredients"`
		Instructions    *[]string `json:"instructions"`
		PreparationTime *int      `json:"preparationTime"`
		Servings        *int      `json:"servings"`
		Summary         *string   `json:"summary"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("%w: completion is not a recipe object: %v", ErrGeneration, err)
	}

	var missing []string
	if raw.Title == nil {
		missing = append(missing, "title")
	}
	if raw.Ingredients == nil {
		missing = append(missing, "ingredients")
	}
	if raw.Instructions == nil {
		missing = append(missing, "instructions")
	}
	if raw.PreparationTime == nil {
		missing = append(missing, "preparationTime")
	}
	if raw.Servings == nil {
		missing = append(missing, "servings")
	}
	if raw.Summary == nil {
		missing = append(missing, "summary")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: completion is missing %s", ErrGeneration, strings.Join(missing, ", "))
	}

	recipe := &types.GeneratedRecipe{
		Title:           *raw.Title,
		Ingredients:     *raw.Ingredients,
		Instructions:    *raw.Instructions,
		PreparationTime: *raw.PreparationTime,
		Servings:        *raw.Servings,
		Summary:         *raw.Summary,
	}
	if err := contract.Validate(recipe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return recipe, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
