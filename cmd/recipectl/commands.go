package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pageza/alchemorsel-menu/backend/internal/client"
	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

const defaultServer = "http://localhost:5000"

func newRootCmd() *cobra.Command {
	var server string
	var asJSON bool

	root := &cobra.Command{
		Use:           "recipectl",
		Short:         "Manage the recipe menu from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	envServer := os.Getenv("MENU_API_URL")
	if envServer == "" {
		envServer = defaultServer
	}
	root.PersistentFlags().StringVar(&server, "server", envServer, "menu API base URL (env MENU_API_URL)")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print raw JSON")

	newClient := func() (*client.Client, error) {
		return client.New(server)
	}

	root.AddCommand(newListCmd(newClient, &asJSON))
	root.AddCommand(newGenerateCmd(newClient, &asJSON))
	root.AddCommand(newSaveCmd(newClient, &asJSON))
	root.AddCommand(newDeleteCmd(newClient))
	root.AddCommand(newFavoriteCmd(newClient, &asJSON))

	return root
}

type clientFactory func() (*client.Client, error)

func newListCmd(newClient clientFactory, asJSON *bool) *cobra.Command {
	var favorites bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved recipes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			recipes, err := c.ListRecipes(cmd.Context())
			if err != nil {
				return err
			}
			if favorites {
				kept := recipes[:0]
				for _, r := range recipes {
					if r.IsFavorite {
						kept = append(kept, r)
					}
				}
				recipes = kept
			}
			if *asJSON {
				return writeJSON(cmd.OutOrStdout(), recipes)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tPREP\tSERVES\tFAVORITE")
			for _, r := range recipes {
				fav := ""
				if r.IsFavorite {
					fav = "*"
				}
				fmt.Fprintf(w, "%d\t%s\t%dm\t%d\t%s\n", r.ID, r.Title, r.PreparationTime, r.Servings, fav)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&favorites, "favorites", false, "only show favorites")
	return cmd
}

func newGenerateCmd(newClient clientFactory, asJSON *bool) *cobra.Command {
	var mealType string
	var diet []string
	var save bool

	cmd := &cobra.Command{
		Use:   "generate INGREDIENT...",
		Short: "Ask the AI chef for a recipe using the given ingredients",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			req := types.GenerateRecipeRequest{Ingredients: args, DietaryRestrictions: diet}
			if mealType != "" {
				req.MealType = &mealType
			}
			generated, err := c.GenerateRecipe(cmd.Context(), req)
			if err != nil {
				return err
			}
			if !save {
				if *asJSON {
					return writeJSON(cmd.OutOrStdout(), generated)
				}
				printRecipe(cmd.OutOrStdout(), generated.Title, generated.Summary, generated.Ingredients, generated.Instructions, generated.PreparationTime, generated.Servings)
				return nil
			}

			saved, err := c.SaveRecipe(cmd.Context(), generated.ToInsert())
			if err != nil {
				return err
			}
			if *asJSON {
				return writeJSON(cmd.OutOrStdout(), saved)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %q as recipe %d\n", saved.Title, saved.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&mealType, "meal-type", "", "breakfast, lunch, dinner, snack or dessert")
	cmd.Flags().StringSliceVar(&diet, "diet", nil, "dietary restrictions, repeatable or comma separated")
	cmd.Flags().BoolVar(&save, "save", false, "save the generated recipe to the menu")
	return cmd
}

func newSaveCmd(newClient clientFactory, asJSON *bool) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "save -f recipe.json",
		Short: "Save a recipe from a JSON file (- for stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if file == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(file)
			}
			if err != nil {
				return err
			}

			var in types.InsertRecipe
			if err := json.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("invalid recipe file: %w", err)
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			saved, err := c.SaveRecipe(cmd.Context(), in)
			if err != nil {
				return err
			}
			if *asJSON {
				return writeJSON(cmd.OutOrStdout(), saved)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %q as recipe %d\n", saved.Title, saved.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "recipe JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newDeleteCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			if err := c.DeleteRecipe(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted", id)
			return nil
		},
	}
}

func newFavoriteCmd(newClient clientFactory, asJSON *bool) *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "favorite ID",
		Short: "Mark a recipe as favorite (--off to unmark)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			recipe, err := c.ToggleFavorite(cmd.Context(), id, !off)
			if client.IsNotFound(err) {
				return fmt.Errorf("recipe %d not found", id)
			}
			if err != nil {
				return err
			}
			if *asJSON {
				return writeJSON(cmd.OutOrStdout(), recipe)
			}
			state := "favorite"
			if !recipe.IsFavorite {
				state = "not favorite"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q is now %s\n", recipe.Title, state)
			return nil
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "remove the favorite mark")
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid recipe id %q", arg)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecipe(w io.Writer, title, summary string, ingredients, instructions []string, prep, servings int) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	if summary != "" {
		fmt.Fprintln(w, summary)
	}
	fmt.Fprintf(w, "\nPrep %d minutes, serves %d\n\nIngredients:\n", prep, servings)
	for _, ing := range ingredients {
		fmt.Fprintf(w, "  - %s\n", ing)
	}
	fmt.Fprintln(w, "\nInstructions:")
	for i, step := range instructions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}
}
