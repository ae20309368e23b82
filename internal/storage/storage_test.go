package storage

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-menu/backend/internal/database"
	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

func insert(title string) types.InsertRecipe {
	prep, servings := 10, 2
	return types.InsertRecipe{
		Title:           title,
		Ingredients:     []string{title + " base", "salt"},
		Instructions:    []string{"prepare " + title, "serve"},
		PreparationTime: &prep,
		Servings:        &servings,
	}
}

func newSQLiteStorage(t *testing.T) Storage {
	t.Helper()
	db, err := database.Open("sqlite://:memory:", false, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewDatabaseStorage(db)
}

func newCachedStorage(t *testing.T) Storage {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCachedStorage(NewMemStorage(), client, time.Minute, zap.NewNop())
}

func TestStorageImplementations(t *testing.T) {
	impls := map[string]func(t *testing.T) Storage{
		"memory": func(*testing.T) Storage { return NewMemStorage() },
		"sqlite": newSQLiteStorage,
		"cached": newCachedStorage,
	}
	for name, factory := range impls {
		t.Run(name, func(t *testing.T) {
			RunStorageSuite(t, factory)
		})
	}
}

// RunStorageSuite checks the behaviour every Storage implementation shares
func RunStorageSuite(t *testing.T, newStorage func(t *testing.T) Storage) {
	ctx := context.Background()

	t.Run("create assigns id, timestamp and favorite flag", func(t *testing.T) {
		s := newStorage(t)
		seen := map[int64]bool{}
		var last time.Time
		for _, title := range []string{"A", "B", "C", "D"} {
			r, err := s.CreateRecipe(ctx, insert(title))
			require.NoError(t, err)
			assert.NotZero(t, r.ID)
			assert.False(t, seen[r.ID], "duplicate id %d", r.ID)
			seen[r.ID] = true
			assert.False(t, r.IsFavorite)
			assert.False(t, r.CreatedAt.IsZero())
			assert.False(t, r.CreatedAt.Before(last), "createdAt went backwards")
			last = r.CreatedAt
			assert.Equal(t, title, r.Title)
			assert.Equal(t, []string{title + " base", "salt"}, r.Ingredients)
			assert.Equal(t, []string{"prepare " + title, "serve"}, r.Instructions)
			assert.Equal(t, 10, r.PreparationTime)
			assert.Equal(t, 2, r.Servings)
		}
	})

	t.Run("created record matches later reads", func(t *testing.T) {
		s := newStorage(t)
		created, err := s.CreateRecipe(ctx, insert("A"))
		require.NoError(t, err)

		loaded, found, err := s.GetRecipe(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.True(t, created.CreatedAt.Equal(loaded.CreatedAt), "created %s, loaded %s", created.CreatedAt, loaded.CreatedAt)
		loaded.CreatedAt = created.CreatedAt
		assert.Equal(t, *created, *loaded)

		listed, err := s.GetRecipes(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.True(t, created.CreatedAt.Equal(listed[0].CreatedAt))
	})

	t.Run("list is most recent first", func(t *testing.T) {
		s := newStorage(t)
		empty, err := s.GetRecipes(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		for _, title := range []string{"A", "B", "C"} {
			_, err := s.CreateRecipe(ctx, insert(title))
			require.NoError(t, err)
		}

		recipes, err := s.GetRecipes(ctx)
		require.NoError(t, err)
		require.Len(t, recipes, 3)
		assert.Equal(t, "C", recipes[0].Title)
		assert.Equal(t, "B", recipes[1].Title)
		assert.Equal(t, "A", recipes[2].Title)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := newStorage(t)
		r, err := s.CreateRecipe(ctx, insert("A"))
		require.NoError(t, err)

		require.NoError(t, s.DeleteRecipe(ctx, r.ID))
		_, found, err := s.GetRecipe(ctx, r.ID)
		require.NoError(t, err)
		assert.False(t, found)

		assert.NoError(t, s.DeleteRecipe(ctx, r.ID))
		assert.NoError(t, s.DeleteRecipe(ctx, 9999))

		recipes, err := s.GetRecipes(ctx)
		require.NoError(t, err)
		assert.Empty(t, recipes)
	})

	t.Run("toggle favorite changes only the flag", func(t *testing.T) {
		s := newStorage(t)
		created, err := s.CreateRecipe(ctx, insert("A"))
		require.NoError(t, err)

		for _, want := range []bool{true, true, false} {
			updated, found, err := s.ToggleFavorite(ctx, created.ID, want)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, want, updated.IsFavorite)

			expected := *created
			expected.IsFavorite = want
			assert.Equal(t, expected.ID, updated.ID)
			assert.Equal(t, expected.Title, updated.Title)
			assert.Equal(t, expected.Ingredients, updated.Ingredients)
			assert.Equal(t, expected.Instructions, updated.Instructions)
			assert.Equal(t, expected.PreparationTime, updated.PreparationTime)
			assert.Equal(t, expected.Servings, updated.Servings)
			assert.True(t, expected.CreatedAt.Equal(updated.CreatedAt))
		}

		listed, err := s.GetRecipes(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.False(t, listed[0].IsFavorite)
	})

	t.Run("toggle favorite on missing id", func(t *testing.T) {
		s := newStorage(t)
		r, found, err := s.ToggleFavorite(ctx, 4242, true)
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, r)
	})

	t.Run("returned recipes are copies", func(t *testing.T) {
		s := newStorage(t)
		created, err := s.CreateRecipe(ctx, insert("A"))
		require.NoError(t, err)
		created.Ingredients[0] = "mutated"

		got, found, err := s.GetRecipe(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "A base", got.Ingredients[0])
	})
}

func TestMemStorageClockNeverGoesBackwards(t *testing.T) {
	s := NewMemStorage()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(-time.Hour), base.Add(time.Second)}
	s.now = func() time.Time {
		next := ticks[0]
		ticks = ticks[1:]
		return next
	}

	a, err := s.CreateRecipe(context.Background(), insert("A"))
	require.NoError(t, err)
	b, err := s.CreateRecipe(context.Background(), insert("B"))
	require.NoError(t, err)
	c, err := s.CreateRecipe(context.Background(), insert("C"))
	require.NoError(t, err)

	assert.Equal(t, base, a.CreatedAt)
	assert.Equal(t, base, b.CreatedAt)
	assert.Equal(t, base.Add(time.Second), c.CreatedAt)

	recipes, err := s.GetRecipes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, []string{recipes[0].Title, recipes[1].Title, recipes[2].Title})
}

func TestDatabaseStorageUnavailable(t *testing.T) {
	db, err := database.Open("sqlite://:memory:", false, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	s := NewDatabaseStorage(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = s.GetRecipes(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = s.CreateRecipe(context.Background(), insert("A"))
	assert.ErrorIs(t, err, ErrUnavailable)
	_, _, err = s.ToggleFavorite(context.Background(), 1, true)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, s.DeleteRecipe(context.Background(), 1), ErrUnavailable)
}

func TestCachedStorage(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	inner := NewMemStorage()
	s := NewCachedStorage(inner, client, time.Minute, zap.NewNop())

	_, err := s.CreateRecipe(ctx, insert("A"))
	require.NoError(t, err)

	recipes, err := s.GetRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.True(t, cachedListExists(srv))

	// A write that bypasses the cache is not visible until invalidation
	_, err = inner.CreateRecipe(ctx, insert("B"))
	require.NoError(t, err)
	recipes, err = s.GetRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, 1)

	created, err := s.CreateRecipe(ctx, insert("C"))
	require.NoError(t, err)
	assert.False(t, cachedListExists(srv))
	recipes, err = s.GetRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, 3)

	_, found, err := s.ToggleFavorite(ctx, 777, true)
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, cachedListExists(srv), "a not-found toggle keeps the cache")

	_, found, err = s.ToggleFavorite(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, cachedListExists(srv))

	_, err = s.GetRecipes(ctx)
	require.NoError(t, err)
	require.NoError(t, s.DeleteRecipe(ctx, created.ID))
	assert.False(t, cachedListExists(srv))
}

// cachedListExists reports whether the current list generation is cached
func cachedListExists(srv *miniredis.Miniredis) bool {
	var generation int64
	if v, err := srv.Get(RecipesGenerationKey); err == nil {
		generation, _ = strconv.ParseInt(v, 10, 64)
	}
	return srv.Exists(ListKey(generation))
}

// slowReadStorage runs afterRead between reading the list and returning it
type slowReadStorage struct {
	Storage
	afterRead func()
}

func (s *slowReadStorage) GetRecipes(ctx context.Context) ([]types.Recipe, error) {
	recipes, err := s.Storage.GetRecipes(ctx)
	if s.afterRead != nil {
		hook := s.afterRead
		s.afterRead = nil
		hook()
	}
	return recipes, err
}

func TestCachedStorageWriteDuringListFill(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	inner := &slowReadStorage{Storage: NewMemStorage()}
	s := NewCachedStorage(inner, client, time.Minute, zap.NewNop())

	inner.afterRead = func() {
		_, err := s.CreateRecipe(ctx, insert("A"))
		require.NoError(t, err)
	}

	// The fill read the list before the save and stores it too late
	stale, err := s.GetRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, stale)

	recipes, err := s.GetRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "A", recipes[0].Title)

	cached, err := s.GetRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)
	assert.True(t, cachedListExists(srv))
}

func TestCachedStorageFallsThroughWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr(), MaxRetries: -1})
	defer client.Close()

	s := NewCachedStorage(NewMemStorage(), client, time.Minute, zap.NewNop())
	srv.Close()

	_, err := s.CreateRecipe(ctx, insert("A"))
	require.NoError(t, err)
	recipes, err := s.GetRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, 1)
}
