package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"study-planner/internal/catalog"
	"study-planner/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "nested", "planner.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestCatalogRepository_EmptyLoad(t *testing.T) {
	repo := NewCatalogRepository(newTestDB(t))

	courses, err := repo.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestCatalogRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepository(newTestDB(t))

	cat := catalog.NewDefault()
	_, err := cat.SetTopicCompleted("qm-5", 12)
	require.NoError(t, err)
	require.NoError(t, repo.SaveCatalog(ctx, cat.Courses()))

	loaded, err := repo.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 6)

	assert.Equal(t, "econophysics", loaded[0].ID)
	assert.Equal(t, "computational-course", loaded[5].ID)
	require.Len(t, loaded[1].Topics, 8)
	assert.Equal(t, "qm-1", loaded[1].Topics[0].ID)
	assert.Equal(t, "qm-5", loaded[1].Topics[4].ID)
	assert.InDelta(t, 12, loaded[1].Topics[4].Completed, 1e-9)

	reloaded := catalog.New(loaded)
	assert.InDelta(t, cat.TotalCreditHours(), reloaded.TotalCreditHours(), 1e-9)
	assert.InDelta(t, 12, reloaded.CompletedCreditHours(), 1e-9)
}

func TestCatalogRepository_SaveUpdatesAndPrunes(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepository(newTestDB(t))

	first := []model.Course{
		{ID: "a", Name: "A", TotalMarks: 50, Topics: []model.Topic{
			{ID: "a-1", Name: "One", CreditHours: 4},
			{ID: "a-2", Name: "Two", CreditHours: 6},
		}},
		{ID: "b", Name: "B", TotalMarks: 100, Topics: []model.Topic{{ID: "b-1", Name: "Only", CreditHours: 3}}},
	}
	require.NoError(t, repo.SaveCatalog(ctx, first))

	second := []model.Course{
		{ID: "a", Name: "A renamed", TotalMarks: 60, Topics: []model.Topic{
			{ID: "a-2", Name: "Two", CreditHours: 6, Completed: 2},
		}},
	}
	require.NoError(t, repo.SaveCatalog(ctx, second))

	loaded, err := repo.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "A renamed", loaded[0].Name)
	assert.InDelta(t, 60, loaded[0].TotalMarks, 1e-9)
	require.Len(t, loaded[0].Topics, 1)
	assert.InDelta(t, 2, loaded[0].Topics[0].Completed, 1e-9)

	require.NoError(t, repo.SaveCatalog(ctx, nil))
	loaded, err = repo.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestUserRepository_Subscriptions(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.UpsertFromTelegram(ctx, 100, "Ada", "", "ada")
	require.NoError(t, err)
	_, err = repo.UpsertFromTelegram(ctx, 200, "Bob", "", "bob")
	require.NoError(t, err)

	user, err := repo.UpsertFromTelegram(ctx, 100, "Ada", "Lovelace", "ada")
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.TelegramID)

	require.NoError(t, repo.SetDailyPlan(ctx, 200, true))
	subs, err := repo.ListSubscribed(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, int64(200), subs[0].TelegramID)

	require.NoError(t, repo.SetDailyPlan(ctx, 200, false))
	subs, err = repo.ListSubscribed(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)

	assert.ErrorIs(t, repo.SetDailyPlan(ctx, 999, true), gorm.ErrRecordNotFound)
}

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid-redis", "redis://localhost:6379", false},
		{"valid-with-db", "redis://localhost:6379/2", false},
		{"empty", "", true},
		{"bad-scheme", "http://localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRedisURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCatalogEncoding(t *testing.T) {
	raw, err := encodeCatalog(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	raw, err = encodeCatalog(catalog.DefaultCourses())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"creditHours":160`)

	courses, err := decodeCatalog(raw)
	require.NoError(t, err)
	assert.Len(t, courses, 6)

	_, err = decodeCatalog([]byte("{not json"))
	assert.Error(t, err)
}

func TestNopCatalogStore(t *testing.T) {
	var store NopCatalogStore
	require.NoError(t, store.SaveCatalog(context.Background(), catalog.DefaultCourses()))

	courses, err := store.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Empty(t, courses)
}
