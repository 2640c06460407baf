package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"study-planner/internal/catalog"
	"study-planner/internal/model"
)

type mockCatalogStore struct {
	mock.Mock
}

func (m *mockCatalogStore) LoadCatalog(ctx context.Context) ([]model.Course, error) {
	args := m.Called(ctx)
	courses, _ := args.Get(0).([]model.Course)
	return courses, args.Error(1)
}

func (m *mockCatalogStore) SaveCatalog(ctx context.Context, courses []model.Course) error {
	args := m.Called(ctx, courses)
	return args.Error(0)
}

func smallCatalog() *catalog.Catalog {
	return catalog.New([]model.Course{{
		ID: "c", Name: "Course", TotalMarks: 50,
		Topics: []model.Topic{{ID: "t", Name: "Topic", CreditHours: 10}},
	}})
}

func TestProgressService_LoadSeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := new(mockCatalogStore)
	store.On("LoadCatalog", ctx).Return(nil, nil)
	store.On("SaveCatalog", ctx, mock.MatchedBy(func(c []model.Course) bool { return len(c) == 6 })).Return(nil)

	svc := NewProgressService(catalog.NewDefault(), store, nil)
	require.NoError(t, svc.Load(ctx))

	store.AssertExpectations(t)
}

func TestProgressService_LoadReplacesCatalog(t *testing.T) {
	ctx := context.Background()
	stored := []model.Course{{
		ID: "x", Name: "Stored", TotalMarks: 50,
		Topics: []model.Topic{{ID: "x-1", CreditHours: 4, Completed: 3}},
	}}
	store := new(mockCatalogStore)
	store.On("LoadCatalog", ctx).Return(stored, nil)

	svc := NewProgressService(catalog.NewDefault(), store, nil)
	require.NoError(t, svc.Load(ctx))

	assert.InDelta(t, 4, svc.Catalog().TotalCreditHours(), 1e-9)
	assert.InDelta(t, 3, svc.Catalog().CompletedCreditHours(), 1e-9)
	store.AssertNotCalled(t, "SaveCatalog", mock.Anything, mock.Anything)
}

func TestProgressService_LoadFailureKeepsDefaults(t *testing.T) {
	ctx := context.Background()
	store := new(mockCatalogStore)
	store.On("LoadCatalog", ctx).Return(nil, errors.New("boom"))

	svc := NewProgressService(catalog.NewDefault(), store, nil)
	assert.Error(t, svc.Load(ctx))
	assert.InDelta(t, 628, svc.Catalog().TotalCreditHours(), 1e-9)
}

func TestProgressService_SetTopicCompleted(t *testing.T) {
	ctx := context.Background()
	store := new(mockCatalogStore)
	store.On("SaveCatalog", ctx, mock.Anything).Return(nil)
	svc := NewProgressService(smallCatalog(), store, nil)

	update, err := svc.SetTopicCompleted(ctx, "t", 4)
	require.NoError(t, err)
	assert.True(t, update.Accepted)
	assert.InDelta(t, 4, update.Topic.Completed, 1e-9)
	assert.Equal(t, "Course", update.Course.Name)
	store.AssertNumberOfCalls(t, "SaveCatalog", 1)
}

func TestProgressService_ClampsOutOfRange(t *testing.T) {
	ctx := context.Background()
	store := new(mockCatalogStore)
	store.On("SaveCatalog", ctx, mock.Anything).Return(nil)
	svc := NewProgressService(smallCatalog(), store, nil)

	update, err := svc.SetTopicCompleted(ctx, "t", 15)
	require.NoError(t, err)
	assert.False(t, update.Accepted)
	assert.InDelta(t, 15, update.Requested, 1e-9)
	assert.InDelta(t, 10, update.Topic.Completed, 1e-9)

	_, stored, err := svc.Catalog().Topic("t")
	require.NoError(t, err)
	assert.InDelta(t, 10, stored.Completed, 1e-9)
}

func TestProgressService_UnknownTopic(t *testing.T) {
	store := new(mockCatalogStore)
	svc := NewProgressService(smallCatalog(), store, nil)

	_, err := svc.SetTopicCompleted(context.Background(), "nope", 1)
	assert.ErrorIs(t, err, catalog.ErrTopicNotFound)

	_, err = svc.AdjustTopic(context.Background(), "nope", 1)
	assert.ErrorIs(t, err, catalog.ErrTopicNotFound)
	store.AssertNotCalled(t, "SaveCatalog", mock.Anything, mock.Anything)
}

func TestProgressService_SaveFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	store := new(mockCatalogStore)
	store.On("SaveCatalog", ctx, mock.Anything).Return(errors.New("disk full"))
	svc := NewProgressService(smallCatalog(), store, nil)

	update, err := svc.SetTopicCompleted(ctx, "t", 2)
	require.NoError(t, err)
	assert.InDelta(t, 2, update.Topic.Completed, 1e-9)
}

func TestProgressService_AdjustTopic(t *testing.T) {
	ctx := context.Background()
	store := new(mockCatalogStore)
	store.On("SaveCatalog", ctx, mock.Anything).Return(nil)
	svc := NewProgressService(smallCatalog(), store, nil)

	update, err := svc.AdjustTopic(ctx, "t", 1)
	require.NoError(t, err)
	assert.True(t, update.Accepted)
	assert.InDelta(t, 1, update.Topic.Completed, 1e-9)

	update, err = svc.AdjustTopic(ctx, "t", -2)
	require.NoError(t, err)
	assert.False(t, update.Accepted)
	assert.InDelta(t, -1, update.Requested, 1e-9)
	assert.Zero(t, update.Topic.Completed)
}

func TestProgressService_ImportCourses(t *testing.T) {
	ctx := context.Background()
	store := new(mockCatalogStore)
	store.On("SaveCatalog", ctx, mock.Anything).Return(nil)
	svc := NewProgressService(catalog.NewDefault(), store, nil)

	err := svc.ImportCourses(ctx, []model.Course{{ID: "", TotalMarks: 10}})
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
	store.AssertNotCalled(t, "SaveCatalog", mock.Anything, mock.Anything)

	require.NoError(t, svc.ImportCourses(ctx, []model.Course{{ID: "only", TotalMarks: 10}}))
	assert.Len(t, svc.Catalog().Courses(), 1)
}

func TestProgressService_RefusesNaN(t *testing.T) {
	store := new(mockCatalogStore)
	svc := NewProgressService(smallCatalog(), store, nil)

	_, err := svc.SetTopicCompleted(context.Background(), "t", math.NaN())
	assert.ErrorIs(t, err, catalog.ErrInvalidProgressValue)
	assert.Zero(t, svc.Catalog().CompletedCreditHours())
	store.AssertNotCalled(t, "SaveCatalog", mock.Anything, mock.Anything)
}
