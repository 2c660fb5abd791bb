package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uwplan/planner-backend/internal/model"
)

type fakeStore struct {
	records map[string]model.ParsedPrereqData
	calls   [][]string
}

func (f *fakeStore) GetParsedPrereqData(_ context.Context, ids []string) (map[string]model.ParsedPrereqData, error) {
	f.calls = append(f.calls, ids)
	out := make(map[string]model.ParsedPrereqData)
	for _, id := range ids {
		if p, ok := f.records[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeStore) GetAll(context.Context) ([]model.ParsedPrereqData, error) {
	out := make([]model.ParsedPrereqData, 0, len(f.records))
	for _, p := range f.records {
		out = append(out, p)
	}
	return out, nil
}

// unreachableRedis never connects, so every command fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestCachedPrerequisiteRepositoryFallsBackToStore(t *testing.T) {
	store := &fakeStore{records: map[string]model.ParsedPrereqData{
		"CS 135": {CourseID: "CS 135", MinimumLevel: "1A"},
	}}
	repo := NewCachedPrerequisiteRepository(store, unreachableRedis(t), time.Minute, zerolog.Nop())

	got, err := repo.GetParsedPrereqData(context.Background(), []string{"CS 135", "PHYS 999"})
	require.NoError(t, err)

	assert.Len(t, got, 1)
	assert.Equal(t, "1A", got["CS 135"].MinimumLevel)
	assert.Equal(t, [][]string{{"CS 135", "PHYS 999"}}, store.calls)
}

func TestCachedPrerequisiteRepositoryEmptyRequest(t *testing.T) {
	store := &fakeStore{}
	repo := NewCachedPrerequisiteRepository(store, unreachableRedis(t), time.Minute, zerolog.Nop())

	got, err := repo.GetParsedPrereqData(context.Background(), nil)
	require.NoError(t, err)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, store.calls)
}

func TestCachedPrerequisiteRepositoryPrewarmFailsWithoutRedis(t *testing.T) {
	store := &fakeStore{records: map[string]model.ParsedPrereqData{
		"CS 136": {CourseID: "CS 136", MinimumLevel: "1B", Courses: [][]string{{"CS 135"}}},
	}}
	repo := NewCachedPrerequisiteRepository(store, unreachableRedis(t), time.Minute, zerolog.Nop())

	assert.Error(t, repo.Prewarm(context.Background()))
	assert.NoError(t, NewCachedPrerequisiteRepository(&fakeStore{}, unreachableRedis(t), time.Minute, zerolog.Nop()).
		Prewarm(context.Background()))
}

func TestProgramTable(t *testing.T) {
	table, err := programTable(model.ProgramKindSpecialization)
	require.NoError(t, err)
	assert.Equal(t, "specializations", table)

	_, err = programTable("option")
	assert.Error(t, err)
}

func TestCachedPrerequisiteRepositoryInvalidate(t *testing.T) {
	repo := NewCachedPrerequisiteRepository(&fakeStore{}, unreachableRedis(t), time.Minute, zerolog.Nop())

	assert.NoError(t, repo.Invalidate(context.Background()))
	assert.Error(t, repo.Invalidate(context.Background(), "CS 135", "CS 136"))
}
