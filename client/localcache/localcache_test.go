package localcache

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlawlghkd12/tutomate-sub000/client/model"
)

func newTestCollection(t *testing.T) *Collection[*model.Student] {
	t.Helper()
	cache, err := New(afero.NewMemMapFs(), "/data", nil)
	require.NoError(t, err)
	return NewCollection(cache, "students", func(s *model.Student) string { return s.ID })
}

func TestCollection_LoadEmptyIsEmpty(t *testing.T) {
	col := newTestCollection(t)

	items, err := col.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCollection_AddAndLoad(t *testing.T) {
	col := newTestCollection(t)

	require.NoError(t, col.Add(&model.Student{ID: "s1", Name: "Kim Minji"}))
	require.NoError(t, col.Add(&model.Student{ID: "s2", Name: "Park Jiho"}))

	items, err := col.Load()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Kim Minji", items[0].Name)
}

func TestCollection_AddDuplicateIDRejected(t *testing.T) {
	col := newTestCollection(t)

	require.NoError(t, col.Add(&model.Student{ID: "s1", Name: "Kim Minji"}))
	err := col.Add(&model.Student{ID: "s1", Name: "Imposter"})
	require.Error(t, err)

	items, err := col.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Kim Minji", items[0].Name)
}

func TestCollection_UpdateUnknownIDIsNoOp(t *testing.T) {
	col := newTestCollection(t)
	require.NoError(t, col.Add(&model.Student{ID: "s1", Name: "Kim Minji"}))

	require.NoError(t, col.Update("ghost", &model.Student{ID: "ghost", Name: "Nobody"}))

	items, err := col.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Kim Minji", items[0].Name)
}

func TestCollection_UpdateReplacesItem(t *testing.T) {
	col := newTestCollection(t)
	require.NoError(t, col.Add(&model.Student{ID: "s1", Name: "Kim Minji"}))

	require.NoError(t, col.Update("s1", &model.Student{ID: "s1", Name: "Kim Minji", Phone: "010-1111-2222"}))

	items, err := col.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "010-1111-2222", items[0].Phone)
}

func TestCollection_Delete(t *testing.T) {
	col := newTestCollection(t)
	require.NoError(t, col.Add(&model.Student{ID: "s1"}))
	require.NoError(t, col.Add(&model.Student{ID: "s2"}))

	require.NoError(t, col.Delete("s1"))
	require.NoError(t, col.Delete("s1")) // repeated delete is fine

	items, err := col.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "s2", items[0].ID)
}

func TestCollection_LoadIsIdempotent(t *testing.T) {
	col := newTestCollection(t)
	require.NoError(t, col.Add(&model.Student{ID: "s1", Name: "Kim Minji"}))

	first, err := col.Load()
	require.NoError(t, err)
	second, err := col.Load()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCollection_NoTempFileLeftBehind(t *testing.T) {
	fs := afero.NewMemMapFs()
	cache, err := New(fs, "/data", nil)
	require.NoError(t, err)
	col := NewCollection(cache, "students", func(s *model.Student) string { return s.ID })

	require.NoError(t, col.Add(&model.Student{ID: "s1"}))

	exists, err := afero.Exists(fs, "/data/students.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}
