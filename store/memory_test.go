package store

import (
	"context"
	"testing"

	"github.com/LovationAdmin/finance-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func TestMemoryDocuments(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, PutAs(ctx, m, "u1", "notes", "b", note{ID: "b", Text: "second"}))
	require.NoError(t, PutAs(ctx, m, "u1", "notes", "a", note{ID: "a", Text: "first"}))
	require.NoError(t, PutAs(ctx, m, "u2", "notes", "c", note{ID: "c", Text: "other user"}))

	notes, err := ListAs[note](ctx, m, "u1", "notes")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "b", notes[0].ID, "insertion order is kept")

	require.NoError(t, PutAs(ctx, m, "u1", "notes", "b", note{ID: "b", Text: "edited"}))
	got, err := GetAs[note](ctx, m, "u1", "notes", "b")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)

	_, err = GetAs[note](ctx, m, "u2", "notes", "b")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Delete(ctx, "u1", "notes", "b"))
	assert.ErrorIs(t, m.Delete(ctx, "u1", "notes", "b"), ErrNotFound)

	ids, err := m.UserIDs(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, ids)
}

func TestMemoryPutManyIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	err := m.PutMany(ctx, "u1", []Document{
		{Collection: "notes", ID: "a", Data: []byte(`{"id":"a"}`)},
		{Collection: "notes", ID: "b", Data: []byte(`{broken`)},
	})
	require.Error(t, err)

	docs, err := m.List(ctx, "u1", "notes")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.CreateUser(ctx, &models.User{ID: "u1", Email: "A@example.com"}))
	assert.ErrorIs(t, m.CreateUser(ctx, &models.User{ID: "u2", Email: "a@example.com"}), ErrDuplicate)

	u, err := m.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	require.NoError(t, m.UpdateTOTP(ctx, "u1", "SECRET", true))
	u, err = m.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, u.TOTPEnabled)
	assert.Equal(t, "SECRET", u.TOTPSecret)

	assert.ErrorIs(t, m.UpdateTOTP(ctx, "nope", "", false), ErrNotFound)
}
