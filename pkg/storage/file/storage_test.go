package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository"
	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository/repositorytest"
)

func TestContactsRepositoryContract(t *testing.T) {
	repositorytest.RunContactsContract(t, func(t *testing.T) repository.ContactsRepository {
		fs, err := NewFileStorage(filepath.Join(t.TempDir(), "contacts.json"))
		require.NoError(t, err)
		return fs.Contacts()
	})
}

func TestStore_PersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "contacts.json")

	s, err := NewStore(path)
	require.NoError(t, err)
	a, err := s.Insert("A", "a@x.com", "111")
	require.NoError(t, err)
	_, err = s.Insert("B", "b@x.com", "222")
	require.NoError(t, err)
	removed, err := s.Delete(a.ID)
	require.NoError(t, err)
	require.True(t, removed)

	reloaded, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Count())

	_, ok := reloaded.FindByEmailOrPhone("b@x.com", "")
	assert.True(t, ok)

	// The freed email is reusable and the ID counter carries on.
	c, err := reloaded.Insert("A2", "a@x.com", "333")
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID)
}

func TestStore_DeleteAllKeepsCounterOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")

	s, err := NewStore(path)
	require.NoError(t, err)
	for _, e := range []string{"a@x.com", "b@x.com"} {
		_, err := s.Insert("n", e, e)
		require.NoError(t, err)
	}
	require.NoError(t, s.DeleteAll())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, int64(3), doc.NextID)
	assert.NotNil(t, doc.Contacts)
	assert.Empty(t, doc.Contacts)
}

func TestStore_RejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewStore(path)
	assert.Error(t, err)
}

func TestFileStorage_Ping(t *testing.T) {
	fs, err := NewFileStorage(filepath.Join(t.TempDir(), "contacts.json"))
	require.NoError(t, err)
	assert.NoError(t, fs.Connect(context.Background()))
	assert.NoError(t, fs.Ping(context.Background()))
}

func TestStore_ListNegativeOffsetIsEmpty(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "contacts.json"))
	require.NoError(t, err)
	_, err = s.Insert("A", "a@x.com", "111")
	require.NoError(t, err)

	got := s.List(-5, 10)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Len(t, s.List(0, 10), 1)
}
