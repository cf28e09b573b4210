package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrtraviteja/contact-book-app/pkg/api"
	"github.com/lrtraviteja/contact-book-app/pkg/config"
	"github.com/lrtraviteja/contact-book-app/pkg/contacts"
	"github.com/lrtraviteja/contact-book-app/pkg/storage/sqlite"
)

// newTestClient serves the real API over a temporary SQLite database.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	store, err := sqlite.NewSQLiteStorage(filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Connect(context.Background()))

	srv := api.NewServer(config.ServerConfig{}, contacts.NewService(store.Contacts()), store, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return New(ts.URL, 5*time.Second)
}

// newFailingClient points at a server that answers every request with status.
func newFailingClient(t *testing.T, status int) *Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, `{"error":"nope"}`)
	}))
	t.Cleanup(ts.Close)
	return New(ts.URL, 5*time.Second)
}

func TestClient_CreateFetchDelete(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateContact(ctx, contacts.Input{Name: "Ada", Email: "ada@x.com", Phone: "1"})
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	page, err := c.FetchContacts(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Contacts, 1)
	assert.Equal(t, *created, page.Contacts[0])
	assert.Equal(t, 1, page.Pagination.TotalContacts)

	require.NoError(t, c.DeleteContact(ctx, created.ID))

	err = c.DeleteContact(ctx, created.ID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Contact not found", apiErr.Message)

	require.NoError(t, c.Health(ctx))
}

func TestClient_DuplicateIsConflict(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.CreateContact(ctx, contacts.Input{Name: "A", Email: "a@x.com", Phone: "1"})
	require.NoError(t, err)
	_, err = c.CreateContact(ctx, contacts.Input{Name: "B", Email: "a@x.com", Phone: "2"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestClient_DeleteAll(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := c.CreateContact(ctx, contacts.Input{Name: "N", Email: fmt.Sprintf("%d@x.com", i), Phone: fmt.Sprint(i)})
		require.NoError(t, err)
	}

	require.NoError(t, c.DeleteAllContacts(ctx))
	page, err := c.FetchContacts(ctx, 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, page.Contacts)
	assert.Empty(t, page.Contacts)
}

func TestClient_TransportError(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	_, err := c.FetchContacts(context.Background(), 1, 10)
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
