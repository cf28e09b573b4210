package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrtraviteja/contact-book-app/pkg/bus"
	"github.com/lrtraviteja/contact-book-app/pkg/config"
	"github.com/lrtraviteja/contact-book-app/pkg/contacts"
	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository"
	"github.com/lrtraviteja/contact-book-app/pkg/storage/sqlite"
)

type testEnv struct {
	srv    *Server
	http   *httptest.Server
	events *bus.EventBus
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlite.NewSQLiteStorage(filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Connect(context.Background()))

	events := bus.NewEventBus()
	svc := contacts.NewService(store.Contacts()).WithEvents(events)
	srv := NewServer(config.ServerConfig{Host: "127.0.0.1"}, svc, store, events)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{srv: srv, http: ts, events: events}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.http.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.http.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (e *testEnv) create(t *testing.T, name, email, phone string) repository.Contact {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"email":%q,"phone":%q}`, name, email, phone)
	resp := e.do(t, http.MethodPost, "/contacts", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[repository.Contact](t, resp)
}

func TestRootBanner(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "API Working...", buf.String())
}

func TestCreateContact(t *testing.T) {
	env := newTestEnv(t)
	c := env.create(t, " Ada ", "ada@x.com", "123")
	assert.Positive(t, c.ID)
	assert.Equal(t, "Ada", c.Name)

	resp := env.do(t, http.MethodGet, fmt.Sprintf("/contacts/%d", c.ID), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, c, decode[repository.Contact](t, resp))
}

func TestCreateContact_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{"name":`, msgInvalidJSON},
		{"missing phone", `{"name":"A","email":"a@x.com"}`, msgMissingFields},
		{"blank name", `{"name":"   ","email":"a@x.com","phone":"1"}`, msgMissingFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/contacts", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.want, decode[errorBody](t, resp).Error)
		})
	}
}

func TestCreateContact_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "A", "a@x.com", "111")

	resp := env.do(t, http.MethodPost, "/contacts", `{"name":"B","email":"a@x.com","phone":"222"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, msgDuplicate, decode[errorBody](t, resp).Error)

	resp = env.do(t, http.MethodPost, "/contacts", `{"name":"B","email":"b@x.com","phone":"111"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestListContacts_Paging(t *testing.T) {
	env := newTestEnv(t)
	for i := 1; i <= 12; i++ {
		env.create(t, fmt.Sprintf("C%02d", i), fmt.Sprintf("c%02d@x.com", i), fmt.Sprintf("%03d", i))
	}

	resp := env.do(t, http.MethodGet, "/contacts?page=2&limit=5", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[contacts.Page](t, resp)

	require.Len(t, page.Contacts, 5)
	assert.Equal(t, int64(6), page.Contacts[0].ID)
	assert.Equal(t, int64(10), page.Contacts[4].ID)
	assert.Equal(t, contacts.Pagination{CurrentPage: 2, TotalPages: 3, TotalContacts: 12, HasNext: true, HasPrev: true}, page.Pagination)
}

func TestListContacts_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/contacts?page=abc&limit=", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.JSONEq(t, `[]`, string(raw["contacts"]))
	assert.JSONEq(t, `{"currentPage":1,"totalPages":1,"totalContacts":0,"hasNext":false,"hasPrev":false}`, string(raw["pagination"]))
}

func TestListContacts_LeadingDigitsAndHugeValues(t *testing.T) {
	env := newTestEnv(t)
	for i := 1; i <= 3; i++ {
		env.create(t, fmt.Sprintf("C%02d", i), fmt.Sprintf("c%02d@x.com", i), fmt.Sprintf("%03d", i))
	}

	page := decode[contacts.Page](t, env.do(t, http.MethodGet, "/contacts?page=2abc&limit=2x", ""))
	require.Len(t, page.Contacts, 1)
	assert.Equal(t, int64(3), page.Contacts[0].ID)
	assert.Equal(t, contacts.Pagination{CurrentPage: 2, TotalPages: 2, TotalContacts: 3, HasPrev: true}, page.Pagination)

	resp := env.do(t, http.MethodGet, "/contacts?page=99999999999999999999999&limit=10", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	far := decode[contacts.Page](t, resp)
	assert.Empty(t, far.Contacts)
	assert.Equal(t, math.MaxInt, far.Pagination.CurrentPage)
	assert.False(t, far.Pagination.HasNext)

	all := decode[contacts.Page](t, env.do(t, http.MethodGet, fmt.Sprintf("/contacts?limit=%d", math.MaxInt), ""))
	assert.Len(t, all.Contacts, 3)
	assert.Equal(t, 1, all.Pagination.TotalPages)
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 0},
		{"7", 7},
		{" 12 ", 12},
		{"2abc", 2},
		{"+4", 4},
		{"-3", -3},
		{"-", 0},
		{"99999999999999999999999", math.MaxInt},
		{"-99999999999999999999999", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, queryInt(tt.in), "input %q", tt.in)
	}
}

func TestDeleteContact(t *testing.T) {
	env := newTestEnv(t)
	c := env.create(t, "A", "a@x.com", "1")
	env.create(t, "B", "b@x.com", "2")

	resp := env.do(t, http.MethodDelete, "/contacts/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, msgNotFound, decode[errorBody](t, resp).Error)

	resp = env.do(t, http.MethodDelete, "/contacts/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/contacts/%d", c.ID), "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/contacts/%d", c.ID), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	page := decode[contacts.Page](t, env.do(t, http.MethodGet, "/contacts", ""))
	assert.Equal(t, 1, page.Pagination.TotalContacts)
}

func TestDeleteAllContacts(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "A", "a@x.com", "1")
	env.create(t, "B", "b@x.com", "2")

	resp := env.do(t, http.MethodDelete, "/contacts", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/contacts?all=true", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	page := decode[contacts.Page](t, env.do(t, http.MethodGet, "/contacts", ""))
	assert.Empty(t, page.Contacts)
	assert.Equal(t, 0, page.Pagination.TotalContacts)
}

func TestRoutesMountedUnderAPI(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "A", "a@x.com", "1")

	resp := env.do(t, http.MethodGet, "/api/contacts", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[contacts.Page](t, resp)
	assert.Len(t, page.Contacts, 1)

	resp = env.do(t, http.MethodDelete, "/api/contacts/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/contacts", "/contacts/1", "/healthz"} {
		resp := env.do(t, http.MethodPatch, path, "")
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, path)
		assert.Equal(t, msgMethodNotAllowed, decode[errorBody](t, resp).Error)
	}
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodOptions, env.http.URL+"/contacts", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := env.http.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "DELETE")

	plain := env.do(t, http.MethodGet, "/contacts", "")
	assert.Empty(t, plain.Header.Get("Access-Control-Allow-Origin"))
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	srv := NewServer(config.ServerConfig{}, env.srv.service, failingPinger{}, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type brokenRepo struct{ repository.ContactsRepository }

func (brokenRepo) Count(context.Context) (int, error) { return 0, errors.New("database is locked") }

func TestInternalErrorsHideCause(t *testing.T) {
	srv := NewServer(config.ServerConfig{}, contacts.NewService(brokenRepo{}), nil, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestWebSocketStreamsEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go env.srv.hub.Run(ctx)
	<-env.srv.hub.running

	wsURL := "ws" + strings.TrimPrefix(env.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.srv.hub.clientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	created := env.create(t, "A", "a@x.com", "1")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev bus.BusEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, bus.EventContactCreated, ev.Type)
	require.NotNil(t, ev.Payload)
	assert.Equal(t, created.ID, ev.Payload.Contact.ID)
}

func TestWebSocketUnavailableBeforeHubRuns(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/ws", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestStartTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, env.srv.Start(ctx))
	t.Cleanup(env.srv.Stop)
	<-env.srv.hub.running

	assert.Error(t, env.srv.Start(ctx))

	resp, err := http.Get("http://" + env.srv.Addr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHubRunTwice(t *testing.T) {
	hub := NewHub(bus.NewEventBus())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	<-hub.running

	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second Run did not return")
	}

	cancel()
	<-hub.stopped
}
