package story

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"snooze/internal/api"
	"snooze/internal/config"
)

func newFeedClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.TestConfig()
	cfg.API.BaseURL = server.URL
	return api.NewClient(cfg)
}

func TestFetchAll(t *testing.T) {
	client := newFeedClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stories":[
			{"storyId":"s1","title":"One","author":"a","url":"https://example.com/1","username":"a","createdAt":"2023-01-03T00:00:00.000Z"},
			{"storyId":"s2","title":"Two","author":"b","url":"https://example.com/2","username":"b","createdAt":"2023-01-02T00:00:00.000Z"},
			{"storyId":"s3","title":"Three","author":"c","url":"https://example.com/3","username":"c","createdAt":"2023-01-01T00:00:00.000Z"}
		]}`))
	})

	l, err := FetchAll(context.Background(), client)
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}

	if len(l.Stories) != 3 {
		t.Fatalf("got %d stories, want 3", len(l.Stories))
	}
	// Server order, not local reordering.
	for i, want := range []string{"s1", "s2", "s3"} {
		if l.Stories[i].ID != want {
			t.Errorf("Stories[%d].ID = %s, want %s", i, l.Stories[i].ID, want)
		}
	}
}

func TestCreateDoesNotTouchLocalLists(t *testing.T) {
	client := newFeedClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"story":{"storyId":"abc123","title":"Test","author":"me","url":"https://example.com/story","username":"me","createdAt":"2023-05-01T12:00:00.000Z"}}`))
	})

	l := &List{Stories: []Story{{ID: "existing", URL: "https://example.org"}}}

	s, err := Create(context.Background(), client, "tok", Draft{
		Title: "Test", Author: "me", URL: "https://example.com/story",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if s.ID != "abc123" {
		t.Errorf("ID = %s, want abc123", s.ID)
	}
	host, _ := s.Hostname()
	if host != "example.com" {
		t.Errorf("Hostname() = %s, want example.com", host)
	}

	// Confirmed creations are reflected by the caller, never implicitly.
	if len(l.Stories) != 1 || l.Stories[0].ID != "existing" {
		t.Errorf("list changed by Create: %+v", l.Stories)
	}
}

func TestCreateValidationError(t *testing.T) {
	client := newFeedClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"title":"Bad Request","message":"url is required"}}`))
	})

	_, err := Create(context.Background(), client, "tok", Draft{Title: "No URL"})

	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %T (%v), want *api.ValidationError", err, err)
	}
}

func TestDeleteLeavesListToCaller(t *testing.T) {
	calls := 0
	client := newFeedClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"story":{"storyId":"s2","title":"Two","author":"b","url":"https://example.com/2","username":"b","createdAt":"2023-01-02T00:00:00.000Z"}}`))
			return
		}
		// The story is already gone on the second attempt.
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"title":"Not Found","message":"no such story"}}`))
	})

	l := &List{Stories: []Story{
		{ID: "s1", URL: "https://example.com/1"},
		{ID: "s2", URL: "https://example.com/2"},
		{ID: "s3", URL: "https://example.com/3"},
	}}

	ctx := context.Background()

	deleted, err := Delete(ctx, client, "tok", "s2")
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if deleted.ID != "s2" {
		t.Errorf("deleted.ID = %s, want s2", deleted.ID)
	}
	if len(l.Stories) != 3 {
		t.Errorf("Delete touched the local list: %d stories", len(l.Stories))
	}

	l.RemoveLocal("s2")
	if len(l.Stories) != 2 {
		t.Fatalf("after RemoveLocal: %d stories, want 2", len(l.Stories))
	}
	if l.Stories[0].ID != "s1" || l.Stories[1].ID != "s3" {
		t.Errorf("order after removal = %s, %s, want s1, s3", l.Stories[0].ID, l.Stories[1].ID)
	}

	// Deleting the same id again surfaces the server's error and leaves the
	// local list exactly as it was.
	_, err = Delete(ctx, client, "tok", "s2")
	var serr *api.ServiceError
	if !errors.As(err, &serr) {
		t.Fatalf("second delete: got %T (%v), want *api.ServiceError", err, err)
	}
	if len(l.Stories) != 2 {
		t.Errorf("failed delete changed local list: %d stories", len(l.Stories))
	}
}

func TestRemoveLocalIdempotent(t *testing.T) {
	l := &List{Stories: []Story{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}}

	l.RemoveLocal("b")
	l.RemoveLocal("b")
	l.RemoveLocal("never-existed")

	if len(l.Stories) != 2 {
		t.Fatalf("got %d stories, want 2", len(l.Stories))
	}
	if l.Stories[0].ID != "a" || l.Stories[1].ID != "c" {
		t.Errorf("order = %s, %s, want a, c", l.Stories[0].ID, l.Stories[1].ID)
	}
}

func TestFind(t *testing.T) {
	l := &List{Stories: []Story{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}}

	s, ok := l.Find("b")
	if !ok || s.Title != "B" {
		t.Errorf("Find(b) = %+v, %v", s, ok)
	}

	if _, ok := l.Find("zzz"); ok {
		t.Error("Find of an absent id should report false")
	}
}
