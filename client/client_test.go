package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/findgreatschool/core/compare"
	"github.com/trezcool/findgreatschool/core/contact"
	"github.com/trezcool/findgreatschool/core/explore"
	"github.com/trezcool/findgreatschool/core/institution"
)

// satisfied interfaces
var (
	_ explore.Querier = (*Client)(nil)
	_ compare.Source  = (*Client)(nil)
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithToken("tok"))
}

func TestClient_Search(t *testing.T) {
	var gotQuery string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/institutions", r.URL.Path)
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"results": [
			{"id": " 1 ", "name": " Alpha ", "type": "School", "city": "Pune", "features": null, "classes_offered": null},
			{"id": "", "name": "No ID", "type": "school"},
			{"id": "3", "name": "", "type": "school"},
			{"id": "4", "name": "Bad Category", "type": "university"},
			{"id": "5", "name": "Beta", "type": "college", "board": " "}
		]}`))
	})

	fs := institution.FilterState{Category: institution.CategorySchool, City: "Pune", Sort: institution.SortNameDesc}
	results, err := c.Search(context.Background(), fs)
	require.NoError(t, err)
	assert.Equal(t, institution.Encode(fs), gotQuery)

	if assert.Len(t, results, 2) {
		assert.Equal(t, "1", results[0].ID)
		assert.Equal(t, "Alpha", results[0].Name)
		assert.Equal(t, institution.CategorySchool, results[0].Category)
		assert.NotNil(t, results[0].Features)
		assert.NotNil(t, results[0].ClassesOffered)
		assert.Equal(t, "5", results[1].ID)
		assert.False(t, results[1].Board.Valid)
	}
}

func TestClient_GetApproved(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/institutions/lookup", r.URL.Path)
		assert.Equal(t, []string{"b", "a", "x"}, r.URL.Query()["id"])
		_, _ = w.Write([]byte(`[
			{"id": "b", "name": "Beta", "type": "college", "images": ["1.png", "2.png"]},
			{"id": "a", "name": "Alpha", "type": "school"},
			{"id": "x", "name": "Broken", "type": ""}
		]`))
	})

	insts, err := c.GetApproved(context.Background(), []string{"b", " a ", "", "x"})
	require.NoError(t, err)
	if assert.Len(t, insts, 2) {
		assert.Equal(t, "b", insts[0].ID)
		assert.Equal(t, []string{"1.png"}, insts[0].Images)
		assert.Equal(t, "a", insts[1].ID)
	}

	insts, err = c.GetApproved(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, insts)
}

func TestClient_Get(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/institutions/a%20b", "/v1/institutions/a b":
			_, _ = w.Write([]byte(`{"id": "a b", "name": " Alpha ", "type": "school", "images": null}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": "institution not found"}`))
		}
	})

	inst, err := c.Get(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", inst.Name)
	assert.NotNil(t, inst.Images)

	_, err = c.Get(context.Background(), "zzz")
	assert.EqualError(t, err, "institution not found (404)")
}

func TestClient_errors(t *testing.T) {
	tests := []struct {
		name        string
		code        int
		body        string
		wantMessage string
	}{
		{name: "error message", code: http.StatusConflict, body: `{"error": "You have already applied to this institution."}`, wantMessage: "You have already applied to this institution."},
		{name: "field errors", code: http.StatusBadRequest, body: `{"name": "this field is required", "email": "enter a valid email address"}`, wantMessage: "email: enter a valid email address; name: this field is required"},
		{name: "no body", code: http.StatusBadGateway, wantMessage: "Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Apply(context.Background(), "1")
			var rerr *RemoteError
			if assert.ErrorAs(t, err, &rerr) {
				assert.Equal(t, tt.code, rerr.StatusCode)
				assert.Equal(t, tt.wantMessage, rerr.Message)
			}
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		_, err := New(srv.URL).Search(context.Background(), institution.FilterState{})
		var rerr *RemoteError
		assert.ErrorAs(t, err, &rerr)
	})
}

func TestClient_Apply_Contact(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/v1/institutions/a%2Fb/apply", "/v1/institutions/a/b/apply":
			assert.Equal(t, http.MethodPost, r.Method)
			_, _ = w.Write([]byte(`{"message": "Application Submitted Successfully!"}`))
		case "/v1/contact":
			var msg contact.Message
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
			assert.Equal(t, "Asha", msg.Name)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message": "Message received! Thank you."}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	msg, err := c.Apply(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "Application Submitted Successfully!", msg)

	msg, err = c.Contact(context.Background(), contact.Message{Name: "Asha", Email: "asha@test.in", Subject: "Hi", Message: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "Message received! Thank you.", msg)
}

func TestClient_withFetcher(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("city") == "down" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": "Internal Server Error"}`))
			return
		}
		_, _ = w.Write([]byte(`{"results": [{"id": "1", "name": "Alpha", "type": "school"}]}`))
	})

	f := explore.NewFetcher(c, nil)
	f.Update(context.Background(), institution.FilterState{City: "Pune"})
	f.Wait()
	s := f.State()
	assert.Equal(t, explore.StatusSuccess, s.Status)
	assert.Len(t, s.Results, 1)

	f.Update(context.Background(), institution.FilterState{City: "down"})
	f.Wait()
	s = f.State()
	assert.Equal(t, explore.StatusError, s.Status)
	assert.Equal(t, "Internal Server Error (500)", s.Message)
	assert.Nil(t, s.Results)
}
