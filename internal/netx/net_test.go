package netx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func TestGetJSON(t *testing.T) {
	t.Run("decodes 200 body", func(t *testing.T) {
		var gotMethod, gotAccept string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotAccept = r.Header.Get("Accept")
			_, _ = w.Write([]byte(`{"id": 7, "title": "Phone"}`))
		}))
		defer ts.Close()

		var p product
		require.NoError(t, GetJSON(context.Background(), ts.Client(), ts.URL, &p))
		assert.Equal(t, product{ID: 7, Title: "Phone"}, p)
		assert.Equal(t, http.MethodGet, gotMethod)
		assert.Equal(t, "application/json", gotAccept)
	})

	t.Run("non-2xx gives StatusError with truncated body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
		}))
		defer ts.Close()

		var p product
		err := GetJSON(context.Background(), ts.Client(), ts.URL, &p)

		var se *StatusError
		require.True(t, errors.As(err, &se), "got %v", err)
		assert.Equal(t, http.StatusNotFound, se.Code)
		assert.Len(t, se.Body, maxErrorBody)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("bad json", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":`))
		}))
		defer ts.Close()

		var p product
		err := GetJSON(context.Background(), ts.Client(), ts.URL, &p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode response")
	})

	t.Run("transport error is not a StatusError", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := ts.URL
		ts.Close()

		var p product
		err := GetJSON(context.Background(), http.DefaultClient, url, &p)
		require.Error(t, err)

		var se *StatusError
		assert.False(t, errors.As(err, &se))
	})

	t.Run("bad url", func(t *testing.T) {
		var p product
		require.Error(t, GetJSON(context.Background(), http.DefaultClient, "://nope", &p))
	})
}

func TestStatusError_Message(t *testing.T) {
	assert.Equal(t, "request failed: 500 Internal Server Error",
		(&StatusError{Code: 500, Status: "500 Internal Server Error"}).Error())
	assert.Equal(t, "request failed: 400 Bad Request; body: oops",
		(&StatusError{Code: 400, Status: "400 Bad Request", Body: "oops"}).Error())
}
