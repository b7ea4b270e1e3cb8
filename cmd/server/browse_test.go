package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBrowse_PagesThroughList(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"page":%s,"total_pages":2,"results":[{"id":%s00,"title":"Movie %s","release_date":"2001-01-01","vote_average":7.3}]}`, page, page, page)
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := runBrowse([]string{"-base", srv.URL}, strings.NewReader("n\nn\np\nq\n"), &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Movie 1 (2001)  评分: 7.3")
	assert.Contains(t, text, "Movie 2 (2001)")
	assert.Contains(t, text, "第 2 页 / 共 2 页")
	assert.Contains(t, text, "nothing to do")
	// initial load, next, prev; the second "n" is past the last page
	assert.Equal(t, int32(3), calls.Load())
}

func TestRunBrowse_ShowsLoadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message":"Server configuration error: API credentials missing."}`)
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, runBrowse([]string{"-base", srv.URL}, strings.NewReader("q\n"), &out))

	assert.Contains(t, out.String(), "Error: Server configuration error: API credentials missing.")
}
