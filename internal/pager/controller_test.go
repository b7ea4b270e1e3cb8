package pager

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liamwears/reelbrowser/internal/client"
	"github.com/liamwears/reelbrowser/internal/models"
)

type fakeFetcher struct {
	calls   atomic.Int32
	total   int
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeFetcher) Movies(ctx context.Context, page string) (*models.PageResult, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	n, _ := strconv.Atoi(page)
	return &models.PageResult{
		Results:    []models.MovieSummary{{ID: n * 100, Title: "page " + page}},
		Page:       n,
		TotalPages: f.total,
	}, nil
}

func seeded() Snapshot {
	return Snapshot{
		Movies:     []models.MovieSummary{{ID: 1, Title: "initial"}},
		Page:       1,
		TotalPages: 3,
	}
}

func TestNew_SeedsState(t *testing.T) {
	c := New(&fakeFetcher{}, seeded())
	snap := c.Snapshot()

	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, 1, snap.Page)
	assert.Equal(t, 3, snap.TotalPages)
	assert.Len(t, snap.Movies, 1)
}

func TestNew_InitialErrorStartsInErrorState(t *testing.T) {
	c := New(&fakeFetcher{}, Snapshot{Error: "加载电影失败，状态码: 500"})
	snap := c.Snapshot()

	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "加载电影失败，状态码: 500", snap.Error)
	assert.NotNil(t, snap.Movies)
	assert.Equal(t, 1, snap.Page)
	assert.Equal(t, 1, snap.TotalPages)
}

func TestGoTo_SuccessReplacesStateAndFiresHook(t *testing.T) {
	fetcher := &fakeFetcher{total: 5}
	c := New(fetcher, seeded())

	var hooked []int
	c.OnPageChange(func(s Snapshot) { hooked = append(hooked, s.Page) })

	require.True(t, c.GoTo(context.Background(), 2))
	snap := c.Snapshot()

	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, 2, snap.Page)
	assert.Equal(t, 5, snap.TotalPages)
	assert.Equal(t, "page 2", snap.Movies[0].Title)
	assert.Equal(t, []int{2}, hooked)
}

func TestGoTo_OutOfRangeIsNoop(t *testing.T) {
	fetcher := &fakeFetcher{total: 3}
	c := New(fetcher, seeded())

	for _, page := range []int{0, -1, 4} {
		assert.False(t, c.GoTo(context.Background(), page))
	}
	assert.False(t, c.Prev(context.Background()))
	assert.Equal(t, int32(0), fetcher.calls.Load())
	assert.Equal(t, seeded(), c.Snapshot())
}

func TestGoTo_DroppedWhileLoading(t *testing.T) {
	fetcher := &fakeFetcher{
		total:   3,
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	c := New(fetcher, seeded())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.GoTo(context.Background(), 2)
	}()
	<-fetcher.started

	before := c.Snapshot()
	assert.Equal(t, StateLoading, before.State)

	assert.False(t, c.GoTo(context.Background(), 3))
	assert.False(t, c.Next(context.Background()))
	assert.Equal(t, before, c.Snapshot())
	assert.Equal(t, int32(1), fetcher.calls.Load())

	close(fetcher.release)
	wg.Wait()

	assert.Equal(t, 2, c.Snapshot().Page)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestGoTo_FailureKeepsMovies(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "envelope message", err: &client.APIError{Status: 401, Message: "认证失败"}, expected: "认证失败"},
		{name: "status only", err: &client.APIError{Status: 502}, expected: "请求失败，状态码: 502"},
		{name: "transport", err: errors.New("connection refused"), expected: DefaultErrorMessage},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := New(&fakeFetcher{err: test.err}, seeded())

			var hooked bool
			c.OnPageChange(func(Snapshot) { hooked = true })

			require.True(t, c.Next(context.Background()))
			snap := c.Snapshot()

			assert.Equal(t, StateError, snap.State)
			assert.Equal(t, test.expected, snap.Error)
			assert.Equal(t, "initial", snap.Movies[0].Title)
			assert.Equal(t, 1, snap.Page)
			assert.False(t, hooked)
		})
	}
}

func TestGoTo_RecoversFromError(t *testing.T) {
	fetcher := &fakeFetcher{total: 3, err: errors.New("boom")}
	c := New(fetcher, seeded())

	c.Next(context.Background())
	require.Equal(t, StateError, c.Snapshot().State)

	fetcher.err = nil
	require.True(t, c.Next(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.Error)
	assert.Equal(t, 2, snap.Page)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "error", StateError.String())
}
