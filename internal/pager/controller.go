// Package pager implements the page-turn state machine for the popular
// movies list. The browser runs the same machine in static/pager.js; this
// version drives the terminal browser.
//
//	idle --GoTo--> loading --ok--> idle
//	error --GoTo--> loading --err--> error
//
// GoTo is dropped (not queued) while a fetch is in flight or when the target
// page is outside [1, TotalPages].
package pager

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/liamwears/reelbrowser/internal/client"
	"github.com/liamwears/reelbrowser/internal/models"
)

// DefaultErrorMessage is shown when a failed fetch carries no message
const DefaultErrorMessage = "加载电影时发生错误。"

type State int

const (
	StateIdle State = iota
	StateLoading
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	default:
		return "error"
	}
}

// Fetcher loads one page of popular movies
type Fetcher interface {
	Movies(ctx context.Context, page string) (*models.PageResult, error)
}

// Snapshot is a copy of the controller's observable state
type Snapshot struct {
	State      State
	Movies     []models.MovieSummary
	Page       int
	TotalPages int
	Error      string
}

type Controller struct {
	fetcher      Fetcher
	onPageChange func(Snapshot)

	mu         sync.Mutex
	state      State
	movies     []models.MovieSummary
	page       int
	totalPages int
	errMsg     string
}

// New seeds a controller from server-rendered state. A non-empty
// initial.Error starts the controller in the error state.
func New(fetcher Fetcher, initial Snapshot) *Controller {
	c := &Controller{
		fetcher:    fetcher,
		state:      StateIdle,
		movies:     initial.Movies,
		page:       initial.Page,
		totalPages: initial.TotalPages,
		errMsg:     initial.Error,
	}
	if c.movies == nil {
		c.movies = []models.MovieSummary{}
	}
	if c.page < 1 {
		c.page = 1
	}
	if c.totalPages < 1 {
		c.totalPages = 1
	}
	if c.errMsg != "" {
		c.state = StateError
	}
	return c
}

// OnPageChange registers a hook fired after each successful page load.
// The browser scrolls to the top here.
func (c *Controller) OnPageChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPageChange = fn
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:      c.state,
		Movies:     c.movies,
		Page:       c.page,
		TotalPages: c.totalPages,
		Error:      c.errMsg,
	}
}

// Next turns to the following page
func (c *Controller) Next(ctx context.Context) bool {
	c.mu.Lock()
	target := c.page + 1
	c.mu.Unlock()
	return c.GoTo(ctx, target)
}

// Prev turns to the preceding page
func (c *Controller) Prev(ctx context.Context) bool {
	c.mu.Lock()
	target := c.page - 1
	c.mu.Unlock()
	return c.GoTo(ctx, target)
}

// GoTo fetches page and blocks until the fetch settles. It returns false
// without fetching when the guard rejects the transition.
func (c *Controller) GoTo(ctx context.Context, page int) bool {
	c.mu.Lock()
	if c.state == StateLoading || page < 1 || page > c.totalPages {
		c.mu.Unlock()
		return false
	}
	c.state = StateLoading
	c.errMsg = ""
	c.mu.Unlock()

	result, err := c.fetcher.Movies(ctx, strconv.Itoa(page))

	c.mu.Lock()
	if err != nil {
		// Previous movies stay visible.
		c.state = StateError
		c.errMsg = errorMessage(err)
		c.mu.Unlock()
		return true
	}

	c.movies = result.Results
	if c.movies == nil {
		c.movies = []models.MovieSummary{}
	}
	c.page = result.Page
	if c.page < 1 {
		c.page = page
	}
	c.totalPages = result.TotalPages
	if c.totalPages < c.page {
		c.totalPages = c.page
	}
	c.state = StateIdle
	snap := c.snapshotLocked()
	hook := c.onPageChange
	c.mu.Unlock()

	if hook != nil {
		hook(snap)
	}
	return true
}

func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("请求失败，状态码: %d", apiErr.Status)
	}
	return DefaultErrorMessage
}
