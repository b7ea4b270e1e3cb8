package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/liamwears/reelbrowser/internal/client"
	"github.com/liamwears/reelbrowser/internal/models"
)

// PageConfig controls how the page loader reaches the API endpoints
type PageConfig struct {
	// PublicHost is the deployment host. Empty means use the request Host.
	PublicHost   string
	Port         string
	Production   bool
	ImageBaseURL string
	// HTTPClient is used for loader calls into /api. Nil uses the client default.
	HTTPClient *http.Client
}

// PageHandler handles page rendering
type PageHandler struct {
	renderer *Renderer
	cfg      PageConfig
	logger   logrus.FieldLogger
}

// NewPageHandler creates a new page handler
func NewPageHandler(renderer *Renderer, cfg PageConfig, logger logrus.FieldLogger) *PageHandler {
	return &PageHandler{
		renderer: renderer,
		cfg:      cfg,
		logger:   logger,
	}
}

// HomePage is the loader result for the popular movies list
type HomePage struct {
	Movies     []models.MovieSummary
	Page       int
	TotalPages int
	Error      string
}

// MoviePage is the loader result for one movie
type MoviePage struct {
	ID       string
	Movie    *models.MovieDetail
	NotFound bool
	Error    string
}

// pagerState seeds static/pager.js
type pagerState struct {
	Movies       []models.MovieSummary `json:"movies"`
	Page         int                   `json:"page"`
	TotalPages   int                   `json:"totalPages"`
	Error        string                `json:"error"`
	ImageBaseURL string                `json:"imageBaseUrl"`
}

// apiBaseURL derives the address the loader uses to call the API endpoints
func (h *PageHandler) apiBaseURL(r *http.Request) string {
	scheme := "http"
	if h.cfg.Production {
		scheme = "https"
	}

	host := h.cfg.PublicHost
	if host == "" {
		host = r.Host
	}
	if host == "" {
		port := h.cfg.Port
		if port == "" {
			port = "3000"
		}
		host = "localhost:" + port
	}

	return fmt.Sprintf("%s://%s", scheme, host)
}

// Home handles GET / and GET /?page=<n>
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	if page == "" {
		page = "1"
	}

	c := client.New(h.apiBaseURL(r), h.cfg.HTTPClient)
	data := LoadHomePage(loaderContext(r), c, page, requestLogger(h.logger, r))

	// Errors render inline, the page itself is still a 200
	h.renderer.RenderPage(w, http.StatusOK, "index.html", map[string]interface{}{
		"Movies":     data.Movies,
		"Page":       data.Page,
		"TotalPages": data.TotalPages,
		"Error":      data.Error,
		"State": pagerState{
			Movies:       data.Movies,
			Page:         data.Page,
			TotalPages:   data.TotalPages,
			Error:        data.Error,
			ImageBaseURL: h.cfg.ImageBaseURL,
		},
	})
}

// MovieDetail handles GET /movie/{id}
func (h *PageHandler) MovieDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	c := client.New(h.apiBaseURL(r), h.cfg.HTTPClient)
	data := LoadMoviePage(loaderContext(r), c, id, requestLogger(h.logger, r))

	switch {
	case data.NotFound:
		h.renderer.RenderPage(w, http.StatusNotFound, "not-found.html", map[string]interface{}{
			"ID": data.ID,
		})
	case data.Error != "":
		h.renderer.RenderPage(w, http.StatusOK, "error.html", map[string]interface{}{
			"ID":    data.ID,
			"Error": data.Error,
		})
	default:
		h.renderer.RenderPage(w, http.StatusOK, "movie.html", map[string]interface{}{
			"Movie": data.Movie,
			"Cast":  data.Movie.TopCast(models.MaxDisplayedCast),
		})
	}
}

// LoadHomePage fetches the initial list state. Failures become a message,
// never an error.
func LoadHomePage(ctx context.Context, c *client.Client, page string, logger logrus.FieldLogger) HomePage {
	requested, err := strconv.Atoi(page)
	if err != nil || requested < 1 {
		requested = 1
	}

	data := HomePage{
		Movies:     []models.MovieSummary{},
		Page:       requested,
		TotalPages: 1,
	}

	log := logger.WithFields(logrus.Fields{"page": page, "api": c.BaseURL()})
	log.Debug("Loading popular movies")

	result, err := c.Movies(ctx, page)
	if err != nil {
		log.WithError(err).Error("API route /api/getMovies failed")

		var apiErr *client.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.Message != "":
			data.Error = apiErr.Message
		case errors.As(err, &apiErr):
			data.Error = fmt.Sprintf("加载电影失败，状态码: %d", apiErr.Status)
		default:
			data.Error = "加载电影时发生服务器内部错误。"
		}
		return data
	}

	if result.Results != nil {
		data.Movies = result.Results
	}
	if result.Page > 0 {
		data.Page = result.Page
	}
	if result.TotalPages > 0 {
		data.TotalPages = result.TotalPages
	}
	return data
}

// LoadMoviePage fetches one movie. An API 404 sets NotFound rather than Error.
func LoadMoviePage(ctx context.Context, c *client.Client, id string, logger logrus.FieldLogger) MoviePage {
	data := MoviePage{ID: id}

	log := logger.WithFields(logrus.Fields{"movie_id": id, "api": c.BaseURL()})
	log.Debug("Loading movie details")

	movie, err := c.MovieDetails(ctx, id)
	if err != nil {
		var apiErr *client.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
			log.Info("Movie not found")
			data.NotFound = true
		case errors.As(err, &apiErr) && apiErr.Message != "":
			log.WithError(err).Error("API route /api/getMovieDetails failed")
			data.Error = apiErr.Message
		case errors.As(err, &apiErr):
			log.WithError(err).Error("API route /api/getMovieDetails failed")
			data.Error = fmt.Sprintf("加载电影详情失败，状态码: %d", apiErr.Status)
		default:
			log.WithError(err).Error("Error loading movie details")
			data.Error = "加载电影详情时发生服务器内部错误。"
		}
		return data
	}

	data.Movie = movie
	return data
}
