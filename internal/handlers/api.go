package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/liamwears/reelbrowser/internal/models"
	"github.com/liamwears/reelbrowser/internal/services"
)

const hiddenErrorDetails = "Error details hidden in production"

// MovieSource is the upstream adapter the API handler proxies to
type MovieSource interface {
	PopularMovies(ctx context.Context, page string) (*services.Result, error)
	MovieDetails(ctx context.Context, id string) (*services.Result, error)
}

// APIHandler serves the JSON proxy endpoints in front of TMDb
type APIHandler struct {
	source      MovieSource
	exposeError bool
	logger      logrus.FieldLogger
}

// NewAPIHandler creates a new API handler. exposeErrors controls whether
// transport error text is included in 500 responses.
func NewAPIHandler(source MovieSource, exposeErrors bool, logger logrus.FieldLogger) *APIHandler {
	return &APIHandler{
		source:      source,
		exposeError: exposeErrors,
		logger:      logger,
	}
}

// GetMovies handles GET /api/getMovies?page=<n>
func (h *APIHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}

	page := r.URL.Query().Get("page")
	if page == "" {
		page = "1"
	}

	log := requestLogger(h.logger, r).WithField("page", page)
	result, err := h.source.PopularMovies(r.Context(), page)
	if err != nil {
		h.writeSourceError(w, log, err)
		return
	}

	switch result.Kind {
	case services.ResultOK:
		log.Debug("Forwarding popular movies page")
		writeRaw(w, http.StatusOK, result.Body)
	case services.ResultTransportError:
		h.writeTransportError(w, log, result.Err)
	default:
		// The list endpoint never reports NotFound, a 404 is a plain rejection.
		message := fmt.Sprintf("Failed to fetch data from TMDb. Status: %d", result.Status)
		if result.Status == http.StatusUnauthorized {
			message = "TMDb API 认证失败。请检查 API 密钥或访问令牌是否正确设置。"
		}
		writeJSON(w, result.Status, models.ErrorEnvelope{
			Message:   message,
			TMDBError: result.Message,
		})
	}
}

// GetMovieDetails handles GET /api/getMovieDetails?id=<id>
func (h *APIHandler) GetMovieDetails(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorEnvelope{Message: "Bad Request: Movie ID is required."})
		return
	}

	log := requestLogger(h.logger, r).WithField("movie_id", id)
	result, err := h.source.MovieDetails(r.Context(), id)
	if err != nil {
		h.writeSourceError(w, log, err)
		return
	}

	switch result.Kind {
	case services.ResultOK:
		writeRaw(w, http.StatusOK, result.Body)
	case services.ResultNotFound:
		writeJSON(w, http.StatusNotFound, models.ErrorEnvelope{
			Message: fmt.Sprintf("Movie with ID %s not found.", id),
		})
	case services.ResultTransportError:
		h.writeTransportError(w, log, result.Err)
	default:
		writeJSON(w, result.Status, models.ErrorEnvelope{
			Message:   fmt.Sprintf("Failed to fetch data from TMDb. Status: %d", result.Status),
			TMDBError: result.Message,
		})
	}
}

func (h *APIHandler) writeSourceError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	if errors.Is(err, services.ErrMissingCredentials) {
		writeJSON(w, http.StatusInternalServerError, models.ErrorEnvelope{
			Message: "Server configuration error: API credentials missing.",
		})
		return
	}
	h.writeTransportError(w, log, err)
}

func (h *APIHandler) writeTransportError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	log.WithError(err).Error("Error fetching from TMDb")

	details := hiddenErrorDetails
	if h.exposeError && err != nil {
		details = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, models.ErrorEnvelope{
		Message:      "Internal Server Error while fetching from TMDb.",
		ErrorDetails: details,
	})
}

// requireGET rejects anything but GET with 405 and an Allow header
func requireGET(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	writeJSON(w, http.StatusMethodNotAllowed, models.ErrorEnvelope{
		Message: fmt.Sprintf("Method %s Not Allowed", r.Method),
	})
	return false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
