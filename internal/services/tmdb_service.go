package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/liamwears/reelbrowser/internal/metrics"
)

// ErrMissingCredentials is returned before any network call when neither an
// API key nor an access token is configured.
var ErrMissingCredentials = errors.New("tmdb: no API key or access token configured")

// UnknownUpstreamError replaces status_message when an error body can't be parsed
const UnknownUpstreamError = "Unknown TMDb error"

// CredentialMode is how outbound TMDb requests are authenticated
type CredentialMode int

const (
	CredentialNone CredentialMode = iota
	CredentialAPIKey
	CredentialAccessToken
)

func (m CredentialMode) String() string {
	switch m {
	case CredentialAPIKey:
		return "api_key"
	case CredentialAccessToken:
		return "access_token"
	default:
		return "missing"
	}
}

// Resource names the TMDb resource a request targets
type Resource string

const (
	ResourcePopularMovies Resource = "popular"
	ResourceMovieDetails  Resource = "details"
)

// ResultKind tags the variant held by a Result
type ResultKind int

const (
	ResultOK ResultKind = iota
	ResultNotFound
	ResultRejected
	ResultTransportError
)

func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultNotFound:
		return "not_found"
	case ResultRejected:
		return "rejected"
	default:
		return "transport_error"
	}
}

// Result is the outcome of one TMDb call.
//
//	ResultOK             Body holds the raw upstream JSON
//	ResultNotFound       movie-details returned 404
//	ResultRejected       Status and Message carry the upstream failure
//	ResultTransportError Err holds the network-level failure
type Result struct {
	Kind    ResultKind
	Status  int
	Body    []byte
	Message string
	Err     error
}

// TMDBConfig holds TMDB service configuration
type TMDBConfig struct {
	APIKey      string
	AccessToken string
	BaseURL     string
	Language    string
	Timeout     time.Duration
	// HTTPClient overrides the base client used for outbound calls.
	HTTPClient *http.Client
}

// Mode reports which credential the service will use. An access token wins
// over an API key when both are set.
func (c TMDBConfig) Mode() CredentialMode {
	switch {
	case c.AccessToken != "":
		return CredentialAccessToken
	case c.APIKey != "":
		return CredentialAPIKey
	default:
		return CredentialNone
	}
}

// TMDBService handles interactions with The Movie Database API
type TMDBService struct {
	client     *http.Client
	mode       CredentialMode
	apiKey     string
	credential string
	baseURL    string
	language   string
	logger     logrus.FieldLogger
	metrics    *metrics.Metrics
}

// NewTMDBService creates a new TMDB service
func NewTMDBService(cfg TMDBConfig, logger logrus.FieldLogger, m *metrics.Metrics) *TMDBService {
	base := cfg.HTTPClient
	if base == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		base = &http.Client{Timeout: timeout}
	}

	s := &TMDBService{
		client:   base,
		mode:     cfg.Mode(),
		baseURL:  cfg.BaseURL,
		language: cfg.Language,
		logger:   logger.WithField("component", "tmdb"),
		metrics:  m,
	}

	switch s.mode {
	case CredentialAccessToken:
		// The oauth2 transport sets "Authorization: Bearer <token>" on every request.
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		s.client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.AccessToken,
			TokenType:   "Bearer",
		}))
		s.credential = cfg.AccessToken
	case CredentialAPIKey:
		s.apiKey = cfg.APIKey
		s.credential = cfg.APIKey
	}

	s.logger.WithFields(logrus.Fields{
		"credential_mode": s.mode.String(),
		"credential":      Fingerprint(s.credential),
	}).Info("TMDb client configured")

	return s
}

// Mode returns the credential mode chosen at construction
func (s *TMDBService) Mode() CredentialMode {
	return s.mode
}

// PopularMovies fetches one page of /movie/popular. page is forwarded as-is.
func (s *TMDBService) PopularMovies(ctx context.Context, page string) (*Result, error) {
	params := url.Values{}
	params.Set("page", page)
	return s.doRequest(ctx, ResourcePopularMovies, "/movie/popular", params)
}

// MovieDetails fetches one movie with its credits appended in the same call
func (s *TMDBService) MovieDetails(ctx context.Context, id string) (*Result, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits")
	return s.doRequest(ctx, ResourceMovieDetails, "/movie/"+url.PathEscape(id), params)
}

// doRequest performs an HTTP request to TMDB API
func (s *TMDBService) doRequest(ctx context.Context, resource Resource, endpoint string, params url.Values) (*Result, error) {
	if s.mode == CredentialNone {
		s.logger.WithField("resource", resource).Error("TMDb credentials not configured")
		return nil, ErrMissingCredentials
	}

	if s.language != "" {
		params.Set("language", s.language)
	}
	log := s.logger.WithFields(logrus.Fields{
		"resource":        resource,
		"endpoint":        endpoint,
		"credential_mode": s.mode.String(),
	})

	// The key is added after the loggable fields are captured.
	if s.mode == CredentialAPIKey {
		params.Set("api_key", s.apiKey)
	}
	rawURL := fmt.Sprintf("%s%s?%s", s.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return s.finish(resource, &Result{Kind: ResultTransportError, Err: fmt.Errorf("failed to create request: %w", err)}), nil
	}
	req.Header.Set("Accept", "application/json")

	log.Debug("Fetching TMDb resource")

	resp, err := s.client.Do(req)
	if err != nil {
		log.WithError(redactURLError(err)).Error("TMDb request failed")
		return s.finish(resource, &Result{Kind: ResultTransportError, Err: fmt.Errorf("failed to execute request: %w", redactURLError(err))}), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Error("Failed to read TMDb response")
		return s.finish(resource, &Result{Kind: ResultTransportError, Err: fmt.Errorf("failed to read response body: %w", err)}), nil
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return s.finish(resource, &Result{Kind: ResultOK, Status: resp.StatusCode, Body: body}), nil
	}

	result := &Result{
		Kind:    ResultRejected,
		Status:  resp.StatusCode,
		Message: statusMessage(body),
	}
	if resp.StatusCode == http.StatusNotFound && resource == ResourceMovieDetails {
		result.Kind = ResultNotFound
	}

	entry := log.WithFields(logrus.Fields{
		"status":         resp.StatusCode,
		"status_message": result.Message,
	})
	if resp.StatusCode == http.StatusUnauthorized {
		entry = entry.WithField("credential", Fingerprint(s.credential))
	}
	entry.Warn("TMDb request rejected")

	return s.finish(resource, result), nil
}

func (s *TMDBService) finish(resource Resource, result *Result) *Result {
	s.metrics.ObserveUpstream(string(resource), result.Kind.String())
	return result
}

// statusMessage extracts status_message from a TMDb error body
func statusMessage(body []byte) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.StatusMessage == "" {
		return UnknownUpstreamError
	}
	return payload.StatusMessage
}

// redactURLError strips the request URL, which may carry api_key, from
// errors returned by http.Client.
func redactURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

// Fingerprint shortens a secret to its first and last four characters
func Fingerprint(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
