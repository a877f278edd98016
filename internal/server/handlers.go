package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	resultview "github.com/alnah/go-resultview"
	"github.com/alnah/go-resultview/internal/metrics"
	"github.com/alnah/go-resultview/internal/searchclient"
)

// pageData feeds the search template.
type pageData struct {
	CSS         template.CSS
	Request     resultview.SearchRequest
	Modes       []resultview.Mode
	SortOptions []string
	MinCount    int
	MaxCount    int
	Error       string
	Searched    bool
	Result      template.HTML
}

func (s *Server) newPage(req resultview.SearchRequest) pageData {
	return pageData{
		CSS:         template.CSS(s.css), // #nosec G203 -- operator-supplied style
		Request:     req,
		Modes:       resultview.Modes,
		SortOptions: resultview.SortOptions,
		MinCount:    resultview.MinCount,
		MaxCount:    resultview.MaxCount,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	req := resultview.SearchRequest{Email: s.email}.WithDefaults()
	s.writePage(w, r, http.StatusOK, s.newPage(req))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	req, err := s.parseForm(r)
	page := s.newPage(req)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		s.observeSearch(req.Mode, metrics.StatusInvalid, 0)
		page.Error = userMessage(err)
		s.writePage(w, r, http.StatusBadRequest, page)
		return
	}

	start := s.now()
	res, err := s.searcher.Search(r.Context(), req)
	if err != nil {
		status, label := classify(err)
		s.observeSearch(req.Mode, label, s.now().Sub(start))
		s.log.Warn("search failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("mode", string(req.Mode)),
			zap.Error(err))
		page.Error = userMessage(err)
		s.writePage(w, r, status, page)
		return
	}
	s.observeSearch(req.Mode, metrics.StatusSuccess, s.now().Sub(start))

	start = s.now()
	rendered, err := s.renderer.Render(r.Context(), resultview.Input{Result: *res})
	if err != nil {
		s.log.Error("render failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err))
		page.Error = defaultMessage
		s.writePage(w, r, http.StatusInternalServerError, page)
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveRender(string(res.Mode), string(s.renderer.Engine()), "html", s.now().Sub(start))
	}

	page.Searched = true
	page.Result = template.HTML(rendered.Fragment) // #nosec G203 -- produced by escaping renderer
	s.writePage(w, r, http.StatusOK, page)
}

// parseForm reads the search form. The request it returns is echoed back
// into the form even when err is set.
func (s *Server) parseForm(r *http.Request) (resultview.SearchRequest, error) {
	if err := r.ParseForm(); err != nil {
		return resultview.SearchRequest{}.WithDefaults(), err
	}

	req := resultview.SearchRequest{
		Term:   strings.TrimSpace(r.PostFormValue("searchterm")),
		Mode:   resultview.Mode(strings.ToLower(strings.TrimSpace(r.PostFormValue("mode")))),
		SortBy: strings.TrimSpace(r.PostFormValue("sortby")),
		Email:  strings.TrimSpace(r.PostFormValue("email")),
	}
	if req.Email == "" {
		req.Email = s.email
	}

	var countErr error
	if raw := strings.TrimSpace(r.PostFormValue("searchnumber")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			countErr = resultview.ErrInvalidCount
		}
		req.Count = n
	}
	return req.WithDefaults(), countErr
}

// writePage renders into a buffer first so a template error still yields
// a clean 500.
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.log.Error("executing search page",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err))
		http.Error(w, defaultMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "healthy", Version: s.version})
}

func (s *Server) observeSearch(mode resultview.Mode, status string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveSearch(string(mode), status, d)
	}
}

// Messages shown on the search page.
const (
	defaultMessage     = "An error occurred during search"
	unauthorizedMsg    = "The search service rejected the server's credentials."
	unavailableMessage = "The search service is unavailable. Please try again later."
)

// userMessage maps err to one line suitable for the page. Validation errors
// use the same wording as the search API.
func userMessage(err error) string {
	var apiErr *searchclient.APIError
	switch {
	case errors.Is(err, resultview.ErrEmptyTerm):
		return "searchterm is required"
	case errors.Is(err, resultview.ErrInvalidMode):
		return "Invalid mode. Must be one of: " + joinModes()
	case errors.Is(err, resultview.ErrInvalidSortBy):
		return "Invalid sortby. Must be one of: " + strings.Join(resultview.SortOptions, ", ")
	case errors.Is(err, resultview.ErrInvalidCount):
		return "searchnumber must be between 1 and 100"
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, searchclient.ErrUnauthorized):
		return unauthorizedMsg
	case errors.Is(err, searchclient.ErrUnreachable):
		return unavailableMessage
	default:
		return defaultMessage
	}
}

func joinModes() string {
	names := make([]string, len(resultview.Modes))
	for i, m := range resultview.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// classify picks the response status and the search metric label for err.
func classify(err error) (int, string) {
	var apiErr *searchclient.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest:
		return http.StatusBadRequest, metrics.StatusInvalid
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, metrics.StatusAPI
	case errors.Is(err, searchclient.ErrUnauthorized):
		return http.StatusBadGateway, metrics.StatusAuth
	case errors.Is(err, searchclient.ErrUnreachable):
		return http.StatusServiceUnavailable, metrics.StatusFailed
	default:
		return http.StatusBadGateway, metrics.StatusFailed
	}
}
