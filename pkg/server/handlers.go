package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/bdekoz/izzi/pkg/buildinfo"
	"github.com/bdekoz/izzi/pkg/errors"
	izziio "github.com/bdekoz/izzi/pkg/io"
	"github.com/bdekoz/izzi/pkg/pipeline"
	"github.com/bdekoz/izzi/pkg/radial"
)

// Request is the body of both POST routes. Values, title, value_max,
// states and default_state follow the dataset document format.
type Request struct {
	Values       json.RawMessage   `json:"values"`
	Title        string            `json:"title,omitempty"`
	ValueMax     float64           `json:"value_max,omitempty"`
	States       map[string]string `json:"states,omitempty"`
	DefaultState string            `json:"default_state,omitempty"`
	Config       json.RawMessage   `json:"config,omitempty"`
	Formats      []string          `json:"formats,omitempty"`
	Refresh      bool              `json:"refresh,omitempty"`
}

// Stats summarizes a computed layout.
type Stats struct {
	IDs        int `json:"ids"`
	Placements int `json:"placements"`
	Promoted   int `json:"promoted"`
	Elided     int `json:"elided"`
}

// LayoutResponse is the body of a successful POST /v1/layout.
type LayoutResponse struct {
	RequestID string        `json:"request_id"`
	DataHash  string        `json:"data_hash"`
	Cached    bool          `json:"cached"`
	Stats     Stats         `json:"stats"`
	Layout    radial.Layout `json:"layout"`
}

// RenderResponse is the body of a POST /v1/render asking for more than one
// format. Artifacts are base64 encoded.
type RenderResponse struct {
	RequestID  string            `json:"request_id"`
	LayoutHash string            `json:"layout_hash"`
	Cached     bool              `json:"cached"`
	Stats      Stats             `json:"stats"`
	Artifacts  map[string][]byte `json:"artifacts"`
}

// ErrorResponse is the body of every error.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Response headers set by POST /v1/render for single-format responses.
const (
	CacheHeader      = "X-Izzi-Cache"
	LayoutHashHeader = "X-Izzi-Layout-Hash"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Current()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	pairs, opts, err := s.decode(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), pairs, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, LayoutResponse{
		RequestID: RequestIDFrom(r.Context()),
		DataHash:  pipeline.HashPairs(pairs),
		Cached:    hit,
		Stats:     statsFor(len(pairs), l),
		Layout:    l,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	pairs, opts, err := s.decode(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), pairs, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cached := res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit

	if len(opts.Formats) == 1 {
		format := opts.Formats[0]
		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set(LayoutHashHeader, res.LayoutHash)
		if cached {
			w.Header().Set(CacheHeader, "hit")
		} else {
			w.Header().Set(CacheHeader, "miss")
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(res.Artifacts[format]); err != nil {
			s.logger.Warn("write response", "err", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, RenderResponse{
		RequestID:  RequestIDFrom(r.Context()),
		LayoutHash: res.LayoutHash,
		Cached:     cached,
		Stats:      statsFor(res.Stats.IDs, res.Layout),
		Artifacts:  res.Artifacts,
	})
}

// decode reads the request body into pairs and pipeline options.
func (s *Server) decode(r *http.Request) ([]radial.Pair, pipeline.Options, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	if len(req.Values) == 0 || bytes.Equal(bytes.TrimSpace(req.Values), []byte("null")) {
		return nil, pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "values is required")
	}

	// The body is a dataset document; unrelated keys are ignored there.
	ds, err := izziio.ReadDataset(bytes.NewReader(body), izziio.FormatJSON)
	if err != nil {
		return nil, pipeline.Options{}, err
	}

	cfg, err := s.cfg.Overlay(req.Config)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	if cfg.Typography.FontFile != s.cfg.Typography.FontFile {
		return nil, pipeline.Options{}, errors.New(errors.ErrCodeInvalidConfig, "typography.font_file cannot be set per request")
	}
	opts, err := pipeline.FromConfig(cfg)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	opts.ApplyDataset(ds)
	if len(req.Formats) > 0 {
		opts.Formats = req.Formats
	}
	opts.Refresh = req.Refresh
	opts.Logger = s.logger.With("request_id", RequestIDFrom(r.Context()))
	return ds.Values, opts, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", RequestIDFrom(r.Context()), "err", err)
	}
	code := string(errors.GetCode(err))
	if code == "" {
		code = codeForStatus(status)
	}
	respondError(w, r, status, code, errors.UserMessage(err))
}

// statusFor maps an error to its HTTP status. Caller mistakes are 400s.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.IsPrecondition(err):
		return http.StatusBadRequest
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidStyle,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case http.StatusServiceUnavailable:
		return "TIMEOUT"
	}
	return string(errors.ErrCodeInternal)
}

func statsFor(ids int, l radial.Layout) Stats {
	st := Stats{IDs: ids, Placements: len(l.Placements), Elided: len(l.Elided)}
	for _, p := range l.Placements {
		if p.Promoted {
			st.Promoted++
		}
	}
	return st
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent, so an encode failure cannot be reported.
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: RequestIDFrom(r.Context()),
	})
}
