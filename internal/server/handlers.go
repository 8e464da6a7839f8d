package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/matrixplot/pkg/buildinfo"
	"github.com/matzehuels/matrixplot/pkg/errors"
	mio "github.com/matzehuels/matrixplot/pkg/io"
	"github.com/matzehuels/matrixplot/pkg/pipeline"
	"github.com/matzehuels/matrixplot/pkg/plot"
	"github.com/matzehuels/matrixplot/pkg/plot/sink"
)

// Response headers describing a rendered image.
const (
	headerCache        = "X-Cache"
	headerDocumentHash = "X-Document-Hash"
	headerExtrema      = "X-Extrema"
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := parseOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := inputFormat(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	doc, err := mio.Decode(body, f)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeAPIError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE",
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, doc, opts)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	if err := errors.ValidatePath(rel); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := parseOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.runner.Import(r.Context(), filepath.Join(s.cfg.Root, filepath.FromSlash(rel)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, doc, opts)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, doc *mio.Document, opts pipeline.Options) {
	opts.Logger = loggerFromRequest(r, s.cfg.Logger)
	opts.MaxCells = s.cfg.MaxCells
	result, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", result.Format.ContentType())
	h.Set("Content-Length", strconv.Itoa(len(result.Artifact)))
	if result.CacheHit {
		h.Set(headerCache, "HIT")
	} else {
		h.Set(headerCache, "MISS")
	}
	if result.DocumentHash != "" {
		h.Set(headerDocumentHash, result.DocumentHash)
	}
	h.Set(headerExtrema, fmt.Sprintf("%g,%g", result.Extrema.Min, result.Extrema.Max))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifact)
}

// parseOptions reads render options from query parameters on top of
// [plot.DefaultConfig].
func parseOptions(q url.Values) (pipeline.Options, error) {
	opts := pipeline.Options{Config: plot.DefaultConfig()}

	if v := q.Get("format"); v != "" {
		f, err := sink.ParseFormat(v)
		if err != nil {
			return opts, err
		}
		opts.Format = f
	}
	if v := q.Get("scale"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidScalingFactor, "scale %q is not an integer", v)
		}
		opts.Config.ScalingFactor = k
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"color", &opts.Config.WithColor},
		{"annotate", &opts.Config.AnnotateImage},
		{"diagonal", &opts.Config.DrawDiagonal},
		{"boundaries", &opts.Config.DrawBoundaries},
		{"strict", &opts.Config.StrictBoundaries},
		{"refresh", &opts.Refresh},
	}
	for _, fl := range flags {
		v := q.Get(fl.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s=%q is not a boolean", fl.name, v)
		}
		*fl.dst = b
	}
	return opts, opts.Config.Validate()
}

// inputFormat picks the body format from ?input=, then Content-Type.
func inputFormat(r *http.Request) (mio.Format, error) {
	if v := r.URL.Query().Get("input"); v != "" {
		switch f := mio.Format(strings.ToLower(v)); f {
		case mio.FormatJSON, mio.FormatTOML, mio.FormatMatrixMarket:
			return f, nil
		}
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q", v)
	}

	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return mio.FormatJSON, nil
	}
	switch mt {
	case "application/toml", "text/toml":
		return mio.FormatTOML, nil
	case "text/x-matrix-market", "application/x-matrix-market":
		return mio.FormatMatrixMarket, nil
	}
	return mio.FormatJSON, nil
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidDimensions, errors.ErrCodeInvalidScalingFactor,
		errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidPath, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNormalization:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		loggerFromRequest(r, s.cfg.Logger).Error("request failed", "err", err)
		msg = "internal error"
	}
	writeAPIError(w, status, string(code), msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
