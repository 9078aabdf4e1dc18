package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqdiagram/pkg/buildinfo"
	"github.com/matzehuels/seqdiagram/pkg/diagram"
	errs "github.com/matzehuels/seqdiagram/pkg/errors"
	"github.com/matzehuels/seqdiagram/pkg/i18n"
	pkgio "github.com/matzehuels/seqdiagram/pkg/io"
	"github.com/matzehuels/seqdiagram/pkg/pipeline"
)

// formFormats are the downloads offered by the form.
var formFormats = []string{pipeline.FormatPDF, pipeline.FormatSVG, pipeline.FormatPNG}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	lang, err := i18n.ParseLang(r.URL.Query().Get("lang"))
	if err != nil {
		lang = i18n.Default
	}
	f := defaultForm(lang, parseDeviceCount(r.URL.Query().Get("devices")))
	s.writeForm(w, r, http.StatusOK, f, "")
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	f, err := readForm(r.PostForm)
	if err != nil {
		if f.Lang == "" {
			f.Lang = i18n.Default
		}
		if len(f.Devices) == 0 {
			f = defaultForm(f.Lang, pkgio.SampleDevices)
		}
		s.writeForm(w, r, http.StatusUnprocessableEntity, f, errs.UserMessage(err))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = f.Format
	}
	if format == "" {
		format = pipeline.FormatPDF
	}
	if !slices.Contains(formFormats, format) {
		s.writeForm(w, r, http.StatusUnprocessableEntity, f,
			fmt.Sprintf("unsupported download format: %q", format))
		return
	}

	in, err := f.input()
	if err != nil {
		s.writeForm(w, r, http.StatusUnprocessableEntity, f, errs.UserMessage(err))
		return
	}

	data, err := s.render(r.Context(), in, pipeline.Options{Formats: []string{format}}, format)
	switch {
	case err == nil:
	case errs.IsValidation(err):
		s.writeForm(w, r, http.StatusUnprocessableEntity, f, errs.UserMessage(err))
		return
	default:
		s.logger(r).Error("render failed", "err", err)
		s.writeForm(w, r, statusFor(err), f, errs.UserMessage(err))
		return
	}

	writeArtifact(w, pipeline.ViewTiming, format, data)
}

func (s *Server) handleAPIRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	opts, format, err := apiOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := pipeline.Parse(r.Body, pkgio.FormatJSON)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := s.render(r.Context(), in, opts, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, opts.View, format, data)
}

// apiOptions reads the render options from the query string.
func apiOptions(r *http.Request) (pipeline.Options, string, error) {
	q := r.URL.Query()
	opts := pipeline.Options{View: q.Get("view")}
	if opts.View == "" {
		opts.View = pipeline.DefaultView
	}
	format := q.Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	opts.Formats = []string{format}

	var err error
	if opts.Width, err = floatParam(q.Get("width")); err != nil {
		return opts, "", err
	}
	if opts.Height, err = floatParam(q.Get("height")); err != nil {
		return opts, "", err
	}
	if v := q.Get("holds"); v != "" {
		if opts.Holds, err = strconv.ParseBool(v); err != nil {
			return opts, "", errs.New(errs.ErrCodeInvalidInput, "invalid holds value: %q", v)
		}
	}
	return opts, format, opts.ValidateAndSetDefaults()
}

func floatParam(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidInput, "invalid number: %q", s)
	}
	return v, nil
}

func (s *Server) render(ctx context.Context, in diagram.Input, opts pipeline.Options, format string) ([]byte, error) {
	opts.Logger = s.cfg.Logger.With("request_id", RequestIDFromContext(ctx))
	res, err := s.cfg.Runner.Execute(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	return res.Artifacts[format], nil
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) writeForm(w http.ResponseWriter, r *http.Request, status int, f diagramForm, errMsg string) {
	var buf bytes.Buffer
	if err := renderForm(&buf, newFormView(f, errMsg)); err != nil {
		s.logger(r).Error("render form", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeArtifact(w http.ResponseWriter, view, format string, data []byte) {
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pipeline.FileName(view, format)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) logger(r *http.Request) *log.Logger {
	return s.cfg.Logger.With("request_id", RequestIDFromContext(r.Context()))
}

// =============================================================================
// Errors
// =============================================================================

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps an error to an HTTP status. A malformed definition is a
// bad request; any other validation failure is unprocessable.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errs.Is(err, errs.ErrCodeInvalidDefinition):
		return http.StatusBadRequest
	case errs.IsValidation(err):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errs.GetCode(err)
	msg := errs.UserMessage(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger(r).Error("request failed", "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      string(code),
		Message:   msg,
		RequestID: RequestIDFromContext(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
