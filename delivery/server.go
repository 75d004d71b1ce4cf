// Package delivery serves composed reports over HTTP.
//
//	GET /healthz                 liveness probe
//	GET /reports                 case IDs, when the provider can list them
//	GET /reports/{caseID}.pdf    the printable document
//	GET /reports/{caseID}.md     a Markdown pagination preview
//	GET /reports/{caseID}.json   the layout plan
//
// A request without an extension gets the PDF.
package delivery

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	cerco "github.com/lgodoyplay/cerco-sub000"
	"github.com/lgodoyplay/cerco-sub000/format"
	"github.com/lgodoyplay/cerco-sub000/layout"
	"github.com/lgodoyplay/cerco-sub000/provider"
	"github.com/lgodoyplay/cerco-sub000/render"
)

// Response headers describing the composed report
const (
	HeaderWarnings   = "X-Report-Warnings"
	HeaderPages      = "X-Report-Pages"
	HeaderDocumentID = "X-Document-ID"
)

// Server composes reports on request.
type Server struct {
	provider provider.Provider
	composer *layout.Composer
	logger   *zap.Logger
	pdf      []render.PDFOption
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithPDFOptions sets the options of the PDF backend.
func WithPDFOptions(opts ...render.PDFOption) Option {
	return func(s *Server) {
		s.pdf = append(s.pdf, opts...)
	}
}

// NewServer creates a server reading reports from p and laying them out
// with c. The composer is shared by all requests.
func NewServer(p provider.Provider, c *layout.Composer, opts ...Option) *Server {
	s := &Server{
		provider: p,
		composer: c,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.URLFormat)
		r.Get("/", s.handleList)
		r.Get("/{caseID}", s.handleReport)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.provider.(provider.Lister)
	if !ok {
		http.Error(w, "listing is not supported by this provider", http.StatusNotImplemented)
		return
	}

	ids, err := lister.CaseIDs(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{"reports": ids})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	ext, _ := r.Context().Value(middleware.URLFormatCtxKey).(string)
	if ext == "" {
		ext = "pdf"
	}

	renderer, err := s.renderer(ext)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	report, err := s.provider.Report(r.Context(), caseID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	plan, warnings, err := s.composer.Compose(report)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	for _, wn := range warnings {
		s.logger.Warn("Report degraded",
			zap.String("case", caseID),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Stringer("warning", wn))
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, plan); err != nil {
		s.fail(w, r, fmt.Errorf("render %s: %w", renderer.Format(), err))
		return
	}

	h := w.Header()
	h.Set("Content-Type", renderer.Format().ContentType())
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	h.Set(HeaderWarnings, strconv.Itoa(len(warnings)))
	h.Set(HeaderPages, strconv.Itoa(plan.TotalPages))
	h.Set(HeaderDocumentID, plan.DocumentID)
	if ext == "pdf" {
		h.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", cerco.FileName(plan.Meta.CaseID, format.PDF)))
	}
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderer(ext string) (render.Renderer, error) {
	if ext == "pdf" {
		return render.NewPDF(s.pdf...), nil
	}
	return render.ForFormat(ext)
}

// fail maps err to a status code and logs server-side failures.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Report request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}

// StatusFor returns the HTTP status for an error from the provider, the
// composer or a renderer.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, provider.ErrNotFound), errors.Is(err, render.ErrUnknownFormat):
		return http.StatusNotFound
	case errors.Is(err, layout.ErrInvalidReport), errors.Is(err, provider.ErrInvalidDocument):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
