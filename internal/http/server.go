package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"networth/internal/core"
	"networth/internal/log"
	"networth/internal/middleware/security"
	"networth/internal/middleware/trace"
	"networth/internal/services"
	appweb "networth/web"
)

// LineItemService is what the handlers need from the service layer.
type LineItemService interface {
	ListAll(ctx context.Context) ([]core.LineItem, error)
	Get(ctx context.Context, id int64) (core.LineItem, error)
	Create(ctx context.Context, in core.LineItemInput) (core.LineItem, error)
	Update(ctx context.Context, id int64, in core.LineItemInput) error
	Delete(ctx context.Context, id int64) error
	Summary(ctx context.Context) (services.Summary, error)
	Ready(ctx context.Context) error
}

type Server struct {
	http.Server
	templates *template.Template
	svc       LineItemService
	logger    *log.Logger
	currency  string
	started   time.Time

	traceMiddleware *trace.Middleware

	shutdownOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCurrency sets the ISO currency used to display amounts.
func WithCurrency(code string) Option {
	return func(s *Server) {
		if code != "" {
			s.currency = code
		}
	}
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, svc LineItemService, opts ...Option) *Server {
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		svc:      svc,
		logger:   log.Default(),
		currency: "EUR",
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentHTTP)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	clientIP := security.NewClientIPResolver()
	s.traceMiddleware = trace.NewMiddleware(s.logger, clientIP.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	app := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		app.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	// Pages and partials
	app.HandleFunc("GET /{$}", s.handleIndex)
	app.HandleFunc("GET /ui/items", s.handleItemsPartial)
	app.HandleFunc("GET /ui/items/{id}/edit", s.handleEditPartial)
	app.HandleFunc("GET /ui/summary", s.handleSummaryPartial)

	// Line item mutations and lookups
	app.HandleFunc("POST /items", s.handleCreate)
	app.HandleFunc("GET /items/{id}", s.handleGet)
	app.HandleFunc("POST /items/{id}", s.handleUpdate)
	app.HandleFunc("PUT /items/{id}", s.handleUpdate)
	app.HandleFunc("DELETE /items/{id}", s.handleDelete)
	app.HandleFunc("POST /items/{id}/delete", s.handleDelete)

	// JSON API
	app.HandleFunc("GET /api/items", s.handleAPIItems)
	app.HandleFunc("GET /api/totals", s.handleAPITotals)
	app.HandleFunc("GET /api/composition", s.handleAPIComposition)

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", s.handleHealth)
	root.HandleFunc("GET /readyz", s.handleReady)
	root.Handle("/", s.traceMiddleware.Middleware(headers.Middleware(app)))

	s.Handler = root
	return s
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// renderPartial executes a named template, reporting failures as a fragment.
func (s *Server) renderPartial(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		InternalServerError("templates not loaded").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed", "template", name, log.FieldError, err)
	}
}

// writeError reports err as JSON or an HTML fragment depending on the caller,
// logging anything that is not the caller's fault.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, asJSON bool, op string, err error) {
	status := statusForError(err)
	msg := publicMessage(err)

	if status >= http.StatusInternalServerError {
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Line item request failed", err, op, log.NewFields().WithComponent(log.ComponentHTTP))
	}

	if asJSON {
		JSONErrorResponse(status, msg).Write(w)
		return
	}
	b := ErrorResponse(status, msg)
	if status >= http.StatusInternalServerError {
		b.TriggerErrorNotification(msg)
	}
	b.Write(w)
}

func (s *Server) writeBadBody(w http.ResponseWriter, asJSON bool) {
	if asJSON {
		JSONErrorResponse(http.StatusBadRequest, "invalid request body").Write(w)
		return
	}
	BadRequestError("Invalid request body").Write(w)
}
