package main

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"impractical.co/recinject"
)

var (
	serveAddr string
	serveRoot string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a site directory, assembling .html pages on the fly",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address")
	serveCmd.Flags().StringVar(&serveRoot, "root", "", "site directory")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("addr") {
		cfg.Addr = serveAddr
	}
	if cmd.Flags().Changed("root") {
		cfg.Root = serveRoot
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newServer(os.DirFS(cfg.Root), cfg, slog.Default()),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	slog.Info("serving site", "addr", cfg.Addr, "root", cfg.Root)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type server struct {
	fsys  fs.FS
	cfg   Config
	log   *slog.Logger
	files http.Handler
}

// newServer returns the router for a site rooted at fsys. Pages are assembled
// against the server's own origin, or cfg.BaseURL when set, so the shared
// template and the hero images are fetched through the same server.
func newServer(fsys fs.FS, cfg Config, log *slog.Logger) http.Handler {
	s := &server{
		fsys:  fsys,
		cfg:   cfg,
		log:   log,
		files: http.FileServerFS(fsys),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/*", s.handle)
	return r
}

func (s *server) handle(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" || strings.HasSuffix(r.URL.Path, "/") {
		name = path.Join(name, "index.html")
	}
	if path.Ext(name) != ".html" || r.URL.Query().Get("raw") != "" {
		s.files.ServeHTTP(w, r)
		return
	}

	markup, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		s.log.Error("error reading page", "page", name, "error", err)
		http.Error(w, "Server error.", http.StatusInternalServerError)
		return
	}

	page, err := recinject.ParsePage(s.pageURL(r, name), bytes.NewReader(markup))
	if err != nil {
		s.log.Error("error parsing page", "page", name, "error", err)
		http.Error(w, "Server error.", http.StatusInternalServerError)
		return
	}

	ctx := recinject.LoggingContext(r.Context(), s.log.With("page", name, "request_id", middleware.GetReqID(r.Context())))
	var out bytes.Buffer
	if err := recinject.Render(ctx, &out, s.cfg.site(), page); err != nil {
		// the page carries the notice, serve it anyway
		w.Header().Set("X-Recinject-Error", "true")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(out.Bytes())
}

func (s *server) pageURL(r *http.Request, name string) string {
	if s.cfg.BaseURL != "" {
		return strings.TrimSuffix(s.cfg.BaseURL, "/") + "/" + name
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/" + name
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
