package scriptgate

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"zliu.org/goutil/rest"
)

// Server exposes the static index page and the script execution gateway.
type Server struct {
	allow     *AllowList
	runner    Runner
	staticDir string
	logger    *zerolog.Logger
}

// NewServer creates a server that runs scripts from allow through runner
// and serves static assets from staticDir.
func NewServer(allow *AllowList, runner Runner, staticDir string) *Server {
	return &Server{
		allow:     allow,
		runner:    runner,
		staticDir: staticDir,
	}
}

// AllowList returns the scripts this server may run.
func (s *Server) AllowList() *AllowList {
	return s.allow
}

// WithLogger sets the logger used by the request middleware.
func (s *Server) WithLogger(l zerolog.Logger) *Server {
	s.logger = &l
	return s
}

// Router returns the bare route table without middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.HandleIndex).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/run", s.HandleRun).Methods(http.MethodPost)
	r.PathPrefix("/static/").
		Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir)))).
		Methods(http.MethodGet, http.MethodHead)
	return r
}

// Handler returns the router wrapped in logging and request id middleware.
func (s *Server) Handler() http.Handler {
	logger := s.logger
	if logger == nil {
		logger = GetZlog()
	}
	chain := alice.New(
		hlog.NewHandler(*logger),
		hlog.RemoteAddrHandler("addr"),
		hlog.RequestIDHandler("req_id", "X-Request-Id"),
		hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Str("uri", r.RequestURI).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("request")
		}),
	)
	return chain.Then(s.Router())
}

// HandleIndex serves index.html from the static directory.
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
}

// HandleRun validates the requested script against the allow-list and runs it.
// Example: POST /run {"script": "script.py"}
func (s *Server) HandleRun(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read run request")
		rest.ErrBadRequest(w, fmt.Sprintf("Failed to read request body: %s", err.Error()))
		return
	}
	req, err := DecodeRequest(body)
	if err != nil {
		log.Warn().Err(err).Msg("Malformed run request")
		rest.ErrBadRequest(w, fmt.Sprintf("Malformed request body: %s", err.Error()))
		return
	}

	name, ok := req.ScriptName()
	if !ok || !s.allow.Allowed(name) {
		log.Warn().Str("script", name).Bool("is_string", ok).Msg("Script not allowed")
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: notAllowedMessage})
		return
	}

	start := time.Now()
	res, err := s.runner.Run(r.Context(), name)
	if err != nil {
		log.Error().Str("script", name).Err(err).Msg("Failed to execute script")
		rest.ErrInternalServer(w, fmt.Sprintf("Failed to execute script: %s", err.Error()))
		return
	}
	log.Info().Str("script", name).Int("exit_code", res.ExitCode).
		Dur("took", time.Since(start)).Msg("Script finished")

	if !res.Succeeded() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: res.Stderr})
		return
	}
	writeJSON(w, http.StatusOK, RunResponse{Output: res.Stdout})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		rest.ErrInternalServer(w, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	rest.MustWriteJSONBytes(w, b)
}
