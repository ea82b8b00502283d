// Package httpapi is the Signing Service HTTP surface of spec §4.1:
// four API routes plus /metrics on a bare http.ServeMux (the teacher never reaches for a
// router framework — see internal/flashbots/relay.go), a bearer-token
// auth middleware, JSON bodies with 0x-hex byte fields, and a
// Prometheus counter over (status_code, uri_tag).
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bundlecore/signer-core/internal/manager"
	"github.com/bundlecore/signer-core/internal/signertypes"
)

// Server is the signing service's HTTP surface.
type Server struct {
	manager *manager.Manager
	tokens  map[string]signertypes.ModuleID
	log     *zap.SugaredLogger
	mux     *http.ServeMux
}

// New builds a Server over mgr, authorizing callers via tokens (bearer
// token -> module id).
func New(mgr *manager.Manager, tokens map[string]signertypes.ModuleID, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{manager: mgr, tokens: tokens, log: log, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /status", s.handleStatus)
	s.mux.HandleFunc("GET /get_pubkeys", s.jwtAuth(s.handleGetPubkeys))
	s.mux.HandleFunc("POST /request_signature", s.jwtAuth(s.handleRequestSignature))
	s.mux.HandleFunc("POST /generate_proxy_key", s.jwtAuth(s.handleGenerateProxyKey))
	s.mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, uriTag string, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Errorw("failed writing response body", "uri_tag", uriTag, "err", err)
	}
	recordRequest(statusCode, uriTag)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err *signertypes.Error) {
	uriTag := r.URL.Path
	statusCode := err.StatusCode()
	if statusCode >= http.StatusInternalServerError {
		s.log.Errorw("signer request failed", "uri_tag", uriTag, "err", err.Message)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.PublicBody()})
	recordRequest(statusCode, uriTag)
}
