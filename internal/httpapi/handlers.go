package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/bundlecore/signer-core/internal/signertypes"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
	recordRequest(http.StatusOK, "status")
}

func (s *Server) handleGetPubkeys(w http.ResponseWriter, r *http.Request) {
	moduleID, _ := ModuleIDFromContext(r.Context())

	maps, err := s.manager.ConsensusProxyMaps(r.Context(), moduleID)
	if err != nil {
		s.writeError(w, r, signertypes.AsSignerError(err))
		return
	}

	s.writeJSON(w, r, "get_pubkeys", http.StatusOK, signertypes.GetPubkeysResponse{Keys: maps})
}

func (s *Server) handleRequestSignature(w http.ResponseWriter, r *http.Request) {
	moduleID, _ := ModuleIDFromContext(r.Context())

	var req signertypes.SignatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, signertypes.ErrInternalf("decoding request body: %v", err))
		return
	}

	var (
		sig []byte
		err error
	)
	switch req.Kind {
	case signertypes.KindConsensus:
		sig, err = s.manager.SignConsensus(r.Context(), req.PubKey, req.ObjectRoot)
	case signertypes.KindProxyBLS:
		if !s.manager.HasProxyBLS(req.PubKey, moduleID) {
			s.writeError(w, r, signertypes.ErrUnknownProxySigner(req.PubKey))
			return
		}
		sig, err = s.manager.SignProxyBLS(r.Context(), req.PubKey, req.ObjectRoot)
	case signertypes.KindProxyECDSA:
		if !s.manager.HasProxyECDSA(req.PubKey, moduleID) {
			s.writeError(w, r, signertypes.ErrUnknownProxySigner(req.PubKey))
			return
		}
		sig, err = s.manager.SignProxyECDSA(r.Context(), req.PubKey, req.ObjectRoot)
	default:
		s.writeError(w, r, signertypes.ErrInternal("unrecognized signature request kind"))
		return
	}
	if err != nil {
		s.writeError(w, r, signertypes.AsSignerError(err))
		return
	}

	s.writeJSON(w, r, "request_signature", http.StatusOK, signertypes.SignatureResponse{Signature: sig})
}

func (s *Server) handleGenerateProxyKey(w http.ResponseWriter, r *http.Request) {
	moduleID, _ := ModuleIDFromContext(r.Context())

	var req signertypes.GenerateProxyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, signertypes.ErrInternalf("decoding request body: %v", err))
		return
	}

	var (
		delegation signertypes.SignedProxyDelegation
		err        error
	)
	switch req.Scheme {
	case signertypes.SchemeBLS:
		delegation, err = s.manager.GenerateProxyBLS(r.Context(), moduleID, req.ConsensusPubkey)
	case signertypes.SchemeECDSA:
		delegation, err = s.manager.GenerateProxyECDSA(r.Context(), moduleID, req.ConsensusPubkey)
	default:
		s.writeError(w, r, signertypes.ErrInternalf("unrecognized scheme %q", req.Scheme))
		return
	}
	if err != nil {
		s.writeError(w, r, signertypes.AsSignerError(err))
		return
	}

	s.writeJSON(w, r, "generate_proxy_key", http.StatusOK, delegation)
}
