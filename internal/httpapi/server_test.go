package httpapi

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bundlecore/signer-core/internal/blskeys"
	"github.com/bundlecore/signer-core/internal/chain"
	"github.com/bundlecore/signer-core/internal/localsigner"
	"github.com/bundlecore/signer-core/internal/manager"
	"github.com/bundlecore/signer-core/internal/proxystore"
	"github.com/bundlecore/signer-core/internal/signertypes"
)

func hexString(b []byte) string { return hex.EncodeToString(b) }

func newTestServer(t *testing.T) (*httptest.Server, []byte) {
	t.Helper()
	store, err := proxystore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	backend := localsigner.New(chain.Holesky, store, nil)
	consensus, err := blskeys.GenerateSecretKey()
	require.NoError(t, err)
	backend.AddConsensusSigner(consensus)

	mgr := manager.NewLocal(backend)
	tokens := map[string]signertypes.ModuleID{"good-token": "mev-commit"}

	srv := New(mgr, tokens, nil)
	return httptest.NewServer(srv), consensus.PublicKey().Marshal()
}

func TestStatusIsUnauthenticated(t *testing.T) {
	srv, _ := newTestServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetPubkeysRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/get_pubkeys")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetPubkeysWithValidToken(t *testing.T) {
	srv, consensusPub := newTestServer(t)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/get_pubkeys", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer good-token")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body signertypes.GetPubkeysResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Keys, 1)
	require.Equal(t, consensusPub, []byte(body.Keys[0].Consensus))
}

func TestRequestSignatureUnknownConsensusKeyReturns404(t *testing.T) {
	srv, _ := newTestServer(t)
	defer srv.Close()

	unknownPub := make([]byte, blskeys.PublicKeyLength)
	payload := map[string]any{
		"consensus": map[string]string{
			"pubkey":      "0x" + hexString(unknownPub),
			"object_root": "0x" + hexString(make([]byte, 32)),
		},
	}

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/request_signature", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer good-token")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGenerateProxyKeyEndToEnd(t *testing.T) {
	srv, consensusPub := newTestServer(t)
	defer srv.Close()

	reqBody := signertypes.GenerateProxyRequest{
		ConsensusPubkey: consensusPub,
		Scheme:          signertypes.SchemeBLS,
	}
	raw, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/generate_proxy_key", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer good-token")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var delegation signertypes.SignedProxyDelegation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&delegation))
	require.NotEmpty(t, delegation.Message.Proxy)
	require.NotEmpty(t, delegation.Signature)
}
