// Package config loads signing-service settings from the environment,
// generalizing the teacher's closure-based env reader (supporting both
// UPPER_CASE and lower_case keys) to the signer's own settings.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Backend selects which signing backend the process wires up.
type Backend string

const (
	BackendLocal Backend = "local"
	BackendDirk  Backend = "dirk"
)

// Settings keeps all configuration options read at startup. Parsing a
// structured signer config file is an external collaborator per the
// service's scope; this loader covers only the plain environment
// variables named at the service boundary.
type Settings struct {
	ServerPort int
	Chain      string

	// JWTs maps bearer token -> module id. One token per module.
	JWTs map[string]string

	Backend Backend

	// ConsensusKeysHex holds raw BLS secret keys for the local backend,
	// hex-encoded with no 0x prefix. A real deployment loads these from
	// an external keystore loader; this is the minimal stand-in the
	// core signing service was specified against.
	ConsensusKeysHex []string
	ProxyStoreDir    string

	DirkURL          string
	DirkCertPath     string
	DirkKeyPath      string
	DirkCACertPath   string
	DirkServerDomain string
	DirkAccounts     []string
	DirkSecretsPath  string
	DirkUnlock       bool
}

// Load reads settings from the environment, supporting both
// UPPER_CASE and lower_case keys.
func Load() Settings {
	get := func(keys []string, def string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				return v
			}
		}
		return def
	}
	getInt := func(keys []string, def int) int {
		s := get(keys, "")
		if s == "" {
			return def
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
		return def
	}
	getBool := func(keys []string, def bool) bool {
		s := strings.ToLower(get(keys, ""))
		if s == "" {
			return def
		}
		return s == "1" || s == "true" || s == "yes" || s == "on"
	}
	splitCSV := func(s string) []string {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	st := Settings{}
	st.ServerPort = getInt([]string{"server_port", "SERVER_PORT"}, 8080)
	st.Chain = get([]string{"chain", "CHAIN"}, "mainnet")

	st.JWTs = make(map[string]string)
	for _, pair := range splitCSV(get([]string{"jwts", "JWTS"}, "")) {
		token, module, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		st.JWTs[strings.TrimSpace(token)] = strings.TrimSpace(module)
	}

	st.Backend = Backend(get([]string{"signer_backend", "SIGNER_BACKEND"}, string(BackendLocal)))

	st.ConsensusKeysHex = splitCSV(get([]string{"consensus_keys", "CONSENSUS_KEYS"}, ""))
	st.ProxyStoreDir = get([]string{"proxy_store_dir", "PROXY_STORE_DIR"}, "./proxy-store")

	st.DirkURL = get([]string{"dirk_url", "DIRK_URL"}, "")
	st.DirkCertPath = get([]string{"dirk_cert", "DIRK_CERT"}, "")
	st.DirkKeyPath = get([]string{"dirk_key", "DIRK_KEY"}, "")
	st.DirkCACertPath = get([]string{"dirk_ca_cert", "DIRK_CA_CERT"}, "")
	st.DirkServerDomain = get([]string{"dirk_server_domain", "DIRK_SERVER_DOMAIN"}, "")
	st.DirkAccounts = splitCSV(get([]string{"dirk_accounts", "DIRK_ACCOUNTS"}, ""))
	st.DirkSecretsPath = get([]string{"dirk_secrets_path", "DIRK_DIR_SECRETS"}, "./dirk-secrets")
	st.DirkUnlock = getBool([]string{"dirk_unlock", "DIRK_UNLOCK"}, false)

	return st
}
