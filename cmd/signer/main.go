// Command signer runs the core PBS remote signing service: it loads
// consensus keys (local) or dials Dirk (remote), then serves the
// Signer HTTP API described in the signing service's design.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bundlecore/signer-core/internal/blskeys"
	"github.com/bundlecore/signer-core/internal/chain"
	"github.com/bundlecore/signer-core/internal/config"
	"github.com/bundlecore/signer-core/internal/dirk"
	"github.com/bundlecore/signer-core/internal/httpapi"
	"github.com/bundlecore/signer-core/internal/localsigner"
	"github.com/bundlecore/signer-core/internal/manager"
	"github.com/bundlecore/signer-core/internal/proxystore"
	"github.com/bundlecore/signer-core/internal/signertypes"
)

func main() {
	_ = godotenv.Load()
	_ = godotenv.Overload(".env.local")

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Println("failed building logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg := config.Load()

	fmt.Println("=== signer-core ===")
	fmt.Println("SERVER_PORT     :", cfg.ServerPort)
	fmt.Println("CHAIN           :", cfg.Chain)
	fmt.Println("SIGNER_BACKEND  :", cfg.Backend)
	fmt.Println("JWT MODULES     :", len(cfg.JWTs))

	if len(cfg.JWTs) == 0 {
		log.Warn("no JWTs configured; refusing to start a listener with no authorized modules")
		return
	}

	tokens := make(map[string]signertypes.ModuleID, len(cfg.JWTs))
	for token, module := range cfg.JWTs {
		tokens[token] = signertypes.ModuleID(module)
	}

	c := chain.ParseChain(cfg.Chain)

	mgr, err := buildManager(context.Background(), cfg, c, log)
	if err != nil {
		log.Fatalw("failed building signing manager", "err", err)
	}

	server := httpapi.New(mgr, tokens, log)
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.ServerPort)
	log.Infow("signing service listening", "addr", addr, "backend", cfg.Backend)
	if err := http.ListenAndServe(addr, server); err != nil {
		log.Fatalw("signing service exited", "err", err)
	}
}

func buildManager(ctx context.Context, cfg config.Settings, c chain.Chain, log *zap.SugaredLogger) (*manager.Manager, error) {
	switch cfg.Backend {
	case config.BackendDirk:
		return buildDirkManager(ctx, cfg, c, log)
	default:
		return buildLocalManager(cfg, c, log)
	}
}

func buildLocalManager(cfg config.Settings, c chain.Chain, log *zap.SugaredLogger) (*manager.Manager, error) {
	store, err := proxystore.NewFileStore(cfg.ProxyStoreDir)
	if err != nil {
		return nil, fmt.Errorf("opening proxy store: %w", err)
	}

	backend := localsigner.New(c, store, log)
	for _, keyHex := range cfg.ConsensusKeysHex {
		raw, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("decoding consensus key: %w", err)
		}
		sk, err := blskeys.SecretKeyFromBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing consensus key: %w", err)
		}
		backend.AddConsensusSigner(sk)
	}
	if err := backend.LoadFromStore(); err != nil {
		return nil, fmt.Errorf("loading persisted proxies: %w", err)
	}

	if len(cfg.ConsensusKeysHex) == 0 {
		log.Warn("no consensus keys configured; get_pubkeys will return an empty list")
	}

	return manager.NewLocal(backend), nil
}

func buildDirkManager(ctx context.Context, cfg config.Settings, c chain.Chain, log *zap.SugaredLogger) (*manager.Manager, error) {
	cert, err := tls.LoadX509KeyPair(cfg.DirkCertPath, cfg.DirkKeyPath)
	if err != nil {
		return nil, fmt.Errorf("loading dirk client certificate: %w", err)
	}

	var caPool *x509.CertPool
	if cfg.DirkCACertPath != "" {
		caBytes, err := os.ReadFile(cfg.DirkCACertPath)
		if err != nil {
			return nil, fmt.Errorf("reading dirk ca cert: %w", err)
		}
		caPool = x509.NewCertPool()
		if !caPool.AppendCertsFromPEM(caBytes) {
			return nil, fmt.Errorf("parsing dirk ca cert %q", cfg.DirkCACertPath)
		}
	}

	store, err := proxystore.NewFileStore(cfg.ProxyStoreDir)
	if err != nil {
		return nil, fmt.Errorf("opening proxy store: %w", err)
	}

	backend, err := dirk.NewFromConfig(ctx, dirk.Config{
		Chain: c,
		Addr:  cfg.DirkURL,
		TLS: dirk.TLSConfig{
			ClientCert:   cert,
			CACert:       caPool,
			ServerDomain: cfg.DirkServerDomain,
		},
		Accounts:    cfg.DirkAccounts,
		Unlock:      cfg.DirkUnlock,
		SecretsPath: cfg.DirkSecretsPath,
		Store:       store,
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to dirk: %w", err)
	}

	return manager.NewDirk(backend), nil
}
