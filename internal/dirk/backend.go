package dirk

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bundlecore/signer-core/internal/chain"
	"github.com/bundlecore/signer-core/internal/proxystore"
	"github.com/bundlecore/signer-core/internal/signertypes"
	"github.com/bundlecore/signer-core/internal/sszutil"
)

// account is a config-registered consensus account, addressed in Dirk
// as "wallet/name".
type account struct {
	wallet    string
	name      string
	publicKey []byte
}

func (a account) completeName() string { return a.wallet + "/" + a.name }

// Config configures a Backend against a running Dirk instance.
type Config struct {
	Chain       chain.Chain
	Addr        string
	TLS         TLSConfig
	Accounts    []string // "wallet/account" pairs from config
	Unlock      bool
	SecretsPath string
	Store       proxystore.Store
	Logger      *zap.SugaredLogger
}

// Backend is the Dirk remote signing backend of spec §4.4.
type Backend struct {
	chain       chain.Chain
	client      *Client
	accounts    []account
	unlock      bool
	secretsPath string
	store       proxystore.Store
	log         *zap.SugaredLogger
}

// NewFromConfig dials nothing itself (the Client dials lazily per
// call) but resolves every configured "wallet/account" name to its
// current public key by listing Dirk's wallets up front, matching the
// original manager's eager account-discovery step.
func NewFromConfig(ctx context.Context, cfg Config) (*Backend, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	client := NewClient(cfg.Addr, cfg.TLS)

	accounts := make([]account, 0, len(cfg.Accounts))
	wallets := make([]string, 0, len(cfg.Accounts))
	for _, a := range cfg.Accounts {
		wallet, name, ok := strings.Cut(a, "/")
		if !ok {
			return nil, fmt.Errorf("invalid account name %q: must be wallet/account", a)
		}
		accounts = append(accounts, account{wallet: wallet, name: name})
		wallets = append(wallets, wallet)
	}

	b := &Backend{
		chain:       cfg.Chain,
		client:      client,
		accounts:    accounts,
		unlock:      cfg.Unlock,
		secretsPath: cfg.SecretsPath,
		store:       cfg.Store,
		log:         log,
	}

	dirkAccounts, err := b.listAccounts(ctx, wallets)
	if err != nil {
		return nil, err
	}
	for i := range b.accounts {
		for _, da := range dirkAccounts {
			if da.Name == b.accounts[i].completeName() {
				b.accounts[i].publicKey = da.PublicKey
			}
		}
	}

	return b, nil
}

func (b *Backend) listAccounts(ctx context.Context, wallets []string) ([]Account, error) {
	var resp listAccountsResponse
	if err := b.client.Call(ctx, methodListAccounts, listAccountsRequest{Paths: wallets}, &resp); err != nil {
		return nil, signertypes.ErrDirkCommunication(fmt.Sprintf("listing accounts: %v", err))
	}
	if resp.State != ResponseSucceeded {
		return nil, signertypes.ErrDirkCommunication("list accounts request returned error")
	}
	return resp.Accounts, nil
}

// getAllAccounts lists every account under the wallets this backend's
// consensus accounts live in, which includes both the consensus
// accounts themselves and any proxy accounts nested under them.
func (b *Backend) getAllAccounts(ctx context.Context) ([]Account, error) {
	wallets := make([]string, 0, len(b.accounts))
	for _, a := range b.accounts {
		wallets = append(wallets, a.wallet)
	}
	return b.listAccounts(ctx, wallets)
}

func (b *Backend) getPubkeyAccount(ctx context.Context, pubkey []byte) (string, error) {
	for _, a := range b.accounts {
		if bytes.Equal(a.publicKey, pubkey) {
			return a.completeName(), nil
		}
	}
	accounts, err := b.getAllAccounts(ctx)
	if err != nil {
		return "", err
	}
	for _, a := range accounts {
		if bytes.Equal(a.PublicKey, pubkey) {
			return a.Name, nil
		}
	}
	return "", nil
}

// ConsensusProxyMaps returns one map per configured consensus account,
// restricted to proxy accounts named "<consensus>/<moduleID>/<uuid>".
func (b *Backend) ConsensusProxyMaps(ctx context.Context, moduleID signertypes.ModuleID) ([]signertypes.ConsensusProxyMap, error) {
	accounts, err := b.getAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	maps := make([]signertypes.ConsensusProxyMap, 0, len(b.accounts))
	for _, consensus := range b.accounts {
		if consensus.publicKey == nil {
			continue
		}
		prefix := consensus.completeName() + "/" + string(moduleID) + "/"
		m := signertypes.ConsensusProxyMap{Consensus: consensus.publicKey}
		for _, a := range accounts {
			if strings.HasPrefix(a.Name, prefix) {
				m.ProxyBLS = append(m.ProxyBLS, a.PublicKey)
			}
		}
		maps = append(maps, m)
	}
	return maps, nil
}

func (b *Backend) HasProxyBLS(pub []byte, moduleID signertypes.ModuleID) bool {
	maps, err := b.ConsensusProxyMaps(context.Background(), moduleID)
	if err != nil {
		return false
	}
	for _, m := range maps {
		for _, p := range m.ProxyBLS {
			if bytes.Equal(p, pub) {
				return true
			}
		}
	}
	return false
}

// HasProxyECDSA is always false: Dirk only manages BLS accounts.
func (b *Backend) HasProxyECDSA([]byte, signertypes.ModuleID) bool { return false }

func (b *Backend) domain() [32]byte {
	return chain.ComputeDomain(b.chain, chain.CommitBoostDomain)
}

func randomPassword() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generating dirk account password: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}

// readPassword is only ever reached as a step of the unlock-and-retry
// path inside a Dirk Sign round-trip, so a missing or unreadable
// passphrase file is surfaced as a Dirk communication failure rather
// than a generic internal error.
func (b *Backend) readPassword(account string) (string, error) {
	data, err := os.ReadFile(filepath.Join(b.secretsPath, account))
	if err != nil {
		return "", signertypes.ErrDirkCommunication(fmt.Sprintf("reading password for account %q: %v", account, err))
	}
	return string(data), nil
}

func (b *Backend) storePassword(account, password string) error {
	dir, _, ok := cutLast(account, "/")
	if !ok {
		return signertypes.ErrInternalf("account name %q is invalid", account)
	}
	accountDir := filepath.Join(b.secretsPath, dir)
	if err := os.MkdirAll(accountDir, 0o700); err != nil {
		return signertypes.ErrInternalf("creating dir %q: %v", accountDir, err)
	}
	if err := os.WriteFile(filepath.Join(b.secretsPath, account), []byte(password), 0o600); err != nil {
		return signertypes.ErrInternalf("writing password for account %q: %v", account, err)
	}
	return nil
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+len(sep):], true
}

func (b *Backend) unlockAccount(ctx context.Context, account, password string) error {
	var resp unlockAccountResponse
	req := unlockAccountRequest{Account: account, Passphrase: []byte(password)}
	if err := b.client.Call(ctx, methodUnlock, req, &resp); err != nil {
		return signertypes.ErrDirkCommunication(fmt.Sprintf("unlocking account %q: %v", account, err))
	}
	if resp.State != ResponseSucceeded {
		return signertypes.ErrDirkCommunication(fmt.Sprintf("unlock request for %q returned error", account))
	}
	return nil
}

// SignConsensus and SignProxyBLS share Dirk's single Signer.Sign RPC:
// Dirk addresses every account, consensus or proxy, by public key.
func (b *Backend) SignConsensus(ctx context.Context, pub []byte, objectRoot [32]byte) ([]byte, error) {
	return b.requestSignature(ctx, pub, objectRoot)
}

func (b *Backend) SignProxyBLS(ctx context.Context, pub []byte, objectRoot [32]byte) ([]byte, error) {
	return b.requestSignature(ctx, pub, objectRoot)
}

// SignProxyECDSA is never reachable: the Manager rejects ECDSA
// generation before dispatch, and Dirk never registers an ECDSA
// proxy key for HasProxyECDSA to report true on.
func (b *Backend) SignProxyECDSA(context.Context, []byte, [32]byte) ([]byte, error) {
	return nil, signertypes.ErrDirkNotSupported()
}

func (b *Backend) requestSignature(ctx context.Context, pubkey []byte, objectRoot [32]byte) ([]byte, error) {
	domain := b.domain()
	resp, err := b.sign(ctx, pubkey, domain, objectRoot)
	if err != nil {
		return nil, err
	}

	if resp.State == ResponseDenied && b.unlock {
		b.log.Infow("dirk account may be locked, unlocking and retrying", "pubkey", hex.EncodeToString(pubkey))
		accountName, err := b.getPubkeyAccount(ctx, pubkey)
		if err != nil {
			return nil, err
		}
		if accountName == "" {
			return nil, signertypes.ErrUnknownConsensusSigner(pubkey)
		}
		password, err := b.readPassword(accountName)
		if err != nil {
			return nil, err
		}
		if err := b.unlockAccount(ctx, accountName, password); err != nil {
			return nil, err
		}
		resp, err = b.sign(ctx, pubkey, domain, objectRoot)
		if err != nil {
			return nil, err
		}
	}

	if resp.State != ResponseSucceeded {
		return nil, signertypes.ErrDirkCommunication("sign request returned error")
	}
	return resp.Signature, nil
}

func (b *Backend) sign(ctx context.Context, pubkey []byte, domain [32]byte, objectRoot [32]byte) (*signResponse, error) {
	var resp signResponse
	req := signRequest{PublicKey: pubkey, Domain: domain[:], Data: objectRoot[:]}
	if err := b.client.Call(ctx, methodSign, req, &resp); err != nil {
		return nil, signertypes.ErrDirkCommunication(fmt.Sprintf("sign request: %v", err))
	}
	return &resp, nil
}

// GenerateProxyBLS mints a fresh Dirk-managed BLS wallet account named
// "<consensus>/<moduleID>/<uuid>", stores its passphrase before ever
// unlocking it (so a crash between generate and unlock still leaves a
// recoverable account), unlocks it, and signs the resulting delegation
// with the consensus key.
func (b *Backend) GenerateProxyBLS(ctx context.Context, moduleID signertypes.ModuleID, consensusPub []byte) (signertypes.SignedProxyDelegation, error) {
	consensusAccount, err := b.getPubkeyAccount(ctx, consensusPub)
	if err != nil {
		return signertypes.SignedProxyDelegation{}, err
	}
	if consensusAccount == "" || !b.isConfiguredAccount(consensusAccount) {
		return signertypes.SignedProxyDelegation{}, signertypes.ErrUnknownConsensusSigner(consensusPub)
	}

	accountName := fmt.Sprintf("%s/%s/%s", consensusAccount, moduleID, uuid.New().String())
	password, err := randomPassword()
	if err != nil {
		return signertypes.SignedProxyDelegation{}, signertypes.ErrInternal(err.Error())
	}

	var genResp generateResponse
	genReq := generateRequest{
		Account:          accountName,
		Passphrase:       []byte(password),
		Participants:     1,
		SigningThreshold: 1,
	}
	if err := b.client.Call(ctx, methodGenerate, genReq, &genResp); err != nil {
		return signertypes.SignedProxyDelegation{}, signertypes.ErrDirkCommunication(fmt.Sprintf("generate request: %v", err))
	}
	if genResp.State != ResponseSucceeded {
		return signertypes.SignedProxyDelegation{}, signertypes.ErrDirkCommunication("generate request returned error")
	}

	if err := b.storePassword(accountName, password); err != nil {
		return signertypes.SignedProxyDelegation{}, err
	}

	proxyPub := genResp.PublicKey

	if err := b.unlockAccount(ctx, accountName, password); err != nil {
		return signertypes.SignedProxyDelegation{}, err
	}

	root := sszutil.TreeHashRoot2(consensusPub, proxyPub)
	sig, err := b.requestSignature(ctx, consensusPub, root)
	if err != nil {
		return signertypes.SignedProxyDelegation{}, err
	}
	delegation := signertypes.SignedProxyDelegation{
		Message:   signertypes.ProxyDelegation{Delegator: consensusPub, Proxy: proxyPub},
		Signature: sig,
	}

	if b.store != nil {
		if err := b.store.StoreProxyBLSDelegation(moduleID, nil, delegation); err != nil {
			return signertypes.SignedProxyDelegation{}, signertypes.ErrInternalf("persisting dirk delegation: %v", err)
		}
	}

	return delegation, nil
}

// GenerateProxyECDSA is unreachable: Manager.GenerateProxyECDSA
// short-circuits before calling into the Dirk backend at all.
func (b *Backend) GenerateProxyECDSA(context.Context, signertypes.ModuleID, []byte) (signertypes.SignedProxyDelegation, error) {
	return signertypes.SignedProxyDelegation{}, signertypes.ErrDirkNotSupported()
}

func (b *Backend) isConfiguredAccount(completeName string) bool {
	for _, a := range b.accounts {
		if a.completeName() == completeName {
			return true
		}
	}
	return false
}
