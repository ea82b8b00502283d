package dirk

// ResponseState mirrors Dirk's ResponseState enum (UNKNOWN, SUCCEEDED,
// DENIED, FAILED), carried verbatim in every RPC response.
type ResponseState int

const (
	ResponseUnknown ResponseState = iota
	ResponseSucceeded
	ResponseDenied
	ResponseFailed
)

const (
	methodListAccounts = "Lister.ListAccounts"
	methodGenerate     = "AccountManager.Generate"
	methodUnlock       = "AccountManager.Unlock"
	methodSign         = "Signer.Sign"
)

// Account is one wallet account as reported by Dirk's Lister service.
type Account struct {
	Name      string `json:"name"`
	PublicKey []byte `json:"public_key"`
}

type listAccountsRequest struct {
	Paths []string `json:"paths"`
}

type listAccountsResponse struct {
	State    ResponseState `json:"state"`
	Accounts []Account     `json:"accounts"`
}

type generateRequest struct {
	Account          string `json:"account"`
	Passphrase       []byte `json:"passphrase"`
	Participants     uint32 `json:"participants"`
	SigningThreshold uint32 `json:"signing_threshold"`
}

type generateResponse struct {
	State     ResponseState `json:"state"`
	PublicKey []byte        `json:"public_key"`
}

type unlockAccountRequest struct {
	Account    string `json:"account"`
	Passphrase []byte `json:"passphrase"`
}

type unlockAccountResponse struct {
	State ResponseState `json:"state"`
}

type signRequest struct {
	PublicKey []byte `json:"public_key"`
	Domain    []byte `json:"domain"`
	Data      []byte `json:"data"`
}

type signResponse struct {
	State     ResponseState `json:"state"`
	Signature []byte        `json:"signature"`
}
