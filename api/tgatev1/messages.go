package tgatev1

import "time"

// Addresses are 32-byte values rendered as 64 lowercase hex characters.

type Issuer struct {
	Key          string    `json:"key"`
	LastModified time.Time `json:"lastModified"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Active       bool      `json:"active"`
}

type Identity struct {
	Owner       string   `json:"owner"`
	Account     string   `json:"account"`
	Issuers     []Issuer `json:"issuers"`
	RecoveredTo string   `json:"recoveredTo,omitempty"`
}

// IssueIdentityRequest is sent by an issuer; the caller's bearer subject is the issuer key.
type IssueIdentityRequest struct {
	Owner           string `json:"owner"`
	Account         string `json:"account"`
	ValiditySeconds int64  `json:"validitySeconds"`
}

type AddIssuerRequest struct {
	Account         string `json:"account"`
	ValiditySeconds int64  `json:"validitySeconds"`
}

type GetIdentityRequest struct {
	Account string `json:"account"`
}

type IdentityResponse struct {
	Identity *Identity `json:"identity"`
}

type InitializeRecoveryRequest struct {
	Authorities   []string `json:"authorities"`
	MinSignatures uint32   `json:"minSignatures"`
}

type InitializeRecoveryResponse struct {
	Owner         string   `json:"owner"`
	Authorities   []string `json:"authorities"`
	MinSignatures uint32   `json:"minSignatures"`
}

// RecoverAccountRequest carries one signature token per recovery signer. Each
// token has purpose "recover" and is bound to owner, source, new owner and new account.
type RecoverAccountRequest struct {
	Owner         string   `json:"owner"`
	SourceAccount string   `json:"sourceAccount"`
	NewOwner      string   `json:"newOwner"`
	NewAccount    string   `json:"newAccount"`
	Signatures    []string `json:"signatures"`
}

type RecoverAccountResponse struct {
	SourceAccount string    `json:"sourceAccount"`
	NewAccount    string    `json:"newAccount"`
	Amount        uint64    `json:"amount"`
	RecoveredAt   time.Time `json:"recoveredAt"`
}

type Window struct {
	Unit  string `json:"unit"`
	Value uint8  `json:"value"`
}

// Function is a step-up rule. Kind is a rule name such as "always", "never" or
// "on_max"; Window.Unit is one of seconds, minutes, hours, days, weeks.
type Function struct {
	Kind   string  `json:"kind"`
	Max    uint64  `json:"max,omitempty"`
	Window *Window `json:"window,omitempty"`
}

// InitializeStepUpRequest is sent by the account owner together with the
// approver's "two_auth" signature token bound to owner and account.
type InitializeStepUpRequest struct {
	Account           string     `json:"account"`
	Functions         []Function `json:"functions"`
	Approver          string     `json:"approver"`
	AllowedIssuers    []string   `json:"allowedIssuers,omitempty"`
	ApproverSignature string     `json:"approverSignature"`
}

type StepUpParameters struct {
	Owner          string     `json:"owner"`
	Account        string     `json:"account"`
	Functions      []Function `json:"functions"`
	Approver       string     `json:"approver"`
	AllowedIssuers []string   `json:"allowedIssuers,omitempty"`
}

// ApproveTransactionRequest is sent by the approver. A zero Time is stamped by
// the server. Code is required when the approver is enrolled for TOTP.
type ApproveTransactionRequest struct {
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Amount      uint64    `json:"amount"`
	Time        time.Time `json:"time,omitempty"`
	Code        string    `json:"code,omitempty"`
}

type GetApprovalRequest struct {
	Owner string `json:"owner"`
}

type Approval struct {
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Amount      uint64    `json:"amount"`
	Time        time.Time `json:"time"`
	Active      bool      `json:"active"`
}

type AuthorizeTransferRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Owner       string `json:"owner"`
	Amount      uint64 `json:"amount"`
}

type AuthorizeTransferResponse struct {
	Authorized bool `json:"authorized"`
}

type ListAuditLogsRequest struct {
	PageSize  int32  `json:"pageSize,omitempty"`
	PageToken string `json:"pageToken,omitempty"`
}

type AuditLog struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	Outcome   string    `json:"outcome"`
	IP        string    `json:"ip,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListAuditLogsResponse struct {
	Logs          []AuditLog `json:"logs"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

type HealthCheckRequest struct{}

const (
	StatusServing    = "SERVING"
	StatusNotServing = "NOT_SERVING"
)

type HealthCheckResponse struct {
	Status string `json:"status"`
}
