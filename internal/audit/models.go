package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
//
// Subject is the primary identifier the event concerns: a credential id,
// a session id or a holder DID. ClientIP is stored anonymized.
type Event struct {
	Timestamp    time.Time
	Subject      string
	Action       string
	Decision     string
	Reason       string
	Role         string
	WalletClient string
	ClientIP     string
	RequestID    string
}

const (
	DecisionGranted = "granted"
	DecisionDenied  = "denied"
)

// EventSandboxReset is emitted when the whole store is cleared.
const EventSandboxReset = "sandbox_reset"
