package models

// Audit event actions describe what operation occurred.
const (
	AuditActionCredentialOffered  = "credential_offered"
	AuditActionCredentialAccepted = "credential_accepted"
	AuditActionCredentialUpdated  = "credential_updated"
	AuditActionCredentialDeclined = "credential_declined"
	AuditActionCredentialRevoked  = "credential_revoked"
	AuditActionCredentialDeleted  = "credential_deleted"
	AuditActionHolderForgotten    = "holder_forgotten"
)

// Audit event reasons explain why the action was taken.
const (
	AuditReasonHolderInitiated = "holder_initiated"
	AuditReasonIssuerInitiated = "issuer_initiated"
	AuditReasonErasureRequest  = "erasure_request"
)
