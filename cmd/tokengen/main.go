// Package main provides a CLI tool for minting and inspecting the mock
// credential tokens handed out by the MedSSI compatibility transaction lookup.
// These tokens use the sandbox signing key and carry no real issuer signature.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	jwttoken "medssi/internal/jwt_token"
	id "medssi/pkg/domain"
)

const (
	// Sandbox defaults - match config.go when the MEDSSI_* variables are not set
	defaultSigningKey    = "medssi-sandbox-signing-key"
	defaultIssuerBaseURL = "https://medssi.dev"
	defaultTokenTTL      = 10 * time.Minute
	defaultHolderDID     = "did:example:patient-demo"
)

type tokenOutput struct {
	Token     string         `json:"token"`
	Type      string         `json:"type"`
	ExpiresIn string         `json:"expires_in"`
	Claims    map[string]any `json:"claims,omitempty"`
}

func main() {
	credentialCmd := flag.NewFlagSet("credential", flag.ExitOnError)
	inspectCmd := flag.NewFlagSet("inspect", flag.ExitOnError)

	credID := credentialCmd.String("credential-id", "", "Credential ID. Generated if empty.")
	credTx := credentialCmd.String("transaction-id", "", "Transaction ID (UUID). Generated if empty.")
	credIssuer := credentialCmd.String("issuer-id", "hospital-demo", "Issuer ID")
	credHolder := credentialCmd.String("holder-did", defaultHolderDID, "Holder DID")
	credScope := credentialCmd.String("scope", "MEDICAL_RECORD", "Primary disclosure scope")
	credIAL := credentialCmd.String("ial", "IAL2", "Identity assurance level")
	credNonce := credentialCmd.String("nonce", "", "Offer nonce. Generated if empty.")
	credTTL := credentialCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	credKey := credentialCmd.String("key", envOr("MEDSSI_CREDENTIAL_SIGNING_KEY", defaultSigningKey), "Signing key")
	credJSON := credentialCmd.Bool("json", false, "Output as JSON")

	inspectKey := inspectCmd.String("key", envOr("MEDSSI_CREDENTIAL_SIGNING_KEY", defaultSigningKey), "Signing key")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "credential":
		_ = credentialCmd.Parse(os.Args[2:])
		generateCredentialToken(credentialInput{
			credentialID:  *credID,
			transactionID: *credTx,
			issuerID:      *credIssuer,
			holderDID:     *credHolder,
			scope:         *credScope,
			ial:           *credIAL,
			nonce:         *credNonce,
		}, *credKey, *credTTL, *credJSON)
	case "inspect":
		_ = inspectCmd.Parse(os.Args[2:])
		if inspectCmd.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "inspect requires exactly one token argument")
			os.Exit(1)
		}
		inspectToken(inspectCmd.Arg(0), *inspectKey)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Mint and inspect MedSSI mock credential tokens

WARNING: These tokens are signed with the sandbox key and are NOT real
         verifiable credentials.

Usage:
  tokengen <command> [flags]

Commands:
  credential   Mint a mock credential token
  inspect      Validate a token and print its claims

Examples:
  # Mint a token with defaults
  tokengen credential

  # Mint for a specific transaction and holder
  tokengen credential -transaction-id "550e8400-e29b-41d4-a716-446655440000" -holder-did did:example:alice

  # Check a token returned by GET /api/credential/nonce/{transactionId}
  tokengen inspect <token>

Use "tokengen <command> -h" for more information about a command.`)
}

type credentialInput struct {
	credentialID  string
	transactionID string
	issuerID      string
	holderDID     string
	scope         string
	ial           string
	nonce         string
}

func generateCredentialToken(in credentialInput, key string, ttl time.Duration, jsonOutput bool) {
	credentialID := id.NewCredentialID()
	if in.credentialID != "" {
		credentialID = id.CredentialID(in.credentialID)
	}
	txID := id.NewTransactionID()
	if in.transactionID != "" {
		parsed, err := id.ParseTransactionID(in.transactionID)
		if err != nil {
			exitf("Invalid transaction-id: %v", err)
		}
		txID = parsed
	}
	ial, err := id.ParseAssuranceLevel(in.ial)
	if err != nil {
		exitf("Invalid ial: %v", err)
	}
	nonce := in.nonce
	if nonce == "" {
		nonce = uuid.NewString()
	}

	svc := jwttoken.NewJWTService(key, defaultIssuerBaseURL, ttl)
	token, err := svc.GenerateCredentialToken(jwttoken.CredentialTokenInput{
		CredentialID:  credentialID,
		TransactionID: txID,
		IssuerID:      in.issuerID,
		HolderDID:     in.holderDID,
		Scope:         in.scope,
		Nonce:         nonce,
		IAL:           ial,
	}, time.Now())
	if err != nil {
		exitf("Error generating token: %v", err)
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			Type:      "mock_credential",
			ExpiresIn: ttl.String(),
			Claims: map[string]any{
				"jti":            credentialID.String(),
				"sub":            in.holderDID,
				"iss":            svc.BuildIssuer(in.issuerID),
				"scope":          in.scope,
				"ial":            ial.String(),
				"nonce":          nonce,
				"transaction_id": txID.String(),
			},
		})
		return
	}

	fmt.Println("Mock Credential Token (JWT)")
	fmt.Println("===========================")
	fmt.Printf("Expires In:     %s\n", ttl)
	fmt.Printf("Credential ID:  %s\n", credentialID)
	fmt.Printf("Transaction ID: %s\n", txID)
	fmt.Printf("Holder:         %s\n", in.holderDID)
	fmt.Printf("Scope:          %s\n", in.scope)
	fmt.Printf("IAL:            %s\n", ial)
	fmt.Printf("Nonce:          %s\n", nonce)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
}

func inspectToken(token, key string) {
	svc := jwttoken.NewJWTService(key, defaultIssuerBaseURL, defaultTokenTTL)
	claims, err := svc.ValidateCredentialToken(token, time.Now())
	if err != nil {
		exitf("Token rejected: %v", err)
	}
	printJSON(claims)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		exitf("Error encoding JSON: %v", err)
	}
}
