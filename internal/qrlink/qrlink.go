// Package qrlink builds the QR payload strings and wallet deep links handed
// out for credential offers and verification sessions. No image is rendered.
package qrlink

import (
	"encoding/base64"
	"net/url"
)

// Kind names what a QR payload points at.
type Kind string

const (
	KindCredential Kind = "credential"
	KindVPSession  Kind = "vp-session"
)

const walletScheme = "modadigitalwallet://"

// Payload is the string a QR code encodes, e.g. medssi://credential?token=abc.
func Payload(kind Kind, token string) string {
	return "medssi://" + string(kind) + "?token=" + url.QueryEscape(token)
}

// CredentialOfferLink is the wallet deep link for a credential offer.
func CredentialOfferLink(token string) string {
	return walletScheme + "credential_offer?token=" + url.QueryEscape(token)
}

// AuthorizeLink is the wallet deep link for a verification session.
func AuthorizeLink(token, transactionID string) string {
	q := "token=" + url.QueryEscape(token)
	if transactionID != "" {
		q += "&transactionId=" + url.QueryEscape(transactionID)
	}
	return walletScheme + "authorize?" + q
}

// DataURI wraps a payload as a text data URI, standing in for a rendered QR image.
func DataURI(payload string) string {
	return "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}
