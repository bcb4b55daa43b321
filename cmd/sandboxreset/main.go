// Package main resets a running MedSSI sandbox.
//
// Usage:
//
//	sandboxreset [base_url] [token]
//
// base_url defaults to http://localhost:8000 and token to MEDSSI_ISSUER_TOKEN
// (or the sandbox default). Any role token may reset the store.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8000"
	defaultToken   = "issuer-sandbox-token"
	resetPath      = "/v2/api/system/reset"
	requestTimeout = 10 * time.Second
)

type resetResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func main() {
	baseURL, token := parseArgs(os.Args[1:])

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	at, err := reset(ctx, http.DefaultClient, baseURL, token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Reset failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Sandbox reset succeeded at %s\n", at.Format(time.RFC3339))
}

func parseArgs(args []string) (baseURL, token string) {
	baseURL = defaultBaseURL
	if len(args) > 0 && args[0] != "" {
		baseURL = args[0]
	}
	token = os.Getenv("MEDSSI_ISSUER_TOKEN")
	if token == "" {
		token = defaultToken
	}
	if len(args) > 1 && args[1] != "" {
		token = args[1]
	}
	return strings.TrimRight(baseURL, "/"), token
}

func reset(ctx context.Context, client *http.Client, baseURL, token string) (time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+resetPath, nil)
	if err != nil {
		return time.Time{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return time.Time{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return time.Time{}, err
	}
	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return time.Time{}, fmt.Errorf("%s: %s (HTTP %d)", e.Error, e.ErrorDescription, resp.StatusCode)
		}
		return time.Time{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out resetResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return time.Time{}, fmt.Errorf("decode reset response: %w", err)
	}
	return out.Timestamp, nil
}
