// Package worldid verifies World ID zero-knowledge proofs against the
// Developer Portal cloud verification API.
package worldid

//go:generate mockgen -source=client.go -destination=mock_verifier.go -package=worldid

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"

	apperrors "autobid/internal/errors"
)

const defaultTimeout = 10 * time.Second

// Proof is the bundle produced by the World ID widget.
type Proof struct {
	MerkleRoot        string `json:"merkle_root"`
	NullifierHash     string `json:"nullifier_hash"`
	Proof             string `json:"proof"`
	VerificationLevel string `json:"verification_level"`
	Action            string `json:"action"`
	Signal            string `json:"-"`
}

// Verifier checks a proof with the identity network.
type Verifier interface {
	Verify(ctx context.Context, proof Proof) error
}

// RejectedError is returned when the network refuses a proof.
type RejectedError struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func (e *RejectedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("world id proof rejected: %s", e.Code)
	}
	return fmt.Sprintf("world id proof rejected: %s: %s", e.Code, e.Detail)
}

// Unwrap ties RejectedError to ErrProofRejected.
func (e *RejectedError) Unwrap() error {
	return apperrors.ErrProofRejected
}

// Client calls POST {baseURL}/api/v2/verify/{appID}.
type Client struct {
	baseURL    string
	appID      string
	httpClient *http.Client
}

var _ Verifier = (*Client)(nil)

// NewClient creates a client. A nil httpClient uses a client with a 10s timeout.
func NewClient(baseURL, appID string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		appID:      appID,
		httpClient: httpClient,
	}
}

type verifyRequest struct {
	Proof
	SignalHash string `json:"signal_hash"`
}

// Verify returns nil on success, a *RejectedError when the proof is refused
// and an error wrapping ErrUpstreamUnavailable when the API cannot answer.
func (c *Client) Verify(ctx context.Context, proof Proof) error {
	body, err := json.Marshal(verifyRequest{Proof: proof, SignalHash: SignalHash(proof.Signal)})
	if err != nil {
		return fmt.Errorf("encode proof: %w", err)
	}

	url := fmt.Sprintf("%s/api/v2/verify/%s", c.baseURL, c.appID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: world id: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		rejected := &RejectedError{Code: "invalid_proof"}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(data, rejected)
		return rejected
	default:
		return fmt.Errorf("%w: world id returned status %d", apperrors.ErrUpstreamUnavailable, resp.StatusCode)
	}
}

// SignalHash maps a signal to the field element the network expects:
// keccak256 of the signal shifted right by 8 bits, hex encoded.
func SignalHash(signal string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signal))
	sum := h.Sum(nil)

	var field [32]byte
	copy(field[1:], sum[:31])
	return "0x" + hex.EncodeToString(field[:])
}
