package worldid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "autobid/internal/errors"
)

func sampleProof() Proof {
	return Proof{
		MerkleRoot:        "0x1",
		NullifierHash:     "0x2",
		Proof:             "0x3",
		VerificationLevel: "orb",
		Action:            "verify-identity",
	}
}

func TestSignalHash_EmptySignal(t *testing.T) {
	assert.Equal(t, "0x00c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a4", SignalHash(""))
}

func TestClient_Verify(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    error
		wantDetail string
	}{
		{name: "accepted", status: http.StatusOK, body: `{"success":true}`},
		{name: "rejected", status: http.StatusBadRequest, body: `{"code":"invalid_proof","detail":"bad proof"}`, wantErr: apperrors.ErrProofRejected, wantDetail: "bad proof"},
		{name: "already used", status: http.StatusBadRequest, body: `{"code":"max_verifications_reached"}`, wantErr: apperrors.ErrProofRejected},
		{name: "rejected without body", status: http.StatusNotFound, wantErr: apperrors.ErrProofRejected},
		{name: "provider down", status: http.StatusBadGateway, wantErr: apperrors.ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/v2/verify/app_123", r.URL.Path)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewClient(srv.URL+"/", "app_123", srv.Client()).Verify(context.Background(), sampleProof())

			assert.Equal(t, "0x2", got["nullifier_hash"])
			assert.Equal(t, "verify-identity", got["action"])
			assert.Equal(t, SignalHash(""), got["signal_hash"])

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr))
			if tt.wantDetail != "" {
				var rejected *RejectedError
				require.True(t, errors.As(err, &rejected))
				assert.Equal(t, tt.wantDetail, rejected.Detail)
			}
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewClient(url, "app_123", nil).Verify(context.Background(), sampleProof())
	assert.True(t, errors.Is(err, apperrors.ErrUpstreamUnavailable))
}
