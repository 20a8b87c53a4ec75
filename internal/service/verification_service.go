package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	apperrors "autobid/internal/errors"
	"autobid/internal/model"
	"autobid/internal/repository"
	"autobid/internal/worldid"
)

// VerificationService binds World ID proofs to users.
type VerificationService interface {
	// Verify checks the proof with the identity network and records its
	// nullifier for userID. Repeating a verification for the same user is a no-op.
	Verify(ctx context.Context, userID uuid.UUID, proof worldid.Proof) error
	Status(ctx context.Context, userID uuid.UUID) (bool, error)
}

type verificationService struct {
	verifier      worldid.Verifier
	verifications repository.VerificationRepository
	profiles      repository.ProfileRepository
	action        string
	now           func() time.Time
}

// NewVerificationService creates a verification service accepting proofs for action.
func NewVerificationService(
	verifier worldid.Verifier,
	verifications repository.VerificationRepository,
	profiles repository.ProfileRepository,
	action string,
) VerificationService {
	return &verificationService{
		verifier:      verifier,
		verifications: verifications,
		profiles:      profiles,
		action:        action,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *verificationService) Verify(ctx context.Context, userID uuid.UUID, proof worldid.Proof) error {
	if proof.Action != s.action {
		return apperrors.ErrActionMismatch
	}
	if proof.NullifierHash == "" || proof.Proof == "" || proof.MerkleRoot == "" {
		verr := apperrors.NewValidationError()
		if proof.NullifierHash == "" {
			verr.Add("nullifier_hash", "is required")
		}
		if proof.Proof == "" {
			verr.Add("proof", "is required")
		}
		if proof.MerkleRoot == "" {
			verr.Add("merkle_root", "is required")
		}
		return verr
	}

	existing, err := s.verifications.FindByNullifier(ctx, proof.NullifierHash)
	switch {
	case err == nil:
		if existing.UserID != userID {
			return apperrors.ErrNullifierInUse
		}
		return s.markVerified(ctx, userID)
	case !errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("lookup nullifier: %w", err)
	}

	if err := s.verifier.Verify(ctx, proof); err != nil {
		log.WithFields(log.Fields{"user_id": userID, "error": err.Error()}).Warn("world id verification failed")
		return err
	}

	record := &model.WorldIDVerification{
		UserID:            userID,
		NullifierHash:     proof.NullifierHash,
		VerificationLevel: proof.VerificationLevel,
		VerifiedAt:        s.now(),
	}
	inserted, err := s.verifications.CreateIfAbsent(ctx, record)
	if err != nil {
		return fmt.Errorf("record verification: %w", err)
	}
	if !inserted {
		// Lost a race with a concurrent verification of the same nullifier.
		winner, err := s.verifications.FindByNullifier(ctx, proof.NullifierHash)
		if err != nil {
			return fmt.Errorf("lookup nullifier: %w", err)
		}
		if winner.UserID != userID {
			return apperrors.ErrNullifierInUse
		}
	}

	log.WithFields(log.Fields{"user_id": userID, "verification_level": proof.VerificationLevel}).Info("world id verified")
	return s.markVerified(ctx, userID)
}

func (s *verificationService) markVerified(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.profiles.Ensure(ctx, userID); err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}
	if err := s.profiles.MarkWorldIDVerified(ctx, userID); err != nil {
		return fmt.Errorf("mark profile verified: %w", err)
	}
	return nil
}

func (s *verificationService) Status(ctx context.Context, userID uuid.UUID) (bool, error) {
	profile, err := s.profiles.Ensure(ctx, userID)
	if err != nil {
		return false, err
	}
	return profile.WorldIDVerified, nil
}
