package auction

// VerificationStatus is what the caller knows about a user's identity proof.
// Neither field is checked cryptographically here; the provider did that.
type VerificationStatus struct {
	// ProfileVerified is the persisted flag on the user's profile.
	ProfileVerified bool
	// SessionVerified is an unexpired verification marker on the session.
	SessionVerified bool
}

// IsEligibleToList reports whether the user may list a vehicle.
func IsEligibleToList(status VerificationStatus) bool {
	return status.ProfileVerified || status.SessionVerified
}
