package redis

import "fmt"

// Key generation functions. The "secure" segment holds values that gate
// monetary rewards (the deployment is expected to protect that namespace);
// the "log" segment holds the append-only lists.

// identityKey returns the Redis key for the device identity
func (s *Storage) identityKey() string {
	return fmt.Sprintf("%s:secure:identity", s.cfg.KeyPrefix)
}

// pendingReferralKey returns the Redis key for the pending referral record
func (s *Storage) pendingReferralKey() string {
	return fmt.Sprintf("%s:secure:pending_referral", s.cfg.KeyPrefix)
}

// enteredCodeKey returns the Redis key for the manually entered referral code
func (s *Storage) enteredCodeKey() string {
	return fmt.Sprintf("%s:secure:entered_code", s.cfg.KeyPrefix)
}

// founderAssignmentKey returns the Redis key for the founder assignment
func (s *Storage) founderAssignmentKey() string {
	return fmt.Sprintf("%s:secure:founder_assignment", s.cfg.KeyPrefix)
}

// completedReferralsKey returns the Redis key for the completed referral list
func (s *Storage) completedReferralsKey() string {
	return fmt.Sprintf("%s:log:completed_referrals", s.cfg.KeyPrefix)
}

// notificationsKey returns the Redis key for the notification list
func (s *Storage) notificationsKey() string {
	return fmt.Sprintf("%s:log:notifications", s.cfg.KeyPrefix)
}
