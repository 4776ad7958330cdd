package engine

import (
	"time"

	"transfer-gate/internal/address"
	identitydomain "transfer-gate/internal/identity/domain"
)

// buildInput renders an identity record as the policy input document.
// Timestamps are Unix nanoseconds; addresses are lowercase hex.
func buildInput(rec *identitydomain.Record, allowedIssuers []address.Address, now time.Time) map[string]interface{} {
	issuers := make([]interface{}, 0, len(rec.Issuers))
	for i, iss := range rec.Issuers {
		issuers = append(issuers, map[string]interface{}{
			"index":            i,
			"key":              iss.Key.String(),
			"active":           iss.Active,
			"last_modified_ns": unixNanos(iss.LastModified),
			"expires_at_ns":    unixNanos(iss.ExpiresAt),
		})
	}
	allowed := make([]interface{}, 0, len(allowedIssuers))
	for _, a := range allowedIssuers {
		allowed = append(allowed, a.String())
	}
	return map[string]interface{}{
		"owner":           rec.Owner.String(),
		"account":         rec.Account.String(),
		"issuers":         issuers,
		"allowed_issuers": allowed,
		"recovered":       len(rec.RecoveredTo) > 0,
		"now_ns":          unixNanos(now),
	}
}

func unixNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
