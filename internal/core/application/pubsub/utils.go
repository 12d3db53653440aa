package pubsub

import (
	"time"

	"github.com/tdex-network/token-launcher/internal/core/domain"
)

func getTokenPayload(token domain.Token) map[string]interface{} {
	return map[string]interface{}{
		"id":           token.ID,
		"name":         token.Name,
		"symbol":       token.Symbol,
		"total_supply": token.TotalSupply,
		"continuous":   token.Continuous,
		"owner_id":     token.OwnerID,
		"intent_id":    token.IntentID,
		"created_at":   formatTime(token.CreatedAt),
	}
}

func getGuestPayload(guest domain.Guest) map[string]interface{} {
	return map[string]interface{}{
		"account_id": guest.AccountID,
		"public_key": guest.PublicKey,
		"token_id":   guest.TokenID,
		"status":     guest.Status,
		"intent_id":  guest.IntentID,
	}
}

func getIntentPayload(intent domain.Intent) map[string]interface{} {
	return map[string]interface{}{
		"id":              intent.ID,
		"kind":            intent.Kind,
		"target":          intent.Target,
		"status":          intent.Status,
		"error":           intent.Error,
		"completed_steps": intent.CompletedSteps(),
		"created_at":      formatTime(intent.CreatedAt),
	}
}

func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}
