// Package lifecycle holds the transition tables for purchase requests and
// transactions. Services consult it before issuing a state-changing call.
package lifecycle

import (
	"fmt"
	"slices"

	"github.com/chepeat/chepeat/internal/client/models"
	"github.com/chepeat/chepeat/internal/common"
)

var requestTransitions = map[models.RequestStatus][]models.RequestStatus{
	models.RequestRequested: {
		models.RequestAccepted,
		models.RequestRejected,
	},
	models.RequestAccepted: {
		// Settlement continues on the Transaction.
	},
	models.RequestRejected: {
		// Terminal state.
	},
}

var transactionTransitions = map[models.TransactionStatus][]models.TransactionStatus{
	models.TransactionPending: {
		models.TransactionCompleted,
	},
	models.TransactionCompleted: {
		// Terminal state.
	},
}

// ParseRequestStatus maps backend status strings onto the closed set.
// The backend has used Spanish labels and free-form casing; an empty status
// is a freshly created request.
func ParseRequestStatus(raw string) (models.RequestStatus, error) {
	switch normalize(raw) {
	case "", "requested", "pending", "pendiente", "solicitada", "created":
		return models.RequestRequested, nil
	case "accepted", "aceptada", "aceptado":
		return models.RequestAccepted, nil
	case "rejected", "rechazada", "rechazado":
		return models.RequestRejected, nil
	default:
		return "", fmt.Errorf("%w: unknown request status %q", common.ErrInvalidTransition, raw)
	}
}

// ParseTransactionStatus maps backend status strings onto the closed set.
func ParseTransactionStatus(raw string) (models.TransactionStatus, error) {
	switch normalize(raw) {
	case "", "pending", "pendiente", "inprogress", "enproceso":
		return models.TransactionPending, nil
	case "completed", "completada", "completado":
		return models.TransactionCompleted, nil
	default:
		return "", fmt.Errorf("%w: unknown transaction status %q", common.ErrInvalidTransition, raw)
	}
}

// ValidateRequestTransition reports whether a request in current may move to next.
func ValidateRequestTransition(current, next models.RequestStatus) error {
	allowed, ok := requestTransitions[current]
	if !ok {
		return fmt.Errorf("%w: unknown request status %q", common.ErrInvalidTransition, current)
	}
	if !slices.Contains(allowed, next) {
		return fmt.Errorf("%w: request cannot move from %s to %s", common.ErrInvalidTransition, current, next)
	}
	return nil
}

// ValidateTransactionTransition reports whether a transaction in current may move to next.
func ValidateTransactionTransition(current, next models.TransactionStatus) error {
	allowed, ok := transactionTransitions[current]
	if !ok {
		return fmt.Errorf("%w: unknown transaction status %q", common.ErrInvalidTransition, current)
	}
	if !slices.Contains(allowed, next) {
		return fmt.Errorf("%w: transaction cannot move from %s to %s", common.ErrInvalidTransition, current, next)
	}
	return nil
}

// IsTerminal reports whether no further transitions exist from s.
func IsTerminal(s models.RequestStatus) bool {
	return len(requestTransitions[s]) == 0
}

func normalize(s string) string {
	return models.NormalizeName(s)
}
