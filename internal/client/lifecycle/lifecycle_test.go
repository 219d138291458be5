package lifecycle

import (
	"testing"

	"github.com/chepeat/chepeat/internal/client/models"
	"github.com/chepeat/chepeat/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequestTransition(t *testing.T) {
	tests := []struct {
		from, to models.RequestStatus
		ok       bool
	}{
		{models.RequestRequested, models.RequestAccepted, true},
		{models.RequestRequested, models.RequestRejected, true},
		{models.RequestRejected, models.RequestAccepted, false},
		{models.RequestAccepted, models.RequestAccepted, false},
		{models.RequestAccepted, models.RequestRejected, false},
		{models.RequestStatus("Bogus"), models.RequestAccepted, false},
	}
	for _, tt := range tests {
		err := ValidateRequestTransition(tt.from, tt.to)
		if tt.ok {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
		} else {
			assert.ErrorIs(t, err, common.ErrInvalidTransition, "%s -> %s", tt.from, tt.to)
		}
	}
}

func TestValidateTransactionTransition(t *testing.T) {
	require.NoError(t, ValidateTransactionTransition(models.TransactionPending, models.TransactionCompleted))
	require.ErrorIs(t, ValidateTransactionTransition(models.TransactionCompleted, models.TransactionPending), common.ErrInvalidTransition)
	require.ErrorIs(t, ValidateTransactionTransition(models.TransactionCompleted, models.TransactionCompleted), common.ErrInvalidTransition)
}

func TestParseRequestStatus(t *testing.T) {
	cases := map[string]models.RequestStatus{
		"":          models.RequestRequested,
		"Pendiente": models.RequestRequested,
		"Accepted":  models.RequestAccepted,
		"Aceptada":  models.RequestAccepted,
		"rechazada": models.RequestRejected,
		"REJECTED":  models.RequestRejected,
	}
	for in, want := range cases {
		got, err := ParseRequestStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseRequestStatus("shipped")
	require.ErrorIs(t, err, common.ErrInvalidTransition)
}

func TestParseTransactionStatus(t *testing.T) {
	got, err := ParseTransactionStatus("Completada")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionCompleted, got)

	got, err = ParseTransactionStatus("En proceso")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionPending, got)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.RequestRejected))
	assert.True(t, IsTerminal(models.RequestAccepted))
	assert.False(t, IsTerminal(models.RequestRequested))
}
