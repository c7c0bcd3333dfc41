package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_WithDetailStillMatchesSentinel(t *testing.T) {
	err := ErrInvalidTransition.WithDetail("%s -> %s", "NEW_LEAD", "APPROVED")

	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.False(t, errors.Is(err, ErrInvalidOfferInput))
	assert.Equal(t, "stage transition not allowed: NEW_LEAD -> APPROVED", err.Error())
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
}

func TestAs_UnwrapsChain(t *testing.T) {
	wrapped := fmt.Errorf("approve deal 7: %w", ErrDealNotFound)

	de, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "DEAL_NOT_FOUND", de.Code)

	_, ok = As(errors.New("boom"))
	assert.False(t, ok)
}
