package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeal_ClearDecision(t *testing.T) {
	amount := decimal.NewFromInt(10000)
	term := 120
	grade := "B"
	d := &Deal{
		ApprovedAmount: &amount,
		TermDays:       &term,
		PaperGrade:     &grade,
		DeclineReasons: []string{"nsf"},
		DecisionNotes:  "ok",
	}
	require.True(t, d.HasOffer())

	d.ClearDecision()

	assert.False(t, d.HasOffer())
	assert.Nil(t, d.PaperGrade)
	assert.Nil(t, d.DeclineReasons)
	assert.Empty(t, d.DecisionNotes)
}

func TestDeal_ClearTermsKeepsSnapshot(t *testing.T) {
	amount := decimal.NewFromInt(5000)
	grade := "C"
	d := &Deal{ApprovedAmount: &amount, PaperGrade: &grade, DeclineReasons: []string{"stacking"}}

	d.ClearTerms()

	assert.False(t, d.HasOffer())
	assert.Equal(t, &grade, d.PaperGrade)
	assert.Equal(t, []string{"stacking"}, []string(d.DeclineReasons))
}

func TestDeal_HasOfferCoversAllTerms(t *testing.T) {
	holdback := decimal.NewFromInt(10)
	position := 2

	assert.False(t, (&Deal{}).HasOffer())
	assert.True(t, (&Deal{HoldbackPercentage: &holdback}).HasOffer())
	assert.True(t, (&Deal{Position: &position}).HasOffer())

	d := &Deal{HoldbackPercentage: &holdback, Position: &position}
	d.ClearTerms()
	assert.False(t, d.HasOffer())
}

func TestJSON_Scan(t *testing.T) {
	var j JSON
	require.NoError(t, j.Scan([]byte(`{"payback_amount":"13500"}`)))
	assert.Equal(t, "13500", j["payback_amount"])

	require.NoError(t, j.Scan(nil))
	assert.Nil(t, j)

	assert.Error(t, j.Scan(42))
}

func TestGetDefaultPermissions(t *testing.T) {
	assert.Contains(t, GetDefaultPermissions(RoleUnderwriter), PermissionDealDecide)
	assert.NotContains(t, GetDefaultPermissions(RoleBroker), PermissionDealDecide)
	assert.Empty(t, GetDefaultPermissions("guest"))

	claims := &UserClaims{Permissions: GetDefaultPermissions(RoleAdmin)}
	assert.True(t, claims.HasPermission(PermissionDealDelete))
}
