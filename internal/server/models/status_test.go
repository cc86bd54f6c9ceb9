package models

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to ItemStatus
		wantErr  error
	}{
		{ItemLost, ItemRecovered, nil},
		{ItemFound, ItemRecovered, nil},
		{ItemRecovered, ItemRecovered, common.ErrAlreadyRecovered},
		{ItemRecovered, ItemLost, common.ErrInvalidTransition},
		{ItemRecovered, ItemFound, common.ErrInvalidTransition},
		{ItemLost, ItemFound, common.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			got, err := tt.from.TransitionTo(tt.to)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.ErrorIs(t, err, common.ErrConflict)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, got)
		})
	}
}

func TestClaimStatus_Transitions(t *testing.T) {
	ok := map[[2]ClaimStatus]bool{
		{ClaimPending, ClaimAccepted}:  true,
		{ClaimPending, ClaimRejected}:  true,
		{ClaimRejected, ClaimRejected}: true,
	}
	all := []ClaimStatus{ClaimPending, ClaimAccepted, ClaimRejected}
	for _, from := range all {
		for _, to := range all {
			got, err := from.TransitionTo(to)
			if ok[[2]ClaimStatus{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, got)
			} else {
				assert.True(t, errors.Is(err, common.ErrInvalidTransition), "%s -> %s: %v", from, to, err)
			}
		}
	}
}

func TestSourcesFor(t *testing.T) {
	assert.Equal(t, []ClaimStatus{ClaimPending}, SourcesFor(ClaimAccepted))
	assert.Equal(t, []ClaimStatus{ClaimPending, ClaimRejected}, SourcesFor(ClaimRejected))
	assert.Empty(t, SourcesFor(ClaimPending))
}

func TestParseStatuses(t *testing.T) {
	st, err := ParseItemStatus("found")
	require.NoError(t, err)
	assert.Equal(t, ItemFound, st)
	assert.True(t, st.Claimable())
	assert.False(t, ItemRecovered.Claimable())

	_, err = ParseItemStatus("stolen")
	assert.ErrorIs(t, err, common.ErrValidation)

	cs, err := ParseClaimStatus("rejected")
	require.NoError(t, err)
	assert.True(t, cs.Terminal())
	assert.False(t, ClaimPending.Terminal())

	_, err = ParseClaimStatus("maybe")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestItemFilter_Sentinels(t *testing.T) {
	f := ItemFilter{Category: AllCategories, Location: AllLocations}
	assert.Empty(t, f.CategoryFilter())
	assert.Empty(t, f.LocationFilter())

	f = ItemFilter{Category: "Wallets", Location: "Library"}
	assert.Equal(t, "Wallets", f.CategoryFilter())
	assert.Equal(t, "Library", f.LocationFilter())
}
