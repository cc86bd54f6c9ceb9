package models

import (
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/common"
)

// ItemStatus is the lifecycle status of an item. The declaration order
// matches the item_status enum in the database, which drives listing order.
type ItemStatus string

const (
	ItemLost      ItemStatus = "lost"
	ItemFound     ItemStatus = "found"
	ItemRecovered ItemStatus = "recovered"
)

// ParseItemStatus validates s against the closed set of item statuses.
func ParseItemStatus(s string) (ItemStatus, error) {
	switch st := ItemStatus(s); st {
	case ItemLost, ItemFound, ItemRecovered:
		return st, nil
	}
	return "", common.Validationf("unknown item status %q", s)
}

func (s ItemStatus) String() string { return string(s) }

// Claimable reports whether claims may be submitted or accepted.
func (s ItemStatus) Claimable() bool {
	return s == ItemLost || s == ItemFound
}

// TransitionTo returns next if the move is legal. Only lost|found ->
// recovered is; recovered is terminal.
func (s ItemStatus) TransitionTo(next ItemStatus) (ItemStatus, error) {
	if s.Claimable() && next == ItemRecovered {
		return next, nil
	}
	if s == ItemRecovered && next == ItemRecovered {
		return "", common.ErrAlreadyRecovered
	}
	return "", fmt.Errorf("%w: item %s -> %s", common.ErrInvalidTransition, s, next)
}

// ClaimStatus is the lifecycle status of a claim.
type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimAccepted ClaimStatus = "accepted"
	ClaimRejected ClaimStatus = "rejected"
)

// ParseClaimStatus validates s against the closed set of claim statuses.
func ParseClaimStatus(s string) (ClaimStatus, error) {
	switch st := ClaimStatus(s); st {
	case ClaimPending, ClaimAccepted, ClaimRejected:
		return st, nil
	}
	return "", common.Validationf("unknown claim status %q", s)
}

func (s ClaimStatus) String() string { return string(s) }

// Terminal reports whether no further transition (other than the
// idempotent re-reject) is possible.
func (s ClaimStatus) Terminal() bool {
	return s == ClaimAccepted || s == ClaimRejected
}

// TransitionTo returns next if the move is legal: pending -> accepted,
// pending -> rejected, and the no-op rejected -> rejected.
func (s ClaimStatus) TransitionTo(next ClaimStatus) (ClaimStatus, error) {
	for _, from := range SourcesFor(next) {
		if from == s {
			return next, nil
		}
	}
	return "", fmt.Errorf("%w: claim %s -> %s", common.ErrInvalidTransition, s, next)
}

// SourcesFor lists the statuses a claim may be in for a move to next to be
// legal. Repositories use it as the WHERE guard of status updates, so the
// SQL and TransitionTo never disagree.
func SourcesFor(next ClaimStatus) []ClaimStatus {
	switch next {
	case ClaimAccepted:
		return []ClaimStatus{ClaimPending}
	case ClaimRejected:
		return []ClaimStatus{ClaimPending, ClaimRejected}
	}
	return nil
}
