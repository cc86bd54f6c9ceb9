package models

import "time"

// Claim is a row of the claims table.
type Claim struct {
	ID         string
	ItemID     string
	ClaimantID string
	Reason     string
	Status     ClaimStatus
	DetailRef  DetailRef
	CreatedAt  time.Time

	// Join fields, filled depending on the listing.
	ClaimantUserName string
	ItemTitle        string
	ItemStatus       ItemStatus
	ItemDetailRef    DetailRef
	// ItemMirroredDescription is items.description, shown when the item
	// has no detail reference.
	ItemMirroredDescription string
}

// ClaimDetail is the document-store half of a claim.
type ClaimDetail struct {
	ID            DetailRef
	EvidenceImage []byte
	Note          string
}

// ClaimView is a claim joined with its evidence and, for claimant
// listings, the claimed item's detail.
type ClaimView struct {
	Claim
	EvidenceImage     []byte
	EvidenceAvailable bool

	ItemDescription string
	ItemImage       []byte
}
