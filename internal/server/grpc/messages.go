package grpc

import "time"

type PingRequest struct{}

type PingResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// WriteResponse answers every call that changes state. ID names the row
// that was created or changed.
type WriteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

type SaveItemRequest struct {
	Title       string    `json:"title"`
	Category    string    `json:"category,omitempty"`
	Location    string    `json:"location"`
	EventDate   time.Time `json:"event_date"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Image       []byte    `json:"image,omitempty"`
}

type ListItemsRequest struct {
	Category         string `json:"category,omitempty"`
	Location         string `json:"location,omitempty"`
	IncludeRecovered bool   `json:"include_recovered,omitempty"`
}

type ListMyItemsRequest struct{}

type Item struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	OwnerUsername   string    `json:"owner_username,omitempty"`
	Title           string    `json:"title"`
	Category        string    `json:"category,omitempty"`
	Location        string    `json:"location"`
	EventDate       time.Time `json:"event_date"`
	Status          string    `json:"status"`
	Description     string    `json:"description"`
	Image           []byte    `json:"image,omitempty"`
	DetailAvailable bool      `json:"detail_available"`
	Claimable       bool      `json:"claimable"`
	CreatedAt       time.Time `json:"created_at"`
}

type ListItemsResponse struct {
	Items []Item `json:"items"`
}

type ListValuesRequest struct{}

type ListValuesResponse struct {
	Values []string `json:"values"`
}

type SubmitClaimRequest struct {
	ItemID   string `json:"item_id"`
	Reason   string `json:"reason"`
	Evidence []byte `json:"evidence,omitempty"`
}

// AcceptClaimRequest accepts a claim. ItemID may be left empty, in which
// case the claim's own item is used.
type AcceptClaimRequest struct {
	ClaimID string `json:"claim_id"`
	ItemID  string `json:"item_id,omitempty"`
}

type AcceptClaimResponse struct {
	WriteResponse
	RejectedCount int64 `json:"rejected_count"`
}

type RejectClaimRequest struct {
	ClaimID string `json:"claim_id"`
}

type ListClaimsForItemRequest struct {
	ItemID string `json:"item_id"`
}

type ListMyClaimsRequest struct{}

type Claim struct {
	ID                string    `json:"id"`
	ItemID            string    `json:"item_id"`
	ItemTitle         string    `json:"item_title,omitempty"`
	ItemStatus        string    `json:"item_status,omitempty"`
	ClaimantID        string    `json:"claimant_id"`
	ClaimantUsername  string    `json:"claimant_username,omitempty"`
	Reason            string    `json:"reason"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	EvidenceImage     []byte    `json:"evidence_image,omitempty"`
	EvidenceAvailable bool      `json:"evidence_available"`
	ItemDescription   string    `json:"item_description,omitempty"`
	ItemImage         []byte    `json:"item_image,omitempty"`
}

type ListClaimsResponse struct {
	Claims []Claim `json:"claims"`
}
