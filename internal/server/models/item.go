package models

import "time"

// Sentinel filter values that mean "do not filter".
const (
	AllCategories = "All Categories"
	AllLocations  = "All Locations"
)

// MaxPayloadSize bounds any image or evidence payload accepted for storage.
const MaxPayloadSize = 16 * 1024 * 1024

// DetailsUnavailable is the description shown when a detail document
// could not be resolved.
const DetailsUnavailable = "Details unavailable"

// Item is a row of the items table. Description mirrors the detail
// document at write time.
type Item struct {
	ID          string
	UserID      string
	Title       string
	Category    string
	Location    string
	EventDate   time.Time
	Status      ItemStatus
	DetailRef   DetailRef
	Description string
	CreatedAt   time.Time

	// OwnerUserName is filled by listing joins.
	OwnerUserName string
}

// ItemDetail is the document-store half of an item.
type ItemDetail struct {
	ID          DetailRef
	Description string
	Image       []byte
}

// ItemFilter narrows ListItems. Empty or sentinel values disable a filter.
type ItemFilter struct {
	Category         string
	Location         string
	IncludeRecovered bool
}

// CategoryFilter returns the category to filter on, or "" for none.
func (f ItemFilter) CategoryFilter() string {
	if f.Category == AllCategories {
		return ""
	}
	return f.Category
}

// LocationFilter returns the location to filter on, or "" for none.
func (f ItemFilter) LocationFilter() string {
	if f.Location == AllLocations {
		return ""
	}
	return f.Location
}

// ItemView is an item joined with its resolved detail document.
type ItemView struct {
	Item
	Description     string
	Image           []byte
	DetailAvailable bool
	// Claimable is advisory, computed for the viewer that asked.
	Claimable bool
}
