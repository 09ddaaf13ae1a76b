package model

import "time"

// Hall represents a banquet hall available for booking.  Halls are
// catalogue data: the workflow only reads them, it never writes them.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique hall name.
//  Description – optional description of the hall.
//  Capacity    – maximum number of guests.
//  BasePrice   – list price in cents before admin allocation.
//  Address     – street address.
//  City        – city the hall is located in.
//  State       – state or region.
//  Amenities   – comma separated amenity labels (Parking, Stage, ...).
//  IsActive    – whether the hall can currently be booked.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Hall struct {
	ID          uint64    `json:"id"`          // halls.id
	Name        string    `json:"name"`        // halls.name
	Description *string   `json:"description"` // halls.description (nullable)
	Capacity    uint32    `json:"capacity"`    // halls.capacity
	BasePrice   uint64    `json:"base_price"`  // halls.base_price_cents
	Address     string    `json:"address"`     // halls.address
	City        string    `json:"city"`        // halls.city
	State       string    `json:"state"`       // halls.state
	Amenities   string    `json:"amenities"`   // halls.amenities
	IsActive    bool      `json:"is_active"`   // halls.is_active
	CreatedAt   time.Time `json:"created_at"`  // halls.created_at
	UpdatedAt   time.Time `json:"updated_at"`  // halls.updated_at
}
