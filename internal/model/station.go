package model

import "time"

// Station represents a charging location operated by a user with the
// OPERATOR role.  A station groups one or more charging ports.  This
// struct corresponds to a row in the `stations` table; ports reference
// their station by identifier only.
//
// Fields:
//  ID         – primary key identifier.
//  OperatorID – user ID of the operating company account.
//  Name       – unique station name per operator.
//  Address    – street address shown to drivers.
//  IsActive   – whether the station is open for booking.
//  CreatedAt  – timestamp when the station was created.
//  UpdatedAt  – timestamp of last update.
type Station struct {
	ID         uint64    `json:"id"`          // stations.id
	OperatorID uint64    `json:"operator_id"` // stations.operator_id
	Name       string    `json:"name"`        // stations.name
	Address    string    `json:"address"`     // stations.address
	IsActive   bool      `json:"is_active"`   // stations.is_active
	CreatedAt  time.Time `json:"created_at"`  // stations.created_at
	UpdatedAt  time.Time `json:"updated_at"`  // stations.updated_at
}
