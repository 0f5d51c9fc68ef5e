package model

import "time"

// Car represents a vehicle registered by a driver.  Bookings reference
// a car by identifier so operators can see which vehicle occupies a
// port during a window.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – driver who owns the car.
//  Plate     – unique licence plate.
//  Model     – free text make/model description.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Car struct {
	ID        uint64    `json:"id"`         // cars.id
	UserID    uint64    `json:"user_id"`    // cars.user_id
	Plate     string    `json:"plate"`      // cars.plate
	Model     string    `json:"model"`      // cars.model
	CreatedAt time.Time `json:"created_at"` // cars.created_at
	UpdatedAt time.Time `json:"updated_at"` // cars.updated_at
}
