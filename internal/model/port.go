package model

import "time"

// ChargingPort represents a single physical connector at a station.  It
// is the serially-reusable resource that bookings schedule: for any
// port, the windows of its PENDING and ACTIVE bookings never overlap.
//
// EnergyUsed is a monotonically non-decreasing accumulator in kWh.  It
// is mutated in exactly one place: the ACTIVE to COMPLETED booking
// transition, which credits the energy for the booking's window.
//
// Fields:
//  ID            – primary key identifier.
//  StationID     – station this port belongs to.
//  Label         – human readable label, unique per station (e.g. "A1").
//  ConnectorType – plug standard (e.g. CCS2, CHAdeMO, Type2).
//  PowerKW       – nominal output of the connector in kW.
//  EnergyUsed    – cumulative energy delivered through this port in kWh.
//  IsActive      – whether the port accepts new bookings.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type ChargingPort struct {
	ID            uint64    `json:"id"`             // charging_ports.id
	StationID     uint64    `json:"station_id"`     // charging_ports.station_id
	Label         string    `json:"label"`          // charging_ports.label
	ConnectorType string    `json:"connector_type"` // charging_ports.connector_type
	PowerKW       float64   `json:"power_kw"`       // charging_ports.power_kw
	EnergyUsed    float64   `json:"energy_used"`    // charging_ports.energy_used (kWh)
	IsActive      bool      `json:"is_active"`      // charging_ports.is_active
	CreatedAt     time.Time `json:"created_at"`     // charging_ports.created_at
	UpdatedAt     time.Time `json:"updated_at"`     // charging_ports.updated_at
}
