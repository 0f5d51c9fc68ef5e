package repository

import (
	"context"
	"database/sql"
)

// Directory adapts the user, car and port repositories to the lookup
// contract the booking service depends on (booking.Directory).
type Directory struct {
	Users *UserRepo
	Cars  *CarRepo
	Ports *PortRepo
}

func NewDirectory(users *UserRepo, cars *CarRepo, ports *PortRepo) *Directory {
	return &Directory{Users: users, Cars: cars, Ports: ports}
}

func (d *Directory) UserExists(ctx context.Context, id uint64) (bool, error) {
	return d.Users.Exists(ctx, id)
}

func (d *Directory) CarOwnedBy(ctx context.Context, carID, userID uint64) (bool, error) {
	return d.Cars.OwnedBy(ctx, carID, userID)
}

func (d *Directory) PortExists(ctx context.Context, id uint64) (bool, error) {
	return d.Ports.Exists(ctx, id)
}

func (d *Directory) AddPortEnergyTx(ctx context.Context, tx *sql.Tx, portID uint64, deltaKWH float64) error {
	return d.Ports.AddEnergyTx(ctx, tx, portID, deltaKWH)
}
