package ports

import "elevator-dispatch-service/internal/domain"

// Contract for choosing which cabin serves a waiting rider.
type AssignmentPolicy interface {
	Name() string
	// Assign returns the index of the cabin that should serve r.
	// cabins is never empty.
	Assign(r *domain.Rider, cabins []domain.CabinPosition) int
	// Improves reports whether moving r from cabin `from` to cabin `to`
	// is worth a migration. Boarded riders are never offered.
	Improves(r *domain.Rider, cabins []domain.CabinPosition, from, to int) bool
}
