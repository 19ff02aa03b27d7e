package repositories

import "github.com/vsinha/factoryplan/pkg/domain/entities"

// BuildingRepository provides access to the building speed catalog
type BuildingRepository interface {
	// GetBuilding returns the building for a tier-substituted kind, or an error
	// wrapping entities.ErrUnknownBuildingKind.
	GetBuilding(kind string) (*entities.Building, error)
	GetAllBuildings() ([]*entities.Building, error)
	LoadBuildings(buildings []*entities.Building) error
}
