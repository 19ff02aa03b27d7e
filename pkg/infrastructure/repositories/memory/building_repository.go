package memory

import (
	"fmt"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/domain/repositories"
)

// BuildingRepository provides in-memory building speed storage
type BuildingRepository struct {
	buildings    []entities.Building
	buildingsMap map[string]int
}

// NewBuildingRepository creates a new in-memory building repository
func NewBuildingRepository(expectedBuildings int) *BuildingRepository {
	return &BuildingRepository{
		buildings:    make([]entities.Building, 0, expectedBuildings),
		buildingsMap: make(map[string]int, expectedBuildings),
	}
}

// Verify interface compliance
var _ repositories.BuildingRepository = (*BuildingRepository)(nil)

// LoadBuildings loads buildings into the repository
func (r *BuildingRepository) LoadBuildings(buildings []*entities.Building) error {
	for _, building := range buildings {
		if err := r.SaveBuilding(building); err != nil {
			return err
		}
	}
	return nil
}

// SaveBuilding saves a single building kind
func (r *BuildingRepository) SaveBuilding(building *entities.Building) error {
	if _, exists := r.buildingsMap[building.Name]; exists {
		return fmt.Errorf("duplicate building kind %s", building.Name)
	}
	r.buildingsMap[building.Name] = len(r.buildings)
	r.buildings = append(r.buildings, *building)
	return nil
}

// GetBuilding returns the building for a tier-substituted kind
func (r *BuildingRepository) GetBuilding(kind string) (*entities.Building, error) {
	index, exists := r.buildingsMap[kind]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrUnknownBuildingKind, kind)
	}
	return &r.buildings[index], nil
}

// GetAllBuildings returns all buildings in insertion order
func (r *BuildingRepository) GetAllBuildings() ([]*entities.Building, error) {
	buildings := make([]*entities.Building, 0, len(r.buildings))
	for i := range r.buildings {
		buildings = append(buildings, &r.buildings[i])
	}
	return buildings, nil
}
