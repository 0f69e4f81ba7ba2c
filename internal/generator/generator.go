package generator

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/vanshika/campusnav/backend/internal/geo"
	"github.com/vanshika/campusnav/backend/internal/service"
)

// Dataset is a complete campus ready for BulkIngestor. Location IDs are
// explicit so connection lists and amenities can refer to them.
type Dataset struct {
	Locations         []service.LocationInput         `json:"locations"`
	POIs              []service.POIInput              `json:"pois"`
	EmergencyServices []service.EmergencyServiceInput `json:"emergency_services"`
}

// Generator lays out buildings side by side. Every floor is a corridor of
// rooms; room 0 of each floor is the stairwell linking it to the floors above
// and below, and the ground-floor stairwells double as building entrances
// linked along a campus walkway.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator. A zero Seed uses the default seed so
// output is always reproducible.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.Buildings <= 0 {
		cfg.Buildings = def.Buildings
	}
	if cfg.Floors <= 0 {
		cfg.Floors = def.Floors
	}
	if cfg.RoomsPerFloor <= 0 {
		cfg.RoomsPerFloor = def.RoomsPerFloor
	}
	if cfg.Spacing <= 0 {
		cfg.Spacing = def.Spacing
	}
	if cfg.POIChance < 0 {
		cfg.POIChance = 0
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// LocationID returns the ID assigned to a room. IDs start at 1 and run
// building by building, floor by floor.
func (g *Generator) LocationID(building, floor, room int) int64 {
	perBuilding := g.cfg.Floors * g.cfg.RoomsPerFloor
	return int64(building*perBuilding+floor*g.cfg.RoomsPerFloor+room) + 1
}

// Generate builds the campus. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	var ds Dataset
	for b := 0; b < g.cfg.Buildings; b++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		building := buildingName(b)
		for f := 0; f < g.cfg.Floors; f++ {
			for r := 0; r < g.cfg.RoomsPerFloor; r++ {
				loc := g.location(b, f, r, building)
				ds.Locations = append(ds.Locations, loc)
				if r > 0 && g.rand.Float64() < g.cfg.POIChance {
					ds.POIs = append(ds.POIs, g.poi(loc))
				}
			}
			stairwell := g.LocationID(b, f, 0)
			ds.EmergencyServices = append(ds.EmergencyServices, service.EmergencyServiceInput{
				Type:        "fire_extinguisher",
				Description: fmt.Sprintf("%s floor %d stairwell", building, f),
				LocationID:  stairwell,
			})
		}
		ds.EmergencyServices = append(ds.EmergencyServices, service.EmergencyServiceInput{
			Type:        "exit",
			Description: building + " main entrance",
			LocationID:  g.LocationID(b, 0, 0),
		})
	}
	return ds, nil
}

func (g *Generator) location(b, f, r int, building string) service.LocationInput {
	floor := f
	loc := service.LocationInput{
		ID:       g.LocationID(b, f, r),
		Building: building,
		Floor:    &floor,
		// Floors are offset vertically so stacked rooms keep distinct points.
		Coordinates: geo.NewPoint(
			float64(b*(g.cfg.RoomsPerFloor+2))*g.cfg.Spacing+float64(r)*g.cfg.Spacing,
			float64(f)*g.cfg.Spacing,
		),
	}

	switch {
	case r == 0 && f == 0:
		loc.Name = building + " Entrance"
		loc.Category = "entrance"
	case r == 0:
		loc.Name = fmt.Sprintf("%s Stairwell %d", building, f)
		loc.Category = "stairs"
	default:
		loc.RoomNumber = fmt.Sprintf("%d%02d", f, r)
		loc.Name = fmt.Sprintf("%s %s", building, loc.RoomNumber)
		loc.Category = roomCategories[g.rand.Intn(len(roomCategories))]
	}

	if r > 0 {
		loc.ConnectedTo = append(loc.ConnectedTo, g.LocationID(b, f, r-1))
	}
	if r == 0 && f > 0 {
		loc.ConnectedTo = append(loc.ConnectedTo, g.LocationID(b, f-1, 0))
	}
	if r == 0 && f == 0 && b > 0 {
		loc.ConnectedTo = append(loc.ConnectedTo, g.LocationID(b-1, 0, 0))
	}
	return loc
}

func (g *Generator) poi(loc service.LocationInput) service.POIInput {
	kind := poiKinds[g.rand.Intn(len(poiKinds))]
	available := g.rand.Float64() < 0.8
	capacity := 10 + g.rand.Intn(90)
	occupancy := g.rand.Intn(capacity + 1)
	return service.POIInput{
		Name:             fmt.Sprintf("%s %s", loc.Name, kind.label),
		Type:             kind.typ,
		IsAvailable:      &available,
		Capacity:         &capacity,
		CurrentOccupancy: &occupancy,
		LocationID:       loc.ID,
	}
}

func buildingName(idx int) string {
	if idx < len(buildingNames) {
		return buildingNames[idx]
	}
	return fmt.Sprintf("Building %d", idx+1)
}

var (
	buildingNames  = []string{"Science Hall", "Library", "Engineering", "Student Center", "Arts Building", "Admin Block"}
	roomCategories = []string{"classroom", "lab", "office", "restroom", "lecture_hall"}
	poiKinds       = []struct{ typ, label string }{
		{"cafe", "Cafe"},
		{"printer", "Printer"},
		{"study_area", "Study Area"},
		{"vending", "Vending Machine"},
		{"atm", "ATM"},
	}
)
