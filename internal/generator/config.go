package generator

// Config drives the synthetic campus generator.
type Config struct {
	Buildings     int
	Floors        int
	RoomsPerFloor int
	// Spacing is the coordinate distance between neighbouring rooms.
	Spacing   float64
	POIChance float64
	Seed      int64
}

// DefaultConfig returns a mid-sized campus suitable for demos and load tests.
func DefaultConfig() Config {
	return Config{
		Buildings:     4,
		Floors:        3,
		RoomsPerFloor: 12,
		Spacing:       10,
		POIChance:     0.2,
		Seed:          42,
	}
}
