package main

import (
	"context"
	"fmt"
	"log"

	"seatwise/internal/events"
	"seatwise/internal/shared/config"
	"seatwise/internal/shared/database"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Seatwise Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedEvents(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	tables := []string{"bookings", "sections", "events"}
	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedEvents creates a handful of demo events with sections sized for
// concurrency testing (small capacities are exhausted quickly under
// parallel load).
func (s *Seeder) SeedEvents() error {
	repo := events.NewRepository(s.db.GetPostgreSQL())
	ctx := context.Background()

	demo := []events.Event{
		{
			Name: "Midnight Symphony",
			Sections: []events.Section{
				{Name: "VIP", Price: 250, Capacity: 5, Remaining: 5, Position: 0},
				{Name: "Balcony", Price: 120, Capacity: 50, Remaining: 50, Position: 1},
				{Name: "General", Price: 60, Capacity: 200, Remaining: 200, Position: 2},
			},
		},
		{
			Name: "Indie Rock Night",
			Sections: []events.Section{
				{Name: "Front Pit", Price: 90, Capacity: 3, Remaining: 3, Position: 0},
				{Name: "Standing", Price: 45, Capacity: 500, Remaining: 500, Position: 1},
			},
		},
		{
			Name: "Tech Conference Keynote",
			Sections: []events.Section{
				{Name: "Reserved", Price: 0, Capacity: 100, Remaining: 100, Position: 0},
			},
		},
	}

	for i := range demo {
		if err := repo.Create(ctx, &demo[i]); err != nil {
			return fmt.Errorf("failed to seed event %q: %w", demo[i].Name, err)
		}
		fmt.Printf("   • %s (%d sections)\n", demo[i].Name, len(demo[i].Sections))
	}

	return nil
}
