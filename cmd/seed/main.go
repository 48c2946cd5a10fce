// Command main runs the database seeder for BrewCircle.
package main

import (
	"flag"
	"log"

	"brewcircle/internal/config"
	"brewcircle/internal/database"
	"brewcircle/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 30, "Number of users to create")
	numVisits := flag.Int("visits", 120, "Number of visits to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d visits, clean=%v\n", *numUsers, *numVisits, *shouldClean)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB, seed.Options{
		NumUsers:  *numUsers,
		NumVisits: *numVisits,
	})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if err := s.Run(); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
