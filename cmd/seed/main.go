// Command main runs the database seeder for devshelf.
package main

import (
	"flag"
	"log"

	"devshelf/internal/config"
	"devshelf/internal/database"
	"devshelf/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numResources := flag.Int("resources", 120, "Number of resources to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d resources, clean=%v\n", *numUsers, *numResources, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumUsers:     *numUsers,
		NumResources: *numResources,
		ShouldClean:  *shouldClean,
	})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Run(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
