// Command main runs the database seeder for clipstream.
package main

import (
	"flag"
	"log"

	"clipstream/internal/config"
	"clipstream/internal/database"
	"clipstream/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numVideos := flag.Int("videos", 200, "Number of videos to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d videos, clean=%v\n", *numUsers, *numVideos, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if err := s.Run(seed.Options{
		NumUsers:    *numUsers,
		NumVideos:   *numVideos,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The database is populated with test data.")
	log.Println("All seeded users have the password: Password123!")
}
