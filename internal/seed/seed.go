// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"clipstream/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumVideos   int
	ShouldClean bool
}

var (
	videoTopics = []string{
		"Unboxing", "Review", "Tutorial", "Vlog", "Highlights", "Behind the Scenes",
		"Q&A", "Speedrun", "Reaction", "Deep Dive", "Live Session", "Retrospective",
	}

	videoSubjects = []string{
		"a mechanical keyboard", "the new camera", "sourdough baking", "homelab networking",
		"a weekend in the mountains", "the championship final", "guitar practice",
		"container orchestration", "vintage synthesizers", "urban sketching",
		"a marathon build", "espresso dialing",
	}

	commentLines = []string{
		"Great video, learned a lot!",
		"Can you do a follow-up on this?",
		"The editing keeps getting better.",
		"Watched this twice already.",
		"This deserves way more views.",
		"Finally someone explained it properly.",
		"What gear do you use for this?",
		"Subscribed after this one.",
	}

	tweetLines = []string{
		"New upload coming this weekend, stay tuned.",
		"Crossed another subscriber milestone today. Thank you all!",
		"Recording day. Coffee count: 4.",
		"Should the next video be a tutorial or a vlog? Reply below.",
		"Behind on editing but the footage is worth the wait.",
	}

	playlistNames = []string{
		"Favorites", "Watch Later", "Tutorials", "Best Of", "Chill Mix", "Deep Dives",
	}
)

// Seeder populates the database with plausible development data.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a seeder over the given connection.
func NewSeeder(db *gorm.DB) *Seeder {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Order matters: dependents first.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []string{
		"likes", "watch_history", "playlist_videos", "playlists",
		"comments", "subscriptions", "tweets", "videos", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// SeedUsers creates n users. All of them share the password "Password123!".
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	log.Printf("Seeding %d users...", n)

	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		username := fmt.Sprintf("%s%s%d", strings.ToLower(first), strings.ToLower(last), i)

		user := &models.User{
			Username: username,
			Email:    username + "@example.com",
			Password: string(hashed),
			FullName: first + " " + last,
			Avatar:   fmt.Sprintf("https://i.pravatar.cc/300?u=%s", username),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("create user %s: %w", username, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedVideos creates n videos spread across the given users. Roughly one in
// ten stays an unpublished draft.
func (s *Seeder) SeedVideos(users []*models.User, n int) ([]*models.Video, error) {
	log.Printf("Seeding %d videos...", n)

	videos := make([]*models.Video, 0, n)
	for i := 0; i < n; i++ {
		owner := users[s.rng.Intn(len(users))]
		topic := videoTopics[s.rng.Intn(len(videoTopics))]
		subject := videoSubjects[s.rng.Intn(len(videoSubjects))]

		video := &models.Video{
			Title:       fmt.Sprintf("%s: %s", topic, subject),
			Description: gofakeit.Paragraph(1, 3, 10, " "),
			VideoFile:   fmt.Sprintf("https://media.example.com/videos/%s.mp4", gofakeit.UUID()),
			Thumbnail:   fmt.Sprintf("https://media.example.com/thumbnails/%s.jpg", gofakeit.UUID()),
			Duration:    30 + s.rng.Float64()*1800,
			Views:       int64(s.rng.Intn(100000)),
			IsPublished: s.rng.Intn(10) != 0,
			OwnerID:     owner.ID,
		}
		// realistic created_at spread over the last ~90 days
		video.CreatedAt = time.Now().Add(-time.Duration(s.rng.Intn(90*24)) * time.Hour)
		if err := s.db.Create(video).Error; err != nil {
			return nil, fmt.Errorf("create video: %w", err)
		}
		videos = append(videos, video)
	}
	return videos, nil
}

// SeedEngagement wires comments, likes, subscriptions, tweets, playlists and
// watch history between the seeded users and videos.
func (s *Seeder) SeedEngagement(users []*models.User, videos []*models.Video) error {
	log.Println("Seeding engagement...")

	for _, video := range videos {
		if !video.IsPublished {
			continue
		}
		for i := 0; i < s.rng.Intn(5); i++ {
			commenter := users[s.rng.Intn(len(users))]
			content := commentLines[s.rng.Intn(len(commentLines))]
			if s.rng.Intn(3) == 0 {
				content = gofakeit.Sentence(8)
			}
			comment := &models.Comment{
				Content: content,
				VideoID: video.ID,
				OwnerID: commenter.ID,
			}
			if err := s.db.Create(comment).Error; err != nil {
				return fmt.Errorf("create comment: %w", err)
			}
		}
		for i := 0; i < s.rng.Intn(8); i++ {
			liker := users[s.rng.Intn(len(users))]
			videoID := video.ID
			like := &models.Like{LikedByID: liker.ID, VideoID: &videoID}
			if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
				return fmt.Errorf("create like: %w", err)
			}
		}
		for i := 0; i < s.rng.Intn(6); i++ {
			viewer := users[s.rng.Intn(len(users))]
			entry := &models.WatchHistoryEntry{
				UserID:    viewer.ID,
				VideoID:   video.ID,
				WatchedAt: time.Now().Add(-time.Duration(s.rng.Intn(720)) * time.Hour),
			}
			if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error; err != nil {
				return fmt.Errorf("create watch entry: %w", err)
			}
		}
	}

	for _, user := range users {
		for i := 0; i < s.rng.Intn(5); i++ {
			channel := users[s.rng.Intn(len(users))]
			if channel.ID == user.ID {
				continue
			}
			sub := &models.Subscription{SubscriberID: user.ID, ChannelID: channel.ID}
			if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(sub).Error; err != nil {
				return fmt.Errorf("create subscription: %w", err)
			}
		}

		for i := 0; i < s.rng.Intn(3); i++ {
			content := tweetLines[s.rng.Intn(len(tweetLines))]
			if s.rng.Intn(3) == 0 {
				content = gofakeit.Sentence(10)
			}
			tweet := &models.Tweet{
				Content: content,
				OwnerID: user.ID,
			}
			if err := s.db.Create(tweet).Error; err != nil {
				return fmt.Errorf("create tweet: %w", err)
			}
		}

		if s.rng.Intn(3) == 0 && len(videos) > 0 {
			playlist := &models.Playlist{
				Name:        playlistNames[s.rng.Intn(len(playlistNames))],
				Description: "Seeded playlist",
				OwnerID:     user.ID,
			}
			if err := s.db.Create(playlist).Error; err != nil {
				return fmt.Errorf("create playlist: %w", err)
			}
			for pos := 0; pos < s.rng.Intn(6); pos++ {
				member := &models.PlaylistVideo{
					PlaylistID: playlist.ID,
					VideoID:    videos[s.rng.Intn(len(videos))].ID,
					Position:   pos,
				}
				if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(member).Error; err != nil {
					return fmt.Errorf("create playlist member: %w", err)
				}
			}
		}
	}

	return nil
}

// Run executes the full seeding pass.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	videos, err := s.SeedVideos(users, opts.NumVideos)
	if err != nil {
		return err
	}
	return s.SeedEngagement(users, videos)
}
