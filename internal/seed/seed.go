// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"brewcircle/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers   int
	NumVisits  int
	SkipBcrypt bool
}

var (
	firstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda",
		"William", "Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
		"Thomas", "Sarah", "Charles", "Karen", "Christopher", "Nancy", "Daniel", "Lisa",
		"Matthew", "Betty", "Anthony", "Margaret", "Mark", "Sandra", "Donald", "Ashley",
		"Steven", "Kimberly", "Paul", "Emily", "Andrew", "Donna", "Joshua", "Michelle",
		"Nicholas", "Shirley", "Eric", "Angela", "Jonathan", "Helen", "Stephen", "Anna",
		"Benjamin", "Samantha", "Samuel", "Katherine", "Gregory", "Christine", "Frank", "Debra",
		"Alexander", "Rachel", "Raymond", "Catherine", "Patrick", "Carolyn", "Jack", "Janet",
	}

	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas",
		"Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson", "White",
		"Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker", "Young",
		"Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores",
		"Green", "Adams", "Nelson", "Baker", "Hall", "Rivera", "Campbell", "Mitchell",
	}

	bioTemplates = []string{
		"Flat white first, conversation second.",
		"Hunting for the best pour-over in town.",
		"Oat milk evangelist. Ask me about single origins.",
		"Weekend café crawler, weekday espresso survivor.",
		"I rate cafés by their window seats.",
		"Decaf after 2pm. Usually.",
		"Here for the pastries, staying for the people.",
		"Third-wave coffee, first-wave enthusiasm.",
		"Latte art appreciator, terrible latte artist.",
		"Will travel 40 minutes for a good cortado.",
	}

	cafeNames = []string{
		"The Daily Grind", "Bloom & Bean", "Copper Kettle", "Northlight Coffee",
		"Paper Crane Café", "The Roastery", "Fern & Filter", "Blackbird Espresso",
		"Harbor Coffee Co.", "Sunday Press", "The Brew Lab", "Maple & Mill",
		"Cloudbreak Coffee", "The Little Fox", "Stonefruit Café", "Ember & Oak",
		"Tidewater Roasters", "The Glass House", "Cedar Street Coffee", "Morning Theory",
	}

	cafeCities = []string{
		"Portland", "Seattle", "Austin", "Denver", "Chicago",
		"Minneapolis", "Nashville", "Asheville",
	}

	reviewComments = []string{
		"The cortado here is genuinely the best in the city.",
		"Great light, great beans, slightly wobbly tables.",
		"Came for the espresso, stayed three hours for the wifi.",
		"Their seasonal single origin was a highlight. Pastries sold out by 10.",
		"Solid flat white. Gets loud on weekends.",
		"Friendly staff and a ridiculous cinnamon bun.",
		"A little pricey but the pour-over is worth it.",
		"Cozy corner seats and they don't rush you out.",
		"Good coffee, better playlist.",
		"The kind of place you bring out-of-town friends to show off.",
	}
)

// Seeder populates the database with realistic development data.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
	opts Options
}

// NewSeeder creates a Seeder bound to the given database handle.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		opts: opts,
	}
}

// Run seeds users, cafés, a friendship mesh and visits in one pass.
func (s *Seeder) Run() error {
	log.Printf("🌱 Starting database seeding with %d users and %d visits...", s.opts.NumUsers, s.opts.NumVisits)

	users, err := s.SeedUsers(s.opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	cafes, err := s.SeedCafes()
	if err != nil {
		return fmt.Errorf("failed to create cafes: %w", err)
	}
	log.Printf("✓ %d cafés created", len(cafes))

	friendships, err := s.SeedFriendMesh(users)
	if err != nil {
		return fmt.Errorf("failed to create friendships: %w", err)
	}
	log.Printf("✓ %d friendship edges created", friendships)

	visits, err := s.SeedVisits(users, cafes, s.opts.NumVisits)
	if err != nil {
		return fmt.Errorf("failed to create visits: %w", err)
	}
	log.Printf("✓ %d visits created", visits)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// ClearAll truncates every seeded table. Postgres only.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE reviews, visit_images, visit_participations, visits, friendships, cafes, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// SeedUsers creates count users with a shared known password.
func (s *Seeder) SeedUsers(count int) ([]models.User, error) {
	password := "password123"
	hashed := []byte(password)
	if !s.opts.SkipBcrypt {
		var err error
		hashed, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		first := firstNames[s.rand.Intn(len(firstNames))]
		last := lastNames[s.rand.Intn(len(lastNames))]
		username := fmt.Sprintf("%s%s%d", strings.ToLower(first), strings.ToLower(last), s.rand.Intn(1000))

		user := models.User{
			Username: username,
			Email:    fmt.Sprintf("%s@example.com", username),
			Password: string(hashed),
			Bio:      bioTemplates[s.rand.Intn(len(bioTemplates))],
			Avatar:   fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", username),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedCafes creates the built-in café catalog.
func (s *Seeder) SeedCafes() ([]models.Cafe, error) {
	cafes := make([]models.Cafe, 0, len(cafeNames))
	for _, name := range cafeNames {
		cafe := models.Cafe{
			Name:     name,
			Address:  gofakeit.Street(),
			City:     cafeCities[s.rand.Intn(len(cafeCities))],
			ImageURL: fmt.Sprintf("https://picsum.photos/seed/cafe-%s/800/600", gofakeit.UUID()),
		}
		if err := s.db.Create(&cafe).Error; err != nil {
			return nil, err
		}
		cafes = append(cafes, cafe)
	}
	return cafes, nil
}

// SeedFriendMesh wires users into a friendship graph. Each user befriends a
// handful of others; accepted friendships get a row in each direction, and a
// few edges are left pending so the requests UI has data.
func (s *Seeder) SeedFriendMesh(users []models.User) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}

	created := 0
	seen := make(map[[2]uint]bool)

	for i := range users {
		numFriends := s.rand.Intn(4) + 2 // 2-5 edges per user
		for f := 0; f < numFriends; f++ {
			other := users[s.rand.Intn(len(users))]
			if other.ID == users[i].ID {
				continue
			}
			lo, hi := users[i].ID, other.ID
			if lo > hi {
				lo, hi = hi, lo
			}
			if seen[[2]uint{lo, hi}] {
				continue
			}
			seen[[2]uint{lo, hi}] = true

			// ~80% accepted, the rest left pending
			if s.rand.Float32() < 0.8 {
				pair := []models.Friendship{
					{RequesterID: users[i].ID, RecipientID: other.ID, Status: models.FriendshipStatusAccepted},
					{RequesterID: other.ID, RecipientID: users[i].ID, Status: models.FriendshipStatusAccepted},
				}
				if err := s.db.Create(&pair).Error; err != nil {
					return created, err
				}
				created += 2
			} else {
				edge := models.Friendship{
					RequesterID: users[i].ID,
					RecipientID: other.ID,
					Status:      models.FriendshipStatusPending,
				}
				if err := s.db.Create(&edge).Error; err != nil {
					return created, err
				}
				created++
			}
		}
	}
	return created, nil
}

// SeedVisits creates count visits spread across users and cafés. Shared
// visits invite accepted friends of the creator; some invitations are
// accepted or rejected to exercise every participation state.
func (s *Seeder) SeedVisits(users []models.User, cafes []models.Cafe, count int) (int, error) {
	if len(users) == 0 || len(cafes) == 0 {
		return 0, nil
	}

	created := 0
	for i := 0; i < count; i++ {
		creator := users[s.rand.Intn(len(users))]
		cafe := cafes[s.rand.Intn(len(cafes))]
		visitDate := time.Now().AddDate(0, 0, -s.rand.Intn(60))
		isShared := s.rand.Float32() < 0.5

		friends, err := s.acceptedFriends(creator.ID)
		if err != nil {
			return created, err
		}
		if len(friends) == 0 {
			isShared = false
		}

		visit := models.Visit{
			CreatorID:       creator.ID,
			CafeID:          cafe.ID,
			VisitDate:       visitDate,
			Status:          models.VisitStatusActive,
			IsShared:        isShared,
			MaxParticipants: models.MaxVisitParticipants,
		}
		if err := s.db.Create(&visit).Error; err != nil {
			return created, err
		}

		respondedAt := visitDate
		creatorRow := models.Participation{
			VisitID:     visit.ID,
			UserID:      creator.ID,
			Role:        models.ParticipationRoleCreator,
			State:       models.ParticipationStateAccepted,
			InvitedAt:   visitDate,
			RespondedAt: &respondedAt,
		}
		if err := s.db.Create(&creatorRow).Error; err != nil {
			return created, err
		}

		if isShared {
			numInvites := s.rand.Intn(3) + 1
			if numInvites > len(friends) {
				numInvites = len(friends)
			}
			for _, friendID := range friends[:numInvites] {
				row := models.Participation{
					VisitID:   visit.ID,
					UserID:    friendID,
					Role:      models.ParticipationRoleParticipant,
					State:     models.ParticipationStatePending,
					InvitedAt: visitDate,
				}
				// Resolve some invitations so feeds have accepted entries.
				roll := s.rand.Float32()
				if roll < 0.5 {
					row.State = models.ParticipationStateAccepted
					row.RespondedAt = &respondedAt
				} else if roll < 0.65 {
					row.State = models.ParticipationStateRejected
					row.RespondedAt = &respondedAt
				}
				if err := s.db.Create(&row).Error; err != nil {
					return created, err
				}
			}
		}

		if s.rand.Float32() < 0.4 {
			image := models.VisitImage{
				VisitID:  visit.ID,
				URL:      fmt.Sprintf("https://picsum.photos/seed/visit-%s/800/600", gofakeit.UUID()),
				Position: 1,
			}
			if err := s.db.Create(&image).Error; err != nil {
				return created, err
			}
		}

		if s.rand.Float32() < 0.6 {
			review := models.Review{
				VisitID: visit.ID,
				UserID:  creator.ID,
				Rating:  s.rand.Intn(3) + 3, // seeded reviewers skew positive
				Comment: reviewComments[s.rand.Intn(len(reviewComments))],
			}
			if err := s.db.Create(&review).Error; err != nil {
				return created, err
			}
		}

		created++
	}
	return created, nil
}

func (s *Seeder) acceptedFriends(userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.Friendship{}).
		Where("requester_id = ? AND status = ?", userID, models.FriendshipStatusAccepted).
		Pluck("recipient_id", &ids).Error
	return ids, err
}
