package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"brewcircle/internal/config"
	"brewcircle/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter atomic.Int64

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test_secret",
		Port:      "0",
		Env:       "test",
	}
}

// newTestServer builds a Server backed by an in-memory SQLite database,
// with all routes registered behind a header-based test authenticator.
func newTestServer(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:servertest%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Cafe{},
		&models.Friendship{},
		&models.Visit{},
		&models.VisitImage{},
		&models.Participation{},
		&models.Review{},
	))

	s, err := NewServerWithDeps(testConfig(), db, nil)
	require.NoError(t, err)

	app := fiber.New()
	// Replace JWT auth with a header-based stub so tests can act as any user.
	app.Use(func(c *fiber.Ctx) error {
		if raw := c.Get("X-Test-User"); raw != "" {
			var uid uint
			if _, err := fmt.Sscanf(raw, "%d", &uid); err == nil {
				c.Locals("userID", uid)
			}
		}
		return c.Next()
	})
	registerTestRoutes(app, s)

	return app, s, db
}

// registerTestRoutes wires the domain routes without the JWT middleware.
func registerTestRoutes(app *fiber.App, s *Server) {
	api := app.Group("/api")

	friends := api.Group("/friends")
	friends.Get("/", s.GetFriends)
	friends.Post("/requests/:userId", s.SendFriendRequest)
	friends.Get("/requests", s.GetPendingRequests)
	friends.Get("/requests/sent", s.GetSentRequests)
	friends.Post("/requests/:requestId/accept", s.AcceptFriendRequest)
	friends.Post("/requests/:requestId/reject", s.RejectFriendRequest)
	friends.Delete("/requests/:requestId", s.CancelFriendRequest)
	friends.Get("/status/:userId", s.GetFriendshipStatus)
	friends.Delete("/:userId", s.RemoveFriend)

	visits := api.Group("/visits")
	visits.Post("/", s.CreateVisit)
	visits.Get("/", s.GetMyVisits)
	visits.Get("/created", s.GetCreatedVisits)
	visits.Get("/invitations", s.GetPendingInvitations)
	visits.Post("/:id/accept", s.AcceptInvitation)
	visits.Post("/:id/accept-with-review", s.AcceptInvitationWithReview)
	visits.Post("/:id/reject", s.RejectInvitation)
	visits.Get("/:id", s.GetVisit)

	cafes := api.Group("/cafes")
	cafes.Get("/", s.GetCafes)
	cafes.Get("/:id", s.GetCafe)
	cafes.Post("/", s.CreateCafe)
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCafe(t *testing.T, db *gorm.DB, name string) *models.Cafe {
	t.Helper()
	cafe := &models.Cafe{Name: name, Address: "1 Brew Way", City: "Portland"}
	require.NoError(t, db.Create(cafe).Error)
	return cafe
}

// doJSON issues a JSON request as the given user and decodes the response body.
func doJSON(t *testing.T, app *fiber.App, method, path string, userID uint, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-Test-User", fmt.Sprintf("%d", userID))
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}
