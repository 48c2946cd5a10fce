package service

import (
	"context"
	"time"

	"brewcircle/internal/cache"
	"brewcircle/internal/database"
	"brewcircle/internal/models"
	"brewcircle/internal/observability"
	"brewcircle/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// ReviewInput carries a rating and optional comment for a visit review.
type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateVisitInput carries everything needed to create a visit in one operation.
type CreateVisitInput struct {
	UserID          uint
	CafeID          uint
	VisitDate       time.Time
	IsShared        bool
	MaxParticipants int
	InviteeIDs      []uint
	ImageURLs       []string
	Review          *ReviewInput
}

// VisitService provides visit orchestration business logic.
//
// Visit creation writes the visit, its participations, images, and an
// optional creator review in one transaction, retried on transient
// storage conflicts. Friendship checks are injected so the service does
// not depend on the friendship layer directly.
type VisitService struct {
	db                *gorm.DB
	cafeRepo          repository.CafeRepository
	visitRepo         repository.VisitRepository
	participationRepo repository.ParticipationRepository
	reviewRepo        repository.ReviewRepository
	userRepo          repository.UserRepository
	areFriends        func(ctx context.Context, userID, otherUserID uint) (bool, error)
	retryConfig       database.RetryConfig
}

// NewVisitService returns a new VisitService.
func NewVisitService(
	db *gorm.DB,
	cafeRepo repository.CafeRepository,
	visitRepo repository.VisitRepository,
	participationRepo repository.ParticipationRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	areFriends func(ctx context.Context, userID, otherUserID uint) (bool, error),
) *VisitService {
	return &VisitService{
		db:                db,
		cafeRepo:          cafeRepo,
		visitRepo:         visitRepo,
		participationRepo: participationRepo,
		reviewRepo:        reviewRepo,
		userRepo:          userRepo,
		areFriends:        areFriends,
		retryConfig:       database.DefaultRetryConfig,
	}
}

func validateReview(review *ReviewInput) error {
	if review == nil {
		return nil
	}
	if review.Rating < 1 || review.Rating > 5 {
		return models.NewValidationError("Rating must be between 1 and 5")
	}
	return nil
}

// normalizeInvitees deduplicates invitee IDs and drops the creator.
func normalizeInvitees(creatorID uint, ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == creatorID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// CreateVisit creates a visit with its creator participation, invitations,
// images, and optional creator review as one atomic unit. Every invitee must
// be an accepted friend of the creator, otherwise nothing is written.
func (s *VisitService) CreateVisit(ctx context.Context, in CreateVisitInput) (*models.Visit, error) {
	span, ctx := observability.NewSpan(ctx, "VisitService.CreateVisit")
	defer span.End()
	span.AddAttributes(
		attribute.Int("visit.cafe_id", int(in.CafeID)),
		attribute.Bool("visit.shared", in.IsShared),
		attribute.Int("visit.invitees", len(in.InviteeIDs)),
	)

	if _, err := s.cafeRepo.GetByID(ctx, in.CafeID); err != nil {
		span.SetError(err)
		return nil, err
	}

	maxParticipants := in.MaxParticipants
	if maxParticipants == 0 {
		maxParticipants = models.MaxVisitParticipants
	}
	if maxParticipants < 1 || maxParticipants > models.MaxVisitParticipants {
		return nil, models.NewValidationError("Max participants must be between 1 and 10")
	}

	if len(in.ImageURLs) > models.MaxVisitImages {
		return nil, models.NewValidationError("A visit can have at most 5 images")
	}

	if err := validateReview(in.Review); err != nil {
		return nil, err
	}

	invitees := normalizeInvitees(in.UserID, in.InviteeIDs)
	if len(invitees) > 0 && !in.IsShared {
		return nil, models.NewValidationError("Only shared visits can have invitees")
	}
	if in.IsShared && len(invitees) == 0 {
		return nil, models.NewValidationError("Shared visits need at least one invitee")
	}
	if len(invitees) > maxParticipants-1 {
		return nil, models.NewValidationError("Too many invitees for the participant limit")
	}

	// Every invitee must exist and be a friend before anything is written.
	if len(invitees) > 0 {
		inviteeUsers, err := s.userRepo.GetByIDs(ctx, invitees)
		if err != nil {
			return nil, err
		}
		known := make(map[uint]bool, len(inviteeUsers))
		for _, u := range inviteeUsers {
			known[u.ID] = true
		}
		for _, inviteeID := range invitees {
			if !known[inviteeID] {
				return nil, models.NewNotFoundError("User", inviteeID)
			}
			friends, err := s.areFriends(ctx, in.UserID, inviteeID)
			if err != nil {
				return nil, err
			}
			if !friends {
				return nil, models.NewValidationError("You can only invite friends to a visit")
			}
		}
	}

	visitDate := in.VisitDate
	if visitDate.IsZero() {
		visitDate = time.Now()
	}

	visit := &models.Visit{
		CreatorID:       in.UserID,
		CafeID:          in.CafeID,
		VisitDate:       visitDate,
		Status:          models.VisitStatusActive,
		IsShared:        in.IsShared,
		MaxParticipants: maxParticipants,
	}

	err := database.WithTxRetry(ctx, s.db, "visit_create", s.retryConfig, func(tx *gorm.DB) error {
		if err := tx.Create(visit).Error; err != nil {
			return err
		}

		now := time.Now()
		creatorPart := &models.Participation{
			VisitID:     visit.ID,
			UserID:      in.UserID,
			Role:        models.ParticipationRoleCreator,
			State:       models.ParticipationStateAccepted,
			InvitedAt:   now,
			RespondedAt: &now,
		}
		if err := tx.Create(creatorPart).Error; err != nil {
			return err
		}

		for _, inviteeID := range invitees {
			invitation := &models.Participation{
				VisitID:   visit.ID,
				UserID:    inviteeID,
				Role:      models.ParticipationRoleParticipant,
				State:     models.ParticipationStatePending,
				InvitedAt: now,
			}
			if err := tx.Create(invitation).Error; err != nil {
				return err
			}
		}

		for i, url := range in.ImageURLs {
			image := &models.VisitImage{
				VisitID:  visit.ID,
				URL:      url,
				Position: i + 1,
			}
			if err := tx.Create(image).Error; err != nil {
				return err
			}
		}

		if in.Review != nil {
			review := &models.Review{
				VisitID: visit.ID,
				UserID:  in.UserID,
				Rating:  in.Review.Rating,
				Comment: in.Review.Comment,
			}
			if err := tx.Create(review).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	kind := "solo"
	if in.IsShared {
		kind = "shared"
	}
	observability.VisitsCreatedTotal.WithLabelValues(kind).Inc()

	return s.visitRepo.GetByIDHydrated(ctx, visit.ID)
}

// RespondToInvitation accepts or rejects a pending invitation for userID on
// the given visit. Acceptance is capacity-checked. Only a pending row can be
// responded to; a repeated response finds none and fails NotFound rather
// than silently winning.
func (s *VisitService) RespondToInvitation(ctx context.Context, userID, visitID uint, accept bool) (*models.Participation, error) {
	visit, err := s.visitRepo.GetByID(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if visit.Status != models.VisitStatusActive {
		return nil, models.NewConflictError("Visit is no longer active")
	}

	state := models.ParticipationStateRejected
	decision := "rejected"
	if accept {
		state = models.ParticipationStateAccepted
		decision = "accepted"
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txParts := repository.NewParticipationRepository(tx)

		if accept {
			accepted, err := txParts.CountAccepted(ctx, visitID)
			if err != nil {
				return err
			}
			if accepted >= int64(visit.MaxParticipants) {
				return models.NewConflictError("Visit is already full")
			}
		}

		updated, err := txParts.RespondIfPending(ctx, visitID, userID, state)
		if err != nil {
			return err
		}
		if updated == 0 {
			return models.NewNotFoundError("Invitation", visitID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.AddTraceAttributesToContext(ctx, attribute.String("invitation.decision", decision))
	observability.InvitationResponsesTotal.WithLabelValues(decision).Inc()
	cache.InvalidateVisit(ctx, visitID)
	return s.participationRepo.GetByVisitAndUser(ctx, visitID, userID)
}

// AcceptWithReview accepts a pending invitation and records the participant's
// review of the visit in the same transaction.
func (s *VisitService) AcceptWithReview(ctx context.Context, userID, visitID uint, review ReviewInput) (*models.Participation, error) {
	if err := validateReview(&review); err != nil {
		return nil, err
	}

	visit, err := s.visitRepo.GetByID(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if visit.Status != models.VisitStatusActive {
		return nil, models.NewConflictError("Visit is no longer active")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txParts := repository.NewParticipationRepository(tx)
		txReviews := repository.NewReviewRepository(tx)

		// An existing review means this user already accepted with one, so
		// the conflict is reported ahead of the missing-pending-row check.
		existingReview, err := txReviews.GetByVisitAndUser(ctx, visitID, userID)
		if err != nil {
			return err
		}
		if existingReview != nil {
			return models.NewConflictError("Review already exists for this visit")
		}

		accepted, err := txParts.CountAccepted(ctx, visitID)
		if err != nil {
			return err
		}
		if accepted >= int64(visit.MaxParticipants) {
			return models.NewConflictError("Visit is already full")
		}

		updated, err := txParts.RespondIfPending(ctx, visitID, userID, models.ParticipationStateAccepted)
		if err != nil {
			return err
		}
		if updated == 0 {
			return models.NewNotFoundError("Invitation", visitID)
		}

		return txReviews.Create(ctx, &models.Review{
			VisitID: visitID,
			UserID:  userID,
			Rating:  review.Rating,
			Comment: review.Comment,
		})
	})
	if err != nil {
		return nil, err
	}

	observability.InvitationResponsesTotal.WithLabelValues("accepted_with_review").Inc()
	cache.InvalidateVisit(ctx, visitID)
	return s.participationRepo.GetByVisitAndUser(ctx, visitID, userID)
}

// ListPendingInvitations returns the user's pending visit invitations.
func (s *VisitService) ListPendingInvitations(ctx context.Context, userID uint) ([]models.Participation, error) {
	return s.participationRepo.ListPendingForUser(ctx, userID)
}

// GetVisit returns a visit with its cafe, participants, reviews, and images.
// The hydrated payload is served through the visit cache; responses to
// invitations invalidate it.
func (s *VisitService) GetVisit(ctx context.Context, visitID uint) (*models.Visit, error) {
	var visit models.Visit
	err := cache.CacheAside(ctx, cache.VisitKey(visitID), &visit, cache.VisitTTL, func() error {
		hydrated, ferr := s.visitRepo.GetByIDHydrated(ctx, visitID)
		if ferr != nil {
			return ferr
		}
		visit = *hydrated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

// ListVisits returns visits where the user holds an accepted participation.
func (s *VisitService) ListVisits(ctx context.Context, userID uint, limit, offset int) ([]models.Visit, error) {
	return s.visitRepo.ListForUser(ctx, userID, limit, offset)
}

// ListCreatedVisits returns visits created by the user.
func (s *VisitService) ListCreatedVisits(ctx context.Context, userID uint, limit, offset int) ([]models.Visit, error) {
	return s.visitRepo.ListByCreator(ctx, userID, limit, offset)
}
