package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"assistance-service/internal/apperrors"
	"assistance-service/internal/auth"
	"assistance-service/internal/event"
	"assistance-service/internal/models"
	"assistance-service/internal/signoff"
	"assistance-service/internal/utils"
)

// SubscriptionService drives a subscription from creation through the three
// validation gates to an active or rejected terminal state.
type SubscriptionService struct {
	subscriptionStore SubscriptionStore
	productStore      ProductStore
	projectStore      TravelProjectStore
	roleChecker       auth.RoleChecker
	notifier          Notifier
}

func NewSubscriptionService(
	subscriptionStore SubscriptionStore,
	productStore ProductStore,
	projectStore TravelProjectStore,
	roleChecker auth.RoleChecker,
	notifier Notifier,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionStore: subscriptionStore,
		productStore:      productStore,
		projectStore:      projectStore,
		roleChecker:       roleChecker,
		notifier:          notifier,
	}
}

// ComputeAppliedPrice resolves the product's pricing key against trip
// parameters. The result is frozen on the subscription at creation time and
// immune to later catalog changes.
func ComputeAppliedPrice(product *models.Product, project *models.TravelProject) float64 {
	switch product.PricingKey {
	case models.PricingPerPerson:
		count := 1
		if project != nil && project.ParticipantCount > 0 {
			count = project.ParticipantCount
		}
		return product.Cost * float64(count)
	case models.PricingPerDuration:
		days := 1
		if project != nil {
			if d := project.DurationDays(); d > 0 {
				days = d
			}
		}
		return product.Cost * float64(days)
	case models.PricingPerGroup, models.PricingPerDestination, models.PricingFixed:
		return product.Cost
	default:
		return product.Cost
	}
}

// CreateSubscription checks product availability and geographic eligibility,
// computes the applied price and persists a pending subscription with all
// three gates pending.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, userID string, req models.CreateSubscriptionRequest) (*models.Subscription, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "invalid subscription request", err)
	}

	now := time.Now().Unix()

	product, err := s.productStore.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if !product.AvailableAt(now) {
		return nil, apperrors.Newf(apperrors.KindProductInactive,
			"product %s is inactive or outside its validity window", product.Code)
	}

	var project *models.TravelProject
	if req.ProjectID != nil {
		project, err = s.projectStore.GetByID(ctx, *req.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to load travel project: %w", err)
		}
		if project.UserID != userID {
			return nil, apperrors.New(apperrors.KindUnauthorized, "travel project belongs to another user")
		}
		if !product.Geo.Data.CoversDestination(project.DestinationCode) {
			return nil, apperrors.Newf(apperrors.KindGeoIneligible,
				"destination %s is not covered by product %s", project.DestinationCode, product.Code)
		}
	}

	startDate, endDate := subscriptionWindow(req, project, now)

	sub := &models.Subscription{
		ID:                 uuid.New(),
		SubscriptionNumber: "SUB" + utils.GenerateRandomStringWithLength(9),
		UserID:             userID,
		ProductID:          product.ID,
		ProjectID:          req.ProjectID,
		AppliedPrice:       ComputeAppliedPrice(product, project),
		StartDate:          startDate,
		EndDate:            endDate,
		Status:             models.SubscriptionPending,
		MedicalStatus:      signoff.Pending,
		TechnicalStatus:    signoff.Pending,
		FinalStatus:        signoff.Pending,
	}

	if err := s.subscriptionStore.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to persist subscription: %w", err)
	}

	slog.Info("Subscription created",
		"subscription_id", sub.ID,
		"subscription_number", sub.SubscriptionNumber,
		"user_id", userID,
		"product_code", product.Code,
		"applied_price", sub.AppliedPrice)
	return sub, nil
}

// subscriptionWindow derives coverage dates: explicit request dates win,
// then trip dates, then a one-year window from now.
func subscriptionWindow(req models.CreateSubscriptionRequest, project *models.TravelProject, now int64) (int64, int64) {
	if req.StartDate != nil && req.EndDate != nil {
		return *req.StartDate, *req.EndDate
	}
	if project != nil && project.DepartureDate != nil && project.ReturnDate != nil {
		return *project.DepartureDate, *project.ReturnDate
	}
	return now, now + 365*24*3600
}

// RecordValidation applies one gate decision. The caller must hold the role
// mapped to the gate. Decisions on a terminal subscription fail with
// SubscriptionTerminal; re-deciding a gate fails with AlreadyDecided. The
// write is a compare-and-set: under a race, one caller succeeds and the
// other sees ConcurrentModification.
func (s *SubscriptionService) RecordValidation(ctx context.Context, subscriptionID uuid.UUID, validatorID string, req models.RecordValidationRequest) (*models.Subscription, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "invalid validation request", err)
	}

	role, _ := models.GateRole(req.Gate)
	allowed, err := s.roleChecker.HasRole(ctx, validatorID, role)
	if err != nil {
		return nil, fmt.Errorf("role check failed: %w", err)
	}
	if !allowed {
		return nil, apperrors.Newf(apperrors.KindUnauthorized,
			"validator %s lacks role %s for gate %s", validatorID, role, req.Gate)
	}

	sub, err := s.subscriptionStore.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub.IsTerminal() {
		return nil, apperrors.Newf(apperrors.KindSubscriptionTerminal,
			"subscription %s is %s, no further validation possible", sub.SubscriptionNumber, sub.Status)
	}

	sheet := sub.Sheet()
	if err := sheet.Record(req.Gate, req.Decision, validatorID, req.Notes, time.Now()); err != nil {
		return nil, err
	}

	previousStatus := sub.Status
	sub.ApplySheet(sheet)

	if err := s.subscriptionStore.Update(ctx, sub); err != nil {
		return nil, err
	}

	slog.Info("Subscription gate decided",
		"subscription_id", sub.ID,
		"gate", req.Gate,
		"decision", req.Decision,
		"validator_id", validatorID,
		"status", sub.Status)

	// Side effects fire exactly once, on the transition out of pending.
	if previousStatus == models.SubscriptionPending && sub.Status != previousStatus {
		s.publishStatusEvent(ctx, sub)
	}

	return sub, nil
}

func (s *SubscriptionService) publishStatusEvent(ctx context.Context, sub *models.Subscription) {
	if s.notifier == nil {
		return
	}

	eventName := ""
	title := ""
	switch sub.Status {
	case models.SubscriptionActive:
		eventName, title = event.EventSubscriptionActivated, "Your coverage is active"
	case models.SubscriptionRejected:
		eventName, title = event.EventSubscriptionRejected, "Your subscription was rejected"
	default:
		return
	}

	err := s.notifier.PublishWorkflowEvent(ctx, eventName, []string{sub.UserID}, title,
		fmt.Sprintf("Subscription %s is now %s", sub.SubscriptionNumber, sub.Status),
		map[string]interface{}{"subscription_id": sub.ID.String()})
	if err != nil {
		slog.Error("Failed to publish subscription event",
			"subscription_id", sub.ID, "event", eventName, "error", err)
	}
}

// GetSubscription returns one subscription by id.
func (s *SubscriptionService) GetSubscription(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	return s.subscriptionStore.GetByID(ctx, id)
}

// GetUserSubscriptions lists a user's subscriptions.
func (s *SubscriptionService) GetUserSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error) {
	return s.subscriptionStore.GetByUserID(ctx, userID)
}

// ExpireSubscriptions transitions active subscriptions whose end date has
// passed to expired. Idempotent: a second run with the same instant finds
// nothing left to expire. Individual CAS conflicts are skipped; the next
// scheduled run picks them up.
func (s *SubscriptionService) ExpireSubscriptions(ctx context.Context, now int64) (int, error) {
	subs, err := s.subscriptionStore.GetExpiringBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list expiring subscriptions: %w", err)
	}

	expired := 0
	for i := range subs {
		sub := &subs[i]
		sub.Status = models.SubscriptionExpired
		if err := s.subscriptionStore.Update(ctx, sub); err != nil {
			if apperrors.Is(err, apperrors.KindConcurrentModification) {
				slog.Warn("Skipping subscription expiry after concurrent update", "subscription_id", sub.ID)
				continue
			}
			return expired, fmt.Errorf("failed to expire subscription %s: %w", sub.ID, err)
		}
		expired++
	}

	if expired > 0 {
		slog.Info("Expired subscriptions", "count", expired)
	}
	return expired, nil
}
