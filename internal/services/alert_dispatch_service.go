package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"assistance-service/internal/apperrors"
	"assistance-service/internal/event"
	"assistance-service/internal/geocoding"
	"assistance-service/internal/models"
	"assistance-service/internal/utils"
)

const (
	earthRadiusKm       = 6371.0
	hospitalSnapshotKey = "hospitals:active:snapshot"
	hospitalSnapshotTTL = 60 * time.Second
)

// AlertDispatchService accepts SOS triggers from covered travelers and
// assigns the nearest eligible hospital.
type AlertDispatchService struct {
	alertStore        AlertStore
	hospitalStore     HospitalStore
	subscriptionStore SubscriptionStore
	geocoder          geocoding.Geocoder
	redisClient       *redis.Client
	notifier          Notifier
}

func NewAlertDispatchService(
	alertStore AlertStore,
	hospitalStore HospitalStore,
	subscriptionStore SubscriptionStore,
	geocoder geocoding.Geocoder,
	redisClient *redis.Client,
	notifier Notifier,
) *AlertDispatchService {
	return &AlertDispatchService{
		alertStore:        alertStore,
		hospitalStore:     hospitalStore,
		subscriptionStore: subscriptionStore,
		geocoder:          geocoder,
		redisClient:       redisClient,
		notifier:          notifier,
	}
}

// Haversine returns the great-circle distance in kilometers between two
// points given in degrees.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// NearestHospital picks the active hospital minimizing great-circle distance
// to the given point, honoring an optional specialty filter. Distance ties
// break on the lowest hospital id so repeated runs pick the same hospital.
func NearestHospital(hospitals []models.Hospital, lat, lng float64, specialty *string) (*models.Hospital, float64) {
	var best *models.Hospital
	bestDistance := math.Inf(1)

	for i := range hospitals {
		h := &hospitals[i]
		if !h.Active {
			continue
		}
		if specialty != nil && *specialty != "" && !h.HasSpecialty(*specialty) {
			continue
		}

		d := Haversine(lat, lng, h.Location.Lat(), h.Location.Lng())
		if d < bestDistance || (d == bestDistance && best != nil && h.ID.String() < best.ID.String()) {
			best = h
			bestDistance = d
		}
	}

	return best, bestDistance
}

// TriggerAlert validates the caller holds active coverage right now, resolves
// coordinates (geocoding the address when none are supplied) and persists an
// open alert. Nothing is persisted on failure.
func (s *AlertDispatchService) TriggerAlert(ctx context.Context, userID string, req models.TriggerAlertRequest) (*models.Alert, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "invalid alert request", err)
	}

	now := time.Now().Unix()
	active, err := s.subscriptionStore.GetActiveForUser(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check coverage: %w", err)
	}
	if len(active) == 0 {
		return nil, apperrors.Newf(apperrors.KindNoActiveSubscription,
			"user %s has no active subscription covering now", userID)
	}
	subscriptionID := active[0].ID

	var lat, lng float64
	if req.Latitude != nil && req.Longitude != nil {
		lat, lng = *req.Latitude, *req.Longitude
	} else {
		if s.geocoder == nil {
			return nil, apperrors.New(apperrors.KindInvalidInput, "coordinates required: no geocoder configured")
		}
		lat, lng, err = s.geocoder.Geocode(ctx, req.Address)
		if err != nil {
			return nil, fmt.Errorf("failed to geocode address: %w", err)
		}
	}
	if ok, err := utils.ValidateCoordinates(lat, lng); !ok {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "invalid coordinates", err)
	}

	alert := &models.Alert{
		ID:             uuid.New(),
		AlertNumber:    "ALR" + utils.GenerateRandomStringWithLength(9),
		UserID:         userID,
		SubscriptionID: &subscriptionID,
		Location:       models.NewPoint(lng, lat),
		Address:        req.Address,
		Description:    req.Description,
		Priority:       req.Priority,
		Specialty:      req.Specialty,
		Status:         models.AlertOpen,
	}

	if err := s.alertStore.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to persist alert: %w", err)
	}

	slog.Info("Alert triggered",
		"alert_id", alert.ID,
		"alert_number", alert.AlertNumber,
		"user_id", userID,
		"priority", alert.Priority)
	return alert, nil
}

// AssignHospital selects the nearest eligible hospital for an open alert and
// moves it to assigned, recording the computed distance.
func (s *AlertDispatchService) AssignHospital(ctx context.Context, alertID uuid.UUID) (*models.Alert, error) {
	alert, err := s.alertStore.GetByID(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert: %w", err)
	}
	if !alert.CanTransitionTo(models.AlertAssigned) {
		return nil, apperrors.Newf(apperrors.KindInvalidTransition,
			"alert %s is %s, cannot assign", alert.AlertNumber, alert.Status)
	}

	hospitals, err := s.activeHospitals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load hospital snapshot: %w", err)
	}

	best, distance := NearestHospital(hospitals, alert.Location.Lat(), alert.Location.Lng(), alert.Specialty)
	if best == nil {
		return nil, apperrors.New(apperrors.KindNoEligibleHospital, "no active hospital matches the alert")
	}

	alert.Status = models.AlertAssigned
	alert.HospitalID = &best.ID
	alert.DistanceKm = &distance

	if err := s.alertStore.Update(ctx, alert); err != nil {
		return nil, err
	}

	slog.Info("Hospital assigned to alert",
		"alert_id", alert.ID,
		"hospital_id", best.ID,
		"distance_km", distance)

	if s.notifier != nil {
		err := s.notifier.PublishWorkflowEvent(ctx, event.EventAlertAssigned,
			[]string{alert.UserID}, "Help is on the way",
			fmt.Sprintf("Hospital %s assigned, %.1f km away", best.Name, distance),
			map[string]interface{}{"alert_id": alert.ID.String(), "hospital_id": best.ID.String()})
		if err != nil {
			slog.Error("Failed to publish alert event", "alert_id", alert.ID, "error", err)
		}
	}

	return alert, nil
}

// UpdateAlertStatus applies a forward-only lifecycle transition.
func (s *AlertDispatchService) UpdateAlertStatus(ctx context.Context, alertID uuid.UUID, next models.AlertStatus) (*models.Alert, error) {
	alert, err := s.alertStore.GetByID(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert: %w", err)
	}
	if !alert.CanTransitionTo(next) {
		return nil, apperrors.Newf(apperrors.KindInvalidTransition,
			"alert %s cannot go from %s to %s", alert.AlertNumber, alert.Status, next)
	}

	alert.Status = next
	if err := s.alertStore.Update(ctx, alert); err != nil {
		return nil, err
	}

	slog.Info("Alert status updated", "alert_id", alert.ID, "status", next)
	return alert, nil
}

// GetAlert returns one alert by id.
func (s *AlertDispatchService) GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	return s.alertStore.GetByID(ctx, id)
}

// ListAlerts feeds the dispatch board: alerts in the given status, or the
// caller's own alerts when no status filter is set.
func (s *AlertDispatchService) ListAlerts(ctx context.Context, status *models.AlertStatus, userID string) ([]models.Alert, error) {
	if status != nil {
		return s.alertStore.GetByStatus(ctx, *status)
	}
	return s.alertStore.GetByUserID(ctx, userID)
}

// activeHospitals reads the hospital snapshot, preferring the short-lived
// Redis cache over a directory scan. Assignment never locks hospitals.
func (s *AlertDispatchService) activeHospitals(ctx context.Context) ([]models.Hospital, error) {
	if s.redisClient != nil {
		raw, err := s.redisClient.Get(ctx, hospitalSnapshotKey).Result()
		if err == nil {
			var hospitals []models.Hospital
			if err := json.Unmarshal([]byte(raw), &hospitals); err == nil {
				return hospitals, nil
			}
			slog.Warn("Discarding corrupt hospital snapshot cache", "error", err)
		} else if err != redis.Nil {
			slog.Warn("Hospital snapshot cache read failed", "error", err)
		}
	}

	hospitals, err := s.hospitalStore.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		if raw, err := json.Marshal(hospitals); err == nil {
			if err := s.redisClient.Set(ctx, hospitalSnapshotKey, raw, hospitalSnapshotTTL).Err(); err != nil {
				slog.Warn("Hospital snapshot cache write failed", "error", err)
			}
		}
	}

	return hospitals, nil
}
