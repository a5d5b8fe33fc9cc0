package services

import (
	"context"

	"github.com/google/uuid"

	"assistance-service/internal/models"
)

// Store interfaces consumed by the workflow engines. The sqlx repositories
// satisfy them; tests substitute in-memory implementations.

type TravelProjectStore interface {
	Create(ctx context.Context, project *models.TravelProject) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TravelProject, error)
	GetByUserID(ctx context.Context, userID string) ([]models.TravelProject, error)
	Update(ctx context.Context, project *models.TravelProject) error
}

type ProductStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetActive(ctx context.Context, now int64) ([]models.Product, error)
}

type SubscriptionStore interface {
	Create(ctx context.Context, sub *models.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Subscription, error)
	GetActiveForUser(ctx context.Context, userID string, now int64) ([]models.Subscription, error)
	GetExpiringBefore(ctx context.Context, now int64) ([]models.Subscription, error)
	Update(ctx context.Context, sub *models.Subscription) error
}

type AlertStore interface {
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Alert, error)
	GetByStatus(ctx context.Context, status models.AlertStatus) ([]models.Alert, error)
	Update(ctx context.Context, alert *models.Alert) error
}

type HospitalStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hospital, error)
	GetActive(ctx context.Context) ([]models.Hospital, error)
}

type SinistreStore interface {
	Create(ctx context.Context, sinistre *models.Sinistre) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Sinistre, error)
	GetByAlertID(ctx context.Context, alertID uuid.UUID) (*models.Sinistre, error)
	Update(ctx context.Context, sinistre *models.Sinistre) error
}

type HospitalStayStore interface {
	Create(ctx context.Context, stay *models.HospitalStay) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.HospitalStay, error)
	GetBySinistreID(ctx context.Context, sinistreID uuid.UUID) ([]models.HospitalStay, error)
	Update(ctx context.Context, stay *models.HospitalStay) error
}

type InvoiceStore interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	GetByStayID(ctx context.Context, stayID uuid.UUID) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
}

// Notifier publishes workflow milestone events. Publish failures are logged
// and never fail the transaction that raised them.
type Notifier interface {
	PublishWorkflowEvent(ctx context.Context, eventName string, userIDs []string, title, body string, data map[string]interface{}) error
}
