package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"assistance-service/internal/apperrors"
	"assistance-service/internal/models"
)

// ============================================================================
// IN-MEMORY STORES
// ============================================================================

type memTravelProjectStore struct {
	mu       sync.Mutex
	projects map[uuid.UUID]models.TravelProject
}

func newMemTravelProjectStore() *memTravelProjectStore {
	return &memTravelProjectStore{projects: map[uuid.UUID]models.TravelProject{}}
}

func (s *memTravelProjectStore) Create(_ context.Context, p *models.TravelProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = *p
	return nil
}

func (s *memTravelProjectStore) GetByID(_ context.Context, id uuid.UUID) (*models.TravelProject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "travel project %s not found", id)
	}
	return &p, nil
}

func (s *memTravelProjectStore) GetByUserID(_ context.Context, userID string) ([]models.TravelProject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.TravelProject
	for _, p := range s.projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memTravelProjectStore) Update(_ context.Context, p *models.TravelProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.projects[p.ID]
	if !ok {
		return apperrors.Newf(apperrors.KindNotFound, "travel project %s not found", p.ID)
	}
	if cur.Version != p.Version {
		return apperrors.New(apperrors.KindConcurrentModification, "stale travel project version")
	}
	p.Version++
	s.projects[p.ID] = *p
	return nil
}

type memProductStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]models.Product
}

func newMemProductStore() *memProductStore {
	return &memProductStore{products: map[uuid.UUID]models.Product{}}
}

func (s *memProductStore) add(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *memProductStore) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "product %s not found", id)
	}
	return &p, nil
}

func (s *memProductStore) GetActive(_ context.Context, now int64) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Product
	for _, p := range s.products {
		if p.AvailableAt(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

type memSubscriptionStore struct {
	mu   sync.Mutex
	subs map[uuid.UUID]models.Subscription
}

func newMemSubscriptionStore() *memSubscriptionStore {
	return &memSubscriptionStore{subs: map[uuid.UUID]models.Subscription{}}
}

func (s *memSubscriptionStore) Create(_ context.Context, sub *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.ID] = *sub
	return nil
}

func (s *memSubscriptionStore) GetByID(_ context.Context, id uuid.UUID) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "subscription %s not found", id)
	}
	return &sub, nil
}

func (s *memSubscriptionStore) GetByUserID(_ context.Context, userID string) ([]models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Subscription
	for _, sub := range s.subs {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *memSubscriptionStore) GetActiveForUser(_ context.Context, userID string, now int64) ([]models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Subscription
	for _, sub := range s.subs {
		if sub.UserID == userID && sub.CoversInstant(now) {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *memSubscriptionStore) GetExpiringBefore(_ context.Context, now int64) ([]models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Subscription
	for _, sub := range s.subs {
		if sub.Status == models.SubscriptionActive && sub.EndDate < now {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *memSubscriptionStore) Update(_ context.Context, sub *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.subs[sub.ID]
	if !ok {
		return apperrors.Newf(apperrors.KindNotFound, "subscription %s not found", sub.ID)
	}
	if cur.Version != sub.Version {
		return apperrors.New(apperrors.KindConcurrentModification, "stale subscription version")
	}
	sub.Version++
	s.subs[sub.ID] = *sub
	return nil
}

// contendedSubscriptionStore lets a competing writer slip in between a read
// and the subsequent compare-and-set write. Each hook fires once.
type contendedSubscriptionStore struct {
	*memSubscriptionStore
	onGetByID func()
	onList    func()
}

func (s *contendedSubscriptionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	sub, err := s.memSubscriptionStore.GetByID(ctx, id)
	if err == nil && s.onGetByID != nil {
		fn := s.onGetByID
		s.onGetByID = nil
		fn()
	}
	return sub, err
}

func (s *contendedSubscriptionStore) GetExpiringBefore(ctx context.Context, now int64) ([]models.Subscription, error) {
	subs, err := s.memSubscriptionStore.GetExpiringBefore(ctx, now)
	if err == nil && s.onList != nil {
		fn := s.onList
		s.onList = nil
		fn()
	}
	return subs, err
}

type memAlertStore struct {
	mu     sync.Mutex
	alerts map[uuid.UUID]models.Alert
}

func newMemAlertStore() *memAlertStore {
	return &memAlertStore{alerts: map[uuid.UUID]models.Alert{}}
}

func (s *memAlertStore) Create(_ context.Context, a *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts[a.ID] = *a
	return nil
}

func (s *memAlertStore) GetByID(_ context.Context, id uuid.UUID) (*models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "alert %s not found", id)
	}
	return &a, nil
}

func (s *memAlertStore) GetByUserID(_ context.Context, userID string) ([]models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Alert
	for _, a := range s.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memAlertStore) GetByStatus(_ context.Context, status models.AlertStatus) ([]models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Alert
	for _, a := range s.alerts {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memAlertStore) Update(_ context.Context, a *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.alerts[a.ID]
	if !ok {
		return apperrors.Newf(apperrors.KindNotFound, "alert %s not found", a.ID)
	}
	if cur.Version != a.Version {
		return apperrors.New(apperrors.KindConcurrentModification, "stale alert version")
	}
	a.Version++
	s.alerts[a.ID] = *a
	return nil
}

type memHospitalStore struct {
	mu        sync.Mutex
	hospitals map[uuid.UUID]models.Hospital
}

func newMemHospitalStore() *memHospitalStore {
	return &memHospitalStore{hospitals: map[uuid.UUID]models.Hospital{}}
}

func (s *memHospitalStore) add(h models.Hospital) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hospitals[h.ID] = h
}

func (s *memHospitalStore) GetByID(_ context.Context, id uuid.UUID) (*models.Hospital, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hospitals[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "hospital %s not found", id)
	}
	return &h, nil
}

func (s *memHospitalStore) GetActive(_ context.Context) ([]models.Hospital, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Hospital
	for _, h := range s.hospitals {
		if h.Active {
			out = append(out, h)
		}
	}
	return out, nil
}

type memSinistreStore struct {
	mu        sync.Mutex
	sinistres map[uuid.UUID]models.Sinistre
}

func newMemSinistreStore() *memSinistreStore {
	return &memSinistreStore{sinistres: map[uuid.UUID]models.Sinistre{}}
}

func (s *memSinistreStore) Create(_ context.Context, sin *models.Sinistre) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinistres[sin.ID] = *sin
	return nil
}

func (s *memSinistreStore) GetByID(_ context.Context, id uuid.UUID) (*models.Sinistre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sin, ok := s.sinistres[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "sinistre %s not found", id)
	}
	return &sin, nil
}

func (s *memSinistreStore) GetByAlertID(_ context.Context, alertID uuid.UUID) (*models.Sinistre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sin := range s.sinistres {
		if sin.AlertID == alertID {
			return &sin, nil
		}
	}
	return nil, apperrors.Newf(apperrors.KindNotFound, "no sinistre for alert %s", alertID)
}

func (s *memSinistreStore) Update(_ context.Context, sin *models.Sinistre) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.sinistres[sin.ID]
	if !ok {
		return apperrors.Newf(apperrors.KindNotFound, "sinistre %s not found", sin.ID)
	}
	if cur.Version != sin.Version {
		return apperrors.New(apperrors.KindConcurrentModification, "stale sinistre version")
	}
	sin.Version++
	s.sinistres[sin.ID] = *sin
	return nil
}

type memHospitalStayStore struct {
	mu    sync.Mutex
	stays map[uuid.UUID]models.HospitalStay
}

func newMemHospitalStayStore() *memHospitalStayStore {
	return &memHospitalStayStore{stays: map[uuid.UUID]models.HospitalStay{}}
}

func (s *memHospitalStayStore) Create(_ context.Context, stay *models.HospitalStay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stays[stay.ID] = *stay
	return nil
}

func (s *memHospitalStayStore) GetByID(_ context.Context, id uuid.UUID) (*models.HospitalStay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stay, ok := s.stays[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "hospital stay %s not found", id)
	}
	return &stay, nil
}

func (s *memHospitalStayStore) GetBySinistreID(_ context.Context, sinistreID uuid.UUID) ([]models.HospitalStay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.HospitalStay
	for _, stay := range s.stays {
		if stay.SinistreID == sinistreID {
			out = append(out, stay)
		}
	}
	return out, nil
}

func (s *memHospitalStayStore) Update(_ context.Context, stay *models.HospitalStay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.stays[stay.ID]
	if !ok {
		return apperrors.Newf(apperrors.KindNotFound, "hospital stay %s not found", stay.ID)
	}
	if cur.Version != stay.Version {
		return apperrors.New(apperrors.KindConcurrentModification, "stale stay version")
	}
	stay.Version++
	s.stays[stay.ID] = *stay
	return nil
}

type memInvoiceStore struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]models.Invoice
}

func newMemInvoiceStore() *memInvoiceStore {
	return &memInvoiceStore{invoices: map[uuid.UUID]models.Invoice{}}
}

func (s *memInvoiceStore) Create(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.ID] = *inv
	return nil
}

func (s *memInvoiceStore) GetByID(_ context.Context, id uuid.UUID) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "invoice %s not found", id)
	}
	return &inv, nil
}

func (s *memInvoiceStore) GetByStayID(_ context.Context, stayID uuid.UUID) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invoices {
		if inv.StayID == stayID {
			return &inv, nil
		}
	}
	return nil, apperrors.Newf(apperrors.KindNotFound, "no invoice for stay %s", stayID)
}

func (s *memInvoiceStore) Update(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.invoices[inv.ID]
	if !ok {
		return apperrors.Newf(apperrors.KindNotFound, "invoice %s not found", inv.ID)
	}
	if cur.Version != inv.Version {
		return apperrors.New(apperrors.KindConcurrentModification, "stale invoice version")
	}
	inv.Version++
	s.invoices[inv.ID] = *inv
	return nil
}

// ============================================================================
// SUPPORTING FAKES
// ============================================================================

// recordingNotifier captures published workflow events.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) PublishWorkflowEvent(_ context.Context, eventName string, _ []string, _, _ string, _ map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, eventName)
	return nil
}

func (n *recordingNotifier) published() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

// staticGeocoder resolves every address to a fixed point.
type staticGeocoder struct {
	lat, lng float64
}

func (g staticGeocoder) Geocode(_ context.Context, _ string) (float64, float64, error) {
	return g.lat, g.lng, nil
}
