package models

type TravelProjectStatus string

const (
	ProjectDraft     TravelProjectStatus = "draft"
	ProjectConfirmed TravelProjectStatus = "confirmed"
	ProjectCancelled TravelProjectStatus = "cancelled"
)

type PricingKey string

const (
	PricingPerPerson      PricingKey = "per_person"
	PricingPerGroup       PricingKey = "per_group"
	PricingPerDuration    PricingKey = "per_duration"
	PricingPerDestination PricingKey = "per_destination"
	PricingFixed          PricingKey = "fixed"
)

type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionRejected  SubscriptionStatus = "rejected"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

type AlertStatus string

const (
	AlertOpen       AlertStatus = "open"
	AlertAssigned   AlertStatus = "assigned"
	AlertInProgress AlertStatus = "in_progress"
	AlertClosed     AlertStatus = "closed"
	AlertCancelled  AlertStatus = "cancelled"
)

type AlertPriority string

const (
	PriorityLow    AlertPriority = "low"
	PriorityMedium AlertPriority = "medium"
	PriorityHigh   AlertPriority = "high"
)

type SinistreStatus string

const (
	SinistreOpen     SinistreStatus = "open"
	SinistreInReview SinistreStatus = "in_review"
	SinistreClosed   SinistreStatus = "closed"
)

type StayStatus string

const (
	StayAdmitted        StayStatus = "admitted"
	StayReportPending   StayStatus = "report_pending"
	StayReportSubmitted StayStatus = "report_submitted"
	StayValidated       StayStatus = "validated"
	StayDischarged      StayStatus = "discharged"
)

type InvoiceStatus string

const (
	InvoiceDraft           InvoiceStatus = "draft"
	InvoicePendingMedical  InvoiceStatus = "pending_medical"
	InvoicePendingSinistre InvoiceStatus = "pending_sinistre"
	InvoicePendingCompta   InvoiceStatus = "pending_compta"
	InvoiceApproved        InvoiceStatus = "approved"
	InvoiceRejected        InvoiceStatus = "rejected"
	InvoicePaid            InvoiceStatus = "paid"
)

// Role names consumed from the auth provider. Gate-specific actions check
// these before any state transition.
type Role string

const (
	RoleMedical   Role = "medical"
	RoleTechnical Role = "technical"
	RoleFinal     Role = "final"
	RoleSinistre  Role = "sinistre"
	RoleCompta    Role = "compta"
	RoleAdmin     Role = "admin"
)
