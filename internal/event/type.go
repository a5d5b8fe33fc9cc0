package event

// NotificationEventPushModel matches the delivery payload consumed by the
// notification service: { lstUserIds?: string[], title: string, body: string, data?: any }
type NotificationEventPushModel struct {
	LstUserIds []string               `json:"lstUserIds,omitempty"`
	Title      string                 `json:"title"`
	Body       string                 `json:"body"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

const PushNotiQueue string = "push_noti_events"

// Workflow milestone event names carried in the Data payload.
const (
	EventSubscriptionActivated = "subscription_activated"
	EventSubscriptionRejected  = "subscription_rejected"
	EventAlertAssigned         = "alert_assigned"
	EventInvoiceApproved       = "invoice_approved"
	EventInvoicePaid           = "invoice_paid"
)
