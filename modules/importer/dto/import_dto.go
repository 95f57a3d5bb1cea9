package dto

// Webhook actions pushed by Eventbrite
const (
	WebhookActionOrderPlaced = "order.placed"
	WebhookActionTest        = "test"
)

// WebhookPayload is the inbound push body. webhook_id resolves the owning
// credential; api_url points at the single order to process.
type WebhookPayload struct {
	Action    string `json:"action"`
	WebhookID string `json:"webhook_id"`
	APIURL    string `json:"api_url"`
}

type WebhookAck struct {
	Received bool   `json:"received"`
	Message  string `json:"message,omitempty"`
}

// TriggerImportRequest is the manual-trigger body on the private API.
type TriggerImportRequest struct {
	Mode     string `json:"mode"`               // "events" | "rsvps"
	Provider string `json:"provider,omitempty"` // optional filter
}
