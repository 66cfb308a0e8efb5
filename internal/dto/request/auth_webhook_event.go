package request

// AuthWebhookEvent is the identity-provider webhook payload. The body is
// verified against the webhook secret before this struct is decoded, so
// no binding validation applies here.
// Used by:
//   - handler/webhook_handler.go: AuthEvents
type AuthWebhookEvent struct {
	Type string           `json:"type"` // "user.created" | "user.updated"
	Data AuthWebhookUser  `json:"data"`
}

// AuthWebhookUser is the provider's user object, reduced to the fields
// the identity record keeps.
type AuthWebhookUser struct {
	Id             string                    `json:"id"` // external auth id
	FirstName      string                    `json:"first_name"`
	LastName       string                    `json:"last_name"`
	ImageUrl       string                    `json:"image_url"`
	EmailAddresses []AuthWebhookEmailAddress `json:"email_addresses"`
}

// AuthWebhookEmailAddress wraps one email entry; the first is primary.
type AuthWebhookEmailAddress struct {
	EmailAddress string `json:"email_address"`
}
