package services

// ============================================================
// Service Interfaces & Input DTOs
// ============================================================

// NotificationPusher is the producer-side notification surface. Services
// that mutate the ledger push already-formatted events through it.
type NotificationPusher interface {
	Push(eventType, title, detail string)
}

// CreateMemberInput is the payload for enrolling a new member
type CreateMemberInput struct {
	Nom       string `json:"nom"`
	Sexe      string `json:"sexe"`
	Telephone string `json:"telephone"`
	Montant   int64  `json:"montant"`
}

// CreateDepositInput is the payload for recording a contribution
type CreateDepositInput struct {
	MemberCode string `json:"memberCode"`
	Montant    int64  `json:"montant"`
	Date       string `json:"date"` // "2006-01-02", optional
}

// PushNotificationInput is the payload for a direct producer push
type PushNotificationInput struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}
