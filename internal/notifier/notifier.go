package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"agrofrete/internal/model"
	"agrofrete/internal/repository"

	"github.com/google/uuid"
)

// Payload carries the identifiers a workflow event refers to. The dispatcher
// resolves the actual recipients from it per event kind.
type Payload struct {
	RequestID     uuid.UUID `json:"request_id,omitempty"`
	RequestTitle  string    `json:"request_title,omitempty"`
	ProposalID    uuid.UUID `json:"proposal_id,omitempty"`
	ContractID    uuid.UUID `json:"contract_id,omitempty"`
	CooperativeID uuid.UUID `json:"cooperative_id,omitempty"`
	TransporterID uuid.UUID `json:"transporter_id,omitempty"`
	ReviewedID    uuid.UUID `json:"reviewed_id,omitempty"`
	ActorID       uuid.UUID `json:"actor_id,omitempty"`
	Price         string    `json:"price,omitempty"`
	Detail        string    `json:"detail,omitempty"`
}

// Dispatcher emits notifications for workflow events. Delivery is strictly
// fire-and-forget: Notify never returns an error and never blocks workflow
// progress; failures are logged and swallowed.
type Dispatcher interface {
	Notify(ctx context.Context, event string, p Payload)
}

type dispatcher struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
}

// New creates a Dispatcher persisting notifications through the given repositories
func New(users repository.UserRepository, notifications repository.NotificationRepository) Dispatcher {
	return &dispatcher{users: users, notifications: notifications}
}

func (d *dispatcher) Notify(ctx context.Context, event string, p Payload) {
	recipients, title, body := d.resolve(ctx, event, p)
	if len(recipients) == 0 {
		return
	}

	payload, err := json.Marshal(p)
	if err != nil {
		log.Printf("notify %s: marshal payload failed: %v", event, err)
		return
	}

	rows := make([]model.Notification, 0, len(recipients))
	seen := make(map[uuid.UUID]bool, len(recipients))
	for _, id := range recipients {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, model.Notification{
			RecipientID: id,
			Event:       event,
			Title:       title,
			Body:        body,
			Payload:     string(payload),
		})
	}

	if err := d.notifications.CreateBatch(ctx, rows); err != nil {
		log.Printf("notify %s: persist failed: %v", event, err)
	}
}

// resolve maps an event kind to its recipients and message text
func (d *dispatcher) resolve(ctx context.Context, event string, p Payload) ([]uuid.UUID, string, string) {
	switch event {
	case model.EventRequestAccepted:
		return []uuid.UUID{p.CooperativeID},
			"Transport request accepted",
			fmt.Sprintf("A transporter accepted your request %q.", p.RequestTitle)

	case model.EventProposalSent:
		recipients := append(d.adminIDs(ctx), p.CooperativeID)
		return recipients,
			"New price proposal",
			fmt.Sprintf("A proposal of %s MZN was submitted on request %q.", p.Price, p.RequestTitle)

	case model.EventPaymentSubmitted:
		recipients := append(d.adminIDs(ctx), p.TransporterID)
		return recipients,
			"Payment submitted",
			fmt.Sprintf("The cooperative submitted payment for request %q. Awaiting confirmation.", p.RequestTitle)

	case model.EventPaymentConfirmed:
		return []uuid.UUID{p.CooperativeID, p.TransporterID},
			"Payment confirmed",
			fmt.Sprintf("Payment for request %q was confirmed. The digital contract is ready to sign.", p.RequestTitle)

	case model.EventContractSigned:
		// Notify the counterparty of whoever just signed
		other := p.CooperativeID
		if p.ActorID == p.CooperativeID {
			other = p.TransporterID
		}
		return []uuid.UUID{other}, "Contract signed", p.Detail

	case model.EventRatingSubmitted:
		return []uuid.UUID{p.ReviewedID},
			"New rating received",
			fmt.Sprintf("You received a new rating for request %q.", p.RequestTitle)

	default:
		log.Printf("notify: unknown event kind %q", event)
		return nil, "", ""
	}
}

func (d *dispatcher) adminIDs(ctx context.Context) []uuid.UUID {
	ids, err := d.users.ListIDsByRole(ctx, model.RoleAdmin)
	if err != nil {
		log.Println("notify: resolving admins failed:", err)
		return nil
	}
	return ids
}
