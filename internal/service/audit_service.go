package service

import (
	"context"
	"encoding/json"
	"log"

	"agrofrete/internal/model"
	"agrofrete/internal/repository"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	ActorID    string `json:"actor_id"`
	ActorName  string `json:"actor_name"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

// AuditService records who did what and when. Record is best-effort: it never
// fails the workflow operation that triggered it.
type AuditService interface {
	Record(ctx context.Context, actorID uuid.UUID, action, entityType, entityID string, details map[string]interface{})
	List(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) Record(ctx context.Context, actorID uuid.UUID, action, entityType, entityID string, details map[string]interface{}) {
	payload, _ := json.Marshal(details)

	var aid *uuid.UUID
	if actorID != uuid.Nil {
		aid = &actorID
	}

	entry := &model.AuditLog{
		ActorID:    aid,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    string(payload),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		log.Printf("audit record failed (%s %s %s): %v", action, entityType, entityID, err)
	}
}

// List retrieves strictly paginated records with actors pre-loaded
func (s *auditService) List(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		actorName := "System"
		actorID := ""
		if l.Actor != nil {
			actorName = l.Actor.Name
		}
		if l.ActorID != nil {
			actorID = l.ActorID.String()
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			ActorID:    actorID,
			ActorName:  actorName,
			Action:     l.Action,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
