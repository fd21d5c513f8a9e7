package service_test

import (
	"testing"

	"agrofrete/internal/model"
	"agrofrete/internal/notifier"
	"agrofrete/internal/repository"
	"agrofrete/internal/service"
	"agrofrete/internal/testutil"
	"agrofrete/internal/workflow"

	"gorm.io/gorm"
)

// env wires the full service stack over an in-memory database so tests
// exercise the real repositories, transactions and conditional updates.
type env struct {
	db *gorm.DB

	users         service.UserService
	requests      service.RequestService
	proposals     service.ProposalService
	contracts     service.ContractService
	locations     service.LocationService
	chats         service.ChatService
	ratings       service.RatingService
	notifications service.NotificationService
	audit         service.AuditService

	cooperative *model.User
	transporter *model.User
	admin       *model.User
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testutil.OpenTestDB(t)

	txm := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewTransportRequestRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	contractRepo := repository.NewContractRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	chatRepo := repository.NewChatRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	dispatcher := notifier.New(userRepo, notificationRepo)
	auditService := service.NewAuditService(auditRepo)

	e := &env{
		db:            db,
		users:         service.NewUserService(userRepo),
		requests:      service.NewRequestService(requestRepo, auditService, dispatcher, nil),
		proposals:     service.NewProposalService(txm, proposalRepo, requestRepo, contractRepo, auditService, dispatcher, nil, "842000001"),
		contracts:     service.NewContractService(contractRepo, auditService, dispatcher, nil),
		locations:     service.NewLocationService(locationRepo, requestRepo, nil),
		chats:         service.NewChatService(chatRepo, requestRepo, nil),
		ratings:       service.NewRatingService(ratingRepo, requestRepo, auditService, dispatcher, nil),
		notifications: service.NewNotificationService(notificationRepo),
		audit:         auditService,
	}

	e.cooperative = testutil.CreateUser(t, db, "Cooperativa de Manica", model.RoleCooperative)
	e.transporter = testutil.CreateUser(t, db, "Joao Tomas", model.RoleTransporter)
	e.admin = testutil.CreateUser(t, db, "Maria Silva", model.RoleAdmin)

	return e
}

func (e *env) asCooperative() workflow.Actor {
	return workflow.Actor{ID: e.cooperative.ID, Role: e.cooperative.Role}
}

func (e *env) asTransporter() workflow.Actor {
	return workflow.Actor{ID: e.transporter.ID, Role: e.transporter.Role}
}

func (e *env) asAdmin() workflow.Actor {
	return workflow.Actor{ID: e.admin.ID, Role: e.admin.Role}
}

func actorFor(u *model.User) workflow.Actor {
	return workflow.Actor{ID: u.ID, Role: u.Role}
}
