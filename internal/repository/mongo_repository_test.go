package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/spec-kit/support-desk/internal/domain"
)

func ticketDoc(id, owner, status string, at time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "owner_id", Value: owner},
		{Key: "title", Value: "Printer down"},
		{Key: "description", Value: "no toner"},
		{Key: "status", Value: status},
		{Key: "created_at", Value: at},
		{Key: "updated_at", Value: at},
	}
}

func TestMongoTicketRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoTicketRepository(mt.DB)
		if err := repo.Create(context.Background(), newTicket("t-1", "u-1", "printer")); err != nil {
			mt.Fatalf("create: %v", err)
		}
	})

	mt.Run("list by owner", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + collectionTickets
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			ticketDoc("t-1", "u-1", "open", at),
			ticketDoc("t-2", "u-1", "closed", at.Add(time.Minute)),
		))
		repo := NewMongoTicketRepository(mt.DB)
		tickets, err := repo.ListByOwner(context.Background(), "u-1")
		if err != nil {
			mt.Fatalf("list: %v", err)
		}
		if len(tickets) != 2 || tickets[0].ID != "t-1" || tickets[1].Status != domain.TicketStatusClosed {
			mt.Fatalf("unexpected tickets %+v", tickets)
		}
		if !tickets[0].CreatedAt.Equal(at) {
			mt.Fatalf("unexpected created_at %s", tickets[0].CreatedAt)
		}
	})

	mt.Run("get missing", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + collectionTickets
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewMongoTicketRepository(mt.DB)
		if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("update status", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: ticketDoc("t-1", "u-1", "in-progress", at)},
		))
		repo := NewMongoTicketRepository(mt.DB)
		ticket, err := repo.UpdateStatus(context.Background(), "t-1", domain.TicketStatusInProgress, at)
		if err != nil {
			mt.Fatalf("update: %v", err)
		}
		if ticket.Status != domain.TicketStatusInProgress {
			mt.Fatalf("unexpected status %q", ticket.Status)
		}
	})

	mt.Run("update missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))
		repo := NewMongoTicketRepository(mt.DB)
		if _, err := repo.UpdateStatus(context.Background(), "nope", domain.TicketStatusClosed, at); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))
		repo := NewMongoUserRepository(mt.DB)
		err := repo.Create(context.Background(), &domain.User{ID: "u-1", Email: "a@example.com", Role: domain.RoleUser})
		if !errors.Is(err, ErrDuplicateEmail) {
			mt.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	mt.Run("list by ids", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + collectionUsers
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "u-1"},
				{Key: "name", Value: "Alice"},
				{Key: "email", Value: "alice@example.com"},
				{Key: "role", Value: "admin"},
			},
		))
		repo := NewMongoUserRepository(mt.DB)
		users, err := repo.ListByIDs(context.Background(), []string{"u-1"})
		if err != nil {
			mt.Fatalf("list: %v", err)
		}
		if len(users) != 1 || users[0].Role != domain.RoleAdmin || users[0].Email != "alice@example.com" {
			mt.Fatalf("unexpected users %+v", users)
		}
	})

	mt.Run("list by no ids skips query", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		users, err := repo.ListByIDs(context.Background(), nil)
		if err != nil || len(users) != 0 {
			mt.Fatalf("expected empty result, got %+v, %v", users, err)
		}
	})
}
