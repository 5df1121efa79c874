package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/entity"
	"github.com/marketday/fleamarket-api/internal/domain/repository"
	"github.com/marketday/fleamarket-api/pkg/apperror"
	"github.com/marketday/fleamarket-api/pkg/utils"
)

// numberRetries bounds the regenerate-and-retry loop on clerk number
// collisions.
const numberRetries = 5

// ClerkService handles clerk provisioning and counter login sessions
type ClerkService struct {
	tx          repository.TxManager
	clerkRepo   repository.ClerkRepository
	counterRepo repository.CounterRepository
	receiptRepo repository.ReceiptRepository
	jwtManager  *utils.JWTManager
}

// NewClerkService creates a new clerk service
func NewClerkService(
	tx repository.TxManager,
	clerkRepo repository.ClerkRepository,
	counterRepo repository.CounterRepository,
	receiptRepo repository.ReceiptRepository,
	jwtManager *utils.JWTManager,
) *ClerkService {
	return &ClerkService{
		tx:          tx,
		clerkRepo:   clerkRepo,
		counterRepo: counterRepo,
		receiptRepo: receiptRepo,
		jwtManager:  jwtManager,
	}
}

// CreateClerkResult carries the one-time access code alongside the stored
// clerk. The plain code is shown once; only its hash is persisted.
type CreateClerkResult struct {
	Clerk      *entity.Clerk `json:"clerk"`
	AccessCode string        `json:"access_code"`
}

// CreateClerk provisions a clerk with a generated number-secret access code.
// Number generation retries on unique-constraint collisions.
func (s *ClerkService) CreateClerk(ctx context.Context, name string, overseer bool) (*CreateClerkResult, error) {
	if name == "" {
		return nil, apperror.NewBadRequestError("Clerk name is required")
	}

	var result *CreateClerkResult
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		secret, hash, err := utils.NewAccessSecret()
		if err != nil {
			return err
		}
		max, err := s.clerkRepo.MaxNumber(ctx)
		if err != nil {
			return err
		}

		clerk := &entity.Clerk{
			Name:          name,
			AccessKeyHash: hash,
			Overseer:      overseer,
		}
		for attempt := 0; ; attempt++ {
			clerk.Number = max + 1 + attempt
			err = s.clerkRepo.Create(ctx, clerk)
			if err == nil {
				break
			}
			if !errors.Is(err, repository.ErrDuplicateKey) || attempt >= numberRetries {
				return err
			}
		}

		result = &CreateClerkResult{
			Clerk:      clerk,
			AccessCode: utils.FormatAccessCode(clerk.Number, secret),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ValidateCounter resolves a counter by its identifier, case-insensitively
func (s *ClerkService) ValidateCounter(ctx context.Context, identifier string) (*entity.Counter, error) {
	counter, err := s.counterRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if counter == nil {
		return nil, apperror.NewAuthError("Counter has gone missing")
	}
	return counter, nil
}

// LoginResult represents a successful clerk login
type LoginResult struct {
	Token    string           `json:"token"`
	Clerk    *entity.Clerk    `json:"clerk"`
	Counter  *entity.Counter  `json:"counter"`
	Receipts []entity.Receipt `json:"receipts"`
}

// Login authenticates a clerk's access code at a counter and issues a session
// token. The clerk's pending receipts are returned so an interrupted sale can
// be resumed.
func (s *ClerkService) Login(ctx context.Context, accessCode, counterIdentifier string) (*LoginResult, error) {
	counter, err := s.ValidateCounter(ctx, counterIdentifier)
	if err != nil {
		return nil, err
	}

	number, secret, err := utils.ParseAccessCode(accessCode)
	if err != nil {
		return nil, apperror.NewAuthError("No such clerk")
	}
	clerk, err := s.clerkRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if clerk == nil {
		return nil, apperror.NewAuthError("No such clerk")
	}
	if !utils.VerifyAccessSecret(clerk.AccessKeyHash, secret) {
		return nil, apperror.NewAuthError("No such clerk")
	}

	token, err := s.jwtManager.GenerateSessionToken(clerk.ID, counter.ID, clerk.Overseer)
	if err != nil {
		return nil, err
	}
	pending, err := s.receiptRepo.ListPendingByClerk(ctx, clerk.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:    token,
		Clerk:    clerk,
		Counter:  counter,
		Receipts: pending,
	}, nil
}

// GetClerk fetches a clerk by id, for session refresh
func (s *ClerkService) GetClerk(ctx context.Context, id uuid.UUID) (*entity.Clerk, error) {
	clerk, err := s.clerkRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if clerk == nil {
		return nil, apperror.NewNotFoundError("Clerk")
	}
	return clerk, nil
}
