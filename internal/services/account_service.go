package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// AccountService creates accounts for customers who checked out as guests.
type AccountService struct {
	store  repositories.Store
	linker *AccountLinker
	log    *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(store repositories.Store, linker *AccountLinker, log *slog.Logger) *AccountService {
	return &AccountService{store: store, linker: linker, log: log}
}

type createAccountInput struct {
	OrderID  string `json:"order_id" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// CreateAccountFromOrder registers a user from the details of orderID and
// links every unlinked order placed with the same email to it. It returns
// the new user and the number of orders linked.
func (s *AccountService) CreateAccountFromOrder(ctx context.Context, orderID, password string) (*models.User, int64, error) {
	if err := validateStruct(createAccountInput{OrderID: orderID, Password: password}); err != nil {
		return nil, 0, err
	}

	order, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, 0, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:  order.Email,
		Email:     order.Email,
		Password:  string(hashed),
		FirstName: order.FirstName,
		LastName:  order.LastName,
	}

	var linked int64
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Users().GetByEmail(ctx, order.Email); err == nil {
			return fmt.Errorf("an account with email %s already exists: %w", order.Email, ErrConflict)
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}

		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return fmt.Errorf("an account with email %s already exists: %w", order.Email, ErrConflict)
			}
			return err
		}

		linked, err = s.linker.linkIn(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	s.log.Info("account created from order", "user_id", user.ID, "order_id", orderID, "linked", linked)
	return user, linked, nil
}
