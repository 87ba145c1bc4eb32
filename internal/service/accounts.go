package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"connectfarma-backend/internal/domain"
	"connectfarma-backend/internal/store"
)

type AccountService struct {
	base
	hashCost int
}

// NewAccountService hashes passwords with hashCost, or bcrypt.DefaultCost when zero.
func NewAccountService(deps Deps, hashCost int) (*AccountService, error) {
	b, err := newBase(deps)
	if err != nil {
		return nil, err
	}
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	return &AccountService{base: b, hashCost: hashCost}, nil
}

type ConsumerRegistration struct {
	Name            string
	Email           string
	ContactNo       string
	Password        string
	ConfirmPassword string
}

type FarmerRegistration struct {
	KisanID         string
	Name            string
	Email           string
	ContactNo       string
	Pincode         string
	VillageName     string
	Password        string
	ConfirmPassword string
}

func checkPassword(pw, confirm string) error {
	if pw == "" {
		return &domain.ValidationError{Fields: []string{"password"}}
	}
	if pw != confirm {
		return &domain.ValidationError{Fields: []string{"confirm_password"}, Message: "passwords do not match"}
	}
	return nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) register(ctx context.Context, u domain.User, password string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.ID = s.newID()
	u.PasswordHash = string(hash)
	u.CreatedAt = s.now()

	err = s.store.Update(ctx, func(ctx context.Context, r store.Repository) error {
		return r.InsertUser(ctx, u)
	})
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info("Account registered", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

func (s *AccountService) RegisterConsumer(ctx context.Context, in ConsumerRegistration) (domain.User, error) {
	if err := domain.MissingFields(map[string]string{
		"name":       in.Name,
		"email":      in.Email,
		"contact_no": in.ContactNo,
	}, "name", "email", "contact_no"); err != nil {
		return domain.User{}, err
	}
	if err := checkPassword(in.Password, in.ConfirmPassword); err != nil {
		return domain.User{}, err
	}
	return s.register(ctx, domain.User{
		Role:      domain.RoleConsumer,
		Name:      strings.TrimSpace(in.Name),
		Email:     normaliseEmail(in.Email),
		ContactNo: strings.TrimSpace(in.ContactNo),
	}, in.Password)
}

func (s *AccountService) RegisterFarmer(ctx context.Context, in FarmerRegistration) (domain.User, error) {
	if err := domain.MissingFields(map[string]string{
		"kisan_id":     in.KisanID,
		"name":         in.Name,
		"email":        in.Email,
		"contact_no":   in.ContactNo,
		"pincode":      in.Pincode,
		"village_name": in.VillageName,
	}, "kisan_id", "name", "email", "contact_no", "pincode", "village_name"); err != nil {
		return domain.User{}, err
	}
	if err := checkPassword(in.Password, in.ConfirmPassword); err != nil {
		return domain.User{}, err
	}
	return s.register(ctx, domain.User{
		Role:         domain.RoleFarmer,
		Name:         strings.TrimSpace(in.Name),
		Email:        normaliseEmail(in.Email),
		ContactNo:    strings.TrimSpace(in.ContactNo),
		KisanID:      strings.TrimSpace(in.KisanID),
		Pincode:      strings.TrimSpace(in.Pincode),
		VillageName:  strings.TrimSpace(in.VillageName),
		PayoutStatus: domain.PayoutNone,
	}, in.Password)
}

func (s *AccountService) authenticate(ctx context.Context, role domain.Role, password string, find func(context.Context, store.Repository) (domain.User, error)) (domain.User, error) {
	var u domain.User
	err := s.store.View(ctx, func(ctx context.Context, r store.Repository) error {
		var err error
		u, err = find(ctx, r)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.User{}, err
	}
	if u.Role != role || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return domain.User{}, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	return u, nil
}

func (s *AccountService) LoginConsumer(ctx context.Context, email, password string) (domain.User, error) {
	email = normaliseEmail(email)
	return s.authenticate(ctx, domain.RoleConsumer, password, func(ctx context.Context, r store.Repository) (domain.User, error) {
		return r.FindUserByEmail(ctx, email)
	})
}

// LoginFarmer authenticates by Kisan ID rather than email.
func (s *AccountService) LoginFarmer(ctx context.Context, kisanID, password string) (domain.User, error) {
	kisanID = strings.TrimSpace(kisanID)
	return s.authenticate(ctx, domain.RoleFarmer, password, func(ctx context.Context, r store.Repository) (domain.User, error) {
		return r.FindFarmerByKisanID(ctx, kisanID)
	})
}

func (s *AccountService) LoginAdmin(ctx context.Context, email, password string) (domain.User, error) {
	email = normaliseEmail(email)
	return s.authenticate(ctx, domain.RoleAdmin, password, func(ctx context.Context, r store.Repository) (domain.User, error) {
		return r.FindUserByEmail(ctx, email)
	})
}

// EnsureAdmin creates the admin account on first start. An existing account with the
// same email is left as is.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normaliseEmail(email)
	if email == "" || password == "" {
		return &domain.ValidationError{Fields: []string{"email", "password"}}
	}
	var exists bool
	err := s.store.View(ctx, func(ctx context.Context, r store.Repository) error {
		_, err := r.FindUserByEmail(ctx, email)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		exists = err == nil
		return err
	})
	if err != nil || exists {
		return err
	}
	_, err = s.register(ctx, domain.User{Role: domain.RoleAdmin, Name: "Administrator", Email: email}, password)
	if errors.Is(err, domain.ErrDuplicate) {
		return nil
	}
	return err
}

func (s *AccountService) Profile(ctx context.Context, actor domain.Actor) (domain.User, error) {
	if actor.ID == "" {
		return domain.User{}, domain.ErrUnauthorized
	}
	var u domain.User
	err := s.store.View(ctx, func(ctx context.Context, r store.Repository) error {
		var err error
		u, err = r.GetUser(ctx, actor.ID)
		return err
	})
	return u, err
}
