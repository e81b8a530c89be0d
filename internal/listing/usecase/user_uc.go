package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserUsecase struct {
	repo   domain.UserRepository
	logger *logger.Logger
	now    func() time.Time
}

func NewUserUsecase(repo domain.UserRepository, log *logger.Logger) *UserUsecase {
	return &UserUsecase{
		repo:   repo,
		logger: log.Named("UserUsecase"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// UpdateMeInput is what a user may change about themselves. The password
// fields exist only to be rejected.
type UpdateMeInput struct {
	Name            *string `json:"name"`
	Role            *string `json:"role"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"passwordConfirm"`
}

type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type AdminUpdateUserInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

func (uc *UserUsecase) GetMe(ctx context.Context, id string) (*domain.User, error) {
	return uc.repo.GetByID(ctx, id)
}

// UpdateMe changes the caller's name or role. Users may switch between the
// user and owner roles only.
func (uc *UserUsecase) UpdateMe(ctx context.Context, id string, in UpdateMeInput) (*domain.User, error) {
	if in.Password != nil || in.PasswordConfirm != nil {
		return nil, domain.InputError("this route is not for updating password, please use /updatePassword")
	}
	upd := domain.UserUpdate{UpdatedAt: uc.now()}
	if in.Name != nil {
		name, err := cleanName(*in.Name)
		if err != nil {
			return nil, err
		}
		upd.Name = &name
	}
	if in.Role != nil {
		role := domain.Role(strings.ToLower(strings.TrimSpace(*in.Role)))
		if role != domain.RoleUser && role != domain.RoleOwner {
			return nil, domain.InputError("role must be user or owner")
		}
		upd.Role = &role
	}

	user, err := uc.repo.Update(ctx, id, upd)
	if err != nil {
		uc.logger.Warn("UserUsecase.UpdateMe: update failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (uc *UserUsecase) List(ctx context.Context) ([]*domain.User, error) {
	return uc.repo.List(ctx)
}

func (uc *UserUsecase) Get(ctx context.Context, id string) (*domain.User, error) {
	return uc.repo.GetByID(ctx, id)
}

// Create registers a user on behalf of an admin. The password is stored as
// a bcrypt hash.
func (uc *UserUsecase) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	email, err := cleanEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < 8 {
		return nil, domain.InputError("password must be at least 8 characters")
	}
	role := domain.RoleUser
	if in.Role != "" {
		role = domain.Role(strings.ToLower(in.Role))
		if !role.Valid() {
			return nil, domain.InputError("unknown role %q", in.Role)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, domain.InputError("password is too long")
		}
		return nil, err
	}

	now := uc.now()
	user := &domain.User{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		uc.logger.Warn("UserUsecase.Create: create failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	uc.logger.Info("UserUsecase.Create: user created", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

func (uc *UserUsecase) Update(ctx context.Context, id string, in AdminUpdateUserInput) (*domain.User, error) {
	upd := domain.UserUpdate{UpdatedAt: uc.now()}
	if in.Name != nil {
		name, err := cleanName(*in.Name)
		if err != nil {
			return nil, err
		}
		upd.Name = &name
	}
	if in.Email != nil {
		email, err := cleanEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		upd.Email = &email
	}
	if in.Role != nil {
		role := domain.Role(strings.ToLower(*in.Role))
		if !role.Valid() {
			return nil, domain.InputError("unknown role %q", *in.Role)
		}
		upd.Role = &role
	}
	return uc.repo.Update(ctx, id, upd)
}

func (uc *UserUsecase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("UserUsecase.Delete: user deleted", zap.String("user_id", id))
	return nil
}

func cleanName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", domain.InputError("name cannot be empty")
	}
	return name, nil
}

func cleanEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", domain.InputError("%q is not a valid email address", raw)
	}
	return strings.ToLower(addr.Address), nil
}
