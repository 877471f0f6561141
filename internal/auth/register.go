package auth

import (
	"context"
	"strings"

	"github.com/popmakeup/popmakeup-backend/internal/users"
	"github.com/popmakeup/popmakeup-backend/pkg/config"
	"github.com/popmakeup/popmakeup-backend/pkg/db"
	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
	"github.com/popmakeup/popmakeup-backend/pkg/logger"
	"github.com/popmakeup/popmakeup-backend/pkg/security"
	"gorm.io/gorm"
)

const (
	emailTakenMessage    = "Email already registered"
	usernameTakenMessage = "Username already registered"
	// maxEmployeeNoAttempts bounds retries when two registrations draw the same number.
	maxEmployeeNoAttempts = 5
)

// RegisterService handles account creation.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

type database interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	NextEmployeeNo(ctx context.Context) (int64, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             database
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

type registerService struct {
	db          database
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	repoFor     func(tx *gorm.DB) registerRepository
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
		repoFor: func(tx *gorm.DB) registerRepository {
			return users.NewRepository(tx)
		},
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hash password")
	}

	for attempt := 1; ; attempt++ {
		user, err := s.attempt(ctx, username, email, passwordHash)
		if err == nil {
			s.logg.Event(ctx, "user.registered", map[string]any{
				"user_id":     user.ID,
				"employee_no": user.EmployeeNo,
				"attempts":    attempt,
			})
			return users.FromModel(user), nil
		}
		if !db.IsUniqueViolation(err, "") {
			return nil, err
		}

		// The violation may be a racing registration for the same name or email.
		if takenErr := checkTaken(ctx, s.repoFor(s.db.DB()), username, email); takenErr != nil {
			return nil, takenErr
		}
		if attempt >= maxEmployeeNoAttempts {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocate employee number")
		}
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"event":   "user.employee_no_retry",
			"attempt": attempt,
		}), "employee number collision, retrying")
	}
}

// attempt runs one allocation and insert. Unique violations are returned raw so the caller can retry.
func (s *registerService) attempt(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	var created *models.User
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repoFor(tx)

		if err := checkTaken(ctx, r, username, email); err != nil {
			return err
		}

		next, err := r.NextEmployeeNo(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocate employee number")
		}

		user, err := r.Create(ctx, users.CreateUserDTO{
			UserName:     username,
			Email:        email,
			PasswordHash: passwordHash,
			EmployeeNo:   next,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return err
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		created = user
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil || db.IsUniqueViolation(err, "") {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "register user")
	}
	return created, nil
}

// checkTaken returns a CONFLICT when the email or username already belongs to an account.
func checkTaken(ctx context.Context, r registerRepository, username, email string) error {
	taken, err := r.EmailExists(ctx, email)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
	}
	taken, err = r.UsernameExists(ctx, username)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, usernameTakenMessage)
	}
	return nil
}
