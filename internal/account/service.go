package account

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/terry001-s/socialgraph/internal/db"
	"github.com/terry001-s/socialgraph/internal/models"
	"github.com/terry001-s/socialgraph/pkg/logging"
)

var (
	// ErrNotFound is returned when the user does not exist
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when the username is already in use
	ErrUsernameTaken = errors.New("username already taken")
)

// Store is the persistence surface the account service needs
type Store interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// CreateWithSettings inserts the user and its default notification
	// setting row in one transaction. Reports created=false when a
	// concurrent create won the username.
	CreateWithSettings(ctx context.Context, user *models.User) (bool, error)
}

type gormStore struct {
	repo *db.Repository
}

// NewStore creates the gorm-backed account store
func NewStore(repo *db.Repository) Store {
	return &gormStore{repo: repo}
}

func (s *gormStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return db.NewUserRepository(s.repo).GetByID(ctx, id)
}

func (s *gormStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.NewUserRepository(s.repo).GetByUsername(ctx, username)
}

func (s *gormStore) CreateWithSettings(ctx context.Context, user *models.User) (bool, error) {
	var created bool
	err := s.repo.Transaction(ctx, func(txRepo *db.Repository) error {
		var err error
		created, err = db.NewUserRepository(txRepo).Insert(ctx, user)
		if err != nil || !created {
			return err
		}
		setting := models.DefaultNotificationSetting(user.ID)
		return db.NewSettingRepository(txRepo).Create(ctx, setting)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// Service manages user identities
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates an account service backed by the gorm store
func NewService(repo *db.Repository) *Service {
	return &Service{
		store:  NewStore(repo),
		logger: logging.GetLogger().With(zap.String("component", "account-service")),
	}
}

// Create creates a user identity together with its default notification
// setting row in one transaction. The setting row is constructed here
// explicitly rather than through a save hook, so the coupling between the
// two records is visible at the single place users are created. Username
// uniqueness is settled by the storage layer: the pre-check gives the
// common case a clean error, and a concurrent duplicate that slips past it
// still surfaces as ErrUsernameTaken.
func (s *Service) Create(ctx context.Context, username, email, bio string) (*models.User, error) {
	existing, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
	}

	user := &models.User{
		Username: username,
		Email:    email,
	}
	if bio != "" {
		user.Bio.String = bio
		user.Bio.Valid = true
	}

	created, err := s.store.CreateWithSettings(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if !created {
		return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
	}

	s.logger.Info("User created",
		zap.Int64("user_id", user.ID),
		zap.String("username", username))
	return user, nil
}

// Get retrieves a user by id
func (s *Service) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (s *Service) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	return user, nil
}
