// Package services содержит бизнес-логику управления учётными записями:
// регистрацию, аутентификацию и операции над профилем.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/account-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/account-manager/internal/lib/password"
	"github.com/magabrotheeeer/account-manager/internal/lib/sl"
	"github.com/magabrotheeeer/account-manager/internal/models"
	"github.com/magabrotheeeer/account-manager/internal/storage"
)

// Ошибки бизнес-уровня. Обработчики переводят их в HTTP-статусы.
var (
	// ErrDuplicateEmail — email уже занят другой учётной записью.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidEmail — строка не является корректным email.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrUnauthorized — неверная пара email/пароль. Причина отказа
	// намеренно не уточняется.
	ErrUnauthorized = errors.New("invalid credentials")
	// ErrNotFound — учётная запись не найдена.
	ErrNotFound = errors.New("account not found")
)

// Заготовленный хэш для выравнивания времени ответа: сравнение
// выполняется и тогда, когда учётная запись не найдена.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AccountRepository описывает контракт хранилища учётных записей.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account models.Account) (*models.Account, error)
	GetAccountByID(ctx context.Context, id int) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]*models.Account, error)
	UpdateAccount(ctx context.Context, lookupEmail string, account models.Account) (*models.Account, error)
	DeleteAccount(ctx context.Context, email string) (*models.Account, error)
	UpdateLastLoginDate(ctx context.Context, email string) error
}

// Cache описывает контракт кэша учётных записей.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// EventPublisher описывает контракт публикации событий жизненного цикла.
type EventPublisher interface {
	AccountRegistered(accountID int, email string) error
	AccountDeleted(accountID int, email string) error
}

// AccountService отвечает за регистрацию, выдачу токенов и операции
// над учётными записями.
type AccountService struct {
	repo     AccountRepository
	cache    Cache
	events   EventPublisher
	jwtMaker jwt.Maker
	validate *validator.Validate
	log      *slog.Logger
}

// NewAccountService создает новый экземпляр AccountService.
func NewAccountService(repo AccountRepository, cache Cache, events EventPublisher,
	jwtMaker jwt.Maker, log *slog.Logger) *AccountService {
	return &AccountService{
		repo:     repo,
		cache:    cache,
		events:   events,
		jwtMaker: jwtMaker,
		validate: validator.New(),
		log:      log,
	}
}

// Register создает новую учётную запись с хэшированием пароля.
// Запись сразу помечается активной, а отметка последнего входа
// ставится на время создания: регистрация считается первым входом.
func (s *AccountService) Register(ctx context.Context, name, email, rawPassword string) (*models.Account, error) {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}

	if _, err := s.repo.GetAccountByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, storage.ErrAccountNotFound) {
		return nil, err
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateAccount(ctx, models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		IsActive:     true,
	})
	if err != nil {
		// Предварительная проверка не защищает от гонки, уникальность
		// гарантирует ограничение в базе.
		return nil, mapStorageErr(err)
	}

	s.log.Info("registered new account", slog.Int("id", created.ID))

	if err := s.events.AccountRegistered(created.ID, created.Email); err != nil {
		s.log.Warn("failed to publish registered event", sl.Err(err))
	}

	s.cacheAccount(created)
	return created, nil
}

// Login проверяет пару email/пароль и выдает токен доступа.
// При любой причине отказа возвращается одна и та же ошибка.
func (s *AccountService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	account, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			// Холостое сравнение, чтобы время ответа не выдавало,
			// существует ли учётная запись.
			_ = password.CompareHash(dummyHash, rawPassword)
			return "", ErrUnauthorized
		}
		return "", err
	}

	if err := password.CompareHash(account.PasswordHash, rawPassword); err != nil {
		return "", ErrUnauthorized
	}

	token, err := s.jwtMaker.GenerateToken(account.Email)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdateLastLoginDate(ctx, account.Email); err != nil {
		s.log.Warn("failed to update last login date", sl.Err(err))
	} else {
		// Кэшированная копия больше не знает о новой отметке входа.
		cacheKey := fmt.Sprintf("account:%d", account.ID)
		if err := s.cache.Invalidate(cacheKey); err != nil {
			s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), sl.Err(err))
		}
	}

	return token, nil
}

// GetByID возвращает учётную запись по id, сначала заглядывая в кэш.
func (s *AccountService) GetByID(ctx context.Context, id int) (*models.Account, error) {
	var result *models.Account
	cacheKey := fmt.Sprintf("account:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	s.cacheAccount(result)
	return result, nil
}

// GetByEmail возвращает учётную запись по email.
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return account, nil
}

// ListAll возвращает все учётные записи.
func (s *AccountService) ListAll(ctx context.Context) ([]*models.Account, error) {
	return s.repo.ListAccounts(ctx)
}

// UpdatePartial применяет частичное обновление: меняются только
// заданные поля. Пустой патч не трогает запись и возвращает её
// текущее состояние.
func (s *AccountService) UpdatePartial(ctx context.Context, email string, patch models.AccountPatch) (*models.Account, error) {
	current, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated := *current
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.NewEmail != nil {
		if err := s.checkNewEmail(ctx, current.Email, *patch.NewEmail); err != nil {
			return nil, err
		}
		updated.Email = *patch.NewEmail
	}
	if patch.Password != nil {
		hashed, err := password.GetHash(*patch.Password)
		if err != nil {
			return nil, err
		}
		updated.PasswordHash = hashed
	}
	if patch.IsActive != nil {
		updated.IsActive = *patch.IsActive
	}

	return s.saveUpdate(ctx, email, current.ID, updated)
}

// UpdateFull перезаписывает все изменяемые поля учётной записи.
func (s *AccountService) UpdateFull(ctx context.Context, email, name, newEmail, rawPassword string, isActive bool) (*models.Account, error) {
	current, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	if err := s.checkNewEmail(ctx, current.Email, newEmail); err != nil {
		return nil, err
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Name = name
	updated.Email = newEmail
	updated.PasswordHash = hashed
	updated.IsActive = isActive

	return s.saveUpdate(ctx, email, current.ID, updated)
}

// Delete удаляет учётную запись и возвращает её состояние до удаления.
func (s *AccountService) Delete(ctx context.Context, email string) (*models.Account, error) {
	deleted, err := s.repo.DeleteAccount(ctx, email)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	s.log.Info("deleted account", slog.Int("id", deleted.ID))

	if err := s.events.AccountDeleted(deleted.ID, deleted.Email); err != nil {
		s.log.Warn("failed to publish deleted event", sl.Err(err))
	}

	cacheKey := fmt.Sprintf("account:%d", deleted.ID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), sl.Err(err))
	}

	return deleted, nil
}

// checkNewEmail проверяет формат нового email и его незанятость.
// Смена email на самого себя конфликтом не считается.
func (s *AccountService) checkNewEmail(ctx context.Context, currentEmail, newEmail string) error {
	if err := s.validate.Var(newEmail, "required,email"); err != nil {
		return ErrInvalidEmail
	}
	if newEmail == currentEmail {
		return nil
	}
	if _, err := s.repo.GetAccountByEmail(ctx, newEmail); err == nil {
		return ErrDuplicateEmail
	} else if !errors.Is(err, storage.ErrAccountNotFound) {
		return err
	}
	return nil
}

// saveUpdate записывает обновлённое состояние и освежает кэш.
func (s *AccountService) saveUpdate(ctx context.Context, lookupEmail string, id int, account models.Account) (*models.Account, error) {
	result, err := s.repo.UpdateAccount(ctx, lookupEmail, account)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	s.log.Info("updated account", slog.Int("id", id))

	s.cacheAccount(result)
	return result, nil
}

// cacheAccount кладет учётную запись в кэш на час.
func (s *AccountService) cacheAccount(account *models.Account) {
	cacheKey := fmt.Sprintf("account:%d", account.ID)
	if err := s.cache.Set(cacheKey, account, time.Hour); err != nil {
		s.log.Warn("failed to cache account", slog.String("key", cacheKey), sl.Err(err))
	}
}

// mapStorageErr переводит ошибки хранилища в ошибки бизнес-уровня.
func mapStorageErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrAccountNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrEmailTaken):
		return ErrDuplicateEmail
	}
	return err
}
