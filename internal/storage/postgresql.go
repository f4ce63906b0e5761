// Package storage реализует хранилище данных на основе PostgreSQL
// для управления учётными записями. Предоставляет методы создания,
// чтения, обновления и удаления записей таблицы accounts.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/account-manager/internal/models"
)

// Ошибки уровня хранилища. Сервисный слой переводит их в свою таксономию.
var (
	// ErrAccountNotFound — запись с таким ключом отсутствует.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailTaken — нарушено ограничение уникальности email.
	// Именно ограничение в базе, а не предварительная проверка,
	// защищает уникальность от конкурирующих запросов.
	ErrEmailTaken = errors.New("email already taken")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с учётными записями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

const accountColumns = `id, name, email, password_hash, is_active, created_date, last_login_date`

// scanAccount читает одну строку таблицы accounts.
func scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	var lastLogin sql.NullTime
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash,
		&a.IsActive, &a.CreatedDate, &lastLogin); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		a.LastLoginDate = &lastLogin.Time
	}
	return a, nil
}

// mapError переводит ошибки драйвера в ошибки хранилища.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAccountNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrEmailTaken
	}
	return err
}

// CreateAccount вставляет новую учётную запись и возвращает её полное
// состояние, включая сгенерированный id и отметки времени.
// last_login_date ставится равным времени создания: регистрация
// считается первым входом.
func (s *Storage) CreateAccount(ctx context.Context, account models.Account) (*models.Account, error) {
	const op = "storage.CreateAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO accounts (name, email, password_hash, is_active, last_login_date)
			  VALUES ($1, $2, $3, $4, now())
			  RETURNING ` + accountColumns
	row := s.DB.QueryRowContext(ctx, query,
		account.Name, account.Email, account.PasswordHash, account.IsActive)

	created, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// GetAccountByID возвращает учётную запись по её id.
func (s *Storage) GetAccountByID(ctx context.Context, id int) (*models.Account, error) {
	const op = "storage.GetAccountByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE id = $1`
	account, err := scanAccount(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return account, nil
}

// GetAccountByEmail возвращает учётную запись по email.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.GetAccountByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE email = $1`
	account, err := scanAccount(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return account, nil
}

// ListAccounts возвращает все учётные записи, упорядоченные по id.
// При пустой таблице возвращается пустой срез, не ошибка.
func (s *Storage) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	const op = "storage.ListAccounts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Account, 0)
	for rows.Next() {
		var a models.Account
		var lastLogin sql.NullTime
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash,
			&a.IsActive, &a.CreatedDate, &lastLogin); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if lastLogin.Valid {
			a.LastLoginDate = &lastLogin.Time
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateAccount перезаписывает изменяемые поля записи, найденной по
// lookupEmail, и возвращает обновлённое состояние. Отсутствие записи —
// ErrAccountNotFound, конфликт уникальности email — ErrEmailTaken.
func (s *Storage) UpdateAccount(ctx context.Context, lookupEmail string, account models.Account) (*models.Account, error) {
	const op = "storage.UpdateAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET name = $1, email = $2, password_hash = $3, is_active = $4
			  WHERE email = $5
			  RETURNING ` + accountColumns
	row := s.DB.QueryRowContext(ctx, query,
		account.Name, account.Email, account.PasswordHash, account.IsActive, lookupEmail)

	updated, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return updated, nil
}

// DeleteAccount удаляет учётную запись по email и возвращает её
// состояние до удаления, чтобы вызывающая сторона могла подтвердить,
// что именно было удалено.
func (s *Storage) DeleteAccount(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.DeleteAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM accounts
			  WHERE email = $1
			  RETURNING ` + accountColumns
	deleted, err := scanAccount(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return deleted, nil
}

// UpdateLastLoginDate обновляет отметку последнего входа.
func (s *Storage) UpdateLastLoginDate(ctx context.Context, email string) error {
	const op = "storage.UpdateLastLoginDate"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET last_login_date = now()
			  WHERE email = $1`
	result, err := s.DB.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	return nil
}
