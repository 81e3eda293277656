package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/card-management/internal/lib/money"
	"github.com/magabrotheeeer/card-management/internal/models"
)

const cardColumns = `id, number, owner, expiry_date, status, balance, user_uid, version`

func scanCard(row interface{ Scan(...any) error }) (*models.Card, error) {
	c := &models.Card{}
	var status string
	var balance int64
	if err := row.Scan(&c.ID, &c.Number, &c.Owner, &c.ExpiryDate, &status,
		&balance, &c.UserUID, &c.Version); err != nil {
		return nil, err
	}
	parsed, err := models.ParseCardStatus(status)
	if err != nil {
		return nil, err
	}
	c.Status = parsed
	c.Balance = money.Amount(balance)
	return c, nil
}

// CreateCard вставляет новую карту и возвращает её ID.
//
// Нарушение уникальности номера транслируется в models.ErrDuplicateCardNumber,
// отсутствующий владелец — в models.ErrUserNotFound.
func (s *Storage) CreateCard(ctx context.Context, card models.Card) (int64, error) {
	const op = "storage.CreateCard"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO cards (number, owner, expiry_date, status, balance, user_uid)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query,
		card.Number, card.Owner, card.ExpiryDate, string(card.Status),
		int64(card.Balance), card.UserUID).Scan(&newID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return 0, fmt.Errorf("%s: %w", op, models.ErrDuplicateCardNumber)
			case pgerrcode.ForeignKeyViolation:
				return 0, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
			}
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetCard возвращает карту по её ID.
func (s *Storage) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	const op = "storage.GetCard"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`
	card, err := scanCard(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrCardNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return card, nil
}

// ListAllCards возвращает все карты с пагинацией.
func (s *Storage) ListAllCards(ctx context.Context, limit, offset int) ([]*models.Card, error) {
	const op = "storage.ListAllCards"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + cardColumns + `
			  FROM cards
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	return s.listCards(ctx, op, query, limit, offset)
}

// ListUserCards возвращает карты пользователя с пагинацией.
func (s *Storage) ListUserCards(ctx context.Context, userUID string, limit, offset int) ([]*models.Card, error) {
	const op = "storage.ListUserCards"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + cardColumns + `
			  FROM cards
			  WHERE user_uid = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	return s.listCards(ctx, op, query, userUID, limit, offset)
}

func (s *Storage) listCards(ctx context.Context, op, query string, args ...any) ([]*models.Card, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, card)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCardStatus обновляет статус карты и возвращает количество изменённых строк.
func (s *Storage) UpdateCardStatus(ctx context.Context, id int64, status models.CardStatus) (int64, error) {
	const op = "storage.UpdateCardStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE cards
			  SET status = $1, version = version + 1
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// DeleteCard удаляет карту по ID и возвращает количество удалённых строк.
func (s *Storage) DeleteCard(ctx context.Context, id int64) (int64, error) {
	const op = "storage.DeleteCard"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM cards WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// TransferBalances атомарно списывает amount с карты from и зачисляет на карту to.
//
// Обе записи обновляются в одной транзакции с проверкой версии,
// прочитанной вызывающей стороной. Если хотя бы одна карта была изменена
// параллельно, транзакция откатывается и возвращается
// models.ErrConcurrentUpdate; вызывающая сторона перечитывает карты
// и повторяет попытку. Частичное применение исключено: либо фиксируются
// оба обновления, либо ни одного.
func (s *Storage) TransferBalances(ctx context.Context, from, to *models.Card, amount money.Amount) error {
	const op = "storage.TransferBalances"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE cards
			  SET balance = $1, version = version + 1
			  WHERE id = $2 AND version = $3`

	debit, err := tx.ExecContext(ctx, query, int64(from.Balance-amount), from.ID, from.Version)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := debit.RowsAffected(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	} else if n != 1 {
		return fmt.Errorf("%s: %w", op, models.ErrConcurrentUpdate)
	}

	credit, err := tx.ExecContext(ctx, query, int64(to.Balance+amount), to.ID, to.Version)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := credit.RowsAffected(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	} else if n != 1 {
		return fmt.Errorf("%s: %w", op, models.ErrConcurrentUpdate)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
