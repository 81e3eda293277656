// Package card содержит бизнес-логику управления банковскими картами:
// создание и удаление карт администратором, смену статусов, выдачу
// баланса и перевод средств между картами одного владельца.
package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/card-management/internal/lib/cardnumber"
	"github.com/magabrotheeeer/card-management/internal/lib/money"
	"github.com/magabrotheeeer/card-management/internal/models"
	"github.com/magabrotheeeer/card-management/internal/rabbitmq"
)

// Количество попыток для операций, повторяемых при конфликте:
// генерации номера карты и перевода средств.
const maxAttempts = 3

// CardRepository определяет методы для работы с картами в хранилище.
type CardRepository interface {
	// CreateCard добавляет новую карту и возвращает её ID.
	CreateCard(ctx context.Context, card models.Card) (int64, error)
	// GetCard возвращает карту по ID.
	GetCard(ctx context.Context, id int64) (*models.Card, error)
	// ListAllCards возвращает все карты с пагинацией.
	ListAllCards(ctx context.Context, limit, offset int) ([]*models.Card, error)
	// ListUserCards возвращает карты пользователя с пагинацией.
	ListUserCards(ctx context.Context, userUID string, limit, offset int) ([]*models.Card, error)
	// UpdateCardStatus обновляет статус карты, возвращает число изменённых строк.
	UpdateCardStatus(ctx context.Context, id int64, status models.CardStatus) (int64, error)
	// DeleteCard удаляет карту, возвращает число удалённых строк.
	DeleteCard(ctx context.Context, id int64) (int64, error)
	// TransferBalances атомарно применяет списание и зачисление.
	TransferBalances(ctx context.Context, from, to *models.Card, amount money.Amount) error
}

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetUserByUsername возвращает пользователя по имени.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// EventPublisher публикует события жизненного цикла карт в брокер сообщений.
type EventPublisher interface {
	PublishCardEvent(ctx context.Context, routingKey string, event models.CardEvent) error
}

// CreateInput — данные новой карты, указываемые администратором.
type CreateInput struct {
	Owner      string
	ExpiryDate time.Time
	Balance    money.Amount
	UserUID    string
}

// Service реализует бизнес-логику работы с картами.
type Service struct {
	cards  CardRepository
	users  UserRepository
	cache  Cache
	events EventPublisher
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(cards CardRepository, users UserRepository, cache Cache, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		cards:  cards,
		users:  users,
		cache:  cache,
		events: events,
		log:    log,
	}
}

// resolveUserUID возвращает UID пользователя по имени, кешируя результат.
//
// Соответствие username -> UID неизменно после регистрации, поэтому его
// можно держать в кеше; балансы карт через кеш не проходят никогда.
func (s *Service) resolveUserUID(ctx context.Context, username string) (string, error) {
	cacheKey := "user:uid:" + username

	var uid string
	found, err := s.cache.Get(ctx, cacheKey, &uid)
	if err != nil {
		s.log.Warn("failed to read user uid from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found && uid != "" {
		return uid, nil
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if err := s.cache.Set(ctx, cacheKey, user.UID, 10*time.Minute); err != nil {
		s.log.Warn("failed to cache user uid", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return user.UID, nil
}

func (s *Service) publish(ctx context.Context, routingKey string, card *models.Card) {
	event := models.CardEvent{
		CardID:     card.ID,
		UserUID:    card.UserUID,
		Status:     card.Status,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.PublishCardEvent(ctx, routingKey, event); err != nil {
		s.log.Warn("failed to publish card event",
			slog.String("routing_key", routingKey),
			slog.Int64("card_id", card.ID),
			slog.Any("err", err))
	}
}

func routingKeyForStatus(status models.CardStatus) string {
	switch status {
	case models.StatusBlocked:
		return rabbitmq.RoutingKeyBlocked
	case models.StatusActive:
		return rabbitmq.RoutingKeyActivated
	default:
		return rabbitmq.RoutingKeyExpired
	}
}

// Create выпускает новую карту для пользователя.
//
// Номер генерируется на стороне сервера; при коллизии с существующим
// номером генерация повторяется до maxAttempts раз, после чего наружу
// выходит models.ErrDuplicateCardNumber.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.CardInfo, error) {
	const op = "card.Create"

	if in.Balance < 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidAmount)
	}
	if _, err := s.users.GetUser(ctx, in.UserUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var lastErr error
	for range maxAttempts {
		number, err := cardnumber.Generate()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		card := models.Card{
			Number:     number,
			Owner:      in.Owner,
			ExpiryDate: in.ExpiryDate,
			Status:     models.StatusActive,
			Balance:    in.Balance,
			UserUID:    in.UserUID,
		}
		id, err := s.cards.CreateCard(ctx, card)
		if err != nil {
			if errors.Is(err, models.ErrDuplicateCardNumber) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		card.ID = id
		s.log.Info("created new card", slog.Int64("id", id), slog.String("user_uid", in.UserUID))
		s.publish(ctx, rabbitmq.RoutingKeyCreated, &card)
		info := card.Info()
		return &info, nil
	}
	return nil, fmt.Errorf("%s: %w", op, lastErr)
}

// UpdateStatus переводит карту в указанный статус (административная операция).
//
// Допустимость перехода проверяется статусной машиной карты.
func (s *Service) UpdateStatus(ctx context.Context, id int64, target models.CardStatus) (*models.CardInfo, error) {
	const op = "card.UpdateStatus"

	card, err := s.cards.GetCard(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := card.Transition(target); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.cards.UpdateCardStatus(ctx, id, target); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	card.Status = target
	s.publish(ctx, routingKeyForStatus(target), card)
	info := card.Info()
	return &info, nil
}

// Block блокирует карту (административная операция).
func (s *Service) Block(ctx context.Context, id int64) error {
	_, err := s.UpdateStatus(ctx, id, models.StatusBlocked)
	return err
}

// Activate активирует заблокированную карту (административная операция).
func (s *Service) Activate(ctx context.Context, id int64) error {
	_, err := s.UpdateStatus(ctx, id, models.StatusActive)
	return err
}

// Delete удаляет карту без возможности восстановления.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "card.Delete"

	rows, err := s.cards.DeleteCard(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrCardNotFound)
	}
	s.log.Info("deleted card", slog.Int64("id", id))
	return nil
}

// ListAll возвращает все карты системы (административная операция).
func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]models.CardInfo, error) {
	const op = "card.ListAll"

	cards, err := s.cards.ListAllCards(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toInfos(cards), nil
}

// ListUserCards возвращает карты аутентифицированного пользователя.
func (s *Service) ListUserCards(ctx context.Context, username string, limit, offset int) ([]models.CardInfo, error) {
	const op = "card.ListUserCards"

	uid, err := s.resolveUserUID(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cards, err := s.cards.ListUserCards(ctx, uid, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toInfos(cards), nil
}

func toInfos(cards []*models.Card) []models.CardInfo {
	result := make([]models.CardInfo, 0, len(cards))
	for _, c := range cards {
		result = append(result, c.Info())
	}
	return result
}

// GetBalance возвращает баланс карты после проверки владения.
func (s *Service) GetBalance(ctx context.Context, username string, cardID int64) (money.Amount, error) {
	const op = "card.GetBalance"

	card, err := s.cards.GetCard(ctx, cardID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	uid, err := s.resolveUserUID(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if card.UserUID != uid {
		return 0, fmt.Errorf("%s: %w", op, models.ErrNotOwner)
	}
	return card.Balance, nil
}

// RequestBlock блокирует карту по запросу её владельца.
func (s *Service) RequestBlock(ctx context.Context, username string, cardID int64) error {
	const op = "card.RequestBlock"

	card, err := s.cards.GetCard(ctx, cardID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	uid, err := s.resolveUserUID(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if card.UserUID != uid {
		return fmt.Errorf("%s: %w", op, models.ErrNotOwner)
	}
	if err := card.Transition(models.StatusBlocked); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.cards.UpdateCardStatus(ctx, cardID, models.StatusBlocked); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	card.Status = models.StatusBlocked
	s.publish(ctx, rabbitmq.RoutingKeyBlocked, card)
	return nil
}

// Transfer переводит amount с карты fromID на карту toID одного владельца.
//
// Проверки выполняются в фиксированном порядке, поэтому для одного и
// того же некорректного запроса вид ошибки детерминирован: сумма,
// существование карт, существование пользователя, владение, статус
// карты списания и зачисления, достаточность средств. Перевод карты
// самой себе отклоняется как некорректная сумма.
//
// Балансы перечитываются из хранилища на каждой попытке; при конфликте
// версий (параллельный перевод, затронувший одну из карт) операция
// повторяется до maxAttempts раз, затем наружу выходит
// models.ErrConcurrentUpdate.
func (s *Service) Transfer(ctx context.Context, username string, fromID, toID int64, amount money.Amount) error {
	const op = "card.Transfer"

	if amount <= 0 || fromID == toID {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidAmount)
	}

	for range maxAttempts {
		from, err := s.cards.GetCard(ctx, fromID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		to, err := s.cards.GetCard(ctx, toID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		uid, err := s.resolveUserUID(ctx, username)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if from.UserUID != uid || to.UserUID != uid {
			return fmt.Errorf("%s: %w", op, models.ErrNotOwner)
		}
		if !from.CanDebit() || !to.CanCredit() {
			return fmt.Errorf("%s: %w", op, models.ErrCardNotActive)
		}
		if from.Balance < amount {
			return fmt.Errorf("%s: %w", op, models.ErrInsufficientFunds)
		}

		err = s.cards.TransferBalances(ctx, from, to, amount)
		if err == nil {
			s.log.Info("transferred funds",
				slog.Int64("from", fromID),
				slog.Int64("to", toID),
				slog.String("amount", amount.String()))
			return nil
		}
		if !errors.Is(err, models.ErrConcurrentUpdate) {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("transfer version conflict, retrying",
			slog.Int64("from", fromID), slog.Int64("to", toID))
	}
	return fmt.Errorf("%s: %w", op, models.ErrConcurrentUpdate)
}
