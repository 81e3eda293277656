// Package models содержит доменную модель банковской карты:
// статусную машину, отношение владения и чистые функции над картой.
package models

import (
	"time"

	"github.com/magabrotheeeer/card-management/internal/lib/money"
)

// CardStatus определяет закрытый набор статусов карты.
type CardStatus string

const (
	// StatusActive — карта активна, допускает списания и зачисления.
	StatusActive CardStatus = "ACTIVE"
	// StatusBlocked — карта заблокирована владельцем или администратором.
	StatusBlocked CardStatus = "BLOCKED"
	// StatusExpired — срок действия карты истёк. Выхода из этого статуса нет.
	StatusExpired CardStatus = "EXPIRED"
)

// ParseCardStatus преобразует строку в CardStatus.
func ParseCardStatus(s string) (CardStatus, error) {
	switch CardStatus(s) {
	case StatusActive, StatusBlocked, StatusExpired:
		return CardStatus(s), nil
	default:
		return "", ErrInvalidTransition
	}
}

// Card представляет банковскую карту пользователя.
type Card struct {
	ID         int64        // Уникальный идентификатор карты
	Number     string       // Номер карты, 16 цифр, уникальный
	Owner      string       // Имя владельца, как напечатано на карте
	ExpiryDate time.Time    // Срок действия карты
	Status     CardStatus   // Текущий статус карты
	Balance    money.Amount // Баланс в минимальных единицах валюты, не отрицательный
	UserUID    string       // UID пользователя-владельца
	Version    int64        // Счётчик версий для оптимистичной блокировки
}

// CanDebit сообщает, допускает ли карта списание средств.
func (c *Card) CanDebit() bool { return c.Status == StatusActive }

// CanCredit сообщает, допускает ли карта зачисление средств.
func (c *Card) CanCredit() bool { return c.Status == StatusActive }

// Transition проверяет допустимость перехода карты в статус target.
//
// Разрешённые рёбра: ACTIVE -> BLOCKED, BLOCKED -> ACTIVE, ACTIVE -> EXPIRED.
// Любой другой переход, включая повторный перевод в текущий статус,
// возвращает ErrInvalidTransition.
func (c *Card) Transition(target CardStatus) error {
	switch {
	case c.Status == StatusActive && target == StatusBlocked:
		return nil
	case c.Status == StatusBlocked && target == StatusActive:
		return nil
	case c.Status == StatusActive && target == StatusExpired:
		return nil
	default:
		return ErrInvalidTransition
	}
}

// Masked возвращает номер карты для отображения: видны только последние
// четыре цифры, остальные заменены маской.
func (c *Card) Masked() string {
	if len(c.Number) < 4 {
		return c.Number
	}
	return "**** **** **** " + c.Number[len(c.Number)-4:]
}

// CardInfo — представление карты для выдачи наружу, номер всегда замаскирован.
type CardInfo struct {
	ID           int64        `json:"id"`
	NumberMasked string       `json:"number_masked"`
	Owner        string       `json:"owner"`
	ExpiryDate   string       `json:"expiry_date"`
	Status       CardStatus   `json:"status"`
	Balance      money.Amount `json:"balance"`
}

// Info строит CardInfo по карте.
func (c *Card) Info() CardInfo {
	return CardInfo{
		ID:           c.ID,
		NumberMasked: c.Masked(),
		Owner:        c.Owner,
		ExpiryDate:   c.ExpiryDate.Format("2006-01-02"),
		Status:       c.Status,
		Balance:      c.Balance,
	}
}

// CardEvent — событие жизненного цикла карты, публикуемое в брокер сообщений.
type CardEvent struct {
	CardID     int64      `json:"card_id"`
	UserUID    string     `json:"user_uid"`
	Status     CardStatus `json:"status"`
	OccurredAt time.Time  `json:"occurred_at"`
}
