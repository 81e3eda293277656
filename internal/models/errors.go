package models

import "errors"

// Ошибки доменного уровня. Сервисы возвращают их вызывающей стороне,
// HTTP-обработчики транслируют в коды ответов.
var (
	// ErrCardNotFound — карта с указанным ID не существует.
	ErrCardNotFound = errors.New("card not found")
	// ErrUserNotFound — пользователь не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotOwner — аутентифицированный пользователь не владеет картой.
	ErrNotOwner = errors.New("user does not own this card")
	// ErrCardNotActive — карта заблокирована или просрочена и не допускает операций.
	ErrCardNotActive = errors.New("card is not active")
	// ErrInvalidTransition — запрошенный переход статуса карты не разрешён.
	ErrInvalidTransition = errors.New("invalid card status transition")
	// ErrDuplicateCardNumber — сгенерированный номер карты уже занят.
	ErrDuplicateCardNumber = errors.New("duplicate card number")
	// ErrInvalidAmount — сумма перевода не положительна либо перевод самому себе.
	ErrInvalidAmount = errors.New("invalid transfer amount")
	// ErrInsufficientFunds — на карте списания недостаточно средств.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrConcurrentUpdate — конфликт версий при параллельном изменении карты.
	ErrConcurrentUpdate = errors.New("concurrent card update")
	// ErrUsernameTaken — имя пользователя уже зарегистрировано.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken — email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials — пара логин/пароль не подошла.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
