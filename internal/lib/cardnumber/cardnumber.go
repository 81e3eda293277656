// Package cardnumber генерирует номера банковских карт.
package cardnumber

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Length — длина номера карты в цифрах.
const Length = 16

// Generate возвращает случайный номер карты из 16 цифр.
//
// Уникальность номера не гарантируется: её обеспечивает ограничение
// в хранилище, а вызывающая сторона повторяет генерацию при коллизии.
func Generate() (string, error) {
	const op = "cardnumber.Generate"

	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var builder strings.Builder
	builder.Grow(Length)
	for _, b := range buf {
		builder.WriteByte(b%10 + '0')
	}
	return builder.String(), nil
}
