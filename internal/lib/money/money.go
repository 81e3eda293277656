// Package money реализует денежные суммы с фиксированной точкой.
//
// Сумма хранится как целое число минимальных единиц валюты (копеек),
// что исключает ошибки округления плавающей точки при переводах.
// В JSON сумма сериализуется десятичной строкой вида "123.45".
package money

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Amount — денежная сумма в минимальных единицах валюты.
type Amount int64

// Parse разбирает десятичную строку ("100", "99.5", "30.00") в Amount.
//
// Допускается не более двух знаков после точки; отрицательные суммы
// разбираются корректно, их допустимость решает вызывающая сторона.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	whole, frac, dotted := strings.Cut(s, ".")
	if whole == "" || (dotted && frac == "") || len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount: %q", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	var units int64
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid amount: %q", s)
		}
		units = units*10 + int64(r-'0')
		if units < 0 {
			return 0, fmt.Errorf("amount overflow: %q", s)
		}
	}
	if neg {
		units = -units
	}
	return Amount(units), nil
}

// String форматирует сумму десятичной строкой с двумя знаками после точки.
func (a Amount) String() string {
	units := int64(a)
	sign := ""
	if units < 0 {
		sign = "-"
		units = -units
	}
	return fmt.Sprintf("%s%d.%02d", sign, units/100, units%100)
}

// MarshalJSON сериализует сумму строкой, чтобы не терять точность на клиенте.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON принимает сумму как строку.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
