package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/card-management/internal/lib/money"
)

func TestCard_Transition(t *testing.T) {
	tests := []struct {
		name    string
		from    CardStatus
		target  CardStatus
		wantErr bool
	}{
		{name: "active to blocked", from: StatusActive, target: StatusBlocked},
		{name: "blocked to active", from: StatusBlocked, target: StatusActive},
		{name: "active to expired", from: StatusActive, target: StatusExpired},
		{name: "active to active", from: StatusActive, target: StatusActive, wantErr: true},
		{name: "blocked to blocked", from: StatusBlocked, target: StatusBlocked, wantErr: true},
		{name: "blocked to expired", from: StatusBlocked, target: StatusExpired, wantErr: true},
		{name: "expired to active", from: StatusExpired, target: StatusActive, wantErr: true},
		{name: "expired to blocked", from: StatusExpired, target: StatusBlocked, wantErr: true},
		{name: "expired to expired", from: StatusExpired, target: StatusExpired, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := Card{Status: tt.from}
			err := card.Transition(tt.target)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCard_CanDebitAndCredit(t *testing.T) {
	tests := []struct {
		status CardStatus
		want   bool
	}{
		{status: StatusActive, want: true},
		{status: StatusBlocked, want: false},
		{status: StatusExpired, want: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			card := Card{Status: tt.status}
			assert.Equal(t, tt.want, card.CanDebit())
			assert.Equal(t, tt.want, card.CanCredit())
		})
	}
}

func TestCard_Masked(t *testing.T) {
	card := Card{Number: "1234567890123456"}
	assert.Equal(t, "**** **** **** 3456", card.Masked())
}

func TestCard_Info(t *testing.T) {
	card := Card{
		ID:         42,
		Number:     "1234567890123456",
		Owner:      "IVAN IVANOV",
		ExpiryDate: time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:     StatusActive,
		Balance:    money.Amount(10000),
		UserUID:    "uid-1",
	}

	info := card.Info()

	assert.Equal(t, int64(42), info.ID)
	assert.Equal(t, "**** **** **** 3456", info.NumberMasked)
	assert.Equal(t, "IVAN IVANOV", info.Owner)
	assert.Equal(t, "2030-12-31", info.ExpiryDate)
	assert.Equal(t, StatusActive, info.Status)
	assert.Equal(t, money.Amount(10000), info.Balance)
}

func TestParseCardStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    CardStatus
		wantErr bool
	}{
		{input: "ACTIVE", want: StatusActive},
		{input: "BLOCKED", want: StatusBlocked},
		{input: "EXPIRED", want: StatusExpired},
		{input: "active", wantErr: true},
		{input: "", wantErr: true},
		{input: "DELETED", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCardStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{input: "user", want: RoleUser},
		{input: "admin", want: RoleAdmin},
		{input: "superuser", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
