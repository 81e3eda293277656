package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Amount
		wantErr bool
	}{
		{name: "integer value", input: "100", want: 10000},
		{name: "two decimals", input: "30.00", want: 3000},
		{name: "one decimal", input: "5.5", want: 550},
		{name: "cents only", input: "0.07", want: 7},
		{name: "zero", input: "0", want: 0},
		{name: "negative", input: "-10.50", want: -1050},
		{name: "too many decimals", input: "1.234", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "two dots", input: "1.2.3", wantErr: true},
		{name: "missing fraction", input: "1.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmount_String(t *testing.T) {
	tests := []struct {
		name   string
		amount Amount
		want   string
	}{
		{name: "whole units", amount: 10000, want: "100.00"},
		{name: "with cents", amount: 3050, want: "30.50"},
		{name: "cents only", amount: 7, want: "0.07"},
		{name: "zero", amount: 0, want: "0.00"},
		{name: "negative", amount: -1050, want: "-10.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.amount.String())
		})
	}
}

func TestAmount_JSON(t *testing.T) {
	type payload struct {
		Value Amount `json:"value"`
	}

	data, err := json.Marshal(payload{Value: 3000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":"30.00"}`, string(data))

	var got payload
	require.NoError(t, json.Unmarshal([]byte(`{"value":"12.34"}`), &got))
	assert.Equal(t, Amount(1234), got.Value)

	assert.Error(t, json.Unmarshal([]byte(`{"value":"1.234"}`), &got))
}
