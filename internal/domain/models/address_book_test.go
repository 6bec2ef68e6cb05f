package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressBook_Get(t *testing.T) {
	book := NewAddressBook()
	book.Set("Vault", "0xABCDEF0000000000000000000000000000000001")
	book.Set("B", "")

	tests := []struct {
		name     string
		key      string
		state    LookupState
		expected string
	}{
		{name: "present", key: "Vault", state: AddressPresent, expected: "0xabcdef0000000000000000000000000000000001"},
		{name: "empty value", key: "B", state: AddressEmpty},
		{name: "absent", key: "Nope", state: AddressMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := book.Get(tt.key)
			second := book.Get(tt.key)
			assert.Equal(t, first, second)
			assert.Equal(t, tt.state, first.State)
			assert.Equal(t, tt.expected, first.Address)
			assert.Equal(t, tt.state != AddressMissing, first.Found())
		})
	}
}

func TestAddressBook_SetKeepsPosition(t *testing.T) {
	book := NewAddressBook()
	book.Set("A", "0x1")
	book.Set("B", "0x2")
	book.Set("A", "0x3")

	assert.Equal(t, []string{"A", "B"}, book.Names())
	assert.Equal(t, "0x3", book.Get("A").Address)
	assert.Equal(t, 2, book.Len())
}

func TestAddressBook_LastMatching(t *testing.T) {
	book := NewAddressBook()
	book.Set("TradingWETH", "0x1")
	book.Set("FastPriceFeed_WETH", "0x2")
	book.Set("WETH", "0x3")

	got := book.LastMatching(func(name string) bool { return name == "TradingWETH" || name == "WETH" })
	assert.Equal(t, "WETH", got.Name)
	assert.Equal(t, "0x3", got.Address)

	none := book.LastMatching(func(string) bool { return false })
	assert.Equal(t, AddressMissing, none.State)
}
