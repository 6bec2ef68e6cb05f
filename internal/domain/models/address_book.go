package models

import (
	"strings"
)

// ZeroAddress is substituted for address book entries that hold no value
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// LookupState distinguishes how a name is known to the address book
type LookupState int

const (
	// AddressMissing means the name is not in the book
	AddressMissing LookupState = iota
	// AddressEmpty means the name is in the book without an address
	AddressEmpty
	// AddressPresent means the name maps to a non-empty address
	AddressPresent
)

func (s LookupState) String() string {
	switch s {
	case AddressEmpty:
		return "empty"
	case AddressPresent:
		return "present"
	default:
		return "missing"
	}
}

// AddressLookup is the result of an address book query
type AddressLookup struct {
	Name    string
	Address string
	State   LookupState
}

// Found reports whether the name exists in the book, with or without a value
func (l AddressLookup) Found() bool {
	return l.State != AddressMissing
}

// AddressEntry is a single name:address line
type AddressEntry struct {
	Name    string
	Address string
}

// AddressBook is an insertion-ordered mapping of logical contract names to addresses
type AddressBook struct {
	names     []string
	addresses map[string]string
}

// NewAddressBook creates an empty address book
func NewAddressBook() *AddressBook {
	return &AddressBook{
		addresses: make(map[string]string),
	}
}

// Get looks up a name. Repeated calls without an intervening Set return the same result.
func (b *AddressBook) Get(name string) AddressLookup {
	addr, ok := b.addresses[name]
	switch {
	case !ok:
		return AddressLookup{Name: name, State: AddressMissing}
	case addr == "":
		return AddressLookup{Name: name, State: AddressEmpty}
	default:
		return AddressLookup{Name: name, Address: addr, State: AddressPresent}
	}
}

// Set records an address, lowercased. An existing name keeps its position.
func (b *AddressBook) Set(name, address string) {
	if _, ok := b.addresses[name]; !ok {
		b.names = append(b.names, name)
	}
	b.addresses[name] = strings.ToLower(address)
}

// Names returns the names in insertion order
func (b *AddressBook) Names() []string {
	names := make([]string, len(b.names))
	copy(names, b.names)
	return names
}

// Entries returns all entries in insertion order
func (b *AddressBook) Entries() []AddressEntry {
	entries := make([]AddressEntry, 0, len(b.names))
	for _, name := range b.names {
		entries = append(entries, AddressEntry{Name: name, Address: b.addresses[name]})
	}
	return entries
}

// Len returns the number of entries
func (b *AddressBook) Len() int {
	return len(b.names)
}

// LastMatching returns the last entry, in insertion order, whose name satisfies match
func (b *AddressBook) LastMatching(match func(name string) bool) AddressLookup {
	result := AddressLookup{State: AddressMissing}
	for _, name := range b.names {
		if match(name) {
			result = b.Get(name)
		}
	}
	return result
}
