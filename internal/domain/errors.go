package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrMissingAddress is returned when a referenced contract has no address book entry
	ErrMissingAddress = errors.New("missing address")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidArgument is returned when a call argument cannot be coerced to its ABI type
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrChainMismatch is returned when the node reports a chain id other than the configured one
	ErrChainMismatch = errors.New("chain id mismatch")

	// ErrUnknownContract is returned when a logical name has no known constructor rules
	ErrUnknownContract = errors.New("unknown contract")

	// ErrNoPlan is returned when a contract has no initialization plan

	// ErrDeployOutput is returned when deploy output does not report an address
	ErrDeployOutput = errors.New("deploy output did not report an address")

	// ErrDeployFailed is returned when a creation transaction does not produce a contract
	ErrDeployFailed = errors.New("deployment failed")

	// ErrVerificationFailed is returned when contract verification fails
	ErrVerificationFailed = errors.New("verification failed")

	// ErrBroadcastAborted is returned when the broadcaster stops on the first failure
	ErrBroadcastAborted = errors.New("broadcast aborted")

	// ErrNoSigner is returned when no private key is configured
	ErrNoSigner = errors.New("no signer configured")

	// ErrDuplicateKey is returned when a signed batch already holds a key
	ErrDuplicateKey = errors.New("duplicate transaction key")
)

// MissingAddressError names the absent address book entry
type MissingAddressError struct {
	Name      string
	Requester string
}

func (e MissingAddressError) Error() string {
	if e.Requester == "" {
		return fmt.Sprintf("%s: %s", ErrMissingAddress, e.Name)
	}
	return fmt.Sprintf("%s: %s (needed by %s)", ErrMissingAddress, e.Name, e.Requester)
}

func (e MissingAddressError) Unwrap() error {
	return ErrMissingAddress
}

// UnknownContractErr carries fuzzy suggestions for a name without resolver rules
type UnknownContractErr struct {
	Name        string
	Suggestions []string
}

func (e UnknownContractErr) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%s: %s", ErrUnknownContract, e.Name)
	}
	return fmt.Sprintf("%s: %s (did you mean %s?)", ErrUnknownContract, e.Name, strings.Join(e.Suggestions, ", "))
}

func (e UnknownContractErr) Unwrap() error {
	return ErrUnknownContract
}
