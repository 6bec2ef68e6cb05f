package models

import (
	"fmt"
	"math/big"
	"strings"
	"time"
)

// ArgKind tells the initializer how to turn an Arg into a concrete value
type ArgKind int

const (
	// ArgLiteral is used as-is
	ArgLiteral ArgKind = iota
	// ArgRef is an address book lookup
	ArgRef
	// ArgRefList is a list of address book lookups
	ArgRefList
	// ArgSigner is the signing account address
	ArgSigner
	// ArgAssetToken is the last top-level address book name containing an asset symbol
	ArgAssetToken
	// ArgNow is the run clock as unix seconds, plus an offset
	ArgNow
)

// Arg is a call argument or target, either a value or a reference resolved at signing time
type Arg struct {
	Kind   ArgKind
	Value  any
	Names  []string
	Offset time.Duration
}

// Lit wraps a literal value
func Lit(v any) Arg { return Arg{Kind: ArgLiteral, Value: v} }

// Ref references an address book name
func Ref(name string) Arg { return Arg{Kind: ArgRef, Names: []string{name}} }

// Refs references several address book names, encoded as an address array
func Refs(names ...string) Arg { return Arg{Kind: ArgRefList, Names: names} }

// Signer references the signing account
func Signer() Arg { return Arg{Kind: ArgSigner} }

// AssetToken references the token contract deployed for an asset symbol
func AssetToken(symbol string) Arg {
	return Arg{Kind: ArgAssetToken, Names: []string{symbol}}
}

// Now references the run clock, shifted by offset
func Now(offset time.Duration) Arg { return Arg{Kind: ArgNow, Offset: offset} }

func (a Arg) String() string {
	switch a.Kind {
	case ArgRef:
		return "@" + a.Names[0]
	case ArgRefList:
		return "@[" + strings.Join(a.Names, ",") + "]"
	case ArgSigner:
		return "@signer"
	case ArgAssetToken:
		return "@token(" + a.Names[0] + ")"
	case ArgNow:
		if a.Offset == 0 {
			return "@now"
		}
		return "@now+" + a.Offset.String()
	default:
		return fmt.Sprint(a.Value)
	}
}

// CallStep is one contract call of an initialization plan
type CallStep struct {
	Target Arg
	Method string
	Types  []string
	Args   []Arg
	Value  *big.Int
}

// Call builds a step from a signature such as "setTokenConfig(address,uint256)"
func Call(target Arg, signature string, args ...Arg) CallStep {
	method, types := SplitSignature(signature)
	return CallStep{Target: target, Method: method, Types: types, Args: args}
}

// Signature returns the canonical function signature
func (s CallStep) Signature() string {
	return s.Method + "(" + strings.Join(s.Types, ",") + ")"
}

// SplitSignature separates a flat signature into method name and parameter types
func SplitSignature(signature string) (string, []string) {
	open := strings.Index(signature, "(")
	if open < 0 {
		return strings.TrimSpace(signature), nil
	}
	method := strings.TrimSpace(signature[:open])
	inner := strings.TrimSuffix(strings.TrimSpace(signature[open+1:]), ")")
	if strings.TrimSpace(inner) == "" {
		return method, nil
	}
	parts := strings.Split(inner, ",")
	types := make([]string, 0, len(parts))
	for _, p := range parts {
		types = append(types, strings.TrimSpace(p))
	}
	return method, types
}

// UnsignedTransaction is a legacy transaction before signing, To is empty for contract creation
type UnsignedTransaction struct {
	To       string
	Nonce    uint64
	Value    *big.Int
	GasLimit uint64
	GasPrice *big.Int
	Data     []byte
}

// SignedTransaction is a signed call stored in a batch
type SignedTransaction struct {
	Key      string
	Contract string
	Function string
	To       string
	Nonce    uint64
	Hash     string
	Raw      []byte
}

// TransactionKey builds the batch key "<contract>_<nonce>_<function>"
func TransactionKey(contract string, nonce uint64, function string) string {
	return fmt.Sprintf("%s_%d_%s", contract, nonce, function)
}

// SignedBatch is an insertion-ordered set of signed transactions
type SignedBatch struct {
	keys []string
	txs  map[string]*SignedTransaction
}

// NewSignedBatch creates an empty batch
func NewSignedBatch() *SignedBatch {
	return &SignedBatch{txs: make(map[string]*SignedTransaction)}
}

// Add appends a transaction, keys must be unique
func (b *SignedBatch) Add(tx *SignedTransaction) bool {
	if _, ok := b.txs[tx.Key]; ok {
		return false
	}
	b.keys = append(b.keys, tx.Key)
	b.txs[tx.Key] = tx
	return true
}

// Get returns the transaction stored under key
func (b *SignedBatch) Get(key string) (*SignedTransaction, bool) {
	tx, ok := b.txs[key]
	return tx, ok
}

// Keys returns the keys in insertion order
func (b *SignedBatch) Keys() []string {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

// Transactions returns the transactions in insertion order
func (b *SignedBatch) Transactions() []*SignedTransaction {
	txs := make([]*SignedTransaction, 0, len(b.keys))
	for _, key := range b.keys {
		txs = append(txs, b.txs[key])
	}
	return txs
}

// Len returns the number of transactions
func (b *SignedBatch) Len() int {
	return len(b.keys)
}

// Receipt is the mined outcome of a transaction
type Receipt struct {
	TxHash          string
	BlockNumber     uint64
	Status          uint64
	GasUsed         uint64
	ContractAddress string
}

// ReceiptStatusSuccessful matches the EVM success status
const ReceiptStatusSuccessful uint64 = 1

// Succeeded reports a mined, non-reverted receipt with a real hash
func (r *Receipt) Succeeded() bool {
	if r == nil || r.TxHash == "" || r.BlockNumber == 0 {
		return false
	}
	if strings.Trim(strings.TrimPrefix(r.TxHash, "0x"), "0") == "" {
		return false
	}
	return r.Status == ReceiptStatusSuccessful
}
