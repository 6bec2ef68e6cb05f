package abi

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rosx-labs/perp-deployer/internal/domain"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

var bigIntType = reflect.TypeOf(&big.Int{})

// Encoder builds call data with go-ethereum's ABI packer, coercing loosely typed values
type Encoder struct{}

// NewEncoder creates a new encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Selector returns the first four bytes of keccak256(signature)
func Selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

// EncodeCall returns selector(signature) followed by the encoded values
func (e *Encoder) EncodeCall(signature string, values []any) ([]byte, error) {
	method, types := models.SplitSignature(signature)
	canonical := method + "(" + strings.Join(types, ",") + ")"

	params, err := e.EncodeArgs(types, values)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, 4+len(params))
	data = append(data, Selector(canonical)...)
	return append(data, params...), nil
}

// EncodeArgs ABI-encodes values against type strings such as "address" or "uint256[]"
func (e *Encoder) EncodeArgs(types []string, values []any) ([]byte, error) {
	if len(types) != len(values) {
		return nil, fmt.Errorf("%w: %d types but %d values", domain.ErrInvalidArgument, len(types), len(values))
	}

	args := make(abi.Arguments, len(types))
	for i, t := range types {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			return nil, fmt.Errorf("%w: type %q: %v", domain.ErrInvalidArgument, t, err)
		}
		args[i] = abi.Argument{Type: typ}
	}
	return packArguments(args, values)
}

// EncodeConstructor encodes constructor arguments using the artifact ABI
func (e *Encoder) EncodeConstructor(contractABI *abi.ABI, values []any) ([]byte, error) {
	if contractABI == nil {
		if len(values) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: constructor arguments without an ABI", domain.ErrInvalidArgument)
	}
	return packArguments(contractABI.Constructor.Inputs, values)
}

// EncodeMethod encodes a call to a named method of the artifact ABI
func (e *Encoder) EncodeMethod(contractABI *abi.ABI, name string, values []any) ([]byte, error) {
	method, ok := contractABI.Methods[name]
	if !ok {
		return nil, fmt.Errorf("method %s: %w", name, domain.ErrNotFound)
	}
	params, err := packArguments(method.Inputs, values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method.Sig, err)
	}
	data := make([]byte, 0, 4+len(params))
	data = append(data, method.ID...)
	return append(data, params...), nil
}

func packArguments(args abi.Arguments, values []any) ([]byte, error) {
	if len(args) != len(values) {
		return nil, fmt.Errorf("%w: expected %d values, got %d", domain.ErrInvalidArgument, len(args), len(values))
	}
	coerced := make([]any, len(values))
	for i, arg := range args {
		v, err := Coerce(arg.Type, values[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, arg.Type.String(), err)
		}
		coerced[i] = v
	}
	return args.Pack(coerced...)
}

// Coerce converts a loosely typed value into the Go type the packer expects for typ
func Coerce(typ abi.Type, v any) (any, error) {
	switch typ.T {
	case abi.AddressTy:
		return toAddress(v)
	case abi.BoolTy:
		return toBool(v)
	case abi.StringTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %v is not a string", domain.ErrInvalidArgument, v)
		}
		return s, nil
	case abi.IntTy, abi.UintTy:
		return toInteger(typ, v)
	case abi.BytesTy:
		return toBytes(v)
	case abi.FixedBytesTy:
		b, err := toBytes(v)
		if err != nil {
			return nil, err
		}
		if len(b) > typ.Size {
			return nil, fmt.Errorf("%w: %d bytes do not fit bytes%d", domain.ErrInvalidArgument, len(b), typ.Size)
		}
		arr := reflect.New(typ.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil
	case abi.SliceTy, abi.ArrayTy:
		return toList(typ, v)
	default:
		return nil, fmt.Errorf("%w: unsupported type %s", domain.ErrInvalidArgument, typ.String())
	}
}

func toAddress(v any) (common.Address, error) {
	switch a := v.(type) {
	case common.Address:
		return a, nil
	case *common.Address:
		if a != nil {
			return *a, nil
		}
	case string:
		if common.IsHexAddress(a) {
			return common.HexToAddress(a), nil
		}
	}
	return common.Address{}, fmt.Errorf("%w: %v", domain.ErrInvalidAddress, v)
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err == nil {
			return parsed, nil
		}
	}
	return false, fmt.Errorf("%w: %v is not a bool", domain.ErrInvalidArgument, v)
}

func toInteger(typ abi.Type, v any) (any, error) {
	n, err := ToBig(v)
	if err != nil {
		return nil, err
	}

	if typ.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > typ.Size {
			return nil, fmt.Errorf("%w: %s out of range for %s", domain.ErrInvalidArgument, n, typ.String())
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(typ.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%w: %s out of range for %s", domain.ErrInvalidArgument, n, typ.String())
		}
	}

	rt := typ.GetType()
	if rt == bigIntType {
		return n, nil
	}
	if typ.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(rt).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(rt).Interface(), nil
}

// ToBig parses Go integers, big integers and decimal or 0x-prefixed hex strings
func ToBig(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("%w: nil integer", domain.ErrInvalidArgument)
		}
		return new(big.Int).Set(n), nil
	case big.Int:
		return new(big.Int).Set(&n), nil
	case int:
		return big.NewInt(int64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case string:
		s := strings.TrimSpace(n)
		base := 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			s, base = s[2:], 16
		}
		if parsed, ok := new(big.Int).SetString(s, base); ok && s != "" {
			return parsed, nil
		}
	}
	return nil, fmt.Errorf("%w: %v is not an integer", domain.ErrInvalidArgument, v)
}

func toBytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		decoded, err := hexutil.Decode(b)
		if err == nil {
			return decoded, nil
		}
	}
	return nil, fmt.Errorf("%w: %v is not hex bytes", domain.ErrInvalidArgument, v)
}

func toList(typ abi.Type, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %v is not a list", domain.ErrInvalidArgument, v)
	}

	n := rv.Len()
	rt := typ.GetType()
	var out reflect.Value
	if typ.T == abi.ArrayTy {
		if n != typ.Size {
			return nil, fmt.Errorf("%w: expected %d elements, got %d", domain.ErrInvalidArgument, typ.Size, n)
		}
		out = reflect.New(rt).Elem()
	} else {
		out = reflect.MakeSlice(rt, n, n)
	}

	for i := 0; i < n; i++ {
		elem, err := Coerce(*typ.Elem, rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(elem))
	}
	return out.Interface(), nil
}

var _ usecase.CallEncoder = (*Encoder)(nil)
