// Package orderbook decodes the ABI-encoded order payload posted by takers.
package orderbook

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"PriceSigner/internal/domain/models"
	domrepo "PriceSigner/internal/domain/repository"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const ioComponents = `[
	{"name":"token","type":"address"},
	{"name":"decimals","type":"uint8"},
	{"name":"vaultId","type":"uint256"}
]`

// requestABI describes the body as the inputs of a pseudo method:
// (OrderV4 order, uint256 inputIOIndex, uint256 outputIOIndex, address counterparty).
var requestABI = `[{"type":"function","name":"signedContext","inputs":[
	{"name":"order","type":"tuple","components":[
		{"name":"owner","type":"address"},
		{"name":"evaluable","type":"tuple","components":[
			{"name":"interpreter","type":"address"},
			{"name":"store","type":"address"},
			{"name":"bytecode","type":"bytes"}
		]},
		{"name":"validInputs","type":"tuple[]","components":` + ioComponents + `},
		{"name":"validOutputs","type":"tuple[]","components":` + ioComponents + `},
		{"name":"nonce","type":"bytes32"}
	]},
	{"name":"inputIOIndex","type":"uint256"},
	{"name":"outputIOIndex","type":"uint256"},
	{"name":"counterparty","type":"address"}
]}]`

// IO is one entry of an order's valid inputs or outputs.
type IO struct {
	Token    common.Address
	Decimals uint8
	VaultId  *big.Int
}

type Evaluable struct {
	Interpreter common.Address
	Store       common.Address
	Bytecode    []byte
}

// Order mirrors the on-chain OrderV4 struct.
type Order struct {
	Owner        common.Address
	Evaluable    Evaluable
	ValidInputs  []IO
	ValidOutputs []IO
	Nonce        [32]byte
}

// Request is the fully decoded body.
type Request struct {
	Order         Order
	InputIOIndex  *big.Int
	OutputIOIndex *big.Int
	Counterparty  common.Address
}

var errArgCount = errors.New("unexpected argument count")

// Decoder turns request bodies into the order fields needed to pick a price direction.
type Decoder struct {
	args abi.Arguments
}

var _ domrepo.OrderDecoder = (*Decoder)(nil)

// NewDecoder parses the request ABI once.
func NewDecoder() (*Decoder, error) {
	parsed, err := abi.JSON(strings.NewReader(requestABI))
	if err != nil {
		return nil, fmt.Errorf("parse request abi: %w", err)
	}
	return &Decoder{args: parsed.Methods["signedContext"].Inputs}, nil
}

// Arguments exposes the request layout, mainly for building payloads in tests and tools.
func (d *Decoder) Arguments() abi.Arguments {
	return d.args
}

// DecodeRequest unpacks the whole body.
func (d *Decoder) DecodeRequest(body []byte) (*Request, error) {
	values, err := d.args.Unpack(body)
	if err != nil {
		return nil, err
	}
	if len(values) != len(d.args) {
		return nil, fmt.Errorf("%w: got %d", errArgCount, len(values))
	}

	req := &Request{
		Order:         *abi.ConvertType(values[0], new(Order)).(*Order),
		InputIOIndex:  *abi.ConvertType(values[1], new(*big.Int)).(**big.Int),
		OutputIOIndex: *abi.ConvertType(values[2], new(*big.Int)).(**big.Int),
		Counterparty:  *abi.ConvertType(values[3], new(common.Address)).(*common.Address),
	}
	return req, nil
}

// Decode extracts the input and output tokens selected by the request's IO indices.
// Malformed bodies yield invalid_body; indices past the end of their list yield invalid_index.
func (d *Decoder) Decode(body []byte) (models.OrderFields, error) {
	req, err := d.DecodeRequest(body)
	if err != nil {
		return models.OrderFields{}, models.InvalidBody(err)
	}

	inIdx := saturatingUint64(req.InputIOIndex)
	outIdx := saturatingUint64(req.OutputIOIndex)

	if inIdx >= uint64(len(req.Order.ValidInputs)) {
		return models.OrderFields{}, models.InvalidIndex("input", inIdx, len(req.Order.ValidInputs))
	}
	if outIdx >= uint64(len(req.Order.ValidOutputs)) {
		return models.OrderFields{}, models.InvalidIndex("output", outIdx, len(req.Order.ValidOutputs))
	}

	return models.OrderFields{
		InputToken:   req.Order.ValidInputs[inIdx].Token,
		OutputToken:  req.Order.ValidOutputs[outIdx].Token,
		InputIndex:   inIdx,
		OutputIndex:  outIdx,
		Counterparty: req.Counterparty,
	}, nil
}

// Encode packs a request body. It is the inverse of DecodeRequest.
func (d *Decoder) Encode(req *Request) ([]byte, error) {
	return d.args.Pack(req.Order, req.InputIOIndex, req.OutputIOIndex, req.Counterparty)
}

func saturatingUint64(v *big.Int) uint64 {
	if v == nil || v.Sign() < 0 {
		return 0
	}
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}
