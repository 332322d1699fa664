package models

import "github.com/ethereum/go-ethereum/common"

// OrderFields is the subset of an order request needed to pick a direction.
type OrderFields struct {
	InputToken   common.Address
	OutputToken  common.Address
	InputIndex   uint64
	OutputIndex  uint64
	Counterparty common.Address
}
