package domain

import (
	"math/big"
	"strings"
)

var (
	Big0  = big.NewInt(0)
	Big1  = big.NewInt(1)
	Big10 = big.NewInt(10)

	// WeiPerToken is the fixed-point scale of every monetary amount,
	// 18 fractional digits in the smallest denomination.
	WeiPerToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
)

const (
	// BpsDenominator converts basis points to a ratio. 10000 bps = 100%.
	BpsDenominator = 10000
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerPtr() *Address {
	res := a.ToLower()
	return &res
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

// WeiAmount is a fixed-point token amount carried as a base-10 string in
// storage and on the wire. Arithmetic happens on *big.Int.
type WeiAmount string

const ZeroWei = WeiAmount("0")

func (w WeiAmount) BigInt() (*big.Int, error) {
	s := string(w)
	if s == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, ErrInvalidNumberFormat
	}
	return n, nil
}

func (w WeiAmount) String() string {
	return string(w)
}

func ToWeiAmount(n *big.Int) WeiAmount {
	if n == nil {
		return ZeroWei
	}
	return WeiAmount(n.String())
}

func ToBigInt(nums []string) ([]*big.Int, error) {
	var bns []*big.Int
	for _, n := range nums {
		bn, ok := new(big.Int).SetString(n, 10)
		if !ok {
			return nil, ErrInvalidNumberFormat
		}
		bns = append(bns, bn)
	}
	return bns, nil
}
