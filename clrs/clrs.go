// Package clrs implements exercises from chapter 2 of Introduction to Algorithms.
package clrs

import (
	"cmp"
	"fmt"
)

// InsertionSort sorts s in place in non-decreasing order and returns the
// number of element swaps performed. Equal elements keep their relative order.
func InsertionSort[T cmp.Ordered](s []T) (swaps int) {
	for j := 1; j < len(s); j++ {
		for i := j; i > 0 && s[i-1] > s[i]; i-- {
			s[i-1], s[i] = s[i], s[i-1]
			swaps++
		}
	}
	return swaps
}

// BinaryAdd adds two n-bit integers stored least significant bit first and
// returns their n+1 bit sum. Both operands must have the same length.
func BinaryAdd(a, b []bool) ([]bool, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("operands have different lengths (%d and %d)", len(a), len(b))
	} else if len(a) == 0 {
		return []bool{}, nil
	}
	sum := make([]bool, len(a)+1)
	carry := false
	for i := range a {
		sum[i] = a[i] != b[i] != carry
		carry = a[i] && b[i] || carry && a[i] != b[i]
	}
	sum[len(a)] = carry
	return sum, nil
}
