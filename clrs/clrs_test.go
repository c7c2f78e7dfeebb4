package clrs

import (
	"math/rand"
	"slices"
	"testing"
)

func TestInsertionSort(t *testing.T) {
	for _, test := range []struct {
		in, want []int
		swaps    int
	}{
		{in: []int{5, 3, 8, 1}, want: []int{1, 3, 5, 8}, swaps: 4},
		{in: []int{1, 2, 3, 4}, want: []int{1, 2, 3, 4}, swaps: 0},
		{in: []int{4, 3, 2, 1}, want: []int{1, 2, 3, 4}, swaps: 6},
		{in: []int{2, 2, 1}, want: []int{1, 2, 2}, swaps: 2},
		{in: []int{}, want: []int{}},
		{in: []int{7}, want: []int{7}},
	} {
		got := slices.Clone(test.in)
		swaps := InsertionSort(got)
		if !slices.Equal(got, test.want) || swaps != test.swaps {
			t.Errorf("sort %v = %v with %d swaps, want %v with %d", test.in, got, swaps, test.want, test.swaps)
		}
	}
}

func TestInsertionSortPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 0; n < 50; n++ {
		s := make([]int32, n)
		for i := range s {
			s[i] = rng.Int31n(20) - 10
		}
		want := slices.Clone(s)
		slices.Sort(want)
		InsertionSort(s)
		if !slices.Equal(s, want) {
			t.Fatalf("got %v, want %v", s, want)
		}
		if InsertionSort(s) != 0 {
			t.Fatal("sorted input swapped elements")
		}
	}
	words := []string{"pear", "apple", "fig"}
	InsertionSort(words)
	if !slices.IsSorted(words) {
		t.Errorf("strings not sorted: %v", words)
	}
}

func TestBinaryAdd(t *testing.T) {
	const T, F = true, false
	for _, test := range []struct {
		a, b, want []bool
	}{
		{a: []bool{}, b: []bool{}, want: []bool{}},
		{a: []bool{F, F, T, T, F}, b: []bool{F, T, F, T, F}, want: []bool{F, T, T, F, T, F}},
		{a: []bool{T, T, F, T, T}, b: []bool{T, T, F, F, T}, want: []bool{F, T, T, T, F, T}},
		{a: []bool{T}, b: []bool{T}, want: []bool{F, T}},
		{a: []bool{T, T, T}, b: []bool{T, F, F}, want: []bool{F, F, F, T}},
	} {
		got, err := BinaryAdd(test.a, test.b)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(got, test.want) {
			t.Errorf("%v + %v = %v, want %v", test.a, test.b, got, test.want)
		}
	}
	_, err := BinaryAdd([]bool{T, T}, []bool{T, T, T})
	if err == nil {
		t.Error("expected error for operands of different length")
	}
}
