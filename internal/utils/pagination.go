// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// NumberDefault converts a decimal number to an int, truncating toward zero.
// Signed, fractional and exponent forms are accepted ("+2", "2.9", "1e1").
// Values beyond the int range saturate. If the string is empty or not a
// number, it returns the provided default value instead.
//
// Example:
//
//	n := utils.NumberDefault("42", 0)  // returns 42
//	n = utils.NumberDefault("1e1", 0)  // returns 10
//	n = utils.NumberDefault("", 10)    // returns 10
//	n = utils.NumberDefault("x", 5)    // returns 5
func NumberDefault(s string, def int) int {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return def
	}
	switch {
	case math.IsNaN(f):
		return def
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// PageParams parses the page_number and rows_per_page query values.
// Blank or non-numeric values become 0, which callers treat as "unpaged".
func PageParams(pageNumber, rowsPerPage string) (page, per int) {
	page = NumberDefault(strings.TrimSpace(pageNumber), 0)
	per = NumberDefault(strings.TrimSpace(rowsPerPage), 0)
	return page, per
}
