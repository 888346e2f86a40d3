// Package vcode orders voucher codes the way a bookkeeper reads them:
// "记-9" before "记-10", and "记-2025-04-002" before "记-2025-04-010".
package vcode

import (
	"strings"
)

// Split breaks a code into alternating non-digit and digit runs.
// "记-2025-04-001" -> ["记-", "2025", "-", "04", "-", "001"]
func Split(code string) []string {
	var parts []string
	start := 0
	for i := 1; i <= len(code); i++ {
		if i == len(code) || isDigit(code[i]) != isDigit(code[i-1]) {
			parts = append(parts, code[start:i])
			start = i
		}
	}
	return parts
}

// Compare returns -1, 0 or +1. Digit runs compare by numeric value, other runs
// byte-wise; codes that tie on that (e.g. "01" vs "1") fall back to plain string order.
func Compare(a, b string) int {
	if a == b {
		return 0
	}
	pa, pb := Split(a), Split(b)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if c := comparePart(pa[i], pb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(pa) < len(pb):
		return -1
	case len(pa) > len(pb):
		return 1
	}
	return strings.Compare(a, b)
}

func comparePart(a, b string) int {
	if len(a) > 0 && len(b) > 0 && isDigit(a[0]) && isDigit(b[0]) {
		a = strings.TrimLeft(a, "0")
		b = strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			if len(a) < len(b) {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
