// Package coa implements the chart-of-accounts hierarchy as pure functions
// over dot-segmented account codes.
//
// Codes are materialized paths with up to five levels:
//
//	1. Group (1 digit): Asset, Liability, Equity, Revenue, Expense
//	2. Subgroup: major category
//	3. Breakdown: subcategory
//	4. Title: specific account type
//	5. Subtitle: individual (transactional) account
//
// Example: 1.1.1.10.1 = Assets > Current Assets > Cash > Checking > Main.
package coa

import (
	"strings"

	"github.com/finbooks/finbooks/internal/core/domain"
)

// TransactionalLevel is the depth at which accounts stop being hierarchy
// groups and start carrying journal lines.
const TransactionalLevel = 5

// Level returns the hierarchy depth of a code: the count of non-empty,
// non-zero dot-separated segments.
func Level(code string) int {
	n := 0
	for _, seg := range strings.Split(code, ".") {
		if seg != "" && seg != "0" {
			n++
		}
	}
	return n
}

// ParentCode returns the code with its last segment stripped, or "" for a
// top-level code.
func ParentCode(code string) string {
	idx := strings.LastIndex(code, ".")
	if idx < 0 {
		return ""
	}
	return code[:idx]
}

// Children returns the direct (one-level) descendants of code among allCodes.
// Cost is O(len(allCodes)), independent of tree depth.
func Children(code string, allCodes []string) []string {
	prefix := code + "."
	var children []string
	for _, c := range allCodes {
		if !strings.HasPrefix(c, prefix) {
			continue
		}
		if !strings.Contains(c[len(prefix):], ".") {
			children = append(children, c)
		}
	}
	return children
}

// IsGroupCode reports whether a code denotes a non-transactional hierarchy
// node under the strict five-level scheme.
func IsGroupCode(code string) bool {
	return Level(code) < TransactionalLevel
}

// NormalBalanceFor returns the side on which an account of the given type
// naturally increases.
func NormalBalanceFor(accountType domain.AccountType) domain.NormalBalance {
	switch accountType {
	case domain.Asset, domain.Expense:
		return domain.DebitNormal
	default:
		return domain.CreditNormal
	}
}

// TypeForCode derives the account type from the code's first segment.
// The zero value is returned for codes outside the 1-5 range.
func TypeForCode(code string) domain.AccountType {
	if code == "" {
		return ""
	}
	switch code[0] {
	case '1':
		return domain.Asset
	case '2':
		return domain.Liability
	case '3':
		return domain.Equity
	case '4':
		return domain.Revenue
	case '5':
		return domain.Expense
	default:
		return ""
	}
}
