package domain

import "strings"

type VoucherClass int

const (
	VoucherIgnored VoucherClass = iota
	VoucherPurchase
	VoucherReturn
)

func (c VoucherClass) String() string {
	switch c {
	case VoucherPurchase:
		return "purchase"
	case VoucherReturn:
		return "return"
	default:
		return "ignored"
	}
}

// Sign is the multiplier applied to amounts of the class before aggregation.
func (c VoucherClass) Sign() int64 {
	switch c {
	case VoucherPurchase:
		return 1
	case VoucherReturn:
		return -1
	default:
		return 0
	}
}

type VoucherClassifier interface {
	Classify(voucherType string) VoucherClass
}

// KeywordClassifier matches keywords as case-insensitive substrings.
// Return keywords are checked first.
type KeywordClassifier struct {
	Purchase []string
	Return   []string
}

func NewKeywordClassifier(purchase, ret []string) KeywordClassifier {
	return KeywordClassifier{Purchase: normalizeKeywords(purchase), Return: normalizeKeywords(ret)}
}

func (k KeywordClassifier) Classify(voucherType string) VoucherClass {
	v := strings.ToLower(strings.TrimSpace(voucherType))
	if v == "" {
		return VoucherIgnored
	}
	if containsAny(v, k.Return) {
		return VoucherReturn
	}
	if containsAny(v, k.Purchase) {
		return VoucherPurchase
	}
	return VoucherIgnored
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, kw := range in {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
