package models

// Keys used in Verdict.Extra.
const (
	ExtraStock    = "stock"
	ExtraPreorder = "preorder"
)

// Verdict is the outcome of one availability check.
type Verdict struct {
	Available bool
	Extra     map[string]int
}

func (v *Verdict) Counter(key string) (int, bool) {
	if v == nil || v.Extra == nil {
		return 0, false
	}
	n, ok := v.Extra[key]
	return n, ok
}
