package scriptgate

import "sort"

// AllowList is the fixed set of script names the gateway may run.
// It is never modified after NewAllowList returns.
type AllowList struct {
	names map[string]struct{}
}

// NewAllowList builds an allow-list from the given names.
// Membership is exact, case-sensitive string equality.
func NewAllowList(names ...string) *AllowList {
	a := &AllowList{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		a.names[n] = struct{}{}
	}
	return a
}

// Allowed reports whether name may be executed.
func (a *AllowList) Allowed(name string) bool {
	if a == nil {
		return false
	}
	_, ok := a.names[name]
	return ok
}

// Names returns the allowed names in sorted order.
func (a *AllowList) Names() []string {
	if a == nil {
		return nil
	}
	out := make([]string, 0, len(a.names))
	for n := range a.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of allowed names.
func (a *AllowList) Len() int {
	if a == nil {
		return 0
	}
	return len(a.names)
}
