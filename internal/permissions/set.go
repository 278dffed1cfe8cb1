package permissions

// Set is an aggregated collection of permission names, typically the union
// of a user's role permissions. Lookups on names that were never configured
// simply return false.
type Set map[string]struct{}

func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s Set) Can(name string) bool {
	_, ok := s[name]
	return ok
}

func (s Set) HasAny(names ...string) bool {
	for _, n := range names {
		if s.Can(n) {
			return true
		}
	}
	return false
}

func (s Set) HasAll(names ...string) bool {
	for _, n := range names {
		if !s.Can(n) {
			return false
		}
	}
	return true
}

// Names returns the set contents in unspecified order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	return out
}
