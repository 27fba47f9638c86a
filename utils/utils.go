package utils

// Set is a set of HTML tag names or CSS keywords.
type Set map[string]struct{}

func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s Set) Has(key string) bool {
	_, in := s[key]
	return in
}
