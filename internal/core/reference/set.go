// Package reference provides the read-only list of known names that
// extracted names are matched against.
package reference

import "strings"

// DefaultNames is the built-in reference list.
var DefaultNames = []string{
	"Priya Sharma", "Aman Verma", "Rahul Kumar", "Riya Singh", "Anjali Mehta",
	"Suman Das", "Ajay Thakur", "Reema Rai", "Sunita Yadav", "Pankaj Gupta",
	"Kavita Rani", "Rohit Bhatia", "Sandeep Joshi", "Deepak Chaudhary", "Rakesh Malhotra",
	"Nisha Goel", "Rajeev Bhardwaj", "Alok Mishra", "Sneha Raj", "Vikram Chawla",
	"Meena Saxena", "Harish Yadav", "Preeti Nair", "Mohit Deshmukh", "Seema Kaushik",
	"Akash Jain", "Pooja Agrawal", "Ravi Kapoor", "Shreya Rao", "Amitabh Singh",
	"Kiran Kumari", "Kiran Kumar", "Kiran Kum",
}

// Set is an immutable, ordered collection of reference names.
type Set struct {
	names []string
	index map[string]struct{}
}

// NewSet trims every name, drops blanks and exact duplicates (the first
// occurrence keeps its position) and copies the input.
func NewSet(names []string) *Set {
	s := &Set{
		names: make([]string, 0, len(names)),
		index: make(map[string]struct{}, len(names)),
	}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := s.index[n]; ok {
			continue
		}
		s.index[n] = struct{}{}
		s.names = append(s.names, n)
	}
	return s
}

// Names returns a copy of the names in their original order.
func (s *Set) Names() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

func (s *Set) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}
