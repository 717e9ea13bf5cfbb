package models

import (
	"encoding/json"
	"sort"
)

// IntSet is a set of integers persisted as a sorted JSON array.
type IntSet map[int]bool

// Add inserts a value into the set.
func (s IntSet) Add(v int) {
	s[v] = true
}

// Remove deletes a value from the set.
func (s IntSet) Remove(v int) {
	delete(s, v)
}

// Contains reports whether the value is in the set.
func (s IntSet) Contains(v int) bool {
	return s[v]
}

// Values returns the members of the set in ascending order.
func (s IntSet) Values() []int {
	values := make([]int, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	sort.Ints(values)
	return values
}

// MarshalJSON encodes the set as a sorted array.
func (s IntSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON decodes the set from an array.
func (s *IntSet) UnmarshalJSON(data []byte) error {
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	set := make(IntSet, len(values))
	for _, v := range values {
		set[v] = true
	}
	*s = set
	return nil
}

// StringSet is a set of strings persisted as a sorted JSON array.
type StringSet map[string]bool

// Add inserts a value into the set.
func (s StringSet) Add(v string) {
	s[v] = true
}

// Remove deletes a value from the set.
func (s StringSet) Remove(v string) {
	delete(s, v)
}

// Contains reports whether the value is in the set.
func (s StringSet) Contains(v string) bool {
	return s[v]
}

// Values returns the members of the set in ascending order.
func (s StringSet) Values() []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// MarshalJSON encodes the set as a sorted array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON decodes the set from an array.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	set := make(StringSet, len(values))
	for _, v := range values {
		set[v] = true
	}
	*s = set
	return nil
}
