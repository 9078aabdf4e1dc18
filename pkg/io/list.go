package io

import (
	"math"
	"strconv"
	"strings"

	errs "github.com/matzehuels/seqdiagram/pkg/errors"
)

// ParseFloats parses a comma-separated list of finite numbers.
// Whitespace around items is ignored; empty items are rejected.
func ParseFloats(s string) ([]float64, error) {
	items, err := splitList(s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, item := range items {
		v, err := strconv.ParseFloat(item, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errs.New(errs.ErrCodeInvalidNumber, "invalid number %q at position %d", item, i+1)
		}
		out[i] = v
	}
	return out, nil
}

// ParseInts parses a comma-separated list of integers.
func ParseInts(s string) ([]int, error) {
	items, err := splitList(s)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(items))
	for i, item := range items {
		v, err := strconv.Atoi(item)
		if err != nil {
			return nil, errs.New(errs.ErrCodeInvalidNumber, "invalid integer %q at position %d", item, i+1)
		}
		out[i] = v
	}
	return out, nil
}

func splitList(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errs.New(errs.ErrCodeInvalidNumber, "empty list")
	}
	items := strings.Split(s, ",")
	for i, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil, errs.New(errs.ErrCodeInvalidNumber, "empty value at position %d", i+1)
		}
		items[i] = item
	}
	return items, nil
}

// FormatFloats is the inverse of ParseFloats.
func FormatFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

// FormatInts is the inverse of ParseInts.
func FormatInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
