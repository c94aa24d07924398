// Package utils provides general-purpose helper utilities used across
// different parts of the application: HTTP client initialization and
// identifier generation.
package utils

import "github.com/google/uuid"

// UUIDGenerator produces time-ordered unique identifiers. The engine tags
// every cycle and report with one so that all log lines of a cycle can be
// correlated.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
