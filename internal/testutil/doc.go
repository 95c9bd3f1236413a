// Package testutil provides catalog fixtures and deterministic id
// generators shared by package tests.
package testutil
