// Package testsupport holds fixture and golden file helpers shared by the
// package tests. Set UPDATE_GOLDENS=1 to rewrite golden files.
package testsupport
