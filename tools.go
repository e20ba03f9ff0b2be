//go:build tools

// Package tools pins the versions of development tools.
package tools

import (
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
)
