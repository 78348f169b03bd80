//go:build tools

package tools

// Keeps code generation dependencies in go.mod.
import (
	_ "github.com/dmarkham/enumer"
)
