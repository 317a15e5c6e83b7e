// =============================================================================
// EDIFACT ORDERS Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the edifact-orders CLI. It delegates
// command execution to the cmd package.
//
// USAGE:
//   edifact-orders generate   - Convert order documents into ORDERS messages
//   edifact-orders validate   - Check order documents without generating
//   edifact-orders version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : validation, segment building, totals, serialization and
//                  the input parsers
//   - pkg/       : file management and output sinks
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/edifact-orders/cmd"
)

func main() {
	cmd.Execute()
}
