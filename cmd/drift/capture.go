package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"drift/internal/driver"
)

// readCapture loads one capture argument. "-" reads stdin.
func readCapture(arg string) (name string, raw []byte, err error) {
	if arg == "-" {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return "stdin", raw, nil
	}
	raw, err = os.ReadFile(arg)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read capture: %w", err)
	}
	return filepath.ToSlash(arg), raw, nil
}

// resolveTool picks the front end for a capture: an explicit --tool wins,
// diffs are recognizable by extension, anything else must be named.
func resolveTool(toolFlag, name string) (string, error) {
	if toolFlag != "" {
		return toolFlag, nil
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".diff", ".patch":
		return "unified-diff", nil
	}
	return "", fmt.Errorf("cannot infer the tool for %q: pass --tool (run 'drift tools' for the list)", name)
}

// collectInputs reads every capture argument and pairs it with its tool.
func collectInputs(args []string, toolFlag string) ([]driver.Input, error) {
	stdinUsed := false
	inputs := make([]driver.Input, 0, len(args))
	for _, arg := range args {
		if arg == "-" {
			if stdinUsed {
				return nil, fmt.Errorf("stdin can back at most one capture")
			}
			stdinUsed = true
		}
		name, raw, err := readCapture(arg)
		if err != nil {
			return nil, err
		}
		tool, err := resolveTool(toolFlag, name)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, driver.Input{Name: name, Tool: tool, Raw: raw})
	}
	return inputs, nil
}
