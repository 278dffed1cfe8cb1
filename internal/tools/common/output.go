package common

import (
	"encoding/json"
	"fmt"
	"os"
)

// CIResult is the machine-readable outcome a tool prints in --ci mode.
type CIResult struct {
	OK      bool     `json:"ok"`
	Title   string   `json:"title"`
	Details []string `json:"details,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// PrintCIResult writes one JSON object to stdout.
func PrintCIResult(ok bool, title string, details []string, err error) {
	res := CIResult{OK: ok, Title: title, Details: details}
	if err != nil {
		res.Error = err.Error()
	}
	_ = json.NewEncoder(os.Stdout).Encode(res)
}

// PrintResult writes a human-readable outcome to stdout.
func PrintResult(ok bool, title string, details []string, err error) {
	status := "OK"
	if !ok {
		status = "FAILED"
	}
	fmt.Printf("%s: %s\n", status, title)
	for _, d := range details {
		fmt.Printf("  %s\n", d)
	}
	if err != nil {
		fmt.Printf("  error: %v\n", err)
	}
}
