// Copyright 2025 Upbound Inc.
// All rights reserved

package reporter

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

var (
	spinnerStyle = &pterm.Style{pterm.FgDarkGray}
	msgStyle     = &pterm.Style{pterm.FgDefault}

	cp = &pterm.PrefixPrinter{
		MessageStyle: &pterm.Style{pterm.FgDefault},
		Prefix: pterm.Prefix{
			Style: &pterm.Style{pterm.FgLightMagenta},
			Text:  " ✓ ",
		},
	}

	// CheckmarkSuccessSpinner is a shared, package-level spinner in doxy's
	// checkmark style.
	CheckmarkSuccessSpinner = pterm.DefaultSpinner.WithStyle(spinnerStyle).WithMessageStyle(msgStyle)
)

func init() {
	CheckmarkSuccessSpinner.SuccessPrinter = cp
}

// StepCounter formats a "[index/total]: msg" progress label.
func StepCounter(msg string, index, total int) string {
	return fmt.Sprintf("[%d/%d]: %s", index, total, msg)
}

// NewCheckmarkSuccessSpinner returns a spinner writing to w. Unlike
// CheckmarkSuccessSpinner, this one shares no state with other spinners, so
// several of these may be in flight in the same process (pterm itself is
// not concurrency-safe, so callers still must not render two at once).
func NewCheckmarkSuccessSpinner(w io.Writer) *pterm.SpinnerPrinter {
	sp := pterm.DefaultSpinner
	sp.SuccessPrinter = cp
	sp.Writer = w
	sp.MessageStyle = msgStyle
	sp.Style = spinnerStyle

	return &sp
}
