package outwriter

import (
	"os"

	"github.com/snowline/s1snow/internal/contract"
	"golang.org/x/term"
)

// Table width thresholds for the onset table.
const (
	fallbackTermWidth = 80  // conservative default for narrow terminals and CI
	wideTableWidth    = 120 // room for the prediction columns
	narrowTableWidth  = 90  // below this the aspect columns are dropped too
)

// getTermWidth returns the width override or the detected terminal width.
func getTermWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return fallbackTermWidth
	}
	return detectedWidth
}

// onsetTableLayout decides which optional columns of the onset table fit.
type onsetTableLayout struct {
	Aspect      bool // Aspect and AspectRescale
	Predictions bool // Runoff and ripening predictions
}

// getOnsetTableLayout picks the onset table columns for the available width.
func getOnsetTableLayout(cfg *contract.Config) onsetTableLayout {
	width := getTermWidth(cfg)
	return onsetTableLayout{
		Aspect:      width >= narrowTableWidth,
		Predictions: width >= wideTableWidth,
	}
}
