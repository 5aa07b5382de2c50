// Package ocr reads the transfer amount out of an uploaded
// proof-of-payment image so it can be cross-checked against the recorded
// transaction. Best effort: a failed read is a warning upstream, never an
// error that blocks the upload.
package ocr

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/gosseract/v2"
)

// ExtractAmount runs one OCR pass over a preprocessed copy of the image
// and returns the detected amount in whole rupiah together with the raw
// matched text. (0, "", nil) means the pass ran but found no amount.
func ExtractAmount(path string) (int64, string, error) {
	prepped, err := prepareImage(path)
	if err != nil {
		return 0, "", fmt.Errorf("preprocess %s: %w", filepath.Base(path), err)
	}
	defer os.Remove(prepped)

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetImage(prepped); err != nil {
		return 0, "", fmt.Errorf("set image: %w", err)
	}
	// digits plus the separators and currency marker we expect on
	// Indonesian transfer receipts
	_ = client.SetWhitelist("0123456789RpIDR.,: ")
	text, err := client.Text()
	if err != nil {
		return 0, "", fmt.Errorf("tesseract: %w", err)
	}
	amount, raw := findAmount(text)
	return amount, raw, nil
}
