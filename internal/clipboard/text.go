package clipboard

import (
	"fmt"

	textclip "github.com/atotto/clipboard"
)

// textWriteAll is a package-level variable to allow mocking in tests.
var textWriteAll = textclip.WriteAll

// CopyText puts plain text on the system clipboard.
func CopyText(text string) error {
	if err := textWriteAll(text); err != nil {
		return fmt.Errorf("copying text: %w", err)
	}
	return nil
}
