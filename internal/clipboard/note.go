package clipboard

import "fmt"

// Note returns the partial-success message for a delivered composite, or
// "" when every requested image loaded or delivery failed.
func Note(o Outcome, loaded, requested int) string {
	if !o.OK() || loaded >= requested {
		return ""
	}
	verb := "Copied"
	if o.Method == MethodDownload {
		verb = "Downloaded"
	}
	return fmt.Sprintf("%s %d of %d images (%d failed to load).", verb, loaded, requested, requested-loaded)
}
