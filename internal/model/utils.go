package model

// TruncateString cuts a string down to the maximum allowed length.
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength]
}
