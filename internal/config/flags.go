package config

import "github.com/im-n1/kosatka/internal/config/data"

// DefaultLogLevel is the default logging level.
const DefaultLogLevel = "info"

// NewFlags returns CLI flags with nothing set, so config file values stand.
func NewFlags() *data.Flags {
	return data.NewFlags()
}

// LogFile returns the log path requested on the command line, or AppLogFile.
// Call it after InitLocs.
func LogFile(flags *data.Flags) string {
	if flags != nil && IsStringSet(flags.LogFile) {
		return *flags.LogFile
	}
	return AppLogFile
}

// IsStringSet returns true if a string pointer is non-nil and non-empty.
func IsStringSet(s *string) bool {
	return s != nil && *s != ""
}
