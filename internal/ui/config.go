package ui

// DisplayConfig holds configuration for UI rendering
type DisplayConfig struct {
	// Truncation limits
	MaxTitleLength       int
	MaxBranchLength      int
	MaxDescriptionLength int

	// Display lengths
	CommitHashDisplayLength int
	DefaultTerminalWidth    int
}

// DefaultConfig returns the default display configuration
func DefaultConfig() DisplayConfig {
	return DisplayConfig{
		MaxTitleLength:       50,
		MaxBranchLength:      30,
		MaxDescriptionLength: 60,

		CommitHashDisplayLength: 12,
		DefaultTerminalWidth:    120,
	}
}

// Global display configuration (can be overridden)
var Display = DefaultConfig()
