// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Demo chart service (serve), PNG and SVG wheel export, rate-limited client
// 0.2.0 - Positions table, aspect legend, headless -summary/-table/-json modes
// 0.1.0 - Initial release: birth details form, chart wheel TUI, chart service client
