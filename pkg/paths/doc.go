// Package paths provides centralized path handling for dfm.
//
// It resolves the user's home directory, the dfm configuration directory
// (DFM_CONFIG_DIR, or dfm under the XDG config home), profile directories and
// the source root a command operates on. It also implements the ~ expansion
// used for mapping destinations.
package paths
