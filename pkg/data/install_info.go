package data

import "time"

// InstallInfo is the receipt written into a package prefix after a
// successful install.
type InstallInfo struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Archive     string            `json:"archive"`
	Prefix      string            `json:"prefix"`
	Deps        []string          `json:"deps,omitempty"`
	Constraints map[string]string `json:"constraints,omitempty"`
	InstalledAt time.Time         `json:"installed_at"`
}
