// Package backend builds the ledger mirror selected by configuration.
package backend

import (
	"fmt"

	"financas/internal/config"
)

// MirrorType names a mirror implementation.
type MirrorType string

const (
	MemoryMirror MirrorType = config.MirrorMemory
	SheetsMirror MirrorType = config.MirrorSheets
)

func (t MirrorType) String() string {
	return string(t)
}

// IsValid returns true if the mirror type is known.
func (t MirrorType) IsValid() bool {
	switch t {
	case MemoryMirror, SheetsMirror:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to build a mirror.
type Config struct {
	Type MirrorType

	// Google Sheets specific
	GoogleSpreadsheetID    string
	GoogleReceivablesSheet string
	GooglePayablesSheet    string
}

// FromAppConfig converts the application config to a mirror config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	c := Config{
		Type:                   MirrorType(appConfig.MirrorBackend),
		GoogleSpreadsheetID:    appConfig.GoogleSpreadsheetID,
		GoogleReceivablesSheet: appConfig.GoogleReceivablesSheet,
		GooglePayablesSheet:    appConfig.GooglePayablesSheet,
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid mirror type: %s", c.Type)
	}
	if c.Type == SheetsMirror && c.GoogleSpreadsheetID == "" {
		return fmt.Errorf("Google Spreadsheet ID is required for sheets mirror")
	}
	return nil
}
