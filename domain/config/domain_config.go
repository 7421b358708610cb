package config

import "time"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Note constraints
	MaxNoteLength int

	// StampNoteDates prefixes note content with the commit date (mm/dd/yyyy)
	StampNoteDates bool
	StampLocation  *time.Location

	// Recall constraints
	MaxQuestionLength int

	// Persona constraints
	PersonaIDPrefix string
	PersonaModel    string
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxNoteLength:     20000,
		StampNoteDates:    false,
		StampLocation:     time.Local,
		MaxQuestionLength: 4000,
		PersonaIDPrefix:   "asst_",
		PersonaModel:      "gpt-4o",
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	return DefaultDomainConfig()
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Longer notes are handy when pasting fixtures locally
	config.MaxNoteLength = 100000

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}
