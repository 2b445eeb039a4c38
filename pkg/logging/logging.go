package logging

import (
	"io"
	"log"
	"os"
)

// currentLevel is the process-wide log level gating every Logger method. It
// is read once from ARCHIVUM_LOG_LEVEL at package initialization and may be
// overridden afterward with SetLevel (e.g. from a CLI --verbose flag). An
// unset or unrecognized environment value defaults to LevelInfo.
var currentLevel = levelFromEnvironment()

func levelFromEnvironment() Level {
	if level, ok := NameToLevel(os.Getenv("ARCHIVUM_LOG_LEVEL")); ok {
		return level
	}
	return LevelInfo
}

// SetLevel overrides the process-wide log level, returning the previous
// value so callers that only want a temporary override can restore it.
func SetLevel(level Level) Level {
	previous := currentLevel
	currentLevel = level
	applyLevelToOutput()
	return previous
}

// applyLevelToOutput keeps the standard library logger's destination in sync
// with currentLevel: discarded while disabled, standard output otherwise.
func applyLevelToOutput() {
	if currentLevel == LevelDisabled {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stdout)
	}
}

// CurrentLevel returns the process-wide log level currently in effect.
func CurrentLevel() Level {
	return currentLevel
}

func init() {
	// Logger.output writes through the standard library logger, so route it
	// to standard output unless logging has been disabled outright, in which
	// case discard it instead of leaving the default destination (standard
	// error) active for whatever third-party library writes to it directly.
	applyLevelToOutput()
}
