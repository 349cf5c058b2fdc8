package pdf

import "fmt"

// Level is a Ghostscript PDFSETTINGS quality tier.
type Level int

const (
	LevelDefault Level = iota
	LevelPrepress
	LevelPrinter
	LevelEbook
	LevelScreen
)

// DefaultLevel applies when no level or an unknown one is requested
const DefaultLevel = LevelPrinter

var levelSettings = map[Level]string{
	LevelDefault:  "/default",
	LevelPrepress: "/prepress",
	LevelPrinter:  "/printer",
	LevelEbook:    "/ebook",
	LevelScreen:   "/screen",
}

// ParseLevel maps a 0-4 code to a Level, falling back to DefaultLevel.
func ParseLevel(code int) Level {
	if _, ok := levelSettings[Level(code)]; ok {
		return Level(code)
	}
	return DefaultLevel
}

// Setting returns the -dPDFSETTINGS value for the level.
func (l Level) Setting() string {
	if s, ok := levelSettings[l]; ok {
		return s
	}
	return levelSettings[DefaultLevel]
}

func (l Level) String() string {
	return fmt.Sprintf("%d (%s)", int(l), l.Setting())
}
