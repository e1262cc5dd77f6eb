package input

import (
	"strings"

	"github.com/wricardo/mcp-training/martianrobots/mars/engine"
)

const (
	// maxCoordinateDigits bounds robot position values, like the grid line
	maxCoordinateDigits = 2

	basicCommands    = "LRF"
	extendedCommands = "LRFBID"
)

// Options tunes validation
type Options struct {
	// AllowExtended accepts the backward (B) and strafe (I, D) commands
	AllowExtended bool

	// MaxCommands truncates command strings. Zero means engine.MaxCommandsLength.
	MaxCommands int
}

func (o Options) maxCommands() int {
	if o.MaxCommands <= 0 {
		return engine.MaxCommandsLength
	}
	return o.MaxCommands
}

func (o Options) alphabet() string {
	if o.AllowExtended {
		return extendedCommands
	}
	return basicCommands
}

// TrimInput strips surrounding whitespace, quotes and NUL characters
func TrimInput(s string) string {
	return strings.Trim(s, " \t\r\n\v\f\"'\x00")
}

// ParseGridLine validates the grid size line
func ParseGridLine(line string) (int, int, error) {
	line = TrimInput(line)
	grid, err := gridParser.ParseString("", line)
	if err != nil || tooManyDigits(line) {
		return 0, 0, &ValidationError{Kind: ErrInvalidGridSize, Input: line}
	}

	if grid.X < engine.MinGridSize || grid.X > engine.MaxGridSize {
		return 0, 0, &ValidationError{Kind: ErrGridSizeOutOfRange, Input: "(X) " + line}
	}
	if grid.Y < engine.MinGridSize || grid.Y > engine.MaxGridSize {
		return 0, 0, &ValidationError{Kind: ErrGridSizeOutOfRange, Input: "(Y) " + line}
	}

	return grid.X, grid.Y, nil
}

// ParsePositionLine validates a robot position line against the announced
// grid. A position outside the grid is not an error: it is returned with
// Lost set.
func ParsePositionLine(line string, gridX, gridY int) (engine.Placement, error) {
	line = TrimInput(line)
	pos, err := positionParser.ParseString("", line)
	if err != nil || tooManyDigits(line) {
		return engine.Placement{}, &ValidationError{Kind: ErrInvalidPosition, Input: line}
	}

	orientation := strings.ToUpper(pos.Orientation)
	if _, err := engine.ParseOrientation(orientation); err != nil || len(orientation) != 1 {
		return engine.Placement{}, &ValidationError{Kind: ErrInvalidPosition, Input: line}
	}

	lost := pos.X < engine.MinGridSize || pos.X > gridX ||
		pos.Y < engine.MinGridSize || pos.Y > gridY

	return engine.Placement{
		X:           pos.X,
		Y:           pos.Y,
		Orientation: orientation,
		Lost:        lost,
	}, nil
}

// ParseCommandLine validates a command string and truncates it to the
// configured maximum length.
func ParseCommandLine(line string, opts Options) (string, error) {
	line = TrimInput(line)
	cmd, err := commandParser.ParseString("", line)
	if err != nil {
		return "", &ValidationError{Kind: ErrInvalidCommands, Input: line}
	}

	commands := strings.ToUpper(cmd.Commands)
	alphabet := opts.alphabet()
	for _, c := range commands {
		if !strings.ContainsRune(alphabet, c) {
			return "", &ValidationError{Kind: ErrInvalidCommands, Input: line}
		}
	}

	if max := opts.maxCommands(); len(commands) > max {
		commands = commands[:max]
	}
	return commands, nil
}

// tooManyDigits rejects numeric fields longer than two digits
func tooManyDigits(line string) bool {
	for _, field := range strings.Fields(line) {
		if field[0] >= '0' && field[0] <= '9' && len(field) > maxCoordinateDigits {
			return true
		}
	}
	return false
}
