package engine

const (
	// Validation constants
	MinGridSize       = 0
	MaxGridSize       = 50
	MaxCommandsLength = 100

	// LostLabel is appended to the report of a lost robot
	LostLabel = "LOST"
)

// Command is a single autopilot instruction
type Command byte

const (
	CmdRotateLeft  Command = 'L'
	CmdRotateRight Command = 'R'
	CmdForward     Command = 'F'

	// Extended movements, relative to the current orientation
	CmdBackward    Command = 'B'
	CmdStrafeLeft  Command = 'I'
	CmdStrafeRight Command = 'D'
)

// IsRotation reports whether the command only changes orientation
func (c Command) IsRotation() bool {
	return c == CmdRotateLeft || c == CmdRotateRight
}

// Position represents x,y coordinates on the surface
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Placement is the initial state of a robot as handed over by the input parser
type Placement struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation"`
	Lost        bool   `json:"lost,omitempty"` // Already outside the announced grid
}

// Batch is one complete set of instructions: grid size plus robots in order
type Batch struct {
	GridSizeX        int         `json:"grid_size_x"`
	GridSizeY        int         `json:"grid_size_y"`
	InitialPositions []Placement `json:"initial_positions"`
	Commands         []string    `json:"commands"`
}

// StepOutcome describes what happened to a single instruction
type StepOutcome string

const (
	StepRotated StepOutcome = "rotated"
	StepMoved   StepOutcome = "moved"
	StepIgnored StepOutcome = "ignored" // Blocked by scent
	StepLost    StepOutcome = "lost"
)

// Step is one entry of a robot's autopilot trace
type Step struct {
	Index       int         `json:"idx"`
	Command     string      `json:"command"`
	From        Position    `json:"from"`
	To          Position    `json:"to"`
	Orientation string      `json:"orientation"`
	Outcome     StepOutcome `json:"outcome"`
}

// Outcome is the final state of one robot after its autopilot run
type Outcome struct {
	RobotID     string    `json:"robot_id"`
	Start       Placement `json:"start"`
	Commands    string    `json:"commands"`
	Position    Position  `json:"position"`
	Orientation string    `json:"orientation"`
	Lost        bool      `json:"lost"`
	Report      string    `json:"report"`
	Steps       []Step    `json:"steps,omitempty"`
}

// Result holds everything produced by a batch run
type Result struct {
	GridSizeX int        `json:"grid_size_x"`
	GridSizeY int        `json:"grid_size_y"`
	Reports   []string   `json:"reports"`
	Robots    []Outcome  `json:"robots"`
	Scents    []Position `json:"scents"`
	Surface   []string   `json:"surface,omitempty"`
}
