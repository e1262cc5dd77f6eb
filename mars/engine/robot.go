package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// Robot is a single explorer. Once lost it stays lost.
type Robot struct {
	id          string
	start       Placement
	position    Position
	orientation Orientation
	lost        bool
	commands    string
	steps       []Step
}

// NewRobot creates a robot at the given placement with its command string
func NewRobot(placement Placement, commands string) (*Robot, error) {
	orientation, err := ParseOrientation(placement.Orientation)
	if err != nil {
		return nil, err
	}

	return &Robot{
		id:          uuid.NewString(),
		start:       placement,
		position:    Position{X: placement.X, Y: placement.Y},
		orientation: orientation,
		lost:        placement.Lost,
		commands:    commands,
	}, nil
}

// ID returns the robot's unique identifier
func (r *Robot) ID() string { return r.id }

// Position returns the current (last valid) position
func (r *Robot) Position() Position { return r.position }

// Orientation returns the current orientation
func (r *Robot) Orientation() Orientation { return r.orientation }

// IsLost reports whether the robot has fallen off the grid
func (r *Robot) IsLost() bool { return r.lost }

// Commands returns the command string
func (r *Robot) Commands() string { return r.commands }

// Steps returns the trace of the last autopilot run
func (r *Robot) Steps() []Step { return r.steps }

// RunAutopilot executes the command string against the grid, left to right,
// until the commands are exhausted or the robot is lost.
func (r *Robot) RunAutopilot(grid *Grid) error {
	if r.commands == "" {
		return simErrorf(ErrEmptyBatch, "robot %s has no commands", r.id)
	}
	if grid == nil || grid.scents == nil {
		return simErrorf(ErrInvalidGridReference, "robot %s has no grid to explore", r.id)
	}

	// Already off the surface before the first instruction
	if r.lost || !grid.Contains(r.position.X, r.position.Y) {
		r.lost = true
		grid.MarkLostPoint(r.position.X, r.position.Y)
		return nil
	}

	for i := 0; i < len(r.commands); i++ {
		if r.lost {
			break
		}

		cmd := Command(r.commands[i])
		from := r.position

		if cmd.IsRotation() {
			r.rotate(cmd)
			r.record(i, cmd, from, from, StepRotated)
			continue
		}

		ghost, err := r.ghost(cmd)
		if err != nil {
			return err
		}

		if !grid.Contains(ghost.X, ghost.Y) {
			// A previous robot was lost from here: ignore this single instruction
			if grid.IsScented(r.position.X, r.position.Y) {
				r.record(i, cmd, from, from, StepIgnored)
				continue
			}

			r.lost = true
			grid.MarkLostPoint(r.position.X, r.position.Y)
			r.record(i, cmd, from, ghost, StepLost)
			break
		}

		r.position = ghost
		r.record(i, cmd, from, ghost, StepMoved)
	}

	return nil
}

// Report returns "<x> <y> <orientation>" with " LOST" appended for lost robots
func (r *Robot) Report() string {
	report := fmt.Sprintf("%d %d %s", r.position.X, r.position.Y, r.orientation)
	if r.lost {
		report += " " + LostLabel
	}
	return report
}

// Outcome summarises the robot after its autopilot run
func (r *Robot) Outcome() Outcome {
	return Outcome{
		RobotID:     r.id,
		Start:       r.start,
		Commands:    r.commands,
		Position:    r.position,
		Orientation: r.orientation.String(),
		Lost:        r.lost,
		Report:      r.Report(),
		Steps:       r.steps,
	}
}

func (r *Robot) rotate(cmd Command) {
	switch cmd {
	case CmdRotateLeft:
		r.orientation = r.orientation.RotateLeft()
	case CmdRotateRight:
		r.orientation = r.orientation.RotateRight()
	}
}

// ghost computes the candidate position of a movement command without
// committing it.
func (r *Robot) ghost(cmd Command) (Position, error) {
	var dir Position
	switch cmd {
	case CmdForward:
		dir = r.orientation.Vector()
	case CmdBackward:
		v := r.orientation.Vector()
		dir = Position{X: -v.X, Y: -v.Y}
	case CmdStrafeLeft:
		dir = r.orientation.RotateLeft().Vector()
	case CmdStrafeRight:
		dir = r.orientation.RotateRight().Vector()
	default:
		return r.position, simErrorf(ErrInvalidCommand, "robot %s got %q", r.id, string(cmd))
	}

	return Position{X: r.position.X + dir.X, Y: r.position.Y + dir.Y}, nil
}

func (r *Robot) record(idx int, cmd Command, from, to Position, outcome StepOutcome) {
	r.steps = append(r.steps, Step{
		Index:       idx + 1,
		Command:     string(cmd),
		From:        from,
		To:          to,
		Orientation: r.orientation.String(),
		Outcome:     outcome,
	})
}
