package engine

// Run executes a batch and returns one report per robot, in input order
func Run(batch *Batch) ([]string, error) {
	result, err := Simulate(batch)
	if err != nil {
		return nil, err
	}
	return result.Reports, nil
}

// Simulate builds a fresh grid for the batch and runs every robot on it in
// input order. Any failure aborts the whole batch without partial output.
func Simulate(batch *Batch) (*Result, error) {
	if err := ValidateBatch(batch); err != nil {
		return nil, err
	}

	grid, err := NewGrid(batch.GridSizeX, batch.GridSizeY)
	if err != nil {
		return nil, err
	}

	result := &Result{
		GridSizeX: batch.GridSizeX,
		GridSizeY: batch.GridSizeY,
		Reports:   make([]string, 0, len(batch.Commands)),
		Robots:    make([]Outcome, 0, len(batch.Commands)),
	}

	for i, placement := range batch.InitialPositions {
		outcome, err := Deploy(grid, placement, batch.Commands[i])
		if err != nil {
			return nil, err
		}
		result.Reports = append(result.Reports, outcome.Report)
		result.Robots = append(result.Robots, *outcome)
	}

	result.Scents = grid.ScentedCells()
	result.Surface = grid.Render()
	return result, nil
}

// Deploy creates one robot on an existing grid and runs its autopilot
func Deploy(grid *Grid, placement Placement, commands string) (*Outcome, error) {
	robot, err := NewRobot(placement, commands)
	if err != nil {
		return nil, err
	}
	if err := robot.RunAutopilot(grid); err != nil {
		return nil, err
	}
	outcome := robot.Outcome()
	return &outcome, nil
}

// ValidateBatch checks the structural preconditions of a batch
func ValidateBatch(batch *Batch) error {
	if batch == nil {
		return simErrorf(ErrEmptyBatch, "no instructions supplied")
	}
	if len(batch.InitialPositions) == 0 {
		return simErrorf(ErrEmptyBatch, "robot positions are empty")
	}
	if len(batch.Commands) == 0 {
		return simErrorf(ErrEmptyBatch, "robot commands are empty")
	}
	if len(batch.InitialPositions) != len(batch.Commands) {
		return simErrorf(ErrMismatchedCounts, "%d positions, %d command entries",
			len(batch.InitialPositions), len(batch.Commands))
	}
	return nil
}
