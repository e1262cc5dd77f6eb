// Package input turns Martian Robots instruction text into engine batches.
//
// The format is line oriented:
//
//	5 3          grid upper-right coordinates
//	1 1 E        robot position and orientation
//	RFRFRFRF     robot commands
//	3 2 N        next robot ...
//	FRRFLLFFRRFLL
//
// Each line kind has its own small participle grammar. Values are then
// range checked: grid coordinates must lie in 0..50, command strings are
// truncated to 100 characters, and positions outside the announced grid are
// accepted but flagged as already lost.
//
// ReadBatch consumes a whole file. Scanner splits an interactive stream into
// independent batches, each one terminated by a blank line.
package input
