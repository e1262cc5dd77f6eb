package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/wricardo/mcp-training/martianrobots/mars/engine"
)

// Parser accumulates validated lines into a batch
type Parser struct {
	opts  Options
	batch *engine.Batch
	lines int
}

// NewParser creates a parser for one batch
func NewParser(opts Options) *Parser {
	p := &Parser{opts: opts}
	p.Reset()
	return p
}

// Reset discards everything fed so far
func (p *Parser) Reset() {
	p.batch = &engine.Batch{
		InitialPositions: []engine.Placement{},
		Commands:         []string{},
	}
	p.lines = 0
}

// Lines returns the number of lines accepted so far
func (p *Parser) Lines() int { return p.lines }

// Feed validates one non-blank line. The first line is the grid size, then
// position and command lines alternate.
func (p *Parser) Feed(line string) error {
	lineNo := p.lines + 1
	var err error

	switch {
	case p.lines == 0:
		p.batch.GridSizeX, p.batch.GridSizeY, err = ParseGridLine(line)
	case p.lines%2 == 1:
		var placement engine.Placement
		placement, err = ParsePositionLine(line, p.batch.GridSizeX, p.batch.GridSizeY)
		if err == nil {
			p.batch.InitialPositions = append(p.batch.InitialPositions, placement)
		}
	default:
		var commands string
		commands, err = ParseCommandLine(line, p.opts)
		if err == nil {
			p.batch.Commands = append(p.batch.Commands, commands)
		}
	}

	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			vErr.Line = lineNo
		}
		return err
	}

	p.lines++
	return nil
}

// Batch returns the accumulated batch once it is complete
func (p *Parser) Batch() (*engine.Batch, error) {
	if p.lines == 0 {
		return nil, ErrInputEmpty
	}
	if len(p.batch.Commands) == 0 && len(p.batch.InitialPositions) == 0 {
		return nil, ErrEmptyPositions
	}
	if len(p.batch.Commands) == 0 {
		return nil, ErrEmptyCommands
	}
	if len(p.batch.InitialPositions) != len(p.batch.Commands) {
		return nil, fmt.Errorf("%w: %d positions, %d command entries",
			ErrMismatchedInstruction, len(p.batch.InitialPositions), len(p.batch.Commands))
	}
	return p.batch, nil
}

// MaxLineLength bounds a single input line before truncation. Command lines
// longer than the command limit are cut after they are read in full.
const MaxLineLength = 4 << 20

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	return scanner
}

// ReadBatch reads a complete instruction file. Blank lines are skipped.
func ReadBatch(r io.Reader, opts Options) (*engine.Batch, error) {
	p := NewParser(opts)
	scanner := newLineScanner(r)

	for scanner.Scan() {
		line := TrimInput(scanner.Text())
		if line == "" {
			continue
		}
		if err := p.Feed(line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read instructions: %w", err)
	}

	return p.Batch()
}

// ReadFile reads the instruction file at path
func ReadFile(path string, opts Options) (*engine.Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ValidationError{Kind: ErrFileNotExists, Input: path}
		}
		return nil, &ValidationError{Kind: ErrFileNotReadable, Input: path}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return nil, &ValidationError{Kind: ErrFileNotReadable, Input: path}
	}
	return ReadBatch(f, opts)
}

// ParseString parses instruction text held in memory
func ParseString(text string, opts Options) (*engine.Batch, error) {
	return ReadBatch(strings.NewReader(text), opts)
}

// Scanner splits an interactive stream into batches separated by blank lines
type Scanner struct {
	scanner *bufio.Scanner
	parser  *Parser
	batch   *engine.Batch
	err     error
	done    bool
}

// NewScanner creates a batch scanner over r
func NewScanner(r io.Reader, opts Options) *Scanner {
	return &Scanner{
		scanner: newLineScanner(r),
		parser:  NewParser(opts),
	}
}

// Next reads the next batch. It returns false at end of input; a batch that
// failed validation returns true with Err set, and the rest of that batch is
// discarded up to the next blank line.
func (s *Scanner) Next() bool {
	s.batch, s.err = nil, nil
	if s.done {
		return false
	}
	s.parser.Reset()

	var failed error
	for s.scanner.Scan() {
		line := TrimInput(s.scanner.Text())
		if line == "" {
			if failed != nil {
				s.err = failed
				return true
			}
			if s.parser.Lines() == 0 {
				continue
			}
			s.batch, s.err = s.parser.Batch()
			return true
		}
		if failed != nil {
			continue
		}
		failed = s.parser.Feed(line)
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		s.err = fmt.Errorf("failed to read instructions: %w", err)
		return true
	}
	if failed != nil {
		s.err = failed
		return true
	}
	if s.parser.Lines() == 0 {
		return false
	}
	s.batch, s.err = s.parser.Batch()
	return true
}

// Batch returns the batch read by the last call to Next
func (s *Scanner) Batch() *engine.Batch { return s.batch }

// Err returns the validation or read error of the last call to Next
func (s *Scanner) Err() error { return s.err }
