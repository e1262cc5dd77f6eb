package input

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var lineLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `\d+`},
	{Name: "Word", Pattern: `[A-Za-z]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// GridLine is the first line of a batch: the upper-right coordinates
type GridLine struct {
	X int `parser:"@Int"`
	Y int `parser:"@Int"`
}

// PositionLine is a robot's starting position and orientation
type PositionLine struct {
	X           int    `parser:"@Int"`
	Y           int    `parser:"@Int"`
	Orientation string `parser:"@Word"`
}

// CommandLine is a robot's instruction string
type CommandLine struct {
	Commands string `parser:"@Word"`
}

var (
	gridParser = participle.MustBuild[GridLine](
		participle.Lexer(lineLexer),
		participle.Elide("Whitespace"),
	)
	positionParser = participle.MustBuild[PositionLine](
		participle.Lexer(lineLexer),
		participle.Elide("Whitespace"),
	)
	commandParser = participle.MustBuild[CommandLine](
		participle.Lexer(lineLexer),
		participle.Elide("Whitespace"),
	)
)
