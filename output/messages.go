package output

import (
	"fmt"

	"github.com/wricardo/mcp-training/martianrobots/mars/engine"
)

const Rule = "________________________________________________________________________________"

const Banner = `
                         _   _                       _           _
  _ __ ___   __ _ _ __| |_(_) __ _ _ __    _ __ ___ | |__   ___ | |_ ___
 | '_ ' _ \ / _' | '__| __| |/ _' | '_ \  | '__/ _ \| '_ \ / _ \| __/ __|
 | | | | | | (_| | |  | |_| | (_| | | | | | | | (_) | |_) | (_) | |_\__ \
 |_| |_| |_|\__,_|_|   \__|_|\__,_|_| |_| |_|  \___/|_.__/ \___/ \__|___/
`

const PromptMessage = "Input >>"

var HelpMessage = fmt.Sprintf(`
_____________________ [ MARTIAN-ROBOTS CLI INSTRUCTIONS ] ______________________

1. - First line is the Mars surface grid size, expressed as the X Y
     coordinates of its upper-right corner. The remaining lines are pairs of
     robot position and robot instructions (as many robots as you want).
2. - A position line holds two integers X Y and an orientation
     (N, S, E, W), separated by whitespace.
3. - An instruction line is a string of the letters L, R and F.
4. - Enter a blank line to process the input.
5. - The maximum allowed value for any coordinate is %d.
6. - Instruction strings longer than %d characters are truncated.
7. - Run in batch mode by passing -f | --file /path/to/input/file.txt
8. - Pass -h | --help to show the command line help.
9. - Press <ctrl + D> or <ctrl + C> to exit.
________________________________________________________________________________`,
	engine.MaxGridSize, engine.MaxCommandsLength)
