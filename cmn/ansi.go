package cmn

import "fmt"

// AnsiFlag is a single SGR (select graphic rendition) parameter, e.g.
// the foreground-red code or the reset-all code. Unlike the bit-packed
// attr/fore/back composition the wider ANSI spec allows, PrintPlan and
// its sibling printers only ever emit one code at a time, so AnsiFlag
// is just that code.
type AnsiFlag int

const (
	AttrOff AnsiFlag = 0
)

const (
	ForeRed AnsiFlag = iota + 31
	ForeGreen
	ForeYellow
	ForeBlue
)

func (f AnsiFlag) String() string {
	return fmt.Sprintf("\033[%dm", int(f))
}
