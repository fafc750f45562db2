package cmn

import (
	"fmt"
	"os"
	"strings"
)

/*
	console narration for the CLI: the migration plan, a warning when
	the config file cannot be read, and any fatal error are the only
	things this tool ever has to say, so this file stays small on purpose.
*/

const MediumMark string = "✓"
const MediumX string = "✕"
const MediumBulletPoint string = "•"

func FPrintflnTrailing(f *os.File, seq AnsiFlag, format string, args ...interface{}) {
	fmt.Fprintf(
		f,
		fmt.Sprintf("%v%s\n%v", seq, format, AttrOff),
		args...)
}

func PrintflnSuccess(_fmt string, argv ...interface{}) {
	fmt.Fprintf(
		os.Stderr,
		fmt.Sprintf("%v%s %s%v\n", ForeGreen, MediumMark, _fmt, AttrOff),
		argv...)
}

func PrintflnError(_fmt string, argv ...interface{}) {
	FPrintflnTrailing(os.Stderr, ForeRed, _fmt, argv...)
}

func PrintError(err error) {
	PrintflnError("%s", err)
}

func PrintflnWarn(_fmt string, argv ...interface{}) {
	fmt.Fprintf(
		os.Stderr,
		fmt.Sprintf("%v%s %s%v\n", ForeYellow, MediumX, _fmt, AttrOff),
		argv...)
}

func PrintflnNotify(_fmt string, argv ...interface{}) {
	fmt.Fprintf(
		os.Stdout,
		fmt.Sprintf("%v%s%v %s\n", ForeBlue, MediumBulletPoint, AttrOff, _fmt),
		argv...)
}

// CndPrintError prints err plainly when plain is set (--noColor), or
// ansi-decorated otherwise.
func CndPrintError(plain bool, err error) {
	if plain {
		fmt.Fprintf(os.Stderr, "%s\n", err)
	} else {
		PrintError(err)
	}
}

// PrintPlan writes the generated statement list. When plain is set it
// writes it the way the CLI writes the output file: each statement
// terminated with ";\n\n". Otherwise it prints one colored line per
// statement, with statements that begin with DROP in warning color so a
// migration's destructive half is easy to spot on a terminal.
func PrintPlan(plain bool, statements []string) {
	if len(statements) == 0 {
		if plain {
			fmt.Println("-- no changes")
		} else {
			PrintflnNotify("no changes")
		}
		return
	}
	for _, stmt := range statements {
		if plain {
			fmt.Printf("%s;\n\n", stmt)
			continue
		}
		verb := strings.SplitN(stmt, " ", 2)[0]
		if verb == "DROP" {
			PrintflnWarn("%s;", stmt)
		} else {
			PrintflnSuccess("%s;", stmt)
		}
	}
}
