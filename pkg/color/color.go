package color

import (
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

const (
	Red       = "1"
	Green     = "2"
	Yellow    = "3"
	Cyan      = "6"
	Gray      = "8"
	BrightRed = "9"
)

var output = termenv.NewOutput(os.Stderr)

func EnableColor(enable bool) {
	if enable {
		output = termenv.NewOutput(os.Stderr)
		return
	}

	output = termenv.NewOutput(os.Stderr, termenv.WithProfile(termenv.Ascii))
}

func IsColorEnabled() bool {
	return output.Profile != termenv.Ascii
}

func Colorize(color, text string) string {
	return output.String(text).Foreground(output.Color(color)).String()
}

func RedText(text string) string {
	return Colorize(Red, text)
}

func BrightRedText(text string) string {
	return Colorize(BrightRed, text)
}

func GreenText(text string) string {
	return Colorize(Green, text)
}

func YellowText(text string) string {
	return Colorize(Yellow, text)
}

func CyanText(text string) string {
	return Colorize(Cyan, text)
}

func GrayText(text string) string {
	return Colorize(Gray, text)
}

func BoldText(text string) string {
	return output.String(text).Bold().String()
}

func Position(line, col int) string {
	return CyanText(fmt.Sprintf("%d:%d", line, col))
}

// ErrorWithPosition renders a diagnostic followed by the offending source line
func ErrorWithPosition(file string, line, col int, message, context string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s:%s: %s", BrightRedText(BoldText("Error")), file, Position(line, col), message)
	if context != "" {
		fmt.Fprintf(&sb, "\n    %s", GrayText(context))
		if col > 0 {
			fmt.Fprintf(&sb, "\n    %s%s", strings.Repeat(" ", col-1), YellowText("^"))
		}
	}

	return sb.String()
}
