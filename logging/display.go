package logging

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fusion/common"

	"github.com/pterm/pterm"
)

var (
	successFG = pterm.FgLightGreen
	successBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	warnFG    = pterm.FgYellow
	warnBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	errorFG   = pterm.FgRed
	errorBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	infoFG    = successFG
	infoBG    = successBG
)

// PrintErrorMessage prints an error under a highlighted tag
func PrintErrorMessage(tag string, err error) {
	errorBG.Print(tag)
	errorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning under a highlighted tag
func PrintWarningMessage(tag, msg string) {
	warnBG.Print(tag)
	warnFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message under a highlighted tag
func PrintInfoMessage(tag, msg string) {
	infoBG.Print(tag)
	infoFG.Println(" " + msg)
}

func (ce *ConfigError) display() {
	PrintErrorMessage(ce.Kind+" Error", fmt.Errorf("%s", ce.Message))
}

func (bw *BuildWarning) display() {
	PrintWarningMessage(bw.Kind+" Warning", bw.Message)
}

// compileMsgTitles are the banner titles of the compile message kinds
var compileMsgTitles = map[int]string{
	LMKSyntax:      "Syntax",
	LMKToken:       "Token",
	LMKStructure:   "Structure",
	LMKLiteral:     "Literal",
	LMKUnsupported: "Unsupported",
	LMKCodeGen:     "Generation",
}

func (cm *CompileMessage) display() {
	cm.displayBanner()
	fmt.Println(cm.Message)

	if cm.Position != nil && cm.Context != nil {
		cm.displayExcerpt()
	}
}

// displayBanner prints `-- Kind Error ------- file.fu`
func (cm *CompileMessage) displayBanner() {
	title, style := compileMsgTitles[cm.Kind]+" Warning", warnBG
	if cm.isError() {
		title, style = compileMsgTitles[cm.Kind]+" Error", errorBG
	}

	fileName := ""
	if cm.Context != nil {
		fileName = logger.displayPath(cm.Context.FilePath)
	}

	width := pterm.GetTerminalWidth() / 2
	if width > 50 {
		width = 50
	}

	fmt.Print("\n\n-- ")
	style.Print(title)
	fmt.Print(" " + strings.Repeat("-", max(width-len(fileName)-len(title)-1, 3)) + " ")
	infoFG.Println(fileName)
}

// tabWidth is the number of columns the scanner counts a tab as
const tabWidth = 4

// displayExcerpt prints the source lines covered by the message with carets
// under the selected text.  Nothing is printed if the file can't be read.
func (cm *CompileMessage) displayExcerpt() {
	pos := cm.Position

	lines, err := readLines(cm.Context.FilePath, pos.StartLn, pos.EndLn)
	if err != nil || len(lines) == 0 {
		return
	}

	for i, line := range lines {
		lines[i] = strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth))
	}

	indent := commonIndent(lines)
	gutter := len(strconv.Itoa(pos.EndLn)) + 1

	fmt.Println()
	for i, line := range lines {
		start, end := 0, len(line)
		if i == 0 {
			start = pos.StartCol
		}

		if i == len(lines)-1 {
			end = pos.EndCol
		}

		infoFG.Print(fmt.Sprintf("%-*d", gutter, pos.StartLn+i))
		fmt.Println("|  " + line[min(indent, len(line)):])

		fmt.Print(strings.Repeat(" ", gutter) + "|  " + strings.Repeat(" ", max(start-indent, 0)))
		errorFG.Println(strings.Repeat("^", max(end-start, 1)))
	}
	fmt.Println()
}

// readLines reads the lines first through last (1-indexed, inclusive) of a
// file.  Fewer lines are returned if the file is shorter.
func readLines(path string, first, last int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for n := 1; n <= last && sc.Scan(); n++ {
		if n >= first {
			lines = append(lines, sc.Text())
		}
	}

	return lines, sc.Err()
}

// commonIndent returns the number of leading spaces shared by all the
// non-blank lines
func commonIndent(lines []string) int {
	indent := -1

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		n := len(line) - len(strings.TrimLeft(line, " "))
		if indent == -1 || n < indent {
			indent = n
		}
	}

	return max(indent, 0)
}

const fatalErrorPostlude = `
This is likely a bug in the compiler.
Please open an issue in the fusion issue tracker.`

func displayFatalError(msg string) {
	fmt.Print("\n\n")
	errorBG.Print("Fatal Error ")
	errorFG.Println(msg)
	infoFG.Println(fatalErrorPostlude)
}

// -----------------------------------------------------------------------------

func displayCompileHeader(target string) {
	fmt.Print("fusion ")
	infoFG.Print("v" + common.FusionVersion)
	fmt.Print(" -- target: ")
	infoFG.Println(target)
}

// phaseDisplay is the spinner of the phase currently running
type phaseDisplay struct {
	name    string
	spinner *pterm.SpinnerPrinter
	start   time.Time
}

var activePhase *phaseDisplay

// phaseNameWidth pads phase names so that their timings line up
const phaseNameWidth = len("Generating") + 2

func padPhase(name string) string {
	return name + strings.Repeat(" ", max(phaseNameWidth-len(name), 0))
}

func resultPrinter(style *pterm.Style, text string) *pterm.PrefixPrinter {
	return &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix:       pterm.Prefix{Style: style, Text: text},
	}
}

func displayBeginPhase(name string) {
	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(infoFG))
	spinner.SuccessPrinter = resultPrinter(successBG, "Done")
	spinner.FailPrinter = resultPrinter(errorBG, "Fail")

	activePhase = &phaseDisplay{name: name, spinner: spinner, start: time.Now()}
	spinner.Start(padPhase(name + "..."))
}

// displayEndPhase stops the spinner of the running phase if there is one
func displayEndPhase(success bool) {
	if activePhase == nil {
		return
	}

	if success {
		activePhase.spinner.Success(
			padPhase(activePhase.name),
			fmt.Sprintf("(%.3fs)", time.Since(activePhase.start).Seconds()),
		)
	} else {
		activePhase.spinner.Fail(padPhase(activePhase.name))
	}

	activePhase = nil
}

// displayCompilationFinished prints `All done! (0 errors, 1 warning)`
func displayCompilationFinished(success bool, errorCount, warningCount int) {
	fmt.Println()

	if success {
		successFG.Print("All done! ")
	} else {
		errorFG.Print("Oh no! ")
	}

	fmt.Print("(")
	printCount(errorCount, "error", errorFG)
	fmt.Print(", ")
	printCount(warningCount, "warning", warnFG)
	fmt.Println(")")
}

// printCount prints `n things` with n colored if it is non-zero
func printCount(n int, noun string, color pterm.Color) {
	if n == 0 {
		successFG.Print(0)
	} else {
		color.Print(n)
	}

	if n != 1 {
		noun += "s"
	}

	fmt.Print(" " + noun)
}

func max(a, b int) int {
	if a > b {
		return a
	}

	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}
