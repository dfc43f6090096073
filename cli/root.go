package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"cdr.dev/slog/v3"
	"cdr.dev/slog/v3/sloggers/sloghuman"

	"github.com/coder/pretty"
	"github.com/coder/serpent"

	"github.com/coder/svg2icns/cli/cliui"
)

// Environment variables honored by the root command. The command takes no
// flags: its one input is the image path, and the remaining knobs are
// diagnostics that belong in the environment.
const (
	envVerbose = "SVG2ICNS_VERBOSE"
	envLenient = "SVG2ICNS_LENIENT"
)

// RootCmd holds the options shared by every part of a run.
type RootCmd struct {
	verbose bool
	lenient bool
}

// Command constructs the svg2icns root command, which is also the only
// command.
func (r *RootCmd) Command() *serpent.Command {
	return &serpent.Command{
		Use:   "svg2icns <file.svg>",
		Short: "Render an svg image into a macOS icns icon.",
		Long: "Rasterize an svg (or gzip compressed svgz) image at the sizes a macOS\n" +
			"icon needs and bundle the results into <basename>.icns via iconutil.\n\n" + formatExamples(
			example{
				Description: "render icon.svg into icon.icns in the working directory",
				Command:     "svg2icns icon.svg",
			},
			example{
				Description: "tolerate svg features the renderer does not support",
				Command:     "SVG2ICNS_LENIENT=1 svg2icns logo.svgz",
			},
		),
		Options: serpent.OptionSet{
			{
				Name:        "verbose",
				Env:         envVerbose,
				Description: "Enable debug logging.",
				Value:       serpent.BoolOf(&r.verbose),
			},
			{
				Name:        "lenient",
				Env:         envLenient,
				Description: "Tolerate unsupported svg features instead of failing.",
				Value:       serpent.BoolOf(&r.lenient),
			},
		},
		Middleware: serpent.Chain(
			serpent.RequireRangeArgs(0, 1),
		),
		Handler:     r.convert,
		HelpHandler: helpFn(),
	}
}

// Logger builds the logger every run shares. It writes human readable
// lines to the invocation's stderr; debug entries only pass when
// SVG2ICNS_VERBOSE is set.
func (r *RootCmd) Logger(inv *serpent.Invocation) slog.Logger {
	level := slog.LevelInfo
	if r.verbose {
		level = slog.LevelDebug
	}
	return slog.Make(sloghuman.Sink(inv.Stderr)).Leveled(level)
}

// RunMain runs the root command with OS defaults and exits nonzero when
// the run fails. Errors render through the pretty formatter instead of
// serpent's default dump.
func (r *RootCmd) RunMain() {
	err := r.Command().Invoke().WithOS().Run()
	if err != nil {
		f := prettyErrorFormatter{w: os.Stderr, verbose: r.verbose}
		f.format(err)
		//nolint:revive
		os.Exit(1)
	}
}

// example represents a standard example for command usage, to be used
// with formatExamples.
type example struct {
	Description string
	Command     string
}

// formatExamples formats the examples as width wrapped bulletpoint
// descriptions with the command underneath.
func formatExamples(examples ...example) string {
	var sb strings.Builder

	padStyle := cliui.DefaultStyles.Wrap.With(pretty.XPad(4, 0))
	for i, e := range examples {
		if len(e.Description) > 0 {
			_, _ = sb.WriteString(
				"  - " + pretty.Sprint(padStyle, e.Description+":")[4:] + "\n\n    ",
			)
		}
		_, _ = sb.WriteString("$ " + e.Command + "\n")
		if i < len(examples)-1 {
			_, _ = sb.WriteString("\n")
		}
	}
	return sb.String()
}

type prettyErrorFormatter struct {
	w io.Writer
	// verbose turns on more detailed error logs, such as stack traces.
	verbose bool
}

// format writes the error to the console. The output is human readable.
func (p *prettyErrorFormatter) format(err error) {
	output, _ := cliHumanFormatError("", err, &formatOpts{
		Verbose: p.verbose,
	})
	// always trail with a newline
	_, _ = p.w.Write([]byte(output + "\n"))
}

type formatOpts struct {
	Verbose bool
}

const indent = "    "

// cliHumanFormatError formats an error for the CLI. Newlines and styling
// are included. The second return value is true if the error is special
// and the string should be printed as is instead of wrapped.
//
// The `from` argument is the magic string that preceded the error in the
// chain.
func cliHumanFormatError(from string, err error, opts *formatOpts) (string, bool) {
	if opts == nil {
		opts = &formatOpts{}
	}
	if err == nil {
		return "<nil>", true
	}

	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		multiErrors := multi.Unwrap()
		if len(multiErrors) == 1 {
			// Format as a single error
			return cliHumanFormatError(from, multiErrors[0], opts)
		}
		return formatMultiError(from, multiErrors, opts), true
	}

	// Check for sentinel errors that get handled specially before falling
	// back to the generic chain walk.
	//nolint:errorlint
	if cmdErr, ok := err.(*serpent.RunCommandError); ok {
		// No need to pass the "from" context to this since it is always
		// top level. We care about what is below this.
		return formatRunCommandError(cmdErr, opts), true
	}

	uw, ok := err.(interface{ Unwrap() error })
	if ok {
		msg, special := cliHumanFormatError(from+traceError(err), uw.Unwrap(), opts)
		if special {
			return msg, special
		}
	}
	// If we got here, that means that the wrapped error chain does not have
	// any special formatters. So we want to return the topmost non-special
	// error.

	// Default just printing the error. Use +v for verbose to handle stack
	// traces of xerrors.
	if opts.Verbose {
		return pretty.Sprint(headLineStyle(), fmt.Sprintf("%+v", err)), false
	}

	return pretty.Sprint(headLineStyle(), fmt.Sprintf("%v", err)), false
}

// formatMultiError formats a multi-error. It formats it as a list of errors.
//
//	Multiple Errors:
//	<# errors encountered>:
//		1. <error at visibility level>
//		   <verbose error message>
func formatMultiError(from string, multi []error, opts *formatOpts) string {
	var errorStrings []string
	for _, err := range multi {
		msg, _ := cliHumanFormatError("", err, opts)
		errorStrings = append(errorStrings, msg)
	}

	var str strings.Builder
	var traceMsg string
	if from != "" {
		traceMsg = fmt.Sprintf("Trace=[%s])", from)
	}
	_, _ = str.WriteString(pretty.Sprint(headLineStyle(), fmt.Sprintf("%d errors encountered: %s", len(multi), traceMsg)))
	for i, errStr := range errorStrings {
		// Indent each error
		errStr = strings.ReplaceAll(errStr, "\n", "\n"+indent)
		// Error now looks like
		// |  <line>
		// |  <line>
		prefix := fmt.Sprintf("%d. ", i+1)
		if len(prefix) < len(indent) {
			// Indent the prefix to match the indent
			prefix += strings.Repeat(" ", len(indent)-len(prefix))
		}
		errStr = prefix + errStr
		// Now looks like
		// |1. <line>
		// |  <line>
		_, _ = str.WriteString("\n" + errStr)
	}
	return str.String()
}

func formatRunCommandError(err *serpent.RunCommandError, opts *formatOpts) string {
	var str strings.Builder
	_, _ = str.WriteString(pretty.Sprint(headLineStyle(), fmt.Sprintf(
		`Encountered an error running %q, see "%s --help" for more information`,
		err.Cmd.FullName(), err.Cmd.FullName())))
	_, _ = str.WriteString(pretty.Sprint(headLineStyle(), "\nerror: "))

	msgString, special := cliHumanFormatError("", err.Err, opts)
	if special {
		_, _ = str.WriteString(msgString)
	} else {
		_, _ = str.WriteString(pretty.Sprint(tailLineStyle(), msgString))
	}

	return str.String()
}

// traceError adds the context an error was wrapped with back to its
// message. There is no clean way to get the prefix of "error string: %w",
// so this does a bit of string manipulation.
//
//nolint:errorlint
func traceError(err error) string {
	if uw, ok := err.(interface{ Unwrap() error }); ok {
		a, b := err.Error(), uw.Unwrap().Error()
		return strings.TrimSuffix(a, b)
	}
	return err.Error()
}

func headLineStyle() pretty.Style {
	return cliui.DefaultStyles.Error
}

func tailLineStyle() pretty.Style {
	return pretty.Style{pretty.Nop}
}
