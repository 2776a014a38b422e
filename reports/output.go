package reports

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/foomo/seolint/vo"
)

type OutputType string

const (
	OutputConsole OutputType = "console"
	OutputFile    OutputType = "file"
)

// ErrInvalidOutput is wrapped by all output configuration errors
var ErrInvalidOutput = errors.New("invalid output")

// Output configures where a lint report goes
type Output struct {
	Type    OutputType `yaml:"type"`
	Silence bool       `yaml:"silence"`
	// Path of the report file, ignored when Writer is set
	Path   string    `yaml:"path"`
	Writer io.Writer `yaml:"-"`
}

// IsZero reports whether no output was configured at all
func (o Output) IsZero() bool {
	return o.Type == "" && !o.Silence && o.Path == "" && o.Writer == nil
}

func (o Output) Validate() error {
	switch o.Type {
	case OutputConsole:
		return nil
	case OutputFile:
		if o.Writer == nil && o.Path == "" {
			return fmt.Errorf("%w: file output requires a path or a writer", ErrInvalidOutput)
		}
		return nil
	}
	return fmt.Errorf("%w: output type [%s] is not valid. Accepted output are [%s, %s]", ErrInvalidOutput, o.Type, OutputConsole, OutputFile)
}

// Transcript renders findings one per line as [index][code] message
func Transcript(findings vo.Findings) string {
	sb := &strings.Builder{}
	for i, f := range findings {
		fmt.Fprintf(sb, "[%d][%s] %s\n", i+1, f.Code, f.Message)
	}
	return sb.String()
}

// Write sends the transcript of findings to out, console output goes to
// console. Write returns when the report has been written completely.
func Write(out Output, console io.Writer, findings vo.Findings) error {
	errValidate := out.Validate()
	if errValidate != nil {
		return errValidate
	}
	transcript := Transcript(findings)
	switch out.Type {
	case OutputConsole:
		if out.Silence {
			return nil
		}
		if console == nil {
			console = os.Stdout
		}
		_, errWrite := io.WriteString(console, transcript)
		return errWrite
	default:
		if out.Writer != nil {
			_, errWrite := io.WriteString(out.Writer, transcript)
			return errWrite
		}
		return writeFile(out.Path, transcript)
	}
}

func writeFile(path, transcript string) (err error) {
	f, errCreate := os.Create(path)
	if errCreate != nil {
		return fmt.Errorf("could not create report file: %w", errCreate)
	}
	defer func() {
		errClose := f.Close()
		if err == nil {
			err = errClose
		}
	}()
	_, err = io.WriteString(f, transcript)
	return err
}
