// Package sqruff formats SQL by running the sqruff command line tool.
package sqruff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/sqlxfmt/internal/logging"
)

// Defaults for Options.
const (
	DefaultCommand    = "sqruff"
	DefaultConfigPath = ".sqruff"
)

// ErrNoOutput is returned when sqruff prints nothing on stdout.
var ErrNoOutput = errors.New("failed to format sql")

// Options configures a Formatter.
type Options struct {
	// Command is the sqruff executable name or path.
	Command string

	// ConfigPath is passed as --config when the file exists.
	ConfigPath string

	// Logger receives the missing-config notice. Defaults to the context logger.
	Logger *log.Logger
}

// Formatter implements rewrite.Formatter by running `sqruff fix -` once per
// literal. It is safe for concurrent use.
type Formatter struct {
	command    string
	configPath string
	logger     *log.Logger

	configOnce sync.Once
	useConfig  bool
}

// New creates a Formatter. Empty option fields take their defaults.
func New(opts Options) *Formatter {
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = DefaultConfigPath
	}
	return &Formatter{
		command:    opts.Command,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
	}
}

// Command returns the executable the Formatter runs.
func (f *Formatter) Command() string {
	return f.command
}

// ConfigPath returns the configured sqruff config path.
func (f *Formatter) ConfigPath() string {
	return f.configPath
}

// Args returns the arguments passed to sqruff. The config file is checked
// once; a missing file is reported once and sqruff runs with its defaults.
func (f *Formatter) Args(ctx context.Context) []string {
	f.configOnce.Do(func() {
		if _, err := os.Stat(f.configPath); err == nil {
			f.useConfig = true
			return
		}
		f.log(ctx).Info(fmt.Sprintf("sqruff config file not found at %s, using default sqruff config", f.configPath))
	})

	if f.useConfig {
		return []string{"--config", f.configPath, "fix", "-"}
	}
	return []string{"fix", "-"}
}

// Format pipes the trimmed content through sqruff.
// The raw flag does not change the invocation.
// The result is right-trimmed and ends with exactly one newline.
func (f *Formatter) Format(ctx context.Context, content string, _ bool) (string, error) {
	//nolint:gosec // the command is user configuration
	cmd := exec.CommandContext(ctx, f.command, f.Args(ctx)...)
	cmd.Stdin = strings.NewReader(strings.TrimSpace(content))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// sqruff exits non-zero when unfixable violations remain but still
	// prints the fixed SQL, so only a failure to run at all is fatal.
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("running %s: %w", f.command, err)
		}
	}

	formatted := strings.TrimRight(stdout.String(), " \t\r\n")
	if strings.TrimSpace(formatted) == "" {
		return "", fmt.Errorf("%w, error: %s", ErrNoOutput, strings.TrimSpace(stderr.String()))
	}

	return formatted + "\n", nil
}

func (f *Formatter) log(ctx context.Context) *log.Logger {
	if f.logger != nil {
		return f.logger
	}
	return logging.FromContext(ctx)
}
