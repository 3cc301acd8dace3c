package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	imagepkg "github.com/youruser/catalogapp/internal/image"
)

// ErrNoCopyCommand means none of the copy commands is installed.
var ErrNoCopyCommand = errors.New("no clipboard copy command found")

// Command is a platform copy command that reads PNG data on stdin.
type Command struct {
	Name string
	Args []string
}

// DefaultCommands are tried in order.
var DefaultCommands = []Command{
	{Name: "wl-copy", Args: []string{"--type", "image/png"}},
	{Name: "xclip", Args: []string{"-selection", "clipboard", "-t", "image/png", "-i"}},
}

// Runner runs a command with stdin.
type Runner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, path string, args []string, stdin []byte) error
}

type execRunner struct{}

func (execRunner) LookPath(name string) (string, error) { return exec.LookPath(name) }

func (execRunner) Run(ctx context.Context, path string, args []string, stdin []byte) error {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// SelectionStep pipes the PNG into the first installed copy command.
type SelectionStep struct {
	Commands []Command
	Runner   Runner
}

// NewSelectionStep uses DefaultCommands and os/exec.
func NewSelectionStep() *SelectionStep {
	return &SelectionStep{Commands: DefaultCommands, Runner: execRunner{}}
}

func (*SelectionStep) Method() Method { return MethodSelection }

func (*SelectionStep) Available(env Env) bool { return !env.Mobile }

func (s *SelectionStep) Deliver(ctx context.Context, png *imagepkg.Rendered, _ string) (string, error) {
	for _, c := range s.Commands {
		path, err := s.Runner.LookPath(c.Name)
		if err != nil {
			continue
		}
		if err := s.Runner.Run(ctx, path, c.Args, png.Data); err != nil {
			return "", fmt.Errorf("%s: %w", c.Name, err)
		}
		return "", nil
	}
	return "", ErrNoCopyCommand
}
