package presets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/google/shlex"

	"vidtools/internal/services"
)

// EditorCommand returns the argv used to open path for editing: $VISUAL or
// $EDITOR (shell-split) when set, otherwise the desktop opener.
func EditorCommand(path string) ([]string, error) {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		value := strings.TrimSpace(os.Getenv(key))
		if value == "" {
			continue
		}
		argv, err := shlex.Split(value)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "preset", "edit", "parse $"+key, err)
		}
		if len(argv) > 0 {
			return append(argv, path), nil
		}
	}
	switch runtime.GOOS {
	case "darwin":
		return []string{"open", path}, nil
	case "windows":
		return []string{"cmd", "/c", "start", "", path}, nil
	default:
		return []string{"xdg-open", path}, nil
	}
}

// OpenEditor opens path in the user's editor and waits for it to exit.
func OpenEditor(ctx context.Context, path string, stdin io.Reader, stdout, stderr io.Writer) error {
	argv, err := EditorCommand(path)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return services.Wrap(services.ErrExternalTool, "preset", "edit", fmt.Sprintf("%s not found; open %s manually", argv[0], path), err)
		}
		return services.Wrap(services.ErrExternalTool, "preset", "edit", "run "+argv[0], err)
	}
	return nil
}

// Verify parses the user file and validates every entry in it.
func (s *Store) Verify() error {
	user, err := s.readUser()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(user))
	for name := range user {
		names = append(names, name)
	}
	sort.Strings(names)
	var problems []string
	for _, name := range names {
		if err := user[name].Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", name, err))
		}
	}
	if len(problems) > 0 {
		return services.Validation("preset", "invalid presets in %s: %s", s.path, strings.Join(problems, "; "))
	}
	return nil
}
