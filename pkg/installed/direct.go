package installed

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/matzehuels/metapkg/pkg/pep508"
)

// DirectLister reports the distributions a user installed directly, as
// opposed to ones pulled in as dependencies.
type DirectLister interface {
	List(ctx context.Context) ([]string, error)
}

// CommandLister runs an external tool that prints one directly installed
// distribution per line, such as "pip-chill --no-version".
type CommandLister struct {
	Command []string // Program and arguments
	Dir     string   // Working directory; empty uses the current one
}

// NewCommandLister splits a command line on whitespace. It returns nil for
// an empty command line.
func NewCommandLister(cmdline string) *CommandLister {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil
	}
	return &CommandLister{Command: fields}
}

// List runs the command and parses its output with ParseNames.
func (c *CommandLister) List(ctx context.Context) ([]string, error) {
	if c == nil || len(c.Command) == 0 {
		return nil, fmt.Errorf("direct lister: no command configured")
	}
	cmd := exec.CommandContext(ctx, c.Command[0], c.Command[1:]...)
	cmd.Dir = c.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", c.Command[0], err, msg)
		}
		return nil, fmt.Errorf("%s: %w", c.Command[0], err)
	}
	return ParseNames(out), nil
}

// ParseNames extracts one distribution name per line. Version pins
// ("name==1.0"), blank lines and "#" comments are tolerated; duplicate
// names are reported once in first-seen order.
func ParseNames(out []byte) []string {
	var names []string
	seen := make(map[string]bool)
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		name := pep508.BareName(line)
		if name == "" {
			continue
		}
		if key := pep508.Normalize(name); !seen[key] {
			seen[key] = true
			names = append(names, name)
		}
	}
	return names
}
