package ffmpeg

import "strings"

// Input is a single -i source plus the options that must precede it.
type Input struct {
	Path    string
	Options []string
}

// Command accumulates the pieces of one ffmpeg invocation. The zero value is
// not usable; construct with NewCommand.
type Command struct {
	overwrite     bool
	logLevel      string
	global        []string
	inputs        []Input
	filterComplex string
	videoFilters  []string
	audioFilters  []string
	maps          []string
	options       []string
	output        string
}

// NewCommand starts a command. overwrite selects -y over -n; logLevel is
// passed through -loglevel when non-empty.
func NewCommand(overwrite bool, logLevel string) *Command {
	return &Command{overwrite: overwrite, logLevel: strings.TrimSpace(logLevel)}
}

// Global appends options placed before every input (e.g. -fflags).
func (c *Command) Global(args ...string) *Command {
	c.global = append(c.global, args...)
	return c
}

// Input adds a source file. opts precede its -i (e.g. -ss for input seeking).
func (c *Command) Input(path string, opts ...string) *Command {
	c.inputs = append(c.inputs, Input{Path: path, Options: append([]string(nil), opts...)})
	return c
}

// VideoFilter appends filters to the -vf chain. Empty values are ignored.
func (c *Command) VideoFilter(filters ...string) *Command {
	c.videoFilters = appendNonEmpty(c.videoFilters, filters)
	return c
}

// AudioFilter appends filters to the -af chain. Empty values are ignored.
func (c *Command) AudioFilter(filters ...string) *Command {
	c.audioFilters = appendNonEmpty(c.audioFilters, filters)
	return c
}

// FilterComplex sets the -filter_complex graph.
func (c *Command) FilterComplex(graph string) *Command {
	c.filterComplex = graph
	return c
}

// Map adds -map selectors in order.
func (c *Command) Map(selectors ...string) *Command {
	for _, sel := range selectors {
		c.maps = append(c.maps, "-map", sel)
	}
	return c
}

// Option appends output options (codecs, bitrates, seeking, muxer flags).
func (c *Command) Option(args ...string) *Command {
	c.options = append(c.options, args...)
	return c
}

// Output sets the destination path or pattern.
func (c *Command) Output(path string) *Command {
	c.output = path
	return c
}

// OutputPath returns the configured destination.
func (c *Command) OutputPath() string {
	return c.output
}

// InputPaths returns the configured source paths in order.
func (c *Command) InputPaths() []string {
	paths := make([]string, 0, len(c.inputs))
	for _, in := range c.inputs {
		paths = append(paths, in.Path)
	}
	return paths
}

// Args returns the argument vector without the binary name.
func (c *Command) Args() []string {
	args := make([]string, 0, 32)

	// --- Preamble ---
	args = append(args, "-hide_banner", "-nostdin")
	if c.overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}
	if c.logLevel != "" {
		args = append(args, "-loglevel", c.logLevel)
	}
	args = append(args, c.global...)

	// --- Inputs ---
	for _, in := range c.inputs {
		args = append(args, in.Options...)
		args = append(args, "-i", in.Path)
	}

	// --- Filters ---
	if c.filterComplex != "" {
		args = append(args, "-filter_complex", c.filterComplex)
	}
	if len(c.videoFilters) > 0 {
		args = append(args, "-vf", strings.Join(c.videoFilters, ","))
	}
	if len(c.audioFilters) > 0 {
		args = append(args, "-af", strings.Join(c.audioFilters, ","))
	}

	// --- Maps and output options ---
	args = append(args, c.maps...)
	args = append(args, c.options...)

	// --- Output ---
	if c.output != "" {
		args = append(args, c.output)
	}
	return args
}

func appendNonEmpty(dst []string, values []string) []string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			dst = append(dst, v)
		}
	}
	return dst
}
