// Package ffmpeg captures ffmpeg probe output and runs transcodes.
package ffmpeg

// Command builds an ffmpeg transcode argument list with method chaining.
//
// The layout is fixed: global flags, input options, -i <input>, stream
// selection, output options, output path.
type Command struct {
	input         string
	output        string
	inputOptions  []string
	streamArgs    []string
	outputOptions []string
	overwrite     bool
}

// NewCommand creates a transcode command reading input and writing output.
func NewCommand(input, output string) *Command {
	return &Command{input: input, output: output, overwrite: true}
}

// WithInputOptions sets options placed before -i.
func (c *Command) WithInputOptions(opts ...string) *Command {
	c.inputOptions = append(c.inputOptions, opts...)
	return c
}

// WithStreamArgs sets the stream selection tokens.
func (c *Command) WithStreamArgs(args ...string) *Command {
	c.streamArgs = append(c.streamArgs, args...)
	return c
}

// WithOutputOptions sets codec and muxer options placed after stream selection.
func (c *Command) WithOutputOptions(opts ...string) *Command {
	c.outputOptions = append(c.outputOptions, opts...)
	return c
}

// WithOverwrite controls whether an existing output is replaced (-y) or
// refused (-n).
func (c *Command) WithOverwrite(overwrite bool) *Command {
	c.overwrite = overwrite
	return c
}

// Args returns the ffmpeg argument list, excluding the program name.
func (c *Command) Args() []string {
	args := make([]string, 0, 6+len(c.inputOptions)+len(c.streamArgs)+len(c.outputOptions))
	args = append(args, "-hide_banner")
	if c.overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}
	args = append(args, c.inputOptions...)
	args = append(args, "-i", c.input)
	args = append(args, c.streamArgs...)
	args = append(args, c.outputOptions...)
	args = append(args, c.output)
	return args
}

// BuildTranscodeArgs returns the argument list for a transcode that
// overwrites output.
func BuildTranscodeArgs(input, output string, inputOptions, streamArgs, outputOptions []string) []string {
	return NewCommand(input, output).
		WithInputOptions(inputOptions...).
		WithStreamArgs(streamArgs...).
		WithOutputOptions(outputOptions...).
		Args()
}
