package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/drake/galley/codec"
	"github.com/drake/galley/pipeline"
)

// maxInput caps what galley will read into memory.
const maxInput = 256 << 20

// readInput returns the bytes to bake: the named file, or stdin when it is
// not a terminal. ok is false when there is no input at all.
func readInput(args []string, stdin io.Reader, stdinIsTTY bool) (data []byte, name string, ok bool, err error) {
	if len(args) > 0 {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return nil, "", false, err
		}
		if len(data) > maxInput {
			return nil, "", false, fmt.Errorf("%s: larger than %d bytes", args[0], maxInput)
		}
		return data, args[0], true, nil
	}
	if stdinIsTTY {
		return nil, "", false, nil
	}
	data, err = io.ReadAll(io.LimitReader(stdin, maxInput+1))
	if err != nil {
		return nil, "", false, fmt.Errorf("reading stdin: %w", err)
	}
	if len(data) > maxInput {
		return nil, "", false, fmt.Errorf("stdin: larger than %d bytes", maxInput)
	}
	return data, "", true, nil
}

// stdinIsTerminal reports whether stdin is interactive.
func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// selectBaker resolves the --bake flag. "auto" picks from the file name.
func selectBaker(flag, name string, c *codec.Codec) (pipeline.Baker, error) {
	if flag == "" || flag == "auto" {
		return pipeline.ForFile(name, c), nil
	}
	return pipeline.ByName(flag, c)
}
