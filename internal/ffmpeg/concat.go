package ffmpeg

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// WriteConcatList writes a concat demuxer list for paths. Paths are made
// absolute and single quotes escaped as '\''.
func WriteConcatList(w io.Writer, paths []string) error {
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("concat list: resolve %q: %w", p, err)
		}
		escaped := strings.ReplaceAll(abs, "'", `'\''`)
		if _, err := fmt.Fprintf(w, "file '%s'\n", escaped); err != nil {
			return fmt.Errorf("concat list: write: %w", err)
		}
	}
	return nil
}

// ConcatGraph joins n normalized inputs. Each input i must already be
// labelled [v<i>] (and [a<i>] when withAudio). Outputs are [outv] and [outa].
func ConcatGraph(n int, withAudio bool) string {
	var b strings.Builder
	for i := range n {
		fmt.Fprintf(&b, "[v%d]", i)
		if withAudio {
			fmt.Fprintf(&b, "[a%d]", i)
		}
	}
	a := 0
	if withAudio {
		a = 1
	}
	fmt.Fprintf(&b, "concat=n=%d:v=1:a=%d[outv]", n, a)
	if withAudio {
		b.WriteString("[outa]")
	}
	return b.String()
}
