package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidtools/internal/ffmpeg"
	"vidtools/internal/language"
	"vidtools/internal/media/ffprobe"
	"vidtools/internal/ops"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "info INPUT",
		Short:       "Show container and stream details",
		Args:        usageArgs(cobra.ExactArgs(1)),
		Annotations: map[string]string{"skipBinaryCheck": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			env := ops.NewEnv(cfg, ctx.prober(), nil, ctx.loggerValue())
			result, err := ops.Info(commandCtx(cmd), env, args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeRawJSON(cmd, result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderInfo(args[0], result))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Print the raw ffprobe JSON")
	return cmd
}

// writeRawJSON re-indents ffprobe's payload, falling back to the parsed
// result when the raw bytes are unavailable.
func writeRawJSON(cmd *cobra.Command, result ffprobe.Result) error {
	raw := result.RawJSON()
	if len(raw) == 0 {
		return writeJSON(cmd, result)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return writeJSON(cmd, result)
	}
	buf.WriteByte('\n')
	_, err := cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

func renderInfo(path string, result ffprobe.Result) string {
	details := [][]string{
		{"Container", valueOr(result.Format.FormatLongName, result.Format.FormatName)},
		{"Duration", ffmpeg.FormatTimecode(result.DurationSeconds())},
	}
	if size := result.SizeBytes(); size > 0 {
		details = append(details, []string{"Size", humanize.Bytes(uint64(size))})
	}
	if rate := result.BitRate(); rate > 0 {
		details = append(details, []string{"Bitrate", formatBitRate(rate)})
	}
	if w, h, ok := result.Dimensions(); ok {
		details = append(details, []string{"Resolution", fmt.Sprintf("%dx%d", w, h)})
	}
	details = append(details, []string{"Streams", strconv.Itoa(len(result.Streams))})

	var b strings.Builder
	b.WriteString(renderDetails(filepath.Base(path), details))
	if len(result.Streams) > 0 {
		rows := make([][]string, 0, len(result.Streams))
		for _, s := range result.Streams {
			rows = append(rows, []string{
				strconv.Itoa(s.Index),
				s.CodecType,
				valueOr(s.CodecName, "-"),
				streamDetail(s),
				valueOr(language.Label(s.Tags["language"]), "-"),
			})
		}
		b.WriteString("\n")
		b.WriteString(renderTable(
			[]column{numCol("#"), textCol("Type"), textCol("Codec"), textCol("Details"), textCol("Lang")},
			rows,
		))
	}
	return b.String()
}

func streamDetail(s ffprobe.Stream) string {
	var parts []string
	switch strings.ToLower(s.CodecType) {
	case "video":
		if s.Width > 0 && s.Height > 0 {
			parts = append(parts, fmt.Sprintf("%dx%d", s.Width, s.Height))
		}
		if fps := s.FrameRate(); fps > 0 {
			parts = append(parts, ffmpeg.FormatNumber(math.Round(fps*100)/100)+" fps")
		}
		if s.PixFmt != "" {
			parts = append(parts, s.PixFmt)
		}
	case "audio":
		if s.SampleRate != "" {
			parts = append(parts, s.SampleRate+" Hz")
		}
		if s.ChannelLayout != "" {
			parts = append(parts, s.ChannelLayout)
		} else if s.Channels > 0 {
			parts = append(parts, fmt.Sprintf("%d ch", s.Channels))
		}
	}
	if rate, err := strconv.ParseInt(s.BitRate, 10, 64); err == nil && rate > 0 {
		parts = append(parts, formatBitRate(rate))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func formatBitRate(bps int64) string {
	value, prefix := humanize.ComputeSI(float64(bps))
	return fmt.Sprintf("%s %sb/s", humanize.FtoaWithDigits(value, 1), prefix)
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
