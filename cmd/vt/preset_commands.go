package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"vidtools/internal/ops"
	"vidtools/internal/presets"
	"vidtools/internal/services"
)

func newPresetCommand(ctx *commandContext) *cobra.Command {
	presetCmd := &cobra.Command{
		Use:   "preset",
		Short: "Apply and manage saved operation presets",
	}

	presetCmd.AddCommand(newPresetApplyCommand(ctx))
	presetCmd.AddCommand(newPresetListCommand(ctx))
	presetCmd.AddCommand(newPresetShowCommand(ctx))
	presetCmd.AddCommand(newPresetSaveCommand(ctx))
	presetCmd.AddCommand(newPresetDeleteCommand(ctx))
	presetCmd.AddCommand(newPresetEditCommand(ctx))

	return presetCmd
}

func newPresetApplyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "apply INPUT OUTPUT NAME",
		Short:   "Run a preset against a file",
		Example: "  vt preset apply in.mov out.webm webm_social_media",
		Args:    usageArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.presetStore()
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[2])
			preset, err := store.Get(name)
			if err != nil {
				return err
			}
			op, err := preset.Build(args[0], args[1])
			if err != nil {
				return err
			}
			return ctx.execute(cmd, op, name)
		},
	}
}

type presetListing struct {
	Name        string         `json:"name"`
	Operation   string         `json:"operation"`
	Description string         `json:"description"`
	Builtin     bool           `json:"builtin"`
	Overridden  bool           `json:"overridden"`
	Preset      presets.Preset `json:"preset"`
}

func newPresetListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "list",
		Short:       "List built-in and saved presets",
		Args:        usageArgs(cobra.NoArgs),
		Annotations: map[string]string{"skipBinaryCheck": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.presetStore()
			if err != nil {
				return err
			}
			entries, err := store.List()
			if err != nil {
				return err
			}
			if jsonOutput {
				listing := make([]presetListing, 0, len(entries))
				for _, e := range entries {
					listing = append(listing, presetListing{
						Name:        e.Name,
						Operation:   e.Preset.Kind(),
						Description: presetDescription(e.Preset),
						Builtin:     e.Builtin,
						Overridden:  e.Overridden,
						Preset:      e.Preset,
					})
				}
				return writeJSON(cmd, listing)
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Name, ops.Title(e.Preset.Kind()), presetSource(e), presetDescription(e.Preset)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{textCol("Name"), textCol("Operation"), textCol("Source"), textCol("Description")},
				rows,
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output presets as JSON")
	return cmd
}

func newPresetShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "show NAME",
		Short:       "Show a preset's settings",
		Args:        usageArgs(cobra.ExactArgs(1)),
		Annotations: map[string]string{"skipBinaryCheck": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.presetStore()
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[0])
			preset, err := store.Get(name)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderDetails(name, [][]string{
				{"Operation", ops.Title(preset.Kind())},
				{"Description", presetDescription(preset)},
				{"Built-in", yesNo(presets.IsBuiltin(name))},
			}))
			data, err := json.MarshalIndent(preset, "", "  ")
			if err != nil {
				return fmt.Errorf("encode preset: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		},
	}
}

func newPresetSaveCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save NAME OPERATION [operation flags]",
		Short: "Save an operation's flags as a named preset",
		Long: "Save captures the flags of an operation (" + strings.Join(presettableNames(), ", ") + ") under NAME.\n" +
			"Input and output paths are supplied later by `vt preset apply`.",
		Example:            "  vt preset save half resize -p 0.5\n  vt preset save tiny-webm convert -f webm --crf 40 --abitrate 64k --description 'Small WebM'",
		DisableFlagParsing: true,
		Annotations:        map[string]string{"skipConfigLoad": "true"},
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runPresetSave(ctx, cmd, args)
	}
	return cmd
}

// runPresetSave parses its own flags: the operation named by the second
// argument decides which flags are valid.
func runPresetSave(ctx *commandContext, cmd *cobra.Command, args []string) error {
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		return cmd.Help()
	}
	positionals, rest := splitPresetArgs(args, cmd.InheritedFlags())
	if len(positionals) < 2 {
		return services.Validation("preset", "usage: %s", cmd.UseLine())
	}
	name, opName := strings.TrimSpace(positionals[0]), strings.TrimSpace(positionals[1])
	if err := presets.ValidateName(name); err != nil {
		return err
	}
	spec, ok := lookupSpec(opName)
	if !ok || !spec.presettable {
		return services.Validation("preset", "cannot save a preset for %q (supported: %s)", opName, strings.Join(presettableNames(), ", "))
	}

	fs := pflag.NewFlagSet("preset save "+spec.name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var force bool
	var description string
	fs.BoolVar(&force, "force", false, "Replace an existing preset")
	fs.StringVar(&description, "description", "", "Description shown by preset list")
	fs.AddFlagSet(cmd.InheritedFlags())
	build := spec.bind(fs)
	if err := fs.Parse(rest); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(cmd.OutOrStdout(), "Flags for preset save NAME %s:\n%s", spec.name, fs.FlagUsages())
			return nil
		}
		return services.Validation("preset", "%v", err)
	}
	if extra := fs.Args(); len(extra) > 0 {
		return services.Validation("preset", "unexpected arguments %q; presets do not store input or output paths", extra)
	}

	if _, err := ctx.ensureConfig(); err != nil {
		return err
	}
	store, err := ctx.presetStore()
	if err != nil {
		return err
	}
	op, err := build(nil)
	if err != nil {
		return err
	}
	preset, err := presets.FromOperation(op)
	if err != nil {
		return err
	}
	preset.Description = strings.TrimSpace(description)

	err = store.Save(name, preset, force)
	if errors.Is(err, presets.ErrExists) && isInteractive(cmd.InOrStdin()) {
		ok, promptErr := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Preset %q already exists. Overwrite?", name))
		if promptErr != nil {
			return promptErr
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Preset not saved")
			return nil
		}
		err = store.Save(name, preset, true)
	}
	if err != nil {
		return err
	}
	saved, err := store.Get(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %q: %s\n", name, presetDescription(saved))
	return nil
}

func newPresetDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "delete NAME",
		Short:       "Delete a saved preset",
		Long:        "Delete removes a user preset. Deleting a user override of a built-in restores the built-in definition.",
		Args:        usageArgs(cobra.ExactArgs(1)),
		Annotations: map[string]string{"skipBinaryCheck": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.presetStore()
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[0])
			if err := store.Delete(name); err != nil {
				return err
			}
			if presets.IsBuiltin(name) {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed override of %q; the built-in preset is active again\n", name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %q\n", name)
			return nil
		},
	}
}

func newPresetEditCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "edit NAME",
		Short:       "Open the preset file in $VISUAL/$EDITOR",
		Long:        "Edit copies a built-in preset into the user preset file when needed, opens the file in an editor, and validates it afterwards.",
		Args:        usageArgs(cobra.ExactArgs(1)),
		Annotations: map[string]string{"skipBinaryCheck": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.presetStore()
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[0])
			if _, err := store.Materialize(name); err != nil {
				return err
			}
			if err := presets.OpenEditor(commandCtx(cmd), store.Path(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			if err := store.Verify(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preset file %s is valid\n", store.Path())
			return nil
		},
	}
}

// splitPresetArgs pulls NAME and OPERATION out of args. Global flags may
// precede them, so values of inherited flags are skipped; everything else is
// returned for the operation's flag set.
func splitPresetArgs(args []string, inherited *pflag.FlagSet) (positionals, rest []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if len(positionals) == 2 || arg == "-" || !strings.HasPrefix(arg, "-") {
			if len(positionals) < 2 && !strings.HasPrefix(arg, "-") {
				positionals = append(positionals, arg)
				continue
			}
			rest = append(rest, arg)
			continue
		}
		rest = append(rest, arg)
		if strings.Contains(arg, "=") || i+1 >= len(args) {
			continue
		}
		var flag *pflag.Flag
		if long, ok := strings.CutPrefix(arg, "--"); ok {
			flag = inherited.Lookup(long)
		} else if len(arg) == 2 {
			flag = inherited.ShorthandLookup(arg[1:])
		}
		if flag != nil && flag.NoOptDefVal == "" {
			i++
			rest = append(rest, args[i])
		}
	}
	return positionals, rest
}

func presettableNames() []string {
	var names []string
	for _, spec := range operationSpecs() {
		if spec.presettable {
			names = append(names, spec.name)
		}
	}
	return names
}

func presetDescription(p presets.Preset) string {
	if strings.TrimSpace(p.Description) != "" {
		return p.Description
	}
	return p.Describe()
}

func presetSource(e presets.Entry) string {
	switch {
	case e.Overridden:
		return "user (overrides built-in)"
	case e.Builtin:
		return "built-in"
	default:
		return "user"
	}
}
