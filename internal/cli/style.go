package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/famtree/pkg/connector"
	"github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/pipeline"
)

// Style output formats.
const (
	styleOutputTable = "table"
	styleOutputJSON  = "json"
	styleOutputYAML  = "yaml"
	styleOutputTOML  = "toml"
)

// styleCommand creates the style command.
func (c *CLI) styleCommand() *cobra.Command {
	var override, output string

	cmd := &cobra.Command{
		Use:   "style [preset]",
		Short: "Show a resolved connector style",
		Long: `Style resolves a preset, optionally merged with an override file, and prints
the result. Use --output to emit it as JSON, YAML or TOML, for example as a
starting point for an override file.`,
		Example: `  famtree style
  famtree style compact --override mine.toml
  famtree style contrast -o yaml > contrast.yaml`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: connector.Presets(),
		RunE: func(cmd *cobra.Command, args []string) error {
			preset := connector.PresetDefault
			if len(args) == 1 {
				preset = args[0]
			}
			if err := pipeline.ValidatePreset(preset); err != nil {
				return err
			}

			var o *connector.Override
			if override != "" {
				var err error
				if o, err = connector.LoadOverride(override); err != nil {
					return err
				}
				c.Logger.Debug("loaded style override", "path", override)
			}
			return writeStyle(cmd.OutOrStdout(), preset, connector.Resolve(preset, o), output)
		},
	}

	cmd.Flags().StringVar(&override, "override", "", "style override file (JSON, YAML or TOML)")
	cmd.Flags().StringVarP(&output, "output", "o", styleOutputTable, "output format: table, json, yaml, toml")
	return cmd
}

// writeStyle encodes cfg in the requested output format.
func writeStyle(w io.Writer, preset string, cfg connector.Config, output string) error {
	switch output {
	case styleOutputTable:
		fmt.Fprintln(w, StyleTitle.Render("Style "+preset))
		fmt.Fprintln(w, styleTable(cfg))
		return nil
	case styleOutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case styleOutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case styleOutputTOML:
		return toml.NewEncoder(w).Encode(cfg)
	}
	return errors.New(errors.ErrCodeInvalidFormat,
		"unknown output %q (valid: table, json, yaml, toml)", output)
}

// styleTable lays the style out as one row per setting.
func styleTable(cfg connector.Config) *table.Table {
	rows := [][]string{
		{"status", "linked", cfg.StatusColors.Linked},
		{"status", "invite_pending", cfg.StatusColors.InvitePending},
		{"status", "manual", cfg.StatusColors.Manual},
		{"status", "default", cfg.StatusColors.Default},
	}
	for _, l := range []struct {
		name  string
		style connector.LineStyle
	}{
		{"couple_line", cfg.CoupleLine},
		{"trunk", cfg.Trunk},
		{"sibling_bus", cfg.SiblingBus},
		{"drop", cfg.Drop},
	} {
		rows = append(rows,
			[]string{l.name, "thickness", l.style.Thickness},
			[]string{l.name, "color", l.style.Color},
		)
	}
	rows = append(rows,
		[]string{"anchors", "couple_inset_px", strconv.FormatFloat(cfg.Anchors.CoupleInsetPx, 'f', -1, 64)},
		[]string{"anchors", "vertical_gap_px", strconv.FormatFloat(cfg.Anchors.VerticalGapPx, 'f', -1, 64)},
	)

	header := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("SECTION", "KEY", "VALUE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return header
			case col == 2:
				return cell.Foreground(colorWhite)
			default:
				return cell.Foreground(colorGray)
			}
		})
}
