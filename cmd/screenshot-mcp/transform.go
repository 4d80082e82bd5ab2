package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PoorRican/gui-agent-screenshot-tools/pkg/screenspace"
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Map a coordinate between a screen and a resized screenshot",
	Long: `transform maps one coordinate through the resize from --from to --to.

By default the coordinate is given in the resized image (--to) and mapped back
to the screen (--from), undoing any letterbox padding. With --forward it is
given on the screen and mapped into the resized image.

Example:
  screenshot-mcp transform --from 1920x1080 --to 1024x1024 --mode letterbox --x 512 --y 512`,
	Args: cobra.NoArgs,
	RunE: runTransform,
}

func init() {
	f := transformCmd.Flags()
	f.String("from", "", "screen space, WxH")
	f.String("to", "", "resized space, WxH (default from config)")
	f.String("mode", "", "stretch or letterbox (default from config)")
	f.Int("x", 0, "x coordinate")
	f.Int("y", 0, "y coordinate")
	f.Bool("forward", false, "map from the screen into the resized image")
	_ = transformCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(transformCmd)
}

type transformResult struct {
	Input    screenspace.Coordinate     `json:"input"`
	Output   screenspace.Coordinate     `json:"output"`
	Metadata screenspace.ResizeMetadata `json:"metadata"`
}

func runTransform(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	fromStr, _ := flags.GetString("from")
	from, err := screenspace.ParseSpace(fromStr)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to := cfg.DefaultTarget()
	if toStr, _ := flags.GetString("to"); toStr != "" {
		if to, err = screenspace.ParseSpace(toStr); err != nil {
			return fmt.Errorf("--to: %w", err)
		}
	}
	mode := cfg.DefaultMode()
	if modeStr, _ := flags.GetString("mode"); modeStr != "" {
		if mode, err = screenspace.ParseResizeMode(modeStr); err != nil {
			return fmt.Errorf("--mode: %w", err)
		}
	}

	meta, err := screenspace.ComputeResizeMetadata(from, to, mode)
	if err != nil {
		return err
	}

	x, _ := flags.GetInt("x")
	y, _ := flags.GetInt("y")
	forward, _ := flags.GetBool("forward")

	var result transformResult
	result.Metadata = meta
	if forward {
		if result.Input, err = screenspace.NewCoordinate(x, y, from); err != nil {
			return err
		}
		result.Output = meta.ForwardTransformCoordinate(result.Input)
	} else {
		if result.Input, err = screenspace.NewCoordinate(x, y, to); err != nil {
			return err
		}
		result.Output = result.Input.ToSpace(from, &meta)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
