// Package ttrpgconv wires together the ttrpgconv CLI: a "convert" command
// that drives internal/pipeline.Orchestrator end to end, and a
// "list-plugins" command that inspects the process-wide plugin registry.
// Generalized from the teacher's cmd.Execute()/root cobra wiring: every
// adapter package is blank-imported here for its registering init(), the
// same self-registration entry point cobra-bootstraps in the teacher's
// master/replay commands, just pointed at conversion plugins instead of
// model providers.
package ttrpgconv

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "ttrpgconv/internal/adapters/input/dndbeyond"
	_ "ttrpgconv/internal/adapters/input/fgxml"
	_ "ttrpgconv/internal/adapters/input/foundry"
	_ "ttrpgconv/internal/adapters/input/herolab"
	_ "ttrpgconv/internal/adapters/input/pathbuilder"
	_ "ttrpgconv/internal/adapters/input/pdfsheet"
	_ "ttrpgconv/internal/adapters/input/roll20"
	_ "ttrpgconv/internal/adapters/output/diagnostic"
	_ "ttrpgconv/internal/adapters/output/dndbeyondjson"
	_ "ttrpgconv/internal/adapters/output/fgxml"
	_ "ttrpgconv/internal/adapters/output/foundry"
	_ "ttrpgconv/internal/adapters/output/herolabjson"
	_ "ttrpgconv/internal/adapters/output/pathbuilderjson"
	_ "ttrpgconv/internal/adapters/output/pdf"
	_ "ttrpgconv/internal/adapters/output/universaljson"

	"ttrpgconv/internal/config"
	"ttrpgconv/internal/errs"
	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/obslog"
	"ttrpgconv/internal/pipeline"
	"ttrpgconv/internal/plugin"
	"ttrpgconv/internal/validate"
)

var log = obslog.New("cmd")

var rootCmd = &cobra.Command{
	Use:   "ttrpgconv",
	Short: "Convert TTRPG campaign archives between VTT formats",
	Long: `ttrpgconv converts a campaign export from one tabletop platform
(Roll20, Foundry VTT, Fantasy Grounds, Pathbuilder 2e, D&D Beyond, HeroLab)
into another, through a universal intermediate representation.

Use 'ttrpgconv convert --help' to see conversion flags.`,
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a campaign archive to a target format",
	Long: `Run the full conversion pipeline: detect the input format, parse it
into the universal IR, validate it, process its assets, synthesize the
target format, and write the result to disk.

Examples:

  # Convert a Roll20 export to a Foundry VTT world
  ttrpgconv convert --input campaign.json --output ./out --format FOUNDRY_WORLD

  # Convert a Pathbuilder character export to D&D Beyond JSON
  ttrpgconv convert --input hero.json --output ./out --format DND_BEYOND_JSON

  # Force a specific input plugin instead of auto-detecting
  ttrpgconv convert --input hero.json --output ./out --format HEROLAB_JSON --input-plugin pathbuilder`,
	RunE: runConvert,
}

var listPluginsCmd = &cobra.Command{
	Use:   "list-plugins",
	Short: "List every registered input/output/export plugin",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, reg := range plugin.Global().ListAll() {
			fmt.Printf("%-10s %-22s %s\n", reg.Category.Kind, reg.Category.Key, reg.Info.Name)
		}
		return nil
	},
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	formatStr, _ := cmd.Flags().GetString("format")
	inputPluginKey, _ := cmd.Flags().GetString("input-plugin")
	assetCache, _ := cmd.Flags().GetString("asset-cache")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	strictnessStr, _ := cmd.Flags().GetString("strictness")

	if inputPath == "" || outputPath == "" || formatStr == "" {
		return fmt.Errorf("--input, --output, and --format are all required")
	}

	inputReg, err := resolveInputPlugin(cmd.Context(), inputPath, inputPluginKey)
	if err != nil {
		return err
	}
	inputPlugin, ok := inputReg.Instance.(plugin.InputPlugin)
	if !ok {
		return fmt.Errorf("registered plugin %q does not implement InputPlugin", inputReg.Info.Name)
	}

	outputFormat := ir.OutputFormat(formatStr)
	outputRegs := plugin.Global().ByCategory(plugin.Category{Kind: plugin.CategoryOutput, Key: formatStr})
	if len(outputRegs) == 0 {
		return fmt.Errorf("no output plugin registered for format %q", formatStr)
	}
	outputReg := outputRegs[0]
	outputPlugin, ok := outputReg.Instance.(plugin.OutputPlugin)
	if !ok {
		return fmt.Errorf("registered plugin %q does not implement OutputPlugin", outputReg.Info.Name)
	}

	vcfg := validate.DefaultConfig()
	vcfg.Strictness = strictnessFromFlag(strictnessStr)
	engine, err := validate.NewEngine(vcfg)
	if err != nil {
		return err
	}

	orchestrator := &pipeline.Orchestrator{
		Input:     inputPlugin,
		Output:    outputPlugin,
		Validator: engine,
	}

	cfg := pipeline.Config{
		SourcePath: inputPath,
		TargetPath: outputPath,
		AssetCache: resolveAssetCache(assetCache),
		OutputConfig: plugin.OutputConfig{
			Format: outputFormat,
			WriteOptions: plugin.WriteOptions{
				OverwriteExisting: overwrite,
				CreateDirectories: true,
			},
		},
	}

	result, err := orchestrator.Run(cmd.Context(), cfg)
	if err != nil {
		log.LogError(err)
		return err
	}

	fmt.Printf("Converted %q -> %q (%s)\n", inputPath, outputPath, formatStr)
	fmt.Printf("  actors=%d scenes=%d notes=%d total_time=%s\n",
		len(result.Campaign.Actors), len(result.Campaign.Scenes), len(result.Campaign.ConversionNotes), result.Stats.TotalDuration())
	return nil
}

func resolveInputPlugin(ctx context.Context, sourcePath, explicitKey string) (plugin.Registration, error) {
	if explicitKey != "" {
		regs := plugin.Global().ByCategory(plugin.Category{Kind: plugin.CategoryInput, Key: explicitKey})
		if len(regs) == 0 {
			return plugin.Registration{}, fmt.Errorf("no input plugin registered under key %q", explicitKey)
		}
		return regs[0], nil
	}
	for _, reg := range plugin.Global().ListAll() {
		if reg.Category.Kind != plugin.CategoryInput {
			continue
		}
		ip, ok := reg.Instance.(plugin.InputPlugin)
		if !ok {
			continue
		}
		if ip.CanHandle(ctx, sourcePath) {
			return reg, nil
		}
	}
	return plugin.Registration{}, errs.InvalidInput("cmd.resolve_input_plugin", "input", "no registered input plugin recognizes this source; pass --input-plugin explicitly")
}

func resolveAssetCache(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return config.DefaultConfig().AssetCache.Root
}

func strictnessFromFlag(s string) validate.Strictness {
	switch s {
	case "lenient":
		return validate.StrictnessLenient
	case "strict":
		return validate.StrictnessStrict
	default:
		return validate.StrictnessStandard
	}
}

// Execute registers all subcommands and runs the CLI.
func Execute() {
	convertCmd.Flags().String("input", "", "Path to the source campaign archive or character export")
	convertCmd.Flags().String("output", "", "Directory to write the converted bundle into")
	convertCmd.Flags().String("format", "", "Target output format, e.g. FOUNDRY_WORLD, PATHBUILDER_JSON")
	convertCmd.Flags().String("input-plugin", "", "Force a specific input plugin key instead of auto-detecting")
	convertCmd.Flags().String("asset-cache", "", "Content-addressed asset cache directory (default: "+config.DefaultConfig().AssetCache.Root+")")
	convertCmd.Flags().Bool("overwrite", false, "Overwrite an existing output directory")
	convertCmd.Flags().String("strictness", "standard", "Validation strictness: lenient | standard | strict")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(listPluginsCmd)

	if err := rootCmd.Execute(); err != nil {
		var e *errs.Error
		if errors.As(err, &e) {
			os.Exit(e.ExitCode())
		}
		os.Exit(1)
	}
}
