package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/dvload/internal/engine"
	"github.com/vvka-141/dvload/internal/params"
)

var (
	validateTimestampFlag  string
	validateParamFlags     []string
	validateParamsFileFlag string
)

var validateCmd = &cobra.Command{
	Use:   "validate [source-path]",
	Short: "Validate load definitions without connecting to a database",
	Long: `Validate loads dvload.yaml and model.yaml, resolves all parameter
placeholders and checks every declared load operation. No database connection
is made and nothing is executed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateTimestampFlag, "load-timestamp", "t", "", "Load timestamp to validate (format: 2006-01-02 15:04:05.000000)")
	validateCmd.Flags().StringArrayVar(&validateParamFlags, "param", nil, "Model parameter as key=value (repeatable)")
	validateCmd.Flags().StringVar(&validateParamsFileFlag, "params-file", "", "File with key=value parameters, one per line")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	sourcePath := sourcePathFromArgs(args)

	cfg, err := loadProjectConfig(sourcePath)
	if err != nil {
		return err
	}

	runParams, err := mergeParams(cfg, validateParamsFileFlag, validateParamFlags)
	if err != nil {
		return err
	}

	specs, err := resolveSpecs(sourcePath, runParams)
	if err != nil {
		return err
	}

	ts, err := params.BindLoadTimestamp(validateTimestampFlag)
	if err != nil {
		return err
	}

	if _, err := cfg.TimeoutDuration(); err != nil {
		return err
	}

	fmt.Printf("Valid: %d load operation(s)\n", len(specs))
	for i := range specs {
		spec := &specs[i]
		fmt.Printf("  %-9s %s\n", spec.Kind, spec.OperationKey())
		if verbose {
			fmt.Println(engine.BuildInsertStatement(spec, ts))
		}
	}
	return nil
}
