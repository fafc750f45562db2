package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ElizaChat/spanner-schema-diff-tool/cmn"
	"github.com/ElizaChat/spanner-schema-diff-tool/config"
	"github.com/ElizaChat/spanner-schema-diff-tool/ddlparser"
	"github.com/ElizaChat/spanner-schema-diff-tool/extractor"
	"github.com/ElizaChat/spanner-schema-diff-tool/plan"
)

var (
	originalDdlFile string
	newDdlFile      string
	outputDdlFile   string
	cfgFile         string
	noColor         bool
)

var RootCmd = &cobra.Command{
	Use:   "spanner-schema-diff-tool",
	Short: "Computes a migration script between two Cloud Spanner DDL files",
	Long: `spanner-schema-diff-tool compares an original and a new Cloud Spanner
DDL schema and emits an ordered sequence of CREATE/ALTER/DROP statements
that migrates a database matching the original into one matching the new.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		cmn.CndPrintError(noColor, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&originalDdlFile, "originalDdlFile", "", "path to the original schema DDL file (required)")
	flags.StringVar(&newDdlFile, "newDdlFile", "", "path to the new schema DDL file (required)")
	flags.StringVar(&outputDdlFile, "outputDdlFile", "", "path to write the generated migration DDL to (required)")
	flags.Bool("allowRecreateIndexes", false, "allow dropping and recreating modified indexes")
	flags.Bool("allowRecreateConstraints", false, "allow dropping and recreating modified constraints")
	flags.Bool("allowDropStatements", false, "allow DROP TABLE/INDEX/CHANGE STREAM/COLUMN for removed objects")
	flags.StringVar(&cfgFile, "config", "", "optional YAML file supplying the policy flags above")
	flags.BoolVar(&noColor, "noColor", false, "disable ansi-colored console output")

	viper.BindPFlag("allowRecreateIndexes", flags.Lookup("allowRecreateIndexes"))
	viper.BindPFlag("allowRecreateConstraints", flags.Lookup("allowRecreateConstraints"))
	viper.BindPFlag("allowDropStatements", flags.Lookup("allowDropStatements"))
}

// initConfig loads the optional policy YAML file and seeds it as
// viper's default layer, so the precedence is: explicit flag > config
// file value > the all-false built-in default.
func initConfig() {
	policy, err := config.FromPath(cfgFile)
	if err != nil {
		cmn.PrintflnWarn("could not read config %s: %s", cfgFile, err)
		return
	}
	viper.SetDefault("allowRecreateIndexes", policy.AllowRecreateIndexes)
	viper.SetDefault("allowRecreateConstraints", policy.AllowRecreateConstraints)
	viper.SetDefault("allowDropStatements", policy.AllowDropStatements)
}

func run(cmd *cobra.Command, args []string) error {
	if originalDdlFile == "" || newDdlFile == "" || outputDdlFile == "" {
		return fmt.Errorf("--originalDdlFile, --newDdlFile and --outputDdlFile are all required")
	}

	originalText, err := readDdlFile(originalDdlFile)
	if err != nil {
		return err
	}
	newText, err := readDdlFile(newDdlFile)
	if err != nil {
		return err
	}

	originalStatements, err := ddlparser.ParseDDL(originalText)
	if err != nil {
		return err
	}
	newStatements, err := ddlparser.ParseDDL(newText)
	if err != nil {
		return err
	}

	originalSchema, err := extractor.Extract(originalStatements)
	if err != nil {
		return err
	}
	newSchema, err := extractor.Extract(newStatements)
	if err != nil {
		return err
	}

	policy := plan.Policy{
		AllowRecreateIndexes:     viper.GetBool("allowRecreateIndexes"),
		AllowRecreateConstraints: viper.GetBool("allowRecreateConstraints"),
		AllowDropStatements:      viper.GetBool("allowDropStatements"),
	}

	statements, err := plan.Generate(originalSchema, newSchema, policy)
	if err != nil {
		return err
	}

	if err := writeDdlFile(outputDdlFile, statements); err != nil {
		return err
	}

	cmn.PrintPlan(noColor, statements)
	return nil
}

// readDdlFile returns the file's text; an empty path yields "" (an empty
// schema). A path that cannot be read is an error.
func readDdlFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(buf), nil
}

func writeDdlFile(path string, statements []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	for _, stmt := range statements {
		if _, err := fmt.Fprintf(f, "%s;\n\n", stmt); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
