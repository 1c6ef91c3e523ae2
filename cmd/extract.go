package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/dumpsong/internal/employee"
	"github.com/bimmerbailey/dumpsong/internal/output"
)

var extractCmd = &cobra.Command{
	Use:   "extract --name <name> <description...>",
	Short: "Show the attributes extracted from a description",
	Long: `Show the department, role and years that would be used for a song.

No model is called. Useful for checking how a description will be read.

Examples:
  dumpsong extract --name "Jane Doe" "Sales rep, 4 years at company"
  dumpsong extract --name Sam --format yaml "backend developer"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringP("name", "n", "", "employee name")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	info := employee.Extract(name, strings.Join(args, " "))

	w := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format")))
	return w.WriteInfo(info, output.ParseColorMode(viper.GetString("color")))
}
