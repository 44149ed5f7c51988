package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFormsCmd() *cobra.Command {
	var formsPath string

	cmd := &cobra.Command{
		Use:   "forms [--forms FILE]",
		Short: "Print the form values berdl posts to the portal",
		Long: `Print the effective form configuration as YAML. Save the output, edit the
fields that need refreshing and pass the file back with --forms.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadForms(formsPath)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&formsPath, "forms", "f", "", "YAML or JSON file overriding the bundled form values")
	return cmd
}
