package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"api-test-planner/internal/testdata"
)

func newTemplateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "template [spec]",
		Short: "Write a sample request data template for every endpoint",
		Long: `Write a test data template with sample path, query, header and body
values for every endpoint, derived from the schemas of the OpenAPI document.
Review and adjust the values before feeding them to a test runner.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, args)
			if err != nil {
				return err
			}
			defer s.Close()

			endpoints, err := s.analyze(cmd.Context())
			if err != nil {
				return err
			}

			path, err := testdata.NewGenerator().GenerateTemplate(endpoints, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Test data template for %d endpoints written to %s\n", len(endpoints), path)
			return nil
		},
	}

	addSpecFlags(cmd)
	cmd.Flags().StringVar(&dir, "dir", "testdata", "directory the template is written to")
	return cmd
}
