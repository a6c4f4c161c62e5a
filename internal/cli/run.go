// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"code.hybscloud.com/arbor"
	"code.hybscloud.com/arbor/internal/demo"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	MaxSteps int
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Run a YAML script against the demo app",
		Long: `Run the demo todo app under a YAML script and print its views.

Example script:
  items:
    1: {title: write tests}
  steps:
    - toggle: 1
    - save: 1
    - show: stats`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			sc, err := demo.ParseScript(data)
			if err != nil {
				return err
			}
			logger := opts.logger(cmd.ErrOrStderr())
			sess := demo.NewSession(sc.Items,
				arbor.WithLogger(logger),
				arbor.WithPerformer(demo.NewStore(logger)),
				arbor.WithMaxSteps(opts.MaxSteps),
			)
			return sc.Run(cmd.Context(), sess, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", arbor.DefaultMaxSteps, "operations a single flush may run")

	return cmd
}
