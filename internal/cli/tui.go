// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"code.hybscloud.com/arbor"
	"code.hybscloud.com/arbor/internal/demo"
	"code.hybscloud.com/arbor/internal/tui"
)

// ErrNotTerminal is returned by tui when stdin is not a terminal.
var ErrNotTerminal = errors.New("tui: stdin is not a terminal, use run instead")

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	var script string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the demo app interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fd := os.Stdin.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
				return ErrNotTerminal
			}
			items := map[int]demo.Item{1: {Title: "try arbor"}}
			if script != "" {
				data, err := os.ReadFile(script)
				if err != nil {
					return fmt.Errorf("read script: %w", err)
				}
				sc, err := demo.ParseScript(data)
				if err != nil {
					return err
				}
				items = sc.Items
			}
			// Logs would tear the alternate screen.
			logger := rootOpts.logger(io.Discard)
			sess := demo.NewSession(items,
				arbor.WithLogger(logger),
				arbor.WithPerformer(demo.NewStore(logger)),
			)
			return tui.Run(sess, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&script, "items", "", "YAML script whose items seed the app")

	return cmd
}
