// version.go implements "pipecron version".

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipecron/pipecron/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(a.stdout, version.Info())
			return err
		},
	}
}
