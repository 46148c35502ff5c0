package cli

import (
	"context"
	"errors"
	"os"

	"github.com/arnavshah/w2w/pkg/storage"
	"github.com/arnavshah/w2w/pkg/store"
	"github.com/spf13/cobra"
)

type dataPathKey struct{}

// NewRootCmd builds the w2w command tree. Every command works on the bolt
// file named by --data (env: BOLT_PATH).
func NewRootCmd(version string) *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:          "w2w",
		Short:        "w2w - work shift scheduler",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dataPath == "" {
				return errors.New("--data must not be empty")
			}
			cmd.SetContext(context.WithValue(cmd.Context(), dataPathKey{}, dataPath))
			return nil
		},
	}

	defaultPath := os.Getenv("BOLT_PATH")
	if defaultPath == "" {
		defaultPath = "w2w_state.bolt"
	}
	cmd.PersistentFlags().StringVar(&dataPath, "data", defaultPath, "Bolt file holding the roster state (env: BOLT_PATH)")

	cmd.AddCommand(newAgentCmd())
	cmd.AddCommand(newTeamCmd())
	cmd.AddCommand(newScheduleCmd())
	cmd.AddCommand(newLangCmd())

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.SetVersionTemplate("{{.Version}}\n")
	if version != "" {
		cmd.Version = version
	} else {
		cmd.Version = "dev"
	}

	return cmd
}

// openStore opens the bolt-backed store for the running command. The
// returned func closes the file.
func openStore(cmd *cobra.Command) (*store.Store, func(), error) {
	path, _ := cmd.Context().Value(dataPathKey{}).(string)
	b, err := storage.OpenBolt(path)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cmd.Context(), b, nil)
	if err != nil {
		_ = b.Close()
		return nil, nil, err
	}
	return st, func() { _ = b.Close() }, nil
}
