package cli

import (
	"fmt"

	"github.com/arnavshah/w2w/pkg/models"
	"github.com/spf13/cobra"
)

func newLangCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lang",
		Short: "Show or change the display language (en, es)",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the current language",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), st.Language())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <en|es>",
		Short: "Persist the display language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := models.ParseLanguageTag(args[0])
			if err != nil {
				return err
			}

			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			if err := st.SetLanguage(cmd.Context(), tag); err != nil {
				return err
			}
			t := st.Translator()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", t("settings.language"), tag)
			return nil
		},
	})
	return cmd
}
