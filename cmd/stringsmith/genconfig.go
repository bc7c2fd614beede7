package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/stringsmith/pkg/config"
)

var genconfigCommented bool

func init() {
	genconfigCmd.Flags().BoolVar(&genconfigCommented, "commented", false,
		"Emit the annotated default config instead of the effective settings")
	rootCmd.AddCommand(genconfigCmd)
}

var genconfigCmd = &cobra.Command{
	Use:   "genconfig",
	Short: "Print the configuration as a TOML file",
	Long: `Genconfig prints the effective configuration (defaults merged with
the loaded config file) as TOML, ready to save to ` + config.DefaultPath() + `.

With --commented it prints the annotated built-in defaults instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if genconfigCommented {
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateDefault())
			return nil
		}
		out, err := config.Generate(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}
