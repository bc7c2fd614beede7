package main

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/stringsmith/internal/version"
	"github.com/arthur-debert/stringsmith/pkg/config"
	"github.com/arthur-debert/stringsmith/pkg/logging"
	"github.com/arthur-debert/stringsmith/pkg/style"
	"github.com/arthur-debert/stringsmith/pkg/topics"
)

//go:embed docs
var docsFS embed.FS

var (
	verbosity  int
	configPath string
	colorMode  string
	noColor    bool

	cfg *config.Settings

	rootCmd = &cobra.Command{
		Use:   "stringsmith",
		Short: "Conditional template rendering for the terminal",
		Long: `stringsmith renders templates whose sections appear or disappear
with their data. A section like {{User: ;username;}} prints "User: admin"
when username is set and nothing at all when it is not, so optional parts
need no if/else scaffolding around them.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if verbosity == 0 {
				verbosity = cfg.Logging.Verbosity
			}
			logging.SetupLogger(verbosity)

			if noColor {
				colorMode = "never"
			}
			if colorMode == "" {
				colorMode = cfg.Output.Color
			}
			if !colorEnabled() {
				style.DisableColor()
			}

			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default is "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "",
		"Color output: auto, always or never")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable color output (same as --color never)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)

	docs, err := fs.Sub(docsFS, "docs")
	if err == nil {
		manager, terr := topics.Load(docs, topics.Options{
			Renderer: topics.NewGlamourRenderer(),
		})
		if terr == nil {
			manager.Attach(rootCmd)
		}
	}
}

// colorEnabled resolves the effective color policy for stdout.
func colorEnabled() bool {
	switch colorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for stringsmith`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stringsmith version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(stringsmith completion bash)

Zsh:
  $ stringsmith completion zsh > "${fpath[1]}/_stringsmith"

Fish:
  $ stringsmith completion fish | source

PowerShell:
  PS> stringsmith completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate bash completion")
			}
		case "zsh":
			if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate zsh completion")
			}
		case "fish":
			if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
				log.Error().Err(err).Msg("Failed to generate fish completion")
			}
		case "powershell":
			if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate powershell completion")
			}
		}
	},
}
