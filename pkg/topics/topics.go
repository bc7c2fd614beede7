// Package topics extends Cobra's help system with long-form help topics
// read from an fs.FS, so documentation can ship embedded in the binary.
package topics

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Manager holds the loaded topics for one application.
type Manager struct {
	topics       map[string]*Topic
	originalHelp func(*cobra.Command, []string)
	extensions   []string
	renderer     Renderer
}

// Topic is one help document.
type Topic struct {
	Name    string
	Ext     string
	Content string
}

// Options configures topic loading.
type Options struct {
	// Extensions lists the file extensions treated as topics.
	// Defaults to [".md", ".txt"].
	Extensions []string

	// Renderer formats topic content for the terminal.
	// Defaults to PlainRenderer.
	Renderer Renderer
}

// Load reads all topic files from fsys, walking it recursively.
func Load(fsys fs.FS, opts Options) (*Manager, error) {
	m := &Manager{
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(m.extensions) == 0 {
		m.extensions = []string{".md", ".txt"}
	}
	if m.renderer == nil {
		m.renderer = &PlainRenderer{}
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := path.Ext(p)
		if !m.supported(ext) {
			return nil
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), ext)
		m.topics[name] = &Topic{Name: name, Ext: ext, Content: string(content)}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}
	return m, nil
}

func (m *Manager) supported(ext string) bool {
	for _, e := range m.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Get retrieves a topic by name. Flag-style names ("--syntax") resolve to
// their bare topic.
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimPrefix(name, "--")
	name = strings.TrimPrefix(name, "-")
	topic, ok := m.topics[name]
	return topic, ok
}

// List returns all topic names, sorted.
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Attach replaces rootCmd's help command with one that also understands
// topics. `<app> help topics` lists them; `<app> help <topic>` renders one.
func (m *Manager) Attach(rootCmd *cobra.Command) {
	m.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + rootCmd.Name() + ` help [command or topic] for full details.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.List()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				m.originalHelp(rootCmd, []string{})
				return
			}

			if args[0] == "topics" {
				names := m.List()
				if len(names) == 0 {
					fmt.Fprintln(out, "No help topics available.")
					return
				}
				fmt.Fprintln(out, "Available help topics:")
				for _, name := range names {
					fmt.Fprintf(out, "  %s\n", name)
				}
				fmt.Fprintf(out, "\nUse '%s help <topic>' to read about a specific topic.\n", rootCmd.Name())
				return
			}

			if topic, ok := m.Get(args[0]); ok {
				fmt.Fprint(out, m.renderer.Render(topic.Content, topic.Ext))
				return
			}

			m.originalHelp(rootCmd, args)
		},
	}

	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.AddCommand(helpCmd)

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if topic, ok := m.Get(args[0]); ok {
				fmt.Fprint(cmd.OutOrStdout(), m.renderer.Render(topic.Content, topic.Ext))
				return
			}
		}
		m.originalHelp(cmd, args)
	})
}
