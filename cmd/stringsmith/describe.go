package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/stringsmith/pkg/errors"
	"github.com/arthur-debert/stringsmith/pkg/style"
	"github.com/arthur-debert/stringsmith/pkg/template"
)

var describeFormat string

func init() {
	describeCmd.Flags().StringVar(&describeFormat, "format", "text",
		"Output format: text, json or xml")
	rootCmd.AddCommand(describeCmd)
}

var describeCmd = &cobra.Command{
	Use:   "describe TEMPLATE",
	Short: "Show the structure of a template without rendering it",
	Long: `Describe compiles TEMPLATE and prints its parsed structure: each
literal run, each section with its tokens, field and affixes, and which
fields are mandatory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := templateOptions()
		if err != nil {
			return err
		}
		tmpl, err := template.New(args[0], opts...)
		if err != nil {
			return err
		}
		desc := tmpl.Describe()

		var out string
		switch describeFormat {
		case "text":
			out = describeText(desc)
		case "json":
			data, err := json.MarshalIndent(desc, "", "  ")
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to encode description")
			}
			out = string(data)
		case "xml":
			out, err = describeXML(desc)
			if err != nil {
				return err
			}
		default:
			return errors.Newf(errors.ErrInvalidInput,
				"unknown format %q: want text, json or xml", describeFormat)
		}

		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func describeText(desc template.Description) string {
	var b strings.Builder

	b.WriteString(style.TitleStyle.Render("Template"))
	b.WriteString("\n")
	b.WriteString(style.CodeStyle.Render(desc.Source))
	b.WriteString("\n\n")
	b.WriteString(style.MutedStyle.Render(
		fmt.Sprintf("delimiter %q   escape %q", desc.Delimiter, desc.Escape)))
	b.WriteString("\n")

	for i, node := range desc.Nodes {
		b.WriteString("\n")
		if node.Kind == "literal" {
			b.WriteString(fmt.Sprintf("%d. literal %q", i+1, node.Text))
			continue
		}

		label := "section"
		if node.Mandatory {
			label = "section " + style.WarningStyle.Render("(mandatory)")
		}
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, label))

		if node.Field != nil {
			field := node.Field.Name
			if node.Field.Positional {
				field = "(positional)"
			}
			b.WriteString(style.ListItemStyle.Render("field  " + style.FieldStyle.Render(field)))
			b.WriteString("\n")
		}
		if node.Prefix != "" {
			b.WriteString(style.ListItemStyle.Render(fmt.Sprintf("prefix %q", node.Prefix)))
			b.WriteString("\n")
		}
		if node.Suffix != "" {
			b.WriteString(style.ListItemStyle.Render(fmt.Sprintf("suffix %q", node.Suffix)))
			b.WriteString("\n")
		}
		for _, tok := range node.Tokens {
			b.WriteString(style.ListItemStyle.Render(
				fmt.Sprintf("token  %s%s (%s)", tok.Marker, tok.Value, tok.Kind)))
			b.WriteString("\n")
		}
	}

	if len(desc.Functions) > 0 {
		b.WriteString("\n")
		b.WriteString(style.SubtitleStyle.Render("Functions"))
		b.WriteString(" " + strings.Join(desc.Functions, ", "))
	}

	return strings.TrimRight(b.String(), "\n")
}

func describeXML(desc template.Description) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("template")
	root.CreateAttr("delimiter", desc.Delimiter)
	root.CreateAttr("escape", desc.Escape)
	root.CreateElement("source").SetText(desc.Source)

	nodes := root.CreateElement("nodes")
	for _, node := range desc.Nodes {
		if node.Kind == "literal" {
			lit := nodes.CreateElement("literal")
			lit.SetText(node.Text)
			continue
		}

		section := nodes.CreateElement("section")
		if node.Mandatory {
			section.CreateAttr("mandatory", "true")
		}
		if node.Field != nil {
			field := section.CreateElement("field")
			if node.Field.Positional {
				field.CreateAttr("positional", "true")
			} else {
				field.SetText(node.Field.Name)
			}
		}
		if node.Prefix != "" {
			section.CreateElement("prefix").SetText(node.Prefix)
		}
		if node.Suffix != "" {
			section.CreateElement("suffix").SetText(node.Suffix)
		}
		for _, tok := range node.Tokens {
			el := section.CreateElement("token")
			el.CreateAttr("kind", tok.Kind)
			el.CreateAttr("marker", tok.Marker)
			el.SetText(tok.Value)
		}
	}

	for _, fn := range desc.Functions {
		root.CreateElement("function").SetText(fn)
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode description")
	}
	return strings.TrimRight(out, "\n"), nil
}
