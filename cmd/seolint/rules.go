package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/foomo/seolint/config"
	"github.com/foomo/seolint/htmlschema"
	"github.com/spf13/cobra"
)

func newRulesCommand() *cobra.Command {
	var key string
	var dump bool
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the configured rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, rules, errConf := loadConfig(cmd, key)
			if errConf != nil {
				return errConf
			}
			forest, errBuild := htmlschema.Build(rules)
			if errBuild != nil {
				return errBuild
			}
			if dump {
				spew.Fdump(cmd.OutOrStdout(), forest)
				return nil
			}
			printForest(cmd.OutOrStdout(), forest)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", config.DefaultRulesKey, "config entry holding the rules")
	cmd.Flags().BoolVar(&dump, "dump", false, "dump the built rules")
	return cmd
}

func printForest(w io.Writer, forest *htmlschema.Forest) {
	for _, tag := range forest.Tags() {
		for _, rule := range forest.Rules(tag) {
			printRule(w, rule.TagName, htmlschema.Spec{
				Required: rule.Required,
				Max:      rule.Max,
				Min:      rule.Min,
				Attrs:    rule.Attrs,
				Children: rule.Children,
			}, 0)
		}
	}
}

func printRule(w io.Writer, tag string, spec htmlschema.Spec, depth int) {
	parts := []string{"<" + tag + ">"}
	if spec.Required {
		parts = append(parts, "required")
	}
	if spec.Min != nil {
		parts = append(parts, fmt.Sprintf("min=%d", *spec.Min))
	}
	if spec.Max != nil {
		parts = append(parts, fmt.Sprintf("max=%d", *spec.Max))
	}
	for _, attr := range spec.Attrs {
		a := "[" + attr.Name
		if attr.Value != "" {
			a += "='" + attr.Value + "'"
		}
		if attr.Required {
			a += " required"
		}
		if attr.Min > 0 {
			a += fmt.Sprintf(" min=%d", attr.Min)
		}
		parts = append(parts, a+"]")
	}
	fmt.Fprintln(w, strings.Repeat("  ", depth)+strings.Join(parts, " "))
	for _, child := range spec.Children {
		printRule(w, child.Tag, child.Spec, depth+1)
	}
}
