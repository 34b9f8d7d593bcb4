package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v4"

	"github.com/artem13815/resumepay/pkg/composer"
	"github.com/artem13815/resumepay/pkg/render/pdf"
	"github.com/artem13815/resumepay/pkg/resume"
)

//nolint:gochecknoglobals // Cobra boilerplate
var renderTemplate string

//nolint:gochecknoglobals // Cobra boilerplate
var renderOut string

//nolint:gochecknoglobals // Cobra boilerplate
var renderUncompressed bool

//nolint:gochecknoglobals // Cobra boilerplate
var renderCmd = &cobra.Command{
	Use:   "render <resume.json|resume.yaml>",
	Short: "Render resume data to PDF without an order",
	Long: `Render resume data straight to a PDF file. No order is created and no
payment is checked; this is for previewing templates.

Example:
  resumectl render ana.yaml --template modern --out ana.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "classic", "Template: classic or modern")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output file (default: input name with .pdf)")
	renderCmd.Flags().BoolVar(&renderUncompressed, "uncompressed", false, "Write uncompressed PDF streams")
}

func runRender(cmd *cobra.Command, args []string) (err error) {
	in := args[0]
	var data resume.ResumeData
	data, err = loadResume(in)
	if err != nil {
		return err
	}

	tmpl := resume.NormalizeTemplate(renderTemplate)
	var instrs []composer.Instruction
	instrs, err = composer.Compose(data, tmpl)
	if err != nil {
		return errors.Wrap(err, "compose")
	}

	var buf bytes.Buffer
	err = pdf.Render(&buf, instrs, pdf.Meta{Title: "Currículo", Author: data.PersonalInfo.Name}, pdf.WithCompression(!renderUncompressed))
	if err != nil {
		return errors.Wrap(err, "render pdf")
	}

	out := renderOut
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".pdf"
	}
	err = os.WriteFile(out, buf.Bytes(), 0o644)
	if err != nil {
		return errors.Wrapf(err, "write %s", out)
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d instructions, template %s\n", len(instrs), tmpl)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, buf.Len())
	return nil
}

// loadResume reads resume data as YAML for .yaml/.yml files and JSON otherwise.
func loadResume(path string) (data resume.ResumeData, err error) {
	var raw []byte
	raw, err = os.ReadFile(path)
	if err != nil {
		return data, errors.Wrapf(err, "read %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &data)
	default:
		err = json.Unmarshal(raw, &data)
	}
	if err != nil {
		return data, errors.Wrapf(err, "decode %s", path)
	}
	return data, nil
}
