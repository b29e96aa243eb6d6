package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/einvoice/internal/entity"
	"github.com/joseph-ayodele/einvoice/internal/extract"
	"github.com/joseph-ayodele/einvoice/internal/ubl"
)

func newExtractCmd(c *cli) *cobra.Command {
	var xmlOut string
	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Extract an invoice record from a PDF or text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.Service.ExtractFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if xmlOut != "" {
				if err := writeXML(xmlOut, &resp.Record); err != nil {
					return err
				}
				c.logger.Info("xml written", "path", xmlOut)
			}
			return c.printJSON(resp.Record)
		},
	}
	cmd.Flags().StringVar(&xmlOut, "xml", "", "also write the UBL document to this path")
	return cmd
}

func newTextCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "text FILE",
		Short: "Print the text the document adapter extracts from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdf, err := extract.NewPDFBackend(c.cfg.Extract.PDFBackend, c.logger)
			if err != nil {
				return err
			}
			res, err := extract.NewAdapter(pdf, c.cfg.Extract.MaxTextLen, c.logger).ExtractFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c.logger.Info("text extracted", "method", res.Method, "pages", res.Pages, "warnings", res.Warnings)
			_, err = fmt.Fprintln(c.out, res.Text)
			return err
		},
	}
}

func writeXML(path string, rec *entity.InvoiceRecord) error {
	data, err := ubl.Generate(rec)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
