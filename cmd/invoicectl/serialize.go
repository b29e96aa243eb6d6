package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/einvoice/internal/entity"
	"github.com/joseph-ayodele/einvoice/internal/ubl"
)

func newSerializeCmd(c *cli) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "serialize RECORD.json",
		Short: "Render a reviewed invoice record as a UBL 2.1 XML document (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readRecord(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if out != "" {
				return writeXML(out, &rec)
			}
			data, err := ubl.Generate(&rec)
			if err != nil {
				return err
			}
			_, err = c.out.Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

func readRecord(stdin io.Reader, path string) (entity.InvoiceRecord, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return entity.InvoiceRecord{}, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return entity.InvoiceRecord{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return entity.RecordFromMap(m)
}
