package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/NarendraaP/Epistemic-Engine/internal/catalog"
)

// Stars with no magnitude in the upstream catalog are treated as this
// faint; they never make a parent LOD cut but are not dropped.
const defaultMagnitude = 15.0

var ingestSelector string

var ingestCmd = &cobra.Command{
	Use:   "ingest [catalog.json] [catalog.db]",
	Short: "Load a JSON star catalog into the SQLite database",
	Long: `Ingest parses a JSON catalog, selects star records with a JSONPath
expression, and bulk-loads them into the SQLite catalog the export
command reads. Each selected record needs numeric "x", "y", "z"
coordinates in meters and a "provenance" label; "magnitude" defaults
to 15.0 when absent.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, output := args[0], args[1]

		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		root, err := oj.Parse(data)
		if err != nil {
			return fmt.Errorf("parse catalog json: %w", err)
		}
		sel, err := jp.ParseString(ingestSelector)
		if err != nil {
			return fmt.Errorf("invalid jsonpath %q: %w", ingestSelector, err)
		}
		records := sel.Get(root)
		if len(records) == 0 {
			return fmt.Errorf("selector %q matched no records in %s", ingestSelector, input)
		}

		_ = os.Remove(output) // rebuild from scratch
		writer, err := catalog.NewWriter(output)
		if err != nil {
			return err
		}
		defer func() { _ = writer.Close() }()

		start := time.Now()
		for i, rec := range records {
			point, err := pointFromRecord(rec)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			if err := writer.Add(point); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
		}
		fmt.Printf("Ingested %d stars into %s in %v.\n", writer.Count(), output, time.Since(start))
		return nil
	},
}

// pointFromRecord maps one selected JSON object to a catalog point.
// Provenance is mandatory and must be a known label; a record without
// it is rejected, never defaulted.
func pointFromRecord(rec any) (catalog.Point, error) {
	obj, ok := rec.(map[string]any)
	if !ok {
		return catalog.Point{}, fmt.Errorf("expected object, got %T", rec)
	}

	var p catalog.Point
	for _, axis := range []struct {
		key string
		dst *float64
	}{{"x", &p.X}, {"y", &p.Y}, {"z", &p.Z}} {
		v, err := numberField(obj, axis.key)
		if err != nil {
			return catalog.Point{}, err
		}
		*axis.dst = v
	}

	if _, present := obj["magnitude"]; present {
		mag, err := numberField(obj, "magnitude")
		if err != nil {
			return catalog.Point{}, err
		}
		p.Magnitude = float32(mag)
	} else {
		p.Magnitude = defaultMagnitude
	}

	label, ok := obj["provenance"].(string)
	if !ok {
		return catalog.Point{}, fmt.Errorf("missing or non-string provenance")
	}
	prov, err := catalog.ParseProvenance(label)
	if err != nil {
		return catalog.Point{}, err
	}
	p.Provenance = prov
	return p, nil
}

func numberField(obj map[string]any, key string) (float64, error) {
	switch v := obj[key].(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case nil:
		return 0, fmt.Errorf("missing field %q", key)
	default:
		return 0, fmt.Errorf("field %q: expected number, got %T", key, v)
	}
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSelector, "selector", "$[*]", "JSONPath expression selecting star records")
	rootCmd.AddCommand(ingestCmd)
}
