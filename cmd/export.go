package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/NarendraaP/Epistemic-Engine/internal/catalog"
	"github.com/NarendraaP/Epistemic-Engine/internal/config"
	"github.com/NarendraaP/Epistemic-Engine/internal/octree"
)

var (
	exportDB     string
	exportFilter string
	maxPoints    int
	maxDepth     int
	lodFraction  float64
	workers      int
)

var exportCmd = &cobra.Command{
	Use:   "export [output-dir]",
	Short: "Export the star catalog as a binary LOD octree",
	Long: `Export reads the SQLite star catalog and writes one binary file per
octree node into the output directory. Parent nodes keep the brightest
fraction of their points; leaves keep everything. Tree position is
encoded in the file names, so no manifest is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir := args[0]

		cfg := octree.DefaultConfig()
		db := exportDB
		if cfgPath != "" {
			file, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			file.Apply(&cfg, &db)
		}

		// Flags override the config file.
		flags := cmd.Flags()
		if flags.Changed("max-points") {
			cfg.MaxPointsPerNode = maxPoints
		}
		if flags.Changed("max-depth") {
			cfg.MaxDepth = maxDepth
		}
		if flags.Changed("lod-fraction") {
			cfg.LODFraction = lodFraction
		}
		if flags.Changed("workers") {
			cfg.Workers = workers
		}
		if flags.Changed("db") {
			db = exportDB
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		var filter *catalog.Provenance
		if exportFilter != "" {
			p, err := catalog.ParseProvenance(exportFilter)
			if err != nil {
				return err
			}
			filter = &p
		}

		source, err := catalog.OpenSQLite(db, filter)
		if err != nil {
			return err
		}
		defer func() { _ = source.Close() }()

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		builder, err := octree.NewBuilder(cfg, source, osfs.New(outDir))
		if err != nil {
			return err
		}

		fmt.Printf("Exporting octree from %s to %s...\n", db, outDir)
		start := time.Now()
		stats, err := builder.Build(cmd.Context())
		if err != nil {
			// The error names the deepest node reached; the files
			// already written stay, but the tree is not complete.
			return fmt.Errorf("build aborted, output tree is incomplete: %w", err)
		}
		fmt.Printf("Done in %v.\n", time.Since(start))
		fmt.Println(oj.JSON(stats, 2))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDB, "db", "catalog.db", "Path to SQLite star catalog")
	exportCmd.Flags().StringVar(&exportFilter, "provenance", "", "Only export this provenance class (OBSERVED, INFERRED or SIMULATED)")
	exportCmd.Flags().IntVar(&maxPoints, "max-points", 50000, "Split threshold in points per node")
	exportCmd.Flags().IntVar(&maxDepth, "max-depth", 5, "Maximum octree depth")
	exportCmd.Flags().Float64Var(&lodFraction, "lod-fraction", 0.10, "Brightest fraction kept in parent nodes")
	exportCmd.Flags().IntVar(&workers, "workers", 0, "Concurrent node workers (default: number of CPUs)")
	rootCmd.AddCommand(exportCmd)
}
