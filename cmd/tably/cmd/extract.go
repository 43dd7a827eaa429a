package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docstruct/tably/internal/extract"
	"github.com/docstruct/tably/internal/ocr"
	"github.com/docstruct/tably/internal/overlay"
	"github.com/docstruct/tably/internal/template"
)

// extractCmd represents the extract command.
var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Reconstruct tables from OCR token dumps",
	Long: `Reconstruct the table of one or more recognition-result JSON files.

Each input file holds the external OCR service's output: pages with pixel
dimensions and recognized words with bounding boxes. Without a template the
columns come from geometric clustering; with --template they come from the
template's zones, and name-typed columns are normalized.

Examples:
  tably extract scan.json
  tably extract scan.json --template roster.yaml --format csv
  tably extract scan.json -o table.json --overlay-dir debug/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	templatePath := cfg.Extract.TemplatePath
	if cmd.Flags().Changed("template") {
		templatePath, _ = cmd.Flags().GetString("template")
	}
	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}
	yTol := cfg.Extract.YTolerance
	if cmd.Flags().Changed("y-tolerance") {
		yTol, _ = cmd.Flags().GetFloat64("y-tolerance")
	}
	xThresh := cfg.Extract.XThreshold
	if cmd.Flags().Changed("x-threshold") {
		xThresh, _ = cmd.Flags().GetFloat64("x-threshold")
	}
	workers := cfg.Extract.Parallel.MaxWorkers
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}
	overlayDir := cfg.Output.OverlayDir
	if cmd.Flags().Changed("overlay-dir") {
		overlayDir, _ = cmd.Flags().GetString("overlay-dir")
	}
	outPath, _ := cmd.Flags().GetString("output")
	if outPath != "" && len(args) > 1 {
		return fmt.Errorf("--output is only valid with a single input file")
	}

	ecfg := extract.Config{YTolerance: yTol, XThreshold: xThresh}
	if templatePath != "" {
		t, err := template.Load(templatePath)
		if err != nil {
			return err
		}
		if overlaps := t.Overlapping(); len(overlaps) > 0 {
			slog.Warn("template has overlapping zones", "template", t.Name, "pairs", overlaps)
		}
		ecfg.Template = t
	}
	extractor := extract.New(ecfg)

	for _, path := range args {
		if err := extractFile(cmd, extractor, path, format, outPath, overlayDir, workers); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// extractFile reconstructs one document and writes its table.
func extractFile(cmd *cobra.Command, extractor *extract.Extractor, path, format, outPath, overlayDir string, workers int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	doc, err := ocr.DecodeDocument(f)
	_ = f.Close()
	if err != nil {
		return err
	}
	if doc.Filename == "" {
		doc.Filename = filepath.Base(path)
	}

	slog.Info("reconstructing document",
		"file", path, "pages", len(doc.Pages), "words", doc.TotalWords())

	result, err := extractor.ProcessDocumentParallel(cmd.Context(), doc,
		extract.ParallelConfig{MaxWorkers: workers})
	if err != nil {
		return err
	}

	if overlayDir != "" {
		if err := writeOverlays(doc, result, extractor, overlayDir); err != nil {
			return err
		}
	}

	var out string
	switch format {
	case "csv":
		out, err = extract.ToCSV(result)
	default:
		out, err = extract.ToJSON(result)
	}
	if err != nil {
		return err
	}

	if outPath != "" {
		return os.WriteFile(outPath, []byte(out), 0o600)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// writeOverlays renders one debug overlay PNG per page into dir.
func writeOverlays(doc *ocr.Document, result *extract.Result, extractor *extract.Extractor, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	base := strings.TrimSuffix(doc.Filename, filepath.Ext(doc.Filename))
	for i, page := range doc.Pages {
		if i >= len(result.Pages) {
			break
		}
		img := overlay.Render(nil, page, result.Pages[i], extractor.ZoneDefs(), overlay.DefaultOptions())
		name := filepath.Join(dir, fmt.Sprintf("%s-p%d.png", base, page.PageNumber))
		if err := overlay.Save(img, name); err != nil {
			return err
		}
		slog.Debug("wrote overlay", "file", name)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("template", "t", "", "zone template YAML file")
	extractCmd.Flags().StringP("format", "f", "json", "output format: json or csv")
	extractCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	extractCmd.Flags().Float64("y-tolerance", 10, "row matching tolerance in pixels")
	extractCmd.Flags().Float64("x-threshold", 50, "column gap threshold in pixels (geometric mode)")
	extractCmd.Flags().Int("workers", 0, "parallel page workers (0 = all CPUs)")
	extractCmd.Flags().String("overlay-dir", "", "write per-page debug overlay PNGs into this directory")
}
