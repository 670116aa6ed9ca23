package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lorentz/internal/analysis"
	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/export"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/storage"
	"github.com/san-kum/lorentz/internal/viz"
	"github.com/spf13/cobra"
)

var (
	particleIdx   int
	phaseParticle int
	velocity      bool
	svgWidth      int
	svgHeight     int
	braille       bool
)

const maxPlots = 4

// runCommands are the commands that read a stored run.
func runCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot x, y and speed against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&particleIdx, "particle", -1, "particle index (-1 = first few)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "trajectory or hodograph of one particle",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&phaseParticle, "particle", 0, "particle index")
	phaseCmd.Flags().BoolVar(&velocity, "velocity", false, "plot vx against vy")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render regions and trails to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "width (pixels, or cells with --braille)")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "height (pixels, or cells with --braille)")
	exportSVGCmd.Flags().BoolVar(&braille, "braille", false, "render the terminal canvas look")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "compare measured gyration with theory",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	return []*cobra.Command{listCmd, plotCmd, phaseCmd, exportCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, analyzeCmd}
}

func loadRun(runID string) (*storage.RunMetadata, []dynamo.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, frames, nil
}

// output opens outFile, or stdout when it is empty.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tINTEG\tTICKS\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\t%.1e\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Ticks,
			run.SpeedDrift,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	n := len(frames[0].Kinematics)
	indices := []int{particleIdx}
	if particleIdx < 0 {
		indices = indices[:0]
		for i := 0; i < n && i < maxPlots; i++ {
			indices = append(indices, i)
		}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", len(frames))

	for _, column := range []string{"x", "y", "speed"} {
		data := make([][]float64, 0, len(indices))
		for _, idx := range indices {
			series, err := storage.Series(frames, idx, column)
			if err != nil {
				return err
			}
			data = append(data, series)
		}
		graph := asciigraph.PlotMany(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue, asciigraph.Green, asciigraph.Yellow),
			asciigraph.Caption(fmt.Sprintf("%s vs time (particles %v)", column, indices)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	kind, axes := analysis.Position, "x vs y"
	if velocity {
		kind, axes = analysis.Velocity, "vx vs vy"
	}
	portrait := analysis.GeneratePortrait(frames, phaseParticle, kind)
	if portrait == nil {
		return fmt.Errorf("particle %d out of range", phaseParticle)
	}

	fmt.Printf("phase plot: %s\n", meta.ID)
	fmt.Printf("particle %d, %s\n\n", phaseParticle, axes)
	fmt.Print(analysis.PortraitToASCII(portrait, 70, 24))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if outFile != "" {
		return storage.ExportJSON(outFile, *meta, frames)
	}
	return storage.ExportJSONStdout(*meta, frames)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	return storage.WriteCSV(w, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var (
		regions []field.Region
		ids     []string
		colors  []string
	)
	if meta.Scene != nil {
		for i, r := range meta.Scene.Regions {
			regions = append(regions, r.Region(i))
		}
		for _, p := range meta.Scene.Particles {
			ids = append(ids, p.ID)
			colors = append(colors, p.Color)
		}
	}
	trails := export.TrailsFromFrames(frames, ids, colors)

	var svg string
	if braille {
		paths := make([][]dynamo.Vec2, len(trails))
		palette := make([]lipgloss.Color, len(trails))
		for i, tr := range trails {
			paths[i] = tr.Points
			palette[i] = lipgloss.Color(tr.Color)
		}
		svg = export.CanvasToSVG(viz.RenderStatic(regions, paths, palette, svgWidth/8, svgHeight/16), 4)
	} else {
		svg = export.SceneToSVG(regions, trails, svgWidth, svgHeight)
	}
	if svg == "" {
		return fmt.Errorf("nothing to draw")
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = io.WriteString(w, svg+"\n")
	return err
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if meta.Scene == nil {
		return fmt.Errorf("run %s has no scene recorded", meta.ID)
	}
	regions, particles, err := meta.Scene.Build(1)
	if err != nil {
		return err
	}
	sampler := field.Regions(regions)

	sampleDt := meta.Dt
	if len(frames) > 1 {
		sampleDt = frames[1].Time - frames[0].Time
	}

	fmt.Printf("gyration analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s, integrator: %s\n\n", meta.Name, meta.Integrator)

	vx, err := storage.Series(frames, 0, "vx")
	if err != nil {
		return err
	}
	if ps := analysis.PowerSpectrum(vx); len(ps) > 8 {
		graph := asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum of vx (particle 0)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLE\tBZ\tF_THEORY\tF_FFT\tT_THEORY\tT_MEASURED\tR_THEORY\tR_MEASURED\tDRIFT_THEORY\tDRIFT_MEASURED")
	for i, p := range particles {
		if i >= len(frames[0].Kinematics) {
			break
		}
		f := sampler.Sample(p.Pos)
		series, _ := storage.Series(frames, i, "vx")
		measured := analysis.DominantFrequency(series, sampleDt)

		portrait := analysis.GeneratePortrait(frames, i, analysis.Position)
		_, _, radius := analysis.Extent(portrait.Points)

		crossings := analysis.GenerateCrossings(frames, i)
		period, okPeriod := crossings.MeanPeriod()
		drift, okDrift := crossings.MeanDrift()

		theoryDrift := analysis.DriftVelocity(f)
		speed := p.Vel.Sub(theoryDrift).Norm()

		fmt.Fprintf(w, "%s\t%g\t%.4f\t%.4f\t%s\t%s\t%s\t%.3f\t%s\t%s\n",
			p.ID,
			f.Bz,
			analysis.CyclotronFrequency(p.Charge, p.Mass, f.Bz),
			measured,
			fmtFinite(analysis.CyclotronPeriod(p.Charge, p.Mass, f.Bz)),
			fmtOK(period, okPeriod),
			fmtFinite(analysis.GyroRadius(p.Charge, p.Mass, speed, f.Bz)),
			radius,
			theoryDrift,
			fmtVecOK(drift, okDrift),
		)
	}
	return w.Flush()
}

func fmtFinite(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}

func fmtOK(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}

func fmtVecOK(v dynamo.Vec2, ok bool) string {
	if !ok {
		return "-"
	}
	return v.String()
}
