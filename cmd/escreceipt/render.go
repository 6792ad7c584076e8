package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nullterm/escreceipt/internal/appconfig"
	"github.com/nullterm/escreceipt/internal/command"
	"github.com/nullterm/escreceipt/internal/commands"
	"github.com/nullterm/escreceipt/internal/context"
	"github.com/nullterm/escreceipt/internal/layout"
	"github.com/nullterm/escreceipt/internal/model"
	"github.com/nullterm/escreceipt/internal/parser"
	"github.com/nullterm/escreceipt/internal/render"
	"github.com/nullterm/escreceipt/internal/render/refadapter"
	"github.com/nullterm/escreceipt/internal/thermalfile"
)

func newRenderCmd() *cobra.Command {
	var outDir string
	var adapterName string
	var dpi uint16
	var width uint32
	var logLevel string
	var logFormat string

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render an ESC/POS (or .thermal text) input into page images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := viper.New()
			if cmd.Flags().Changed("dpi") {
				flags.Set("dpi", dpi)
			}
			if cmd.Flags().Changed("width") {
				flags.Set("width", width)
			}
			if cmd.Flags().Changed("adapter") {
				flags.Set("adapter", adapterName)
			}
			if cmd.Flags().Changed("log-level") {
				flags.Set("log_level", logLevel)
			}
			if cmd.Flags().Changed("log-format") {
				flags.Set("log_format", logFormat)
			}

			cfg, err := appconfig.Load("", flags)
			if err != nil {
				return err
			}
			log, err := appconfig.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			return runRender(args[0], outDir, cfg, log)
		},
	}

	cmd.Flags().StringVar(&outDir, "output", ".", "directory to write rendered page PNGs into")
	cmd.Flags().StringVar(&adapterName, "adapter", "stub", "output adapter: stub|none")
	cmd.Flags().Uint16Var(&dpi, "dpi", 203, "device DPI")
	cmd.Flags().Uint32Var(&width, "width", 576, "paper width in dots")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "zap log level")
	cmd.Flags().StringVar(&logFormat, "log-format", "console", "console|json")
	return cmd
}

func runRender(inputPath, outDir string, cfg appconfig.Config, log *zap.Logger) error {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var data []byte
	if strings.HasSuffix(inputPath, ".thermal") {
		data, err = thermalfile.Parse(string(raw))
		if err != nil {
			return fmt.Errorf("parsing thermal text file: %w", err)
		}
	} else {
		data = raw
	}

	ctx := context.NewContext(cfg.WidthDots, cfg.DPI)

	var adapter *refadapter.Adapter
	var out render.OutputRenderer
	if cfg.Adapter == "none" {
		out = noopRenderer{}
	} else {
		adapter = refadapter.New(cfg.WidthDots)
		out = adapter
	}

	r := render.New(ctx, out, log)
	r.Begin()

	p := parser.New(commands.Catalog(), commands.Default(), func(inst command.Instance) {
		r.Process(inst)
	})
	p.Feed(data)
	p.End()
	r.End()

	for _, msg := range r.Errors() {
		log.Warn("recoverable render error", zap.String("detail", msg))
	}

	if adapter == nil {
		return nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for i, page := range adapter.Pages() {
		path := filepath.Join(outDir, fmt.Sprintf("page-%03d.png", i+1))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		err = png.Encode(f, page.Canvas)
		f.Close()
		if err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		log.Info("wrote page", zap.String("path", path))
	}
	return nil
}

// noopRenderer is the "--adapter none" choice: it drives the full
// parse/context/layout pipeline (so recoverable errors still surface) but
// discards every rendered effect instead of compositing a canvas.
type noopRenderer struct{}

func (noopRenderer) BeginRender()                                                   {}
func (noopRenderer) EndRender()                                                     {}
func (noopRenderer) PageBegin()                                                     {}
func (noopRenderer) PageAreaChanged(rotation context.Rotation, width, height uint32) {}
func (noopRenderer) PageEnd()                                                       {}
func (noopRenderer) RenderPage(pixelWidth, pixelHeight uint32)                      {}
func (noopRenderer) RenderGraphics(rects []model.Rectangle)                         {}
func (noopRenderer) RenderImage(img model.GraphicsEvent)                            {}
func (noopRenderer) RenderText(line layout.Line, y uint32)                          {}
func (noopRenderer) DeviceCommand(cmd command.DeviceCommand)                        {}
