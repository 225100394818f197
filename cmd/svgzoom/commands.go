package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benoitkugler/svgzoom/svgdoc"
	"github.com/benoitkugler/svgzoom/svglive"
	"github.com/benoitkugler/svgzoom/svgraster"
	"github.com/spf13/cobra"
)

func newPrepareCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "prepare INPUT",
		Short: "Prepare a document for embedding",
		Long: `Removes the fixed width and height of the document, so that it fills
its container, and resets the transform of the graph layer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(args[0])
			if err != nil {
				return err
			}
			surface, err := doc.Surface(a.cfg.Layer)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			surface.Initialize(doc.StripFixedSize())
			return writeDocument(doc, output, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newApplyCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "apply INPUT OPERATION...",
		Short: "Apply pan and zoom operations to a document",
		Long: `Initializes the view of the document and applies the operations in order.
Operations are "pan:DX,DY", "zoom:FACTOR", "in" and "out".`,
		Example: `  svgzoom apply graph.svg pan:10,-5 zoom:2 -o zoomed.svg`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, view, err := a.view(args[0])
			if err != nil {
				return err
			}
			if err := applyOps(view, args[1:]); err != nil {
				return err
			}
			return writeDocument(doc, output, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newInspectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect INPUT",
		Short: "Print the dimensions and the view of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(args[0])
			if err != nil {
				return err
			}
			surface, err := doc.Surface(a.cfg.Layer)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			layer := surface.Graph.(*svgdoc.Element)
			id, _ := layer.Attribute("id")
			transform, _ := layer.Attribute("transform")
			m, err := layer.Transform()
			if err != nil {
				return fmt.Errorf("layer %q: %w", id, err)
			}
			dims := doc.Dimensions()
			w, h := dims.Parse()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "width:     %s (%v)\n", dims.Width, w)
			fmt.Fprintf(out, "height:    %s (%v)\n", dims.Height, h)
			fmt.Fprintf(out, "layer:     %s\n", id)
			fmt.Fprintf(out, "transform: %s\n", transform)
			fmt.Fprintf(out, "matrix:    %v %v %v %v %v %v\n", m.A, m.B, m.C, m.D, m.E, m.F)
			return nil
		},
	}
}

func newMinimapCommand(a *app) *cobra.Command {
	var (
		output string
		size   int
	)
	cmd := &cobra.Command{
		Use:   "minimap INPUT [OPERATION...]",
		Short: "Render an overview of the view as a PNG image",
		Long: `Initializes the view of the document, applies the operations and draws
the graph extent and the visible viewport.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return errors.New("missing output file (-o)")
			}
			if size == 0 {
				size = a.cfg.Minimap.Size
			}
			_, view, err := a.view(args[0])
			if err != nil {
				return err
			}
			if err := applyOps(view, args[1:]); err != nil {
				return err
			}
			img := svgraster.RenderOverview(view.State(), size)

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := svgraster.WritePNG(f, img); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			slog.Info("overview written", "file", output, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG file")
	cmd.Flags().IntVar(&size, "size", 0, "image width in pixels (overrides the configuration)")
	return cmd
}

func newServeCommand(a *app) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve INPUT",
		Short: "Serve a document in a live pan and zoom viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Serve.Addr = addr
			}
			if cmd.Flags().Changed("watch") {
				a.cfg.Serve.Watch = watch
			}
			if err := exists(args[0]); err != nil {
				return err
			}
			return a.serve(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides the configuration)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the viewers when the file changes")
	return cmd
}

func (a *app) serve(ctx context.Context, file string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := svglive.NewServer(func() (*svgdoc.Document, error) { return a.readDocument(file) },
		svglive.Options{LayerID: a.cfg.Layer, ZoomStep: a.cfg.ZoomStep, Logger: slog.Default()})
	if err != nil {
		return err
	}

	if a.cfg.Serve.Watch {
		watcher, err := server.WatchFile(file)
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				slog.Error("watcher stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{Addr: a.cfg.Serve.Addr, Handler: server.Handler()}
	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("serving", "url", "http://"+a.cfg.Serve.Addr, "file", file, "watch", a.cfg.Serve.Watch)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
