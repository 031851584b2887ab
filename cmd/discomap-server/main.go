// Command discomap-server serves disco plot layouts over HTTP.
//
//	POST /api/viewmodel   records in, view-model JSON out
//	POST /api/svg         records in, SVG out (?size=800)
//	GET  /healthz
//	GET  /metrics         Prometheus metrics
//
// Both POST endpoints accept ?genes=TP53,KRAS to prioritize genes for one
// request.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/grailbio/base/log"
	"github.com/satindergrewal/discomap"
	"github.com/satindergrewal/discomap/internal/sink"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "discomap-server"
	app.Usage = "serve disco plot layouts over HTTP"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "port, p", Value: 8080, Usage: "HTTP listen port"},
		cli.StringFlag{Name: "genome, g", Value: "hg38", Usage: "built-in genome (hg38, hg19)"},
		cli.StringFlag{Name: "settings", Usage: "YAML settings file"},
		cli.StringFlag{Name: "classes", Usage: "YAML mutation class table"},
		cli.StringFlag{Name: "genes", Usage: "default prioritized gene list"},
		cli.StringFlag{Name: "archive", Usage: "directory or s3://bucket/prefix/ receiving every rendered SVG"},
	}
	app.Action = serve
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("discomap-server: %v", err)
	}
}

func withFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func newServer(ctx context.Context, c *cli.Context) (*server, error) {
	ref, err := discomap.ReferenceByName(c.String("genome"))
	if err != nil {
		return nil, err
	}
	s := &server{
		ref:      ref,
		settings: discomap.DefaultSettings(),
		classes:  discomap.DefaultClassTable(),
		genes:    discomap.GeneSet{},
		metrics:  newMetrics(),
	}
	if path := c.String("settings"); path != "" {
		if s.settings, err = withFile(path, discomap.LoadSettings); err != nil {
			return nil, err
		}
	}
	if path := c.String("classes"); path != "" {
		if s.classes, err = withFile(path, discomap.ReadClassTable); err != nil {
			return nil, err
		}
	}
	if path := c.String("genes"); path != "" {
		if s.genes, err = withFile(path, discomap.ReadGeneSet); err != nil {
			return nil, err
		}
	}
	if err := s.settings.Validate(); err != nil {
		return nil, err
	}
	if s.measurer, err = discomap.NewFontMeasurer(s.settings.Label.FontSize); err != nil {
		return nil, err
	}
	if dest := c.String("archive"); dest != "" {
		if s.archive, s.archivePrefix, err = sink.OpenPrefix(ctx, dest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func serve(c *cli.Context) error {
	ctx := context.Background()
	s, err := newServer(ctx, c)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", c.Int("port")),
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("discomap-server: %d chromosomes, listening on %s", len(s.ref.Chromosomes), srv.Addr)
	return srv.ListenAndServe()
}
