// Command discomap lays out a disco mutation plot from JSON records and GFF
// segments and writes it as SVG, PNG or view-model JSON, or previews it in the
// terminal.
//
// Usage:
//
//	discomap render -input mutations.json -cnv-gff cnv.gff -genes genes.txt -out plot.svg
//	discomap render -input mutations.json -format png -out s3://plots/run1/plot.png
//	discomap preview -input mutations.json
package main

import (
	"os"

	"github.com/grailbio/base/log"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("discomap: %v", err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "discomap"
	app.Usage = "lay out circular genome mutation maps"
	app.Commands = []cli.Command{
		{
			Name:   "render",
			Usage:  "render a plot to a file, standard output or s3://bucket/key",
			Flags:  append(inputFlags(), renderFlags()...),
			Action: render,
		},
		{
			Name:   "preview",
			Usage:  "print a braille preview of a plot",
			Flags:  append(inputFlags(), cli.IntFlag{Name: "cols", Value: 60, Usage: "preview width in terminal cells"}),
			Action: preview,
		},
	}
	return app
}

func inputFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{Name: "genome, g", Value: "hg38", Usage: "built-in genome (hg38, hg19)"},
		cli.StringFlag{Name: "chrom-sizes", Usage: "chrom.sizes table; overrides -genome"},
		cli.StringFlag{Name: "settings", Usage: "YAML settings file"},
		cli.StringFlag{Name: "classes", Usage: "YAML mutation class table merged over the defaults"},
		cli.StringFlag{Name: "genes", Usage: "prioritized gene list, one symbol per line"},
		cli.StringFlag{Name: "input, i", Usage: "JSON records (array, or object with mlst/records)"},
		cli.StringFlag{Name: "cnv-gff", Usage: "copy-number segments as GFF (score = value)"},
		cli.StringFlag{Name: "loh-gff", Usage: "LOH segments as GFF"},
	}
}

func renderFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{Name: "format, f", Value: "svg", Usage: "svg, png or json"},
		cli.StringFlag{Name: "out, o", Value: "-", Usage: "file path, s3://bucket/key, or - for stdout"},
		cli.IntFlag{Name: "size", Value: 800, Usage: "image size in pixels (square)"},
	}
}
