package main

import (
	"fmt"
	"io"
	"os"

	"github.com/grailbio/base/log"
	"github.com/satindergrewal/discomap"
	"github.com/urfave/cli"
)

// inputs is everything read from the command line before layout.
type inputs struct {
	builder *discomap.Builder
	records []discomap.Record
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

func loadReference(c *cli.Context) (*discomap.Reference, error) {
	if path := c.String("chrom-sizes"); path != "" {
		sizes, err := withFile(path, discomap.ReadChromSizes)
		if err != nil {
			return nil, err
		}
		return discomap.NewReference(sizes, discomap.FullCircle)
	}
	return discomap.ReferenceByName(c.String("genome"))
}

func loadInputs(c *cli.Context) (*inputs, error) {
	ref, err := loadReference(c)
	if err != nil {
		return nil, err
	}

	settings := discomap.DefaultSettings()
	if path := c.String("settings"); path != "" {
		if settings, err = withFile(path, discomap.LoadSettings); err != nil {
			return nil, err
		}
	}

	var opts []discomap.Option
	if path := c.String("classes"); path != "" {
		classes, err := withFile(path, discomap.ReadClassTable)
		if err != nil {
			return nil, err
		}
		opts = append(opts, discomap.WithClassTable(classes))
	}
	if path := c.String("genes"); path != "" {
		genes, err := withFile(path, discomap.ReadGeneSet)
		if err != nil {
			return nil, err
		}
		opts = append(opts, discomap.WithGeneSet(genes))
	}
	builder, err := discomap.NewBuilder(ref, settings, opts...)
	if err != nil {
		return nil, err
	}

	in := &inputs{builder: builder}
	if path := c.String("input"); path != "" {
		records, err := withFile(path, discomap.ReadRecords)
		if err != nil {
			return nil, err
		}
		in.records = append(in.records, records...)
	}
	for _, seg := range []struct {
		flag     string
		category discomap.Category
	}{
		{"cnv-gff", discomap.CopyNumber},
		{"loh-gff", discomap.LossOfHeterozygosity},
	} {
		category := seg.category
		path := c.String(seg.flag)
		if path == "" {
			continue
		}
		segments, err := withFile(path, func(r io.Reader) ([]discomap.Record, error) {
			return discomap.ReadSegments(r, category)
		})
		if err != nil {
			return nil, err
		}
		in.records = append(in.records, segments...)
	}
	if len(in.records) == 0 {
		return nil, fmt.Errorf("no records: pass -input, -cnv-gff or -loh-gff")
	}
	return in, nil
}

// build lays out the inputs and reports skipped records.
func (in *inputs) build() *discomap.ViewModel {
	vm := in.builder.Build(in.records)
	for _, d := range vm.Diagnostics {
		log.Error.Printf("skipped %v", d)
	}
	log.Printf("%d records, %d rings, %d labels, %d skipped",
		len(in.records), len(vm.Rings.Data()), len(vm.Rings.Labels.Labels), len(vm.Diagnostics))
	return vm
}
