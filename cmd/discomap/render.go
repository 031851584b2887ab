package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"os"

	"github.com/grailbio/base/log"
	"github.com/satindergrewal/discomap"
	"github.com/satindergrewal/discomap/internal/sink"
	"github.com/urfave/cli"
)

var contentTypes = map[string]string{
	"svg":  "image/svg+xml",
	"png":  "image/png",
	"json": "application/json",
}

func render(c *cli.Context) error {
	format := c.String("format")
	contentType, ok := contentTypes[format]
	if !ok {
		return fmt.Errorf("unknown format %q", format)
	}
	size := c.Int("size")
	if size <= 0 {
		return fmt.Errorf("size must be positive, got %d", size)
	}
	in, err := loadInputs(c)
	if err != nil {
		return err
	}
	vm := in.build()

	var buf bytes.Buffer
	if err := encode(&buf, vm, format, size); err != nil {
		return err
	}

	ctx := context.Background()
	dest := c.String("out")
	out, key, err := sink.Open(ctx, dest)
	if err != nil {
		return err
	}
	if err := out.Put(ctx, key, &buf, contentType); err != nil {
		return err
	}
	if dest != "-" {
		log.Printf("wrote %s", dest)
	}
	return nil
}

func encode(w io.Writer, vm *discomap.ViewModel, format string, size int) error {
	switch format {
	case "svg":
		return discomap.WriteSVG(w, vm, size)
	case "png":
		return png.Encode(w, discomap.RenderImage(vm, size, size))
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(vm)
	}
	return fmt.Errorf("unknown format %q", format)
}

func preview(c *cli.Context) error {
	in, err := loadInputs(c)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, discomap.Preview(in.build(), c.Int("cols")))
	return err
}
