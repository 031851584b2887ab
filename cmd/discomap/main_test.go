package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testRecords = `[
  {"dt": 1, "chr": "chr17", "position": 7675088, "gene": "TP53", "class": "M"},
  {"dt": 2, "chrA": "chr22", "posA": 23180000, "geneA": "BCR", "chrB": "chr9", "posB": 130714000, "geneB": "ABL1"}
]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "records.json", testRecords)
	cnv := writeFile(t, dir, "cnv.gff", "chr8\tcnvkit\tcnv\t1000\t900000\t1.5\t.\t.\tgene MYC\n")
	genes := writeFile(t, dir, "genes.txt", "TP53\n")

	tests := []struct {
		format string
		check  func([]byte) bool
	}{
		{"svg", func(b []byte) bool { return bytes.Contains(b, []byte(">TP53</text>")) }},
		{"png", func(b []byte) bool { return bytes.HasPrefix(b, []byte("\x89PNG")) }},
		{"json", func(b []byte) bool {
			var v map[string]any
			return json.Unmarshal(b, &v) == nil && v["rings"] != nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out := filepath.Join(dir, "out", "plot."+tt.format)
			args := []string{"discomap", "render",
				"-input", input, "-cnv-gff", cnv, "-genes", genes,
				"-format", tt.format, "-size", "300", "-out", out}
			if err := newApp().Run(args); err != nil {
				t.Fatal(err)
			}
			got, err := os.ReadFile(out)
			if err != nil {
				t.Fatal(err)
			}
			if !tt.check(got) {
				t.Fatalf("unexpected %s output (%d bytes)", tt.format, len(got))
			}
		})
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "records.json", testRecords)
	badSettings := writeFile(t, dir, "settings.yaml", "label:\n  fontSize: 0\n")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no input", []string{"-out", filepath.Join(dir, "x.svg")}, "no records"},
		{"bad format", []string{"-input", input, "-format", "gif"}, "unknown format"},
		{"bad genome", []string{"-input", input, "-genome", "mm10"}, "unknown genome"},
		{"bad settings", []string{"-input", input, "-settings", badSettings}, "font size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"discomap", "render"}, tt.args...)
			err := newApp().Run(args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadReferenceFromChromSizes(t *testing.T) {
	dir := t.TempDir()
	sizes := writeFile(t, dir, "chrom.sizes", "chr1\t1000\nchr2\t1000\n")
	input := writeFile(t, dir, "records.json", `[{"dt":1,"chr":"chr2","position":10,"gene":"G","class":"M"}]`)
	out := filepath.Join(dir, "plot.json")
	args := []string{"discomap", "render", "-chrom-sizes", sizes, "-input", input, "-format", "json", "-out", out}
	if err := newApp().Run(args); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var vm struct {
		Rings struct {
			Chromosome struct {
				Arcs []json.RawMessage `json:"arcs"`
			} `json:"chromosome"`
		} `json:"rings"`
	}
	if err := json.Unmarshal(b, &vm); err != nil {
		t.Fatal(err)
	}
	if len(vm.Rings.Chromosome.Arcs) != 2 {
		t.Fatalf("expected 2 chromosomes, got %d", len(vm.Rings.Chromosome.Arcs))
	}
}
