package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/scene"
	"github.com/Faultbox/meshkit/pkg/formats"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// writeOutput writes the built mesh in the configured format. When the
// mesh goes to a file, a summary table is printed to stdout.
func writeOutput(out config.OutputConfig, name string, res *scene.Result, log *zap.Logger, stdout io.Writer) error {
	toStdout := out.Path == "" || out.Path == "-"

	var buf bytes.Buffer
	switch out.Format {
	case config.FormatRaw:
		if err := formats.WriteVertices(&buf, res.Vertices); err != nil {
			return err
		}
	case config.FormatMSH:
		if _, err := formats.NewMSH(name, res.Vertices).WriteTo(&buf); err != nil {
			return err
		}
	case config.FormatSTL:
		if err := formats.WriteSTL(&buf, name, res.Vertices); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", out.Format)
	}

	if toStdout {
		if _, err := stdout.Write(buf.Bytes()); err != nil {
			return err
		}
	} else {
		if dir := filepath.Dir(out.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(out.Path, buf.Bytes(), 0644); err != nil {
			return err
		}
	}

	log.Info("mesh written",
		zap.String("format", out.Format),
		zap.String("path", out.Path),
		zap.Int("vertices", len(res.Vertices)),
		zap.Int("bytes", buf.Len()))

	if toStdout {
		return nil
	}
	rows := [][]string{{"Object", "Vertices", "Triangles", "Min", "Max", "Time"}}
	for _, obj := range res.Objects {
		rows = append(rows, []string{
			obj.Name,
			strconv.Itoa(len(obj.Vertices)),
			strconv.Itoa(len(obj.Vertices) / 3),
			formatVec(obj.Bounds.Min),
			formatVec(obj.Bounds.Max),
			obj.Elapsed.Round(time.Microsecond).String(),
		})
	}
	return printTable(stdout, rows)
}

// meshInfo describes a mesh file for the stats command.
type meshInfo struct {
	format    string
	name      string
	vertices  int
	triangles int
	bounds    mesh.Bounds
}

func cmdStats(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Usage: meshtool stats <file>...")
		return errUsage
	}

	rows := [][]string{{"File", "Format", "Name", "Vertices", "Triangles", "Min", "Max"}}
	for _, path := range fs.Args() {
		info, err := readMeshInfo(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		rows = append(rows, []string{
			path,
			info.format,
			info.name,
			strconv.Itoa(info.vertices),
			strconv.Itoa(info.triangles),
			formatVec(info.bounds.Min),
			formatVec(info.bounds.Max),
		})
	}
	return printTable(stdout, rows)
}

// readMeshInfo detects the format of a file by its magic or extension.
func readMeshInfo(path string) (meshInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return meshInfo{}, err
	}

	switch {
	case bytes.HasPrefix(data, []byte("MESH")):
		m, err := formats.ParseMSH(data)
		if err != nil {
			return meshInfo{}, err
		}
		return meshInfo{
			format:    "msh " + m.Version.String(),
			name:      m.Name,
			vertices:  len(m.Vertices),
			triangles: m.TriangleCount(),
			bounds:    m.Bounds,
		}, nil

	case strings.EqualFold(filepath.Ext(path), ".stl"):
		header, tris, err := formats.ParseSTL(data)
		if err != nil {
			return meshInfo{}, err
		}
		b := mesh.EmptyBounds()
		for _, t := range tris {
			for _, v := range t.Vertices {
				b.Extend(math.V3(v[0], v[1], v[2]))
			}
		}
		return meshInfo{
			format:    "stl",
			name:      strings.TrimRight(header, "\x00 "),
			vertices:  len(tris) * 3,
			triangles: len(tris),
			bounds:    b,
		}, nil

	default:
		vs, err := formats.DecodeVertices(data)
		if err != nil {
			return meshInfo{}, err
		}
		return meshInfo{
			format:    "raw",
			vertices:  len(vs),
			triangles: len(vs) / 3,
			bounds:    mesh.BoundsOf(vs),
		}, nil
	}
}

func printTable(w io.Writer, rows [][]string) error {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

func printConfig(w io.Writer, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func formatVec(v math.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
