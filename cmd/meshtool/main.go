// meshtool generates triangle meshes from primitives, extrusions, text and
// scene files, and inspects the files it writes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
)

// errUsage marks a command line that could not be understood; the usage
// text has already been printed.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errUsage
	}

	command, args := args[0], args[1:]
	switch command {
	case "box":
		return cmdBox(ctx, args, stdout, stderr)
	case "plane":
		return cmdPlane(ctx, args, stdout, stderr)
	case "sphere":
		return cmdSphere(ctx, args, stdout, stderr)
	case "cylinder", "cyl":
		return cmdCylinder(ctx, args, stdout, stderr)
	case "revolve":
		return cmdRevolve(ctx, args, stdout, stderr)
	case "dodeca", "dodecahedron":
		return cmdDodecahedron(ctx, args, stdout, stderr)
	case "extrude":
		return cmdExtrude(ctx, args, stdout, stderr)
	case "text":
		return cmdText(ctx, args, stdout, stderr)
	case "build":
		return cmdBuild(ctx, args, stdout, stderr)
	case "stats", "info":
		return cmdStats(args, stdout, stderr)
	case "config":
		return cmdConfig(args, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `meshtool - procedural triangle mesh generator

Usage:
  meshtool <command> [options]

Commands:
  box        Axis-aligned box centred on the origin
  plane      Flat rectangle facing +Z
  sphere     UV sphere or hemisphere
  cylinder   Open (tapered) cylinder wall along +Y
  revolve    Profile swept around +Y, or a dome cap
  dodeca     Regular dodecahedron
  extrude    2D section swept along a 3D path
  text       Extruded text in the bundled Go font
  build      Build a YAML scene file
  stats      Show vertex count and bounds of a .msh, .stl or raw file
  config     Print the effective configuration

Common options:
  -out FILE        Output file (default stdout)
  -format FORMAT   raw, msh or stl (default msh)
  -color NAME      SVG color name
  -smooth          Average normals of shared corners
  -tolerance T     Curve linearization tolerance
  -config FILE     Config file
  -debug           Debug logging

Examples:
  meshtool sphere -sides 32 -segments 16 -radius 1 -out ball.msh
  meshtool extrude -section star -points 5 -path helix -caps -format stl -out spring.stl
  meshtool text -size 2 -depth 0.3 -out hello.stl -format stl "Hello"
  meshtool build -out scene.msh scene.yaml
  meshtool stats ball.msh`)
}
