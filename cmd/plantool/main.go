// plantool is a CLI utility for inspecting floorplans and seeding the home
// store outside the interactive planner.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/roomforge/internal/catalog"
	"github.com/Faultbox/roomforge/internal/engine/walls"
	"github.com/Faultbox/roomforge/internal/store"
	"github.com/Faultbox/roomforge/pkg/floorplan"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "validate":
		cmdValidate(args)
	case "walls":
		cmdWalls(args)
	case "items":
		cmdItems(args)
	case "seed":
		cmdSeed(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`plantool - RoomForge floorplan utility

Usage:
  plantool <command> [options]

Commands:
  validate <plan.yaml>            Check a floorplan for integrity errors
  walls <plan.yaml>               Show synthesized wall geometry and doors
  items <items.yaml>              Validate and list an item catalog
  seed <items.yaml> <home.db>     Load a catalog into a home store database

Examples:
  plantool validate data/floorplan.yaml
  plantool walls data/floorplan.yaml
  plantool seed data/items.yaml data/home.db`)
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: plantool validate <plan.yaml>")
		os.Exit(1)
	}

	plan, err := floorplan.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Plan:     %s\n", args[0])
	fmt.Printf("Rooms:    %d\n", len(plan.Rooms))
	fmt.Printf("Vertices: %d\n", len(plan.Vertices))
	fmt.Printf("Segments: %d\n", len(plan.Segments))
	fmt.Println("OK")
}

func cmdWalls(args []string) {
	fs := flag.NewFlagSet("walls", flag.ExitOnError)
	room := fs.String("room", "", "Limit output to one room")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: plantool walls <plan.yaml>")
		os.Exit(1)
	}

	plan, err := floorplan.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, seg := range walls.Synthesize(plan) {
		if *room != "" && seg.RoomID != *room {
			continue
		}
		fmt.Printf("%-12s room=%-10s len=%6.2f height=%5.2f yaw=%6.3f center=(%.2f, %.2f)\n",
			seg.ID, seg.RoomID, seg.Length, seg.Height, seg.RotationY,
			seg.Position3D.X, seg.Position3D.Z)
		for _, door := range seg.Doors {
			fmt.Printf("  door %-18s pos=%6.2f width=%5.2f height=%5.2f\n",
				door.ID, door.Position, door.Width, door.Height)
		}

		mesh := walls.BuildMesh(seg)
		fmt.Printf("  mesh: %d vertices, %d triangles\n",
			len(mesh.Vertices), len(mesh.Indices)/3)
	}
}

func cmdItems(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: plantool items <items.yaml>")
		os.Exit(1)
	}

	items, err := catalog.LoadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, item := range items {
		geom := item.ModelRef
		if item.Parametric != nil {
			geom = "parametric:" + item.Parametric.Kind
		}
		fmt.Printf("%-16s %-20s %-8s %5.2f x %5.2f x %5.2f  %s\n",
			item.ID, item.Name, item.Placement,
			item.Dimensions.Width, item.Dimensions.Height, item.Dimensions.Depth,
			geom)
	}
	fmt.Printf("%d items OK\n", len(items))
}

func cmdSeed(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: plantool seed <items.yaml> <home.db>")
		os.Exit(1)
	}

	items, err := catalog.LoadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	st, err := store.Open(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.SeedCatalog(items); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seeded %d items into %s\n", len(items), args[1])
}
