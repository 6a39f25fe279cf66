// Command hslc is the HSL shader cross-compiler CLI.
//
// Usage:
//
//	hslc [options] <input.hsl>
//
// Examples:
//
//	hslc -target vulkan shader.hsl                  # Compile to stdout
//	hslc -target opengl -o shader.glsl shader.hsl    # Compile to file
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gogpu/hsl"
)

var (
	target = flag.String("target", "opengl", "output target: opengl, vulkan, or hlsl")
	output = flag.String("o", "", "output file (default: stdout)")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}
	inputPath := args[0]

	compileTarget, err := parseTarget(*target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out, err := hsl.CompileFromFile(inputPath, compileTarget)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation error: %v\n", err)
		os.Exit(1)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(out), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Print(out)
}

func parseTarget(name string) (hsl.CompileTarget, error) {
	switch name {
	case "opengl":
		return hsl.OpenGLSL, nil
	case "vulkan":
		return hsl.VulkanGLSL, nil
	case "hlsl":
		return hsl.HLSL, nil
	default:
		return 0, fmt.Errorf("unknown target %q (want opengl, vulkan, or hlsl)", name)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: hslc [options] <input.hsl>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  hslc -target vulkan shader.hsl             Compile to stdout\n")
	fmt.Fprintf(os.Stderr, "  hslc -target opengl -o out.glsl shader.hsl Compile to file\n")
}
