// marchmesh turns distance field files into triangle meshes.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "build", "b":
		err = cmdBuild(args)
	case "info":
		err = cmdInfo(args)
	case "demo":
		err = cmdDemo(args)
	case "preview":
		err = cmdPreview(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`marchmesh - marching squares mesh generator

Usage:
  marchmesh <command> [options]

Commands:
  build [options] <field.msqf>          Generate a mesh and write it as OBJ
  info [options] <field.msqf>           Show field and mesh statistics
  demo [options] <out.msqf>             Write a sample field from a built-in shape
  preview [options] <field.msqf> <out.bmp>  Render cell configurations as BMP

Run 'marchmesh <command> -h' for command options.

Examples:
  marchmesh demo -shape ring ring.msqf
  marchmesh build -optimize next-largest -bottom -o ring.obj ring.msqf
  marchmesh preview -scale 4 ring.msqf ring.bmp`)
}
