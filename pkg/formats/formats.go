// Package formats reads and writes the files around mesh generation: the
// MSQF distance field format, Wavefront OBJ meshes and BMP previews of
// cell configurations.
package formats
