// Package marching builds triangle meshes from signed distance grids.
//
// A Field sample is inside the shape when its distance is >= 0. Every sample
// owns the cell whose bottom-left corner it is, and up to three vertices: the
// corner itself (when inside), the zero crossing on its left edge (towards
// the sample above) and the zero crossing on its bottom edge (towards the
// sample on the right). Triangles of a cell reference the vertices of the
// cell and of its right, top and top-right neighbours.
//
// Generation runs in two phases. Phase 1 walks the grid once, sequentially,
// assigning every emitted vertex and every reserved triangle index a slot in
// dense output buffers. Phase 2 fills positions, UVs, indices and normals in
// parallel, each stage writing only the slots Phase 1 handed out.
//
// Meshers are composed from parts (top, side, bottom) that all satisfy
// CellMesher. FullCellMesher forwards every call to its parts so they share
// one set of buffers.
package marching
