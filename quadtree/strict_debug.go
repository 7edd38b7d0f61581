//go:build debug

package quadtree

// strictInserts makes DefaultParams reject out-of-root insertions in debug builds
const strictInserts = true
