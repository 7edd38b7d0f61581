//go:build !debug

package quadtree

const strictInserts = false
