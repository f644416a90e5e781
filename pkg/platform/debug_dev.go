//go:build dev

package platform

const devBuild = true
