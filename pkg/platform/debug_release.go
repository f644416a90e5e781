//go:build !dev

package platform

const devBuild = false
