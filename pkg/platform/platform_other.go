//go:build !darwin && !windows

package platform

var current = Capabilities{
	OS:        "linux",
	UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}
