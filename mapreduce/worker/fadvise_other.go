//go:build !linux

package worker

import "os"

func adviseSequential(*os.File) {}
