//go:build profile && !windows

package profiler

import "syscall"

func hiddenProcAttr() *syscall.SysProcAttr { return nil }
