//go:build !profile

package profiler

import "errors"

// No-op versions when built without the profile tag.

const Enabled = false

var errDisabled = errors.New("profiler: built without the profile tag")

func Init(capacity int) {}

func Start(name string) func() { return func() {} }

func Events() uint64 { return 0 }

func Dump(path string) error { return errDisabled }

func OpenProfilerGraph() (string, error) { return "", errDisabled }
