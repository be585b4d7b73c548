package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed shaders/*
var shaderFS embed.FS

// LoadShader returns the source of an embedded GLSL shader.
func LoadShader(name string) (string, error) {
	b, err := fs.ReadFile(shaderFS, "shaders/"+name)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	return string(b), nil
}
