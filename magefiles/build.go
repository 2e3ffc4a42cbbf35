//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

var shaderSources = []string{
	"pbrtexture.vert",
	"pbrtexture.frag",
	"skybox.vert",
	"skybox.frag",
	"overlay.vert",
	"overlay.frag",
}

// Compiles the GLSL sources under assets/shaders with glslc.
func (Build) Shaders() error {
	return buildShaders()
}

func buildShaders() error {
	for _, src := range shaderSources {
		in := filepath.Join("assets", "shaders", src)
		out := in + ".spv"
		if _, err := executeCmd("glslc", withArgs(in, "-o", out), withStream()); err != nil {
			return fmt.Errorf("failed to compile %s: %w", src, err)
		}
	}
	return nil
}

// Builds the demo binary.
func (Build) Binary() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "pbrtexture", "."), withStream()); err != nil {
		return err
	}
	return nil
}
