package shaders

import (
	"errors"
	"fmt"
	"os"
)

var ErrSourceUnreadable = errors.New("shader source unreadable")

// Source is the text of both stages of a program.
type Source struct {
	Vertex   string
	Fragment string
}

// SourceProvider hands out the stage sources a program is built from.
type SourceProvider interface {
	Sources() (Source, error)
}

// Text provides sources held in memory.
type Text Source

func (t Text) Sources() (Source, error) {
	return Source(t), nil
}

// Files reads the stage sources from disk.
type Files struct {
	Vertex   string
	Fragment string
}

func (f Files) Sources() (Source, error) {
	vertex, err := readSource(f.Vertex)
	if err != nil {
		return Source{}, err
	}
	fragment, err := readSource(f.Fragment)
	if err != nil {
		return Source{}, err
	}
	return Source{Vertex: vertex, Fragment: fragment}, nil
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	return string(b), nil
}

// Embedded renders the built-in shader templates.
type Embedded struct {
	Data ShaderData
}

func (e Embedded) Sources() (Source, error) {
	shaderer, err := NewShaderer()
	if err != nil {
		return Source{}, fmt.Errorf("%w: could not parse templates: %w", ErrSourceUnreadable, err)
	}

	vertex, err := shaderer.GetShaderSource(defaultVertex, &e.Data)
	if err != nil {
		return Source{}, fmt.Errorf("%w: could not get vertex shader: %w", ErrSourceUnreadable, err)
	}

	fragment, err := shaderer.GetShaderSource(defaultFragment, &e.Data)
	if err != nil {
		return Source{}, fmt.Errorf("%w: could not get fragment shader: %w", ErrSourceUnreadable, err)
	}
	return Source{Vertex: vertex, Fragment: fragment}, nil
}
