package shaders

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed *.frag *.vert
var templateDir embed.FS

const (
	defaultVertex   = "basic.vert"
	defaultFragment = "basic.frag"
)

type Shaderer struct {
	templates *template.Template
}

func NewShaderer() (*Shaderer, error) {
	s := &Shaderer{}

	var err error

	s.templates, err = template.ParseFS(templateDir, "*.frag", "*.vert")

	return s, err
}

// ShaderData contains stuff that gets passed to the shader templates
type ShaderData struct {
	// Version is the body of the #version directive, e.g. "330 core"
	Version string
}

func (s *Shaderer) GetShaderSource(name string, data *ShaderData) (string, error) {
	var b bytes.Buffer
	err := s.templates.ExecuteTemplate(&b, name, data)
	if err != nil {
		return "", fmt.Errorf("error while rendering template: %w", err)
	}

	return b.String(), nil
}

func (s *Shaderer) TemplateNames() []string {
	var names []string
	for _, t := range s.templates.Templates() {
		names = append(names, t.Name())
	}
	return names
}

var glslVersions = map[[2]int]int{
	{2, 0}: 110,
	{2, 1}: 120,
	{3, 0}: 130,
	{3, 1}: 140,
	{3, 2}: 150,
}

// GLSLVersion returns the #version body matching an OpenGL context version
// and profile ("core" or "compat").
func GLSLVersion(major, minor int, profile string) string {
	v, ok := glslVersions[[2]int{major, minor}]
	if !ok {
		v = major*100 + minor*10
	}
	if v < 150 {
		return fmt.Sprint(v)
	}
	if profile == "compat" {
		return fmt.Sprintf("%d compatibility", v)
	}
	return fmt.Sprintf("%d core", v)
}
