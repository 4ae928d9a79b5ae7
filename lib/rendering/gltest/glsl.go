package gltest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fosdem/trigl/lib/rendering/renderconsts"
)

type stageInterface struct {
	ins      map[string]string
	outs     map[string]string
	uniforms map[string]string
	// uniform names in declaration order
	order []string
}

var (
	declRe    = regexp.MustCompile(`^(?:layout\s*\([^)]*\)\s*)?(in|out|uniform)\s+(\w+)\s+(\w+)\s*;$`)
	versionRe = regexp.MustCompile(`^#version\s+\d+`)
)

// check is a very small GLSL front end: it wants a #version header, a main
// function, balanced brackets and statements terminated by semicolons. It
// returns a Mesa-style diagnostic on failure.
func check(source string) (*stageInterface, string) {
	iface := &stageInterface{
		ins:      map[string]string{},
		outs:     map[string]string{},
		uniforms: map[string]string{},
	}
	lines := strings.Split(source, "\n")

	first := -1
	for i, l := range lines {
		if t := strings.TrimSpace(l); t != "" && !strings.HasPrefix(t, "//") {
			first = i
			break
		}
	}
	if first == -1 {
		return nil, "0:1(1): error: syntax error, unexpected end of file"
	}
	if !versionRe.MatchString(strings.TrimSpace(lines[first])) {
		return nil, fmt.Sprintf("0:%d(1): error: #version directive required", first+1)
	}

	depth := map[rune]int{}
	closing := map[rune]rune{')': '(', '}': '{'}
	for i, l := range lines {
		t := strings.TrimSpace(l)
		if c := strings.Index(t, "//"); c >= 0 {
			t = strings.TrimSpace(t[:c])
		}
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		for _, r := range t {
			switch r {
			case '(', '{':
				depth[r]++
			case ')', '}':
				depth[closing[r]]--
				if depth[closing[r]] < 0 {
					return nil, fmt.Sprintf("0:%d(1): error: syntax error, unexpected '%c'", i+1, r)
				}
			}
		}
		switch t[len(t)-1] {
		case ';', '{', '}', ')', ',':
		default:
			return nil, fmt.Sprintf("0:%d(%d): error: syntax error, unexpected end of line, expecting ';'", i+1, len(l))
		}
		if m := declRe.FindStringSubmatch(t); m != nil {
			switch m[1] {
			case "in":
				iface.ins[m[3]] = m[2]
			case "out":
				iface.outs[m[3]] = m[2]
			case "uniform":
				if _, ok := iface.uniforms[m[3]]; !ok {
					iface.order = append(iface.order, m[3])
				}
				iface.uniforms[m[3]] = m[2]
			}
		}
	}
	if depth['('] != 0 || depth['{'] != 0 {
		return nil, fmt.Sprintf("0:%d(1): error: syntax error, unexpected end of file", len(lines))
	}
	if !strings.Contains(source, "void main(") {
		return nil, "error: no main function defined"
	}
	return iface, ""
}

// link matches every fragment input against a vertex output and assigns
// uniform locations.
func link(stages []*shader) (map[string]int32, map[string]string, string) {
	var vertex, fragment *shader
	for _, s := range stages {
		if s == nil || !s.compiled {
			return nil, nil, "error: linking with uncompiled/unspecialized shader"
		}
		switch s.stage {
		case renderconsts.VertexShader:
			vertex = s
		case renderconsts.FragmentShader:
			fragment = s
		}
	}
	if vertex == nil || fragment == nil {
		return nil, nil, "error: program lacks a vertex or fragment shader"
	}

	names := make([]string, 0, len(fragment.iface.ins))
	for name := range fragment.iface.ins {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		want := fragment.iface.ins[name]
		got, ok := vertex.iface.outs[name]
		if !ok {
			return nil, nil, fmt.Sprintf("error: fragment shader input `%s' has no matching output in the previous stage", name)
		}
		if got != want {
			return nil, nil, fmt.Sprintf("error: `%s' declared as type `%s' but outputted from previous stage as type `%s'", name, want, got)
		}
	}

	locations := map[string]int32{}
	types := map[string]string{}
	for _, s := range []*shader{vertex, fragment} {
		for _, name := range s.iface.order {
			t := s.iface.uniforms[name]
			if prev, ok := types[name]; ok {
				if prev != t {
					return nil, nil, fmt.Sprintf("error: uniform `%s' declared as type `%s' and type `%s'", name, prev, t)
				}
				continue
			}
			types[name] = t
			locations[name] = int32(len(locations))
		}
	}
	return locations, types, ""
}
