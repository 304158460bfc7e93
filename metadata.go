// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"fmt"

	"github.com/go-jclass/classfile/log"
)

// Level is a diagnostic node's severity, ordered least to most severe.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelCritical:
		return "critical"
	default:
		return "unknown"
	}
}

func (l Level) toLogLevel() log.Level {
	switch l {
	case LevelDebug:
		return log.LevelDebug
	case LevelInfo:
		return log.LevelInfo
	case LevelWarn:
		return log.LevelWarn
	case LevelError, LevelCritical:
		return log.LevelError
	default:
		return log.LevelDebug
	}
}

// Node is one diagnostic message attached to an element under inspection,
// plus any children attached to sub-elements. A class file's top-level
// Metadata is the root of this tree; every error or warning produced while
// reading is a child somewhere under it, never an aborting exception.
type Node struct {
	Level    Level
	Name     string
	Format   string
	Args     []interface{}
	Children []*Node
}

// Message renders the node's formatted text.
func (n *Node) Message() string {
	if len(n.Args) == 0 {
		return n.Format
	}
	return fmt.Sprintf(n.Format, n.Args...)
}

// Metadata is the diagnostic tree attached to a class file (or, during
// decode, to whatever element is currently being read). It pairs the
// structured Node tree with a flat log.Helper stream, so a caller that
// only wants to tail a log sees every diagnostic too.
type Metadata struct {
	root   Node
	logger *log.Helper
}

// NewMetadata returns an empty Metadata tree reporting through logger (nil
// is fine; diagnostics are just not logged).
func NewMetadata(logger *log.Helper) *Metadata {
	return &Metadata{root: Node{Name: "root"}, logger: logger}
}

// Add attaches a new child diagnostic to the root and returns it so callers
// can further nest children under it (e.g. a pool-level warning with a
// per-entry child).
func (m *Metadata) Add(level Level, name, format string, args ...interface{}) *Node {
	n := &Node{Level: level, Name: name, Format: format, Args: args}
	m.root.Children = append(m.root.Children, n)
	m.logAt(level, name, format, args...)
	return n
}

// AddChild attaches a new diagnostic under parent.
func (m *Metadata) AddChild(parent *Node, level Level, name, format string, args ...interface{}) *Node {
	n := &Node{Level: level, Name: name, Format: format, Args: args}
	parent.Children = append(parent.Children, n)
	m.logAt(level, name, format, args...)
	return n
}

func (m *Metadata) logAt(level Level, name, format string, args ...interface{}) {
	if m == nil || m.logger == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	switch level.toLogLevel() {
	case log.LevelDebug:
		m.logger.Debugf("%s: %s", name, msg)
	case log.LevelInfo:
		m.logger.Infof("%s: %s", name, msg)
	case log.LevelWarn:
		m.logger.Warnf("%s: %s", name, msg)
	default:
		m.logger.Errorf("%s: %s", name, msg)
	}
}

// Pair is one (node, message) result from Walk.
type Pair struct {
	Node    *Node
	Message string
}

// Walk returns a pre-order sequence of every node at or above level.
func (m *Metadata) Walk(level Level) []Pair {
	var out []Pair
	var visit func(n *Node)
	visit = func(n *Node) {
		if n.Level >= level && n.Name != "root" {
			out = append(out, Pair{Node: n, Message: n.Message()})
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(&m.root)
	return out
}

// Has reports whether a direct child of the root carries name.
func (m *Metadata) Has(name string) bool {
	for _, c := range m.root.Children {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Errors returns every node at LevelError or above, the set callers inspect
// to decide whether to trust a decoded class file (§7: "callers may inspect
// metadata.errors to decide whether to proceed").
func (m *Metadata) Errors() []Pair {
	return m.Walk(LevelError)
}
